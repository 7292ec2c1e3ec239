package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X, Y Literal[int32]
}

func (p point) Freeze() point {
	return point{X: p.X.Freeze(), Y: p.Y.Freeze()}
}

var pointType = Record("point", func(f *Fields) point {
	return point{X: Field(f, I32), Y: Field(f, I32)}
}, I32, I32)

type person struct {
	Name Text
	Age  Literal[uint8]
	Tags List[Text]
	Home point
}

var personType = Record("person", func(f *Fields) person {
	return person{
		Name: Field(f, Str),
		Age:  Field(f, U8),
		Tags: Field(f, ListOf(Str)),
		Home: Field(f, pointType),
	}
}, Str, U8, ListOf(Str), pointType)

func TestFixedRecord(t *testing.T) {
	assert.Equal(t, Fixed, pointType.Strategy())
	assert.Equal(t, Ptr(8), pointType.FixedSize())
	assert.True(t, pointType.Plain())

	buf, err := CreateBuffer(RecordOf(I32.Value(-1), I32.Value(2)))
	require.NoError(t, err)
	p, err := Create(pointType, buf)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), p.X.Read())
	assert.Equal(t, int32(2), p.Y.Read())

	p.Y.Write(5)
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 5, 0, 0, 0}, buf)

	ro, err := CreateReadOnly(pointType, buf)
	require.NoError(t, err)
	assert.PanicsWithValue(t, ErrReadOnly, func() { ro.Get().X.Write(0) })

	_, err = Create(pointType, buf[:7])
	assert.ErrorIs(t, err, ErrUndersized)
}

func TestScanRecord(t *testing.T) {
	assert.Equal(t, Scan, personType.Strategy())

	plan := RecordOf(
		Str.Value("ada"),
		U8.Value(36),
		ListFrom(Str.Value("math"), Str.Value("engines")),
		RecordOf(I32.Value(51), I32.Value(0)),
	)
	buf, err := CreateBuffer(plan)
	require.NoError(t, err)

	size, err := InBounds(personType, buf)
	require.NoError(t, err)
	assert.Equal(t, Ptr(len(buf)), size)

	rest, p, err := personType.Build(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)

	name, err := p.Name.Read()
	require.NoError(t, err)
	assert.Equal(t, "ada", name)
	assert.Equal(t, uint8(36), p.Age.Read())
	require.Equal(t, Ptr(2), p.Tags.Capacity())
	tag, _ := p.Tags.Get(1).Read()
	assert.Equal(t, "engines", tag)
	assert.Equal(t, int32(51), p.Home.X.Read())

	unchecked := UncheckedCreate(personType, buf)
	assert.Equal(t, uint8(36), unchecked.Age.Read())
}

func TestRecordFailsAtomically(t *testing.T) {
	buf, err := CreateBuffer(RecordOf(
		Str.Value("x"),
		U8.Value(1),
		ListFrom(Str.Value("a")),
		RecordOf(I32.Value(0), I32.Value(0)),
	))
	require.NoError(t, err)

	for n := 0; n < len(buf); n++ {
		rest, p, err := personType.Build(buf[:n])
		require.ErrorIs(t, err, ErrUndersized, "truncated to %d", n)
		assert.Nil(t, rest)
		assert.Equal(t, person{}, p)
	}
}

// person has no Freeze method, its fields are frozen by the record build
func TestFrozenRecordWithoutFreezer(t *testing.T) {
	buf, err := CreateBuffer(RecordOf(
		Str.Value("bob"),
		U8.Value(5),
		ListFrom(Str.Value("x")),
		RecordOf(I32.Value(1), I32.Value(2)),
	))
	require.NoError(t, err)

	ro, err := CreateReadOnly(personType, buf)
	require.NoError(t, err)
	p := ro.Get()
	assert.PanicsWithValue(t, ErrReadOnly, func() { p.Age.Write(99) })
	assert.PanicsWithValue(t, ErrReadOnly, func() { _ = p.Name.Write("eve") })
	assert.PanicsWithValue(t, ErrReadOnly, func() { _ = p.Tags.Get(0).Write("y") })
	assert.PanicsWithValue(t, ErrReadOnly, func() { p.Home.Y.Write(0) })
	assert.Equal(t, uint8(5), p.Age.Read())

	_, err = CreateReadOnly(personType, buf[:len(buf)-1])
	assert.ErrorIs(t, err, ErrUndersized)

	listBuf, err := CreateBuffer(ListRepeat(2, RecordOf(
		Str.Value("al"), U8.Value(3), ListFrom(), RecordOf(I32.Value(0), I32.Value(0)),
	)))
	require.NoError(t, err)
	people, err := Create(ListOf(personType), listBuf)
	require.NoError(t, err)

	assert.PanicsWithValue(t, ErrReadOnly, func() { people.Borrow(0).Get().Age.Write(77) })
	for _, q := range people.Freeze().All() {
		assert.PanicsWithValue(t, ErrReadOnly, func() { q.Age.Write(77) })
	}
	assert.Equal(t, uint8(3), people.Get(0).Age.Read())

	people.Get(1).Age.Write(77)
	assert.Equal(t, uint8(77), people.Borrow(1).Get().Age.Read())
}

func TestUndersizedIsRelativeToOuterBuffer(t *testing.T) {
	buf, err := CreateBuffer(RecordOf(
		Str.Value("x"),
		U8.Value(1),
		ListFrom(Str.Value("a")),
		RecordOf(I32.Value(0), I32.Value(0)),
	))
	require.NoError(t, err)
	require.Len(t, buf, 23)

	// the second i32 of home is cut off
	_, err = Create(personType, buf[:20])
	var under *UndersizedError
	require.ErrorAs(t, err, &under)
	assert.Equal(t, uint64(23), under.Required)
	assert.Equal(t, 20, under.Actual)

	// the string inside tags is cut off
	_, err = Create(personType, buf[:14])
	require.ErrorAs(t, err, &under)
	assert.Equal(t, uint64(15), under.Required)
	assert.Equal(t, 14, under.Actual)

	words, err := CreateBuffer(ListFrom(Str.Value("ab"), Str.Value("cd")))
	require.NoError(t, err)
	_, err = Create(ListOf(Str), words[:14])
	require.ErrorAs(t, err, &under)
	assert.Equal(t, uint64(16), under.Required)
	assert.Equal(t, 14, under.Actual)

	u := messageUnion()
	text, err := CreateBuffer(u.Variant(2, Str.Value("hey")))
	require.NoError(t, err)
	_, err = Create(u, text[:6])
	require.ErrorAs(t, err, &under)
	assert.Equal(t, uint64(8), under.Required)
	assert.Equal(t, 6, under.Actual)
}

func TestFieldsCursorStopsAfterError(t *testing.T) {
	f := &Fields{rest: []byte{1}}
	_ = Field(f, U16)
	require.ErrorIs(t, f.Err(), ErrUndersized)
	v := Field(f, U8)
	assert.Equal(t, Literal[uint8]{}, v)
}
