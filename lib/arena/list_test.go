package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOfU8(t *testing.T) {
	bytesList := ListOf(U8)
	buf, err := CreateBuffer(bytesList.WithCapacity(10))
	require.NoError(t, err)
	require.Len(t, buf, 14)

	list, err := Create(bytesList, buf)
	require.NoError(t, err)
	require.Equal(t, Ptr(10), list.Capacity())

	list.Get(0).Write(10)
	list.Get(9).Write(11)

	assert.Equal(t, uint8(10), list.Borrow(0).Get().Read())
	assert.Equal(t, uint8(11), list.Borrow(9).Get().Read())
	for i := Ptr(1); i < 9; i++ {
		assert.Equal(t, uint8(0), list.Borrow(i).Get().Read(), "index %d", i)
	}
}

func TestNestedListBytes(t *testing.T) {
	buf := []byte{
		0x02, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	nested := ListOf(ListOf(U8))

	size, err := InBounds(nested, buf)
	require.NoError(t, err)
	assert.Equal(t, Ptr(len(buf)), size)

	rest, outer, err := nested.Build(buf)
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Equal(t, Ptr(2), outer.Capacity())

	for i, inner := range outer.All() {
		require.Equal(t, Ptr(2), inner.Capacity(), "inner %d", i)
		for j, leaf := range inner.All() {
			assert.Equal(t, uint8(0), leaf.Read(), "leaf %d/%d", i, j)
		}
	}
}

func TestListTruncated(t *testing.T) {
	inner := ListOf(U8)
	outer := ListOf(inner)
	plan := ListRepeat(3, inner.WithCapacity(5))

	full, err := CreateBuffer(plan)
	require.NoError(t, err)
	require.Len(t, full, 31)

	truncated := make([]byte, 23)
	assert.ErrorIs(t, plan.Imprint(truncated), ErrUndersized)

	copy(truncated, full)
	_, err = Create(outer, truncated)
	assert.ErrorIs(t, err, ErrUndersized)

	_, err = Create(outer, full)
	assert.NoError(t, err)
}

func TestListOutOfBounds(t *testing.T) {
	buf, err := CreateBuffer(ListOf(U32).WithCapacity(3))
	require.NoError(t, err)
	list, err := Create(ListOf(U32), buf)
	require.NoError(t, err)

	assert.Panics(t, func() { list.Borrow(3) })
	assert.Panics(t, func() { list.Get(100) })
	assert.NotPanics(t, func() { list.Get(2) })
}

func TestListCapacityOverflow(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0, 0, 0, 0}
	_, err := ListOf(U64).ReadSize(buf)
	assert.ErrorIs(t, err, ErrIntegerOverflow)
	_, err = Create(ListOf(U64), buf)
	assert.ErrorIs(t, err, ErrIntegerOverflow)

	// a huge capacity of 1-byte items does not overflow but cannot fit
	_, err = Create(ListOf(U8), buf)
	var under *UndersizedError
	require.ErrorAs(t, err, &under)
	assert.Equal(t, uint64(0xFFFFFFFF)+4, under.Required)
}

func TestListOfStrings(t *testing.T) {
	words := []string{"zero", "", "two", "three hundred"}
	items := make([]Imprinter, len(words))
	for i, w := range words {
		items[i] = Str.Value(w)
	}
	buf, err := CreateBuffer(ListFrom(items...))
	require.NoError(t, err)

	strs := ListOf(Str)
	size, err := strs.ReadSize(buf)
	require.NoError(t, err)
	rest, list, err := strs.Build(buf)
	require.NoError(t, err)
	assert.Equal(t, size, consumed(buf, rest))
	assert.Equal(t, size, list.Size())

	indexed := list.Indexed()
	for i, w := range words {
		s, err := list.Get(Ptr(i)).Read()
		require.NoError(t, err)
		assert.Equal(t, w, s)

		s, err = indexed.Get(Ptr(len(words) - 1 - i)).Read()
		require.NoError(t, err)
		assert.Equal(t, words[len(words)-1-i], s)
	}

	var seen []string
	for _, text := range list.All() {
		s, _ := text.Read()
		seen = append(seen, s)
	}
	assert.Equal(t, words, seen)
}

func TestListRejectsBrokenItem(t *testing.T) {
	buf, err := CreateBuffer(ListFrom(Str.Value("ab"), Str.Value("cd")))
	require.NoError(t, err)

	// second length prefix claims more than there is
	putPtr(buf[10:], 3)
	_, err = Create(ListOf(Str), buf)
	assert.ErrorIs(t, err, ErrUndersized)
}

func TestListOfMalformedUnions(t *testing.T) {
	flag := Union("flag", UnitVariant("off", false), UnitVariant("on", true))
	flags := ListOf(flag)
	require.Equal(t, Fixed, flag.Strategy())

	buf := []byte{3, 0, 0, 0, 0, 1, 0}
	list, err := Create(flags, buf)
	require.NoError(t, err)
	assert.True(t, list.Get(1))

	buf[6] = 2
	_, err = Create(flags, buf)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestListWithCapacityRequiresFixed(t *testing.T) {
	_, err := CreateBuffer(ListOf(Str).WithCapacity(2))
	assert.ErrorIs(t, err, ErrNotFixed)
}

func TestFrozenList(t *testing.T) {
	buf, err := CreateBuffer(ListOf(U16).WithCapacity(2))
	require.NoError(t, err)
	ro, err := CreateReadOnly(ListOf(U16), buf)
	require.NoError(t, err)

	assert.PanicsWithValue(t, ErrReadOnly, func() { ro.Get().Get(1).Write(5) })
	for _, item := range ro.Get().All() {
		assert.PanicsWithValue(t, ErrReadOnly, func() { item.Write(5) })
	}
}

func TestSizeAgreement(t *testing.T) {
	plans := map[string]struct {
		plan Imprinter
		t    Sizer
	}{
		"fixed list":  {ListOf(I64).WithCapacity(7), ListOf(I64)},
		"blob list":   {ListFrom(Bytes.WithLen(1), Bytes.WithLen(0), Bytes.WithLen(300)), ListOf(Bytes)},
		"nested list": {ListFrom(ListOf(U8).WithCapacity(2), ListFrom()), ListOf(ListOf(U8))},
		"empty list":  {ListFrom(), ListOf(Str)},
	}
	for name, tc := range plans {
		t.Run(name, func(t *testing.T) {
			buf, err := CreateBuffer(tc.plan)
			require.NoError(t, err)
			size, err := InBounds(tc.t, buf)
			require.NoError(t, err)
			assert.Equal(t, Ptr(len(buf)), size)

			planned, err := tc.plan.ResultSize()
			require.NoError(t, err)
			assert.Equal(t, planned, size)
		})
	}
}
