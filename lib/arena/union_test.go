package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagBytes(t *testing.T) {
	cases := map[int]Ptr{0: 0, 1: 0, 2: 1, 3: 1, 255: 1, 256: 1, 257: 2, 65536: 2, 65537: 3}
	for n, want := range cases {
		assert.Equal(t, want, TagBytes(n), "n=%d", n)
	}
}

// message is the value type of the dynamic union used below
type message struct {
	kind string
	num  Literal[uint64]
	text Text
}

func messageUnion() *UnionType[message] {
	return Union("message",
		UnitVariant("ping", message{kind: "ping"}),
		VariantOf("num", U64, func(l Literal[uint64]) message { return message{kind: "num", num: l} }),
		VariantOf("text", Str, func(s Text) message { return message{kind: "text", text: s} }),
	)
}

func TestDynamicUnion(t *testing.T) {
	u := messageUnion()
	require.Equal(t, Scan, u.Strategy())
	require.Equal(t, Ptr(1), u.TagBytes())

	t.Run("unit", func(t *testing.T) {
		buf, err := CreateBuffer(u.Variant(0, Unit))
		require.NoError(t, err)
		assert.Equal(t, []byte{0}, buf)
		m, err := Create(u, buf)
		require.NoError(t, err)
		assert.Equal(t, "ping", m.kind)
	})

	t.Run("scalar", func(t *testing.T) {
		buf, err := CreateBuffer(u.Variant(1, U64.Value(42)))
		require.NoError(t, err)
		require.Len(t, buf, 9)
		rest, m, err := u.Build(append(buf, 0xEE))
		require.NoError(t, err)
		assert.Equal(t, []byte{0xEE}, rest)
		assert.Equal(t, "num", m.kind)
		assert.Equal(t, uint64(42), m.num.Read())
	})

	t.Run("text", func(t *testing.T) {
		buf, err := CreateBuffer(u.Variant(2, Str.Value("hi")))
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 2, 0, 0, 0, 'h', 'i'}, buf)

		size, err := u.ReadSize(buf)
		require.NoError(t, err)
		assert.Equal(t, Ptr(7), size)

		tag, err := u.Tag(buf)
		require.NoError(t, err)
		assert.Equal(t, 2, tag)

		m, err := Create(u, buf)
		require.NoError(t, err)
		s, err := m.text.Read()
		require.NoError(t, err)
		assert.Equal(t, "hi", s)
	})

	t.Run("malformed", func(t *testing.T) {
		buf := []byte{3, 0, 0, 0, 0}
		_, err := Create(u, buf)
		var malformed *MalformedError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, uint64(3), malformed.Tag)
		assert.Equal(t, 3, malformed.Variants)
		assert.ErrorIs(t, err, ErrMalformed)

		_, err = u.ReadSize(buf)
		assert.ErrorIs(t, err, ErrMalformed)
		_, err = CreateBuffer(u.Variant(5, Unit))
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("undersized payload", func(t *testing.T) {
		_, err := Create(u, []byte{1, 0, 0})
		assert.ErrorIs(t, err, ErrUndersized)
		_, err = Create(u, nil)
		assert.ErrorIs(t, err, ErrUndersized)
	})
}

func TestUnionWithoutVariants(t *testing.T) {
	never := Union[int]("never")
	assert.Equal(t, Fixed, never.Strategy())
	assert.Equal(t, Ptr(0), never.FixedSize())
	_, err := Create(never, []byte{})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSingleVariantUnionHasNoTag(t *testing.T) {
	only := Union("only", VariantOf("value", U16, func(l Literal[uint16]) uint16 { return l.Read() }))
	assert.Equal(t, Fixed, only.Strategy())
	assert.Equal(t, Ptr(2), only.FixedSize())
	v, err := Create(only, []byte{0x34, 0x12})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v)
}

// cellUnion is a static union whose second variant is itself a dynamic union, so constructing it
// over arbitrary bytes can fail
func cellUnion() *StaticUnionType[any] {
	mode := Union("mode", UnitVariant("off", "off"), UnitVariant("on", "on"))
	return StaticUnion("cell",
		VariantOf("raw", U32, func(l Literal[uint32]) any { return l }),
		VariantOf("mode", mode, func(m string) any { return m }),
		VariantOf("wide", U64, func(l Literal[uint64]) any { return l }),
	)
}

func TestStaticUnionLayout(t *testing.T) {
	cell := cellUnion()
	assert.Equal(t, Fixed, cell.Strategy())
	assert.Equal(t, Ptr(8), cell.Region())
	assert.Equal(t, Ptr(9), cell.FixedSize())

	buf, err := CreateBuffer(cell.Variant(0, U32.Value(7)))
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 7, 0, 0, 0, 0, 0, 0, 0}, buf)

	s, err := Create(cell, buf)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Tag())
	assert.Equal(t, "raw", s.VariantName())
	assert.Equal(t, uint32(7), s.Value().(Literal[uint32]).Read())

	buf[0] = 3
	_, err = Create(cell, buf)
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = Create(cell, buf[:8])
	assert.ErrorIs(t, err, ErrUndersized)
}

func TestReinterpretSuccess(t *testing.T) {
	cell := cellUnion()
	buf, err := CreateBuffer(cell.Variant(0, U32.Value(1)))
	require.NoError(t, err)
	before := len(buf)

	s, err := Create(cell, buf)
	require.NoError(t, err)

	s, err = s.Reinterpret(1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Tag())
	assert.Equal(t, "on", s.Value())
	assert.Equal(t, byte(1), buf[0])
	assert.Len(t, buf, before)

	s, err = s.Reinterpret(2)
	require.NoError(t, err)
	wide := s.Value().(Literal[uint64])
	assert.Equal(t, uint64(1), wide.Read())
	wide.Write(1 << 40)

	reopened, err := Create(cell, buf)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Tag())
	assert.Equal(t, uint64(1<<40), reopened.Value().(Literal[uint64]).Read())
}

func TestReinterpretRollback(t *testing.T) {
	cell := cellUnion()
	buf, err := CreateBuffer(cell.Variant(0, U32.Value(7)))
	require.NoError(t, err)
	snapshot := append([]byte(nil), buf...)

	s, err := Create(cell, buf)
	require.NoError(t, err)

	// 7 is not a valid tag of the mode union
	s, err = s.Reinterpret(1)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, snapshot, buf)
	assert.Equal(t, 0, s.Tag())
	assert.Equal(t, uint32(7), s.Value().(Literal[uint32]).Read())

	s, err = s.Reinterpret(9)
	require.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, 0, s.Tag())
	assert.Equal(t, snapshot, buf)
}

func TestReinterpretConsumesView(t *testing.T) {
	cell := cellUnion()
	buf, err := CreateBuffer(cell.Variant(0, Reserve(U32)))
	require.NoError(t, err)
	old, err := Create(cell, buf)
	require.NoError(t, err)

	next, err := old.Reinterpret(2)
	require.NoError(t, err)
	assert.PanicsWithValue(t, ErrMoved, func() { old.Value() })
	assert.PanicsWithValue(t, ErrMoved, func() { old.Tag() })
	assert.NotPanics(t, func() { next.Value() })

	frozen := next.Freeze()
	assert.PanicsWithValue(t, ErrReadOnly, func() { _, _ = frozen.Reinterpret(0) })
}

func TestReadOnlyUnionPayload(t *testing.T) {
	u := messageUnion()
	buf, err := CreateBuffer(u.Variant(1, U64.Value(3)))
	require.NoError(t, err)
	ro, err := CreateReadOnly(u, buf)
	require.NoError(t, err)
	assert.PanicsWithValue(t, ErrReadOnly, func() { ro.Get().num.Write(4) })

	cell := cellUnion()
	buf, err = CreateBuffer(cell.Variant(0, U32.Value(7)))
	require.NoError(t, err)
	s, err := Create(cell, buf)
	require.NoError(t, err)
	frozen := s.Freeze()
	assert.PanicsWithValue(t, ErrReadOnly, func() { frozen.Value().(Literal[uint32]).Write(8) })
	assert.Equal(t, uint32(7), frozen.Value().(Literal[uint32]).Read())

	s.Value().(Literal[uint32]).Write(8)
	assert.Equal(t, byte(8), buf[1])
}

func TestStaticUnionRejectsScanVariant(t *testing.T) {
	assert.Panics(t, func() {
		StaticUnion("bad", VariantOf("s", Str, func(s Text) Text { return s }))
	})
}

func TestStaticUnionPayloadTooLarge(t *testing.T) {
	cell := cellUnion()
	_, err := CreateBuffer(cell.Variant(0, Bytes.WithLen(10)))
	assert.ErrorIs(t, err, ErrUndersized)
}
