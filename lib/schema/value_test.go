package schema

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/inplace/lib/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// imprint plans a zeroed buffer for expr and builds a dynamic view over it
func imprint(t *testing.T, expr string) ([]byte, Value) {
	t.Helper()
	n, err := ParseWith(expr, nil)
	require.NoError(t, err)
	plan, err := n.Imprinter()
	require.NoError(t, err)
	buf, err := arena.CreateBuffer(plan)
	require.NoError(t, err)
	typ, err := n.Compile()
	require.NoError(t, err)
	v, err := arena.Create(typ, buf)
	require.NoError(t, err)
	return buf, v
}

const personExpr = "record{name: str[5], age: u8, tags: list<str[2]>[2]}"

func TestRecordLookupAndSet(t *testing.T) {
	buf, v := imprint(t, personExpr)
	require.Len(t, buf, 4+5+1+4+2*(4+2))

	require.NoError(t, Set(v, "name", "alice"))
	require.NoError(t, Set(v, "age", "42"))
	require.NoError(t, Set(v, "tags.0", "go"))
	require.NoError(t, Set(v, "tags.1", "db"))

	name, err := Lookup(v, "name")
	require.NoError(t, err)
	got, err := name.(Scalar).Get()
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	age, err := Lookup(v, "age")
	require.NoError(t, err)
	got, err = age.(Scalar).Get()
	require.NoError(t, err)
	assert.Equal(t, uint8(42), got)

	// the writes landed in the buffer
	assert.Equal(t, []byte{5, 0, 0, 0, 'a', 'l', 'i', 'c', 'e', 42}, buf[:10])

	exported, err := Export(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"name": "alice",
		"age":  uint8(42),
		"tags": []any{"go", "db"},
	}, exported)
}

func TestSetErrors(t *testing.T) {
	_, v := imprint(t, personExpr)

	assert.Error(t, Set(v, "name", "bob"), "length has to match")
	assert.Error(t, Set(v, "age", "256"))
	assert.Error(t, Set(v, "age", "-1"))
	assert.ErrorIs(t, Set(v, "tags", "x"), ErrNotSettable)
	assert.Error(t, Set(v, "missing", "1"))
	assert.Error(t, Set(v, "tags.2", "go"))
	assert.Error(t, Set(v, "tags.x", "go"))
	assert.Error(t, Set(v, "age.0", "1"))
}

func TestScalarLeaves(t *testing.T) {
	_, v := imprint(t, "record{c: char, b: bytes[2], f: f32, ok: bool, n: i16}")

	require.NoError(t, Set(v, "c", "λ"))
	require.NoError(t, Set(v, "b", "beef"))
	require.NoError(t, Set(v, "f", "1.5"))
	require.NoError(t, Set(v, "ok", "true"))
	require.NoError(t, Set(v, "n", "-0x10"))

	assert.Error(t, Set(v, "c", "ab"))
	assert.Error(t, Set(v, "b", "zz"))
	assert.Error(t, Set(v, "b", "beefbeef"))

	exported, err := Export(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"c":  "λ",
		"b":  []byte{0xbe, 0xef},
		"f":  float32(1.5),
		"ok": true,
		"n":  int16(-16),
	}, exported)
}

func TestInvalidCharIsReported(t *testing.T) {
	buf, v := imprint(t, "char")
	copy(buf, []byte{0x00, 0xD8, 0x00, 0x00}) // surrogate

	_, err := v.(Scalar).Get()
	assert.ErrorIs(t, err, ErrInvalidChar)

	var out bytes.Buffer
	require.NoError(t, Render(&out, v, false))
	assert.Contains(t, out.String(), "<")
}

func TestUnionValue(t *testing.T) {
	buf, v := imprint(t, "union{none: unit | num: u16}")
	require.Equal(t, []byte{0}, buf)

	u := v.(Union)
	assert.Equal(t, 0, u.Tag())
	assert.Equal(t, "none", u.Variant())

	exported, err := Export(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"none": nil}, exported)

	n, err := ParseWith("union{none: unit | num: u16}", nil)
	require.NoError(t, err)
	typ, err := n.Compile()
	require.NoError(t, err)
	v, err = arena.Create(typ, []byte{1, 0x34, 0x12})
	require.NoError(t, err)

	num, err := Lookup(v, "num")
	require.NoError(t, err)
	got, err := num.(Scalar).Get()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), got)

	_, err = Lookup(v, "none")
	assert.Error(t, err, "inactive variant")

	_, err = arena.Create(typ, []byte{2, 0, 0})
	assert.ErrorIs(t, err, arena.ErrMalformed)
}

func TestStaticUnionReinterpret(t *testing.T) {
	buf, v := imprint(t, "static{raw: u32 | pair: record{lo: u16, hi: u16}}")
	require.Len(t, buf, 1+4)

	s := v.(*StaticUnion)
	assert.Equal(t, "raw", s.Variant())
	require.NoError(t, Set(v, "raw", "0x00020001"))

	require.NoError(t, s.Reinterpret("pair"))
	assert.Equal(t, 1, s.Tag())
	assert.Equal(t, byte(1), buf[0])

	exported, err := Export(v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"pair": map[string]any{"lo": uint16(1), "hi": uint16(2)},
	}, exported)

	assert.Error(t, s.Reinterpret("wide"))
	assert.Equal(t, "pair", s.Variant())
}

func TestBorrowedValuesAreFrozen(t *testing.T) {
	buf, v := imprint(t, "list<record{a: u8, s: static{raw: u16 | pair: record{lo: u8, hi: u8}}}>[2]")
	list := v.(List)

	item := list.Borrow(0)
	assert.PanicsWithValue(t, arena.ErrReadOnly, func() { _ = Set(item, "a", "9") })
	assert.PanicsWithValue(t, arena.ErrReadOnly, func() { _ = Set(item, "s.raw", "1") })
	s, err := Lookup(item, "s")
	require.NoError(t, err)
	assert.PanicsWithValue(t, arena.ErrReadOnly, func() { _ = s.(*StaticUnion).Reinterpret("pair") })
	assert.Equal(t, byte(0), buf[4])

	frozen := list.Freeze()
	assert.PanicsWithValue(t, arena.ErrReadOnly, func() { _ = Set(frozen, "1.a", "9") })

	// the live view stays writable
	require.NoError(t, Set(v, "0.a", "9"))
	assert.Equal(t, byte(9), buf[4])
}

func TestCreateReadOnlyValue(t *testing.T) {
	n, err := ParseWith(personExpr, nil)
	require.NoError(t, err)
	typ, err := n.Compile()
	require.NoError(t, err)
	plan, err := n.Imprinter()
	require.NoError(t, err)
	buf, err := arena.CreateBuffer(plan)
	require.NoError(t, err)

	ro, err := arena.CreateReadOnly(typ, buf)
	require.NoError(t, err)
	assert.PanicsWithValue(t, arena.ErrReadOnly, func() { _ = Set(ro.Get(), "age", "1") })
	assert.PanicsWithValue(t, arena.ErrReadOnly, func() { _ = Set(ro.Get(), "tags.0", "ab") })

	age, err := Lookup(ro.Get(), "age")
	require.NoError(t, err)
	got, err := age.(Scalar).Get()
	require.NoError(t, err)
	assert.Equal(t, uint8(0), got)
}

func TestCompileRejectsScanStatic(t *testing.T) {
	n, err := ParseWith("static{a: u8 | b: str}", nil)
	require.NoError(t, err)
	_, err = n.Compile()
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	_, v := imprint(t, "record{name: str[2], pos: union{none: unit | at: list<u8>[2]}}")
	require.NoError(t, Set(v, "name", "ok"))

	var out bytes.Buffer
	require.NoError(t, Render(&out, v, false))
	assert.Equal(t, `record
  name: "ok" (str)
  pos: union none
    () (unit)
`, out.String())
}
