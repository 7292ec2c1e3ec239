package schema

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/ValentinKolb/inplace/lib/arena"
)

// erased adapts a typed arena descriptor to arena.Type[Value]
type erased[V any] struct {
	arena.Sizer
	t    arena.Type[V]
	wrap func(V) Value
}

func erase[V any](t arena.Type[V], wrap func(V) Value) arena.Type[Value] {
	return erased[V]{Sizer: t, t: t, wrap: wrap}
}

func (e erased[V]) Build(b []byte) ([]byte, Value, error) {
	rest, v, err := e.t.Build(b)
	if err != nil {
		return nil, nil, err
	}
	return rest, e.wrap(v), nil
}

func (e erased[V]) UncheckedBuild(b []byte) ([]byte, Value) {
	rest, v := e.t.UncheckedBuild(b)
	return rest, e.wrap(v)
}

func (e erased[V]) FrozenBuild(b []byte) ([]byte, Value) {
	rest, v := arena.UncheckedFrozenBuild(e.t, b)
	return rest, e.wrap(v)
}

func (e erased[V]) Plain() bool {
	p, ok := e.t.(arena.Plain)
	return ok && p.Plain()
}

// --------------------------------------------------------------------------
// Leaves
// --------------------------------------------------------------------------

type leaf struct {
	typ  arena.Type[Value]
	plan arena.Imprinter
}

var leaves = map[string]leaf{
	"u8":   numeric(arena.U8, parseUint[uint8](8)),
	"u16":  numeric(arena.U16, parseUint[uint16](16)),
	"u32":  numeric(arena.U32, parseUint[uint32](32)),
	"u64":  numeric(arena.U64, parseUint[uint64](64)),
	"i8":   numeric(arena.I8, parseInt[int8](8)),
	"i16":  numeric(arena.I16, parseInt[int16](16)),
	"i32":  numeric(arena.I32, parseInt[int32](32)),
	"i64":  numeric(arena.I64, parseInt[int64](64)),
	"f32":  numeric(arena.F32, parseFloat[float32](32)),
	"f64":  numeric(arena.F64, parseFloat[float64](64)),
	"bool": numeric(arena.Bool, strconv.ParseBool),
	"char": {typ: erase(arena.Char, charValue), plan: arena.Char},
	"unit": {typ: erase(arena.Unit, unitValue), plan: arena.Unit},
	"bytes": {typ: erase(arena.Bytes, blobValue)},
	"str":   {typ: erase(arena.Str, textValue)},
}

func numeric[T any](s arena.Scalar[T], parse func(string) (T, error)) leaf {
	name := s.Name()
	return leaf{plan: s, typ: erase(s, func(l arena.Literal[T]) Value {
		return Scalar{
			typ:  name,
			kind: KindScalar,
			get:  func() (any, error) { return l.Read(), nil },
			set: func(text string) error {
				v, err := parse(text)
				if err != nil {
					return fmt.Errorf("schema: %s: %w", name, err)
				}
				l.Write(v)
				return nil
			},
		}
	})}
}

func parseUint[T ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseUint(s, 0, bits)
		return T(v), err
	}
}

func parseInt[T ~int8 | ~int16 | ~int32 | ~int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseInt(s, 0, bits)
		return T(v), err
	}
}

func parseFloat[T ~float32 | ~float64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		v, err := strconv.ParseFloat(s, bits)
		return T(v), err
	}
}

func charValue(c arena.CharLiteral) Value {
	return Scalar{
		typ:  "char",
		kind: KindChar,
		get: func() (any, error) {
			r, ok := c.Read()
			if !ok {
				return nil, ErrInvalidChar
			}
			return string(r), nil
		},
		set: func(text string) error {
			r, size := utf8.DecodeRuneInString(text)
			if r == utf8.RuneError || size != len(text) {
				return fmt.Errorf("schema: char: %q is not a single character", text)
			}
			c.Write(r)
			return nil
		},
	}
}

func unitValue(struct{}) Value {
	return Scalar{typ: "unit", kind: KindUnit, get: func() (any, error) { return nil, nil }}
}

func blobValue(b arena.Blob) Value {
	return Scalar{
		typ:  "bytes",
		kind: KindBytes,
		get:  func() (any, error) { return b.Read(), nil },
		set: func(text string) error {
			p, err := hex.DecodeString(text)
			if err != nil {
				return fmt.Errorf("schema: bytes: %w", err)
			}
			return b.Write(p)
		},
	}
}

func textValue(t arena.Text) Value {
	return Scalar{
		typ:  "str",
		kind: KindStr,
		get: func() (any, error) {
			s, err := t.Read()
			if err != nil {
				return nil, err
			}
			return s, nil
		},
		set: t.Write,
	}
}

// --------------------------------------------------------------------------
// Compilation
// --------------------------------------------------------------------------

// Compile builds the dynamic arena type of the node. Layout errors that the arena package
// reports by panicking (a static union with a scan-dependent variant, sizes beyond the range of
// a Ptr) are returned as errors.
func (n *Node) Compile() (t arena.Type[Value], err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("schema: cannot compile %s: %v", n, r)
		}
	}()
	return n.compile()
}

func (n *Node) compile() (arena.Type[Value], error) {
	switch n.Kind {
	case KindRef:
		return n.Target.compile()
	case KindScalar, KindChar, KindBytes, KindStr, KindUnit:
		l, ok := leaves[n.Name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownType, n.Name)
		}
		return l.typ, nil
	case KindList:
		elem, err := n.Elem.compile()
		if err != nil {
			return nil, err
		}
		return erase(arena.ListOf(elem), func(l arena.List[Value]) Value { return List{view: l} }), nil
	case KindRecord:
		return n.compileRecord()
	case KindUnion:
		variants, _, err := n.compileVariants()
		if err != nil {
			return nil, err
		}
		return arena.Union(n.label("union"), variants...), nil
	case KindStatic:
		st, names, err := n.compileStatic()
		if err != nil {
			return nil, err
		}
		return erase(st, func(s arena.Static[Value]) Value { return &StaticUnion{view: s, names: names} }), nil
	default:
		return nil, fmt.Errorf("schema: cannot compile %s node", n.Kind)
	}
}

func (n *Node) compileRecord() (arena.Type[Value], error) {
	names := make([]string, len(n.Members))
	types := make([]arena.Type[Value], len(n.Members))
	sizers := make([]arena.Sizer, len(n.Members))
	for i, m := range n.Members {
		t, err := m.Type.compile()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", m.Name, err)
		}
		names[i], types[i], sizers[i] = m.Name, t, t
	}
	return arena.Record(n.label("record"), func(f *arena.Fields) Value {
		values := make([]Value, len(types))
		for i, t := range types {
			values[i] = arena.Field(f, t)
		}
		return Record{names: names, values: values}
	}, sizers...), nil
}

func (n *Node) compileVariants() ([]arena.Variant[Value], []string, error) {
	variants := make([]arena.Variant[Value], len(n.Members))
	names := make([]string, len(n.Members))
	for i, m := range n.Members {
		t, err := m.Type.compile()
		if err != nil {
			return nil, nil, fmt.Errorf("variant %s: %w", m.Name, err)
		}
		tag, name := i, m.Name
		names[i] = name
		variants[i] = arena.VariantOf(name, t, func(v Value) Value {
			return Union{tag: tag, variant: name, value: v}
		})
	}
	return variants, names, nil
}

func (n *Node) compileStatic() (*arena.StaticUnionType[Value], []string, error) {
	variants, names, err := n.compileVariants()
	if err != nil {
		return nil, nil, err
	}
	for _, v := range variants {
		if v.Payload().Strategy() != arena.Fixed {
			return nil, nil, fmt.Errorf("schema: static union variant %s is not fixed-size", v.Name())
		}
	}
	return arena.StaticUnion(n.label("static"), variants...), names, nil
}

// Imprinter plans a zeroed buffer for the node, using the [n] annotations for lengths and
// capacities. Unions are planned as their first variant.
func (n *Node) Imprinter() (arena.Imprinter, error) {
	switch n.Kind {
	case KindRef:
		return n.Target.Imprinter()
	case KindScalar, KindChar, KindUnit:
		return leaves[n.Name].plan, nil
	case KindBytes:
		return arena.Bytes.WithLen(n.Len), nil
	case KindStr:
		return arena.Str.WithLen(n.Len), nil
	case KindList:
		elem, err := n.Elem.Imprinter()
		if err != nil {
			return nil, err
		}
		return arena.ListRepeat(n.Len, elem), nil
	case KindRecord:
		fields := make([]arena.Imprinter, len(n.Members))
		for i, m := range n.Members {
			var err error
			if fields[i], err = m.Type.Imprinter(); err != nil {
				return nil, err
			}
		}
		return arena.RecordOf(fields...), nil
	case KindUnion, KindStatic:
		if len(n.Members) == 0 {
			return nil, fmt.Errorf("schema: cannot plan a %s without variants", n.Kind)
		}
		payload, err := n.Members[0].Type.Imprinter()
		if err != nil {
			return nil, err
		}
		if n.Kind == KindUnion {
			variants, _, err := n.compileVariants()
			if err != nil {
				return nil, err
			}
			return arena.Union(n.label("union"), variants...).Variant(0, payload), nil
		}
		st, _, err := n.compileStatic()
		if err != nil {
			return nil, err
		}
		return st.Variant(0, payload), nil
	default:
		return nil, fmt.Errorf("schema: cannot plan %s node", n.Kind)
	}
}
