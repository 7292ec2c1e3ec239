package arena

import (
	"encoding/binary"
	"fmt"
	"math"
)

// scalarCodec describes how one scalar kind is laid out
type scalarCodec[T any] struct {
	name string
	size Ptr
	get  func(b []byte) T
	put  func(b []byte, v T)
}

// Scalar is the type descriptor of a fixed-size scalar literal. It implements Type[Literal[T]],
// Plain and Imprinter (an imprint of a scalar only checks that there is room).
type Scalar[T any] struct {
	c *scalarCodec[T]
}

func newScalar[T any](name string, size Ptr, get func([]byte) T, put func([]byte, T)) Scalar[T] {
	return Scalar[T]{c: &scalarCodec[T]{name: name, size: size, get: get, put: put}}
}

var (
	U8 = newScalar("u8", 1,
		func(b []byte) uint8 { return b[0] },
		func(b []byte, v uint8) { b[0] = v })
	I8 = newScalar("i8", 1,
		func(b []byte) int8 { return int8(b[0]) },
		func(b []byte, v int8) { b[0] = byte(v) })
	Bool = newScalar("bool", 1,
		func(b []byte) bool { return b[0] != 0 },
		func(b []byte, v bool) {
			if v {
				b[0] = 1
			} else {
				b[0] = 0
			}
		})
	U16 = newScalar("u16", 2,
		binary.LittleEndian.Uint16,
		binary.LittleEndian.PutUint16)
	I16 = newScalar("i16", 2,
		func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) },
		func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) })
	U32 = newScalar("u32", 4,
		binary.LittleEndian.Uint32,
		binary.LittleEndian.PutUint32)
	I32 = newScalar("i32", 4,
		func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
		func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) })
	U64 = newScalar("u64", 8,
		binary.LittleEndian.Uint64,
		binary.LittleEndian.PutUint64)
	I64 = newScalar("i64", 8,
		func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) },
		func(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) })
	F32 = newScalar("f32", 4,
		func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) },
		func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) })
	F64 = newScalar("f64", 8,
		func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) },
		func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) })
)

// --------------------------------------------------------------------------
// Type Methods (docu see arena.Type)
// --------------------------------------------------------------------------

func (s Scalar[T]) Strategy() Strategy { return Fixed }

func (s Scalar[T]) FixedSize() Ptr { return s.c.size }

func (s Scalar[T]) ReadSize([]byte) (Ptr, error) { return s.c.size, nil }

func (s Scalar[T]) Plain() bool { return true }

func (s Scalar[T]) Build(b []byte) ([]byte, Literal[T], error) {
	left, right, err := Split(b, s.c.size)
	if err != nil {
		return nil, Literal[T]{}, err
	}
	return right, Literal[T]{b: left, c: s.c}, nil
}

func (s Scalar[T]) UncheckedBuild(b []byte) ([]byte, Literal[T]) {
	left, right := mustSplit(b, s.c.size)
	return right, Literal[T]{b: left, c: s.c}
}

// --------------------------------------------------------------------------
// Imprinter Methods (docu see arena.Imprinter)
// --------------------------------------------------------------------------

func (s Scalar[T]) ResultSize() (Ptr, error) { return s.c.size, nil }

func (s Scalar[T]) Imprint(b []byte) error {
	if uint64(len(b)) < uint64(s.c.size) {
		return undersized(uint64(s.c.size), b)
	}
	return nil
}

// Value plans a scalar that is initialized with v
func (s Scalar[T]) Value(v T) Imprinter {
	return scalarValue[T]{s: s, v: v}
}

// Name returns the schema name of the scalar (u8, i32, f64, ...)
func (s Scalar[T]) Name() string { return s.c.name }

func (s Scalar[T]) String() string { return s.c.name }

type scalarValue[T any] struct {
	s Scalar[T]
	v T
}

func (sv scalarValue[T]) ResultSize() (Ptr, error) { return sv.s.c.size, nil }

func (sv scalarValue[T]) Imprint(b []byte) error {
	if err := sv.s.Imprint(b); err != nil {
		return err
	}
	sv.s.c.put(b, sv.v)
	return nil
}

// --------------------------------------------------------------------------
// Literal view
// --------------------------------------------------------------------------

// Literal is a view over exactly one encoded scalar.
type Literal[T any] struct {
	b      []byte
	c      *scalarCodec[T]
	frozen bool
}

// Read decodes the scalar
func (l Literal[T]) Read() T {
	return l.c.get(l.b)
}

// Write encodes v into the bytes owned by the literal
func (l Literal[T]) Write(v T) {
	checkWritable(l.frozen)
	l.c.put(l.b, v)
}

// Bytes returns the encoded bytes of the literal
func (l Literal[T]) Bytes() []byte {
	return l.b
}

// Freeze returns a copy of the view that panics on Write
func (l Literal[T]) Freeze() Literal[T] {
	l.frozen = true
	return l
}

func (l Literal[T]) String() string {
	return fmt.Sprint(l.Read())
}
