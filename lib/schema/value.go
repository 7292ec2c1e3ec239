package schema

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ValentinKolb/inplace/lib/arena"
)

var (
	// ErrNotSettable is returned when Set is called on something other than a scalar
	ErrNotSettable = errors.New("schema: value is not settable")
	// ErrInvalidChar is returned when a char holds a code point that is not a unicode scalar value
	ErrInvalidChar = errors.New("schema: invalid char")
)

// Value is a dynamic view produced by a compiled schema. The concrete types are Scalar, List,
// Record, Union and *StaticUnion. All of them implement arena.Freezer[Value].
type Value interface {
	Kind() Kind
}

func freezeValue(v Value) Value {
	if f, ok := v.(arena.Freezer[Value]); ok {
		return f.Freeze()
	}
	return v
}

// --------------------------------------------------------------------------
// Scalar
// --------------------------------------------------------------------------

// Scalar is the dynamic view of a leaf: a number, bool, char, byte string, string or unit.
type Scalar struct {
	typ  string
	kind Kind
	get  func() (any, error)
	set  func(text string) error
}

func (s Scalar) Kind() Kind { return s.kind }

// Type returns the schema name of the leaf (u8, str, ...)
func (s Scalar) Type() string { return s.typ }

// Get decodes the leaf. Strings with invalid UTF-8 and invalid chars are reported as errors.
func (s Scalar) Get() (any, error) { return s.get() }

// Set parses text according to the leaf type and writes it in place. Byte strings and strings
// keep their length, text of a different length is rejected.
func (s Scalar) Set(text string) error {
	if s.set == nil {
		return fmt.Errorf("%w: %s", ErrNotSettable, s.typ)
	}
	return s.set(text)
}

// Freeze returns a copy whose Set panics with arena.ErrReadOnly
func (s Scalar) Freeze() Value {
	if s.set != nil {
		s.set = func(string) error { panic(arena.ErrReadOnly) }
	}
	return s
}

// --------------------------------------------------------------------------
// List
// --------------------------------------------------------------------------

// List is the dynamic view of a list
type List struct {
	view arena.List[Value]
}

func (l List) Kind() Kind { return KindList }

// Len returns the capacity of the list
func (l List) Len() int { return int(l.view.Capacity()) }

// At returns item i. Out of range indices panic like arena.List.Get.
func (l List) At(i int) Value { return l.view.Get(arena.Ptr(i)) }

// All iterates over the items in one scan
func (l List) All() iter.Seq2[arena.Ptr, Value] { return l.view.All() }

// Borrow returns item i frozen
func (l List) Borrow(i int) Value { return l.view.Borrow(arena.Ptr(i)).Get() }

func (l List) Freeze() Value { return List{view: l.view.Freeze()} }

// --------------------------------------------------------------------------
// Record
// --------------------------------------------------------------------------

// Record is the dynamic view of a record
type Record struct {
	names  []string
	values []Value
}

func (r Record) Kind() Kind { return KindRecord }

// Len returns the number of fields
func (r Record) Len() int { return len(r.values) }

// Name returns the name of field i
func (r Record) Name(i int) string { return r.names[i] }

// At returns field i
func (r Record) At(i int) Value { return r.values[i] }

// Field returns the field with the given name
func (r Record) Field(name string) (Value, bool) {
	for i, n := range r.names {
		if n == name {
			return r.values[i], true
		}
	}
	return nil, false
}

func (r Record) Freeze() Value {
	values := make([]Value, len(r.values))
	for i, v := range r.values {
		values[i] = freezeValue(v)
	}
	return Record{names: r.names, values: values}
}

// --------------------------------------------------------------------------
// Unions
// --------------------------------------------------------------------------

// Union is the dynamic view of a union holding one variant
type Union struct {
	tag     int
	variant string
	value   Value
}

func (u Union) Kind() Kind { return KindUnion }

// Tag returns the index of the active variant
func (u Union) Tag() int { return u.tag }

// Variant returns the name of the active variant
func (u Union) Variant() string { return u.variant }

// Value returns the payload of the active variant
func (u Union) Value() Value { return u.value }

func (u Union) Freeze() Value {
	u.value = freezeValue(u.value)
	return u
}

// StaticUnion is the dynamic view of a static union. Unlike the other views it is a pointer, so
// Reinterpret can replace the underlying arena view in place.
type StaticUnion struct {
	view  arena.Static[Value]
	names []string
}

func (s *StaticUnion) Kind() Kind { return KindStatic }

// Tag returns the index of the active variant
func (s *StaticUnion) Tag() int { return s.view.Tag() }

// Variant returns the name of the active variant
func (s *StaticUnion) Variant() string { return s.names[s.view.Tag()] }

// Value returns the payload of the active variant
func (s *StaticUnion) Value() Value { return s.view.Value().(Union).value }

// Freeze returns a copy that cannot be reinterpreted and whose payload is frozen
func (s *StaticUnion) Freeze() Value {
	return &StaticUnion{view: s.view.Freeze(), names: s.names}
}

// Reinterpret makes the named variant the active one without touching the payload bytes. On
// failure the union keeps its current variant.
func (s *StaticUnion) Reinterpret(variant string) error {
	for i, n := range s.names {
		if n == variant {
			next, err := s.view.Reinterpret(i)
			s.view = next
			return err
		}
	}
	return fmt.Errorf("schema: static union has no variant %q", variant)
}

// tagged is implemented by Union and *StaticUnion
type tagged interface {
	Value
	Variant() string
	Value() Value
}
