package arena

// Type is the construct/validate protocol. An implementation turns the prefix of a byte slice
// into a typed view V and returns the unconsumed tail.
//
// Build and UncheckedBuild must never write to b. All mutation happens later through methods of
// the returned view. CreateReadOnly and List.Borrow rely on this.
type Type[V any] interface {
	Sizer
	// Build validates the bytes and constructs the view. On error no view escapes.
	Build(b []byte) (rest []byte, v V, err error)
	// UncheckedBuild constructs the view without validation. It may panic or return a broken
	// view on malformed bytes and must only be called on bytes a validating Build accepted.
	UncheckedBuild(b []byte) (rest []byte, v V)
}

// Create builds a view and discards the remaining bytes.
func Create[V any](t Type[V], b []byte) (V, error) {
	_, v, err := t.Build(b)
	return v, err
}

// UncheckedCreate is the unchecked variant of Create.
func UncheckedCreate[V any](t Type[V], b []byte) V {
	_, v := t.UncheckedBuild(b)
	return v
}

// Unused validates a value and returns only the bytes after it.
func Unused[V any](t Type[V], b []byte) ([]byte, error) {
	rest, _, err := t.Build(b)
	return rest, err
}

// CreateReadOnly validates the bytes and builds a view whose nested views are all frozen.
func CreateReadOnly[V any](t Type[V], b []byte) (ReadOnly[V], error) {
	if _, err := Unused(t, b); err != nil {
		return ReadOnly[V]{}, err
	}
	_, v := UncheckedFrozenBuild(t, b)
	return ReadOnly[V]{v: v}, nil
}

// FrozenBuilder is implemented by composite types. FrozenBuild is UncheckedBuild with every view
// it constructs frozen, including the views of fields, items and variants.
type FrozenBuilder[V any] interface {
	FrozenBuild(b []byte) (rest []byte, v V)
}

// UncheckedFrozenBuild constructs a frozen view over bytes a validating Build accepted. Types
// that do not implement FrozenBuilder are built unchecked and their view is frozen with Freeze.
func UncheckedFrozenBuild[V any](t Type[V], b []byte) ([]byte, V) {
	if f, ok := t.(FrozenBuilder[V]); ok {
		return f.FrozenBuild(b)
	}
	rest, v := t.UncheckedBuild(b)
	return rest, freeze(v)
}

// consumed returns how many bytes of in were used when out is the tail of in
func consumed(in, out []byte) Ptr {
	return Ptr(len(in) - len(out))
}
