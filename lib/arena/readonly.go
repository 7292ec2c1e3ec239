package arena

// Freezer is implemented by views that can drop their write capability. Every view of this
// package implements it, generated record views should too.
type Freezer[V any] interface {
	Freeze() V
}

// ReadOnly holds a view that can no longer be written through. Any write on the wrapped view
// panics with ErrReadOnly. Views that do not implement Freezer are wrapped as they are.
type ReadOnly[V any] struct {
	v V
}

// NewReadOnly freezes v and wraps it. Only views implementing Freezer are frozen, a record view
// without a Freeze method should be opened with CreateReadOnly or List.Borrow instead.
func NewReadOnly[V any](v V) ReadOnly[V] {
	return ReadOnly[V]{v: freeze(v)}
}

// Get returns the frozen view
func (r ReadOnly[V]) Get() V {
	return r.v
}

func freeze[V any](v V) V {
	if f, ok := any(v).(Freezer[V]); ok {
		return f.Freeze()
	}
	return v
}

// checkWritable panics for frozen views
func checkWritable(frozen bool) {
	if frozen {
		panic(ErrReadOnly)
	}
}
