package arena

import (
	"fmt"
	"unsafe"
)

// Span is an arena-relative byte range
type Span struct {
	Off Ptr
	Len Ptr
}

// End returns the first offset after the span
func (s Span) End() uint64 {
	return uint64(s.Off) + uint64(s.Len)
}

// Overlaps reports whether both spans share at least one byte. Empty spans never overlap.
func (s Span) Overlaps(o Span) bool {
	if s.Len == 0 || o.Len == 0 {
		return false
	}
	return uint64(s.Off) < o.End() && uint64(o.Off) < s.End()
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Off, s.End())
}

// Overlaps reports whether two slices share at least one byte of memory
func Overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	pa := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	pb := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return pa < pb+uintptr(len(b)) && pb < pa+uintptr(len(a))
}

// --------------------------------------------------------------------------
// Arena
// --------------------------------------------------------------------------

// Arena wraps a buffer and tracks which sub-ranges are currently leased to live views. A lease
// that would overlap a live lease is refused with ErrAliased. An Arena is meant for a single
// mutator and is not safe for concurrent use.
type Arena struct {
	buf    []byte
	leases map[uint64]Span
	next   uint64
}

// NewArena wraps buf. It fails if buf is too large to be addressed with a Ptr.
func NewArena(buf []byte) (*Arena, error) {
	if _, err := LenPtr(len(buf)); err != nil {
		return nil, err
	}
	return &Arena{buf: buf, leases: make(map[uint64]Span)}, nil
}

// Bytes returns the whole buffer
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Live returns the number of live leases
func (a *Arena) Live() int {
	return len(a.leases)
}

// SpanOf returns the arena-relative span of sub, which has to lie within the arena
func (a *Arena) SpanOf(sub []byte) (Span, error) {
	if len(sub) == 0 {
		return Span{}, nil
	}
	if len(a.buf) == 0 {
		return Span{}, ErrOutside
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(sub)))
	if p < base || p-base+uintptr(len(sub)) > uintptr(len(a.buf)) {
		return Span{}, ErrOutside
	}
	return Span{Off: Ptr(p - base), Len: Ptr(len(sub))}, nil
}

// Lease claims sub for exclusive use until the lease is released
func (a *Arena) Lease(sub []byte) (*Lease, error) {
	span, err := a.SpanOf(sub)
	if err != nil {
		return nil, err
	}
	for id, other := range a.leases {
		if span.Overlaps(other) {
			log.Warningf("lease %s overlaps live lease #%d %s", span, id, other)
			return nil, fmt.Errorf("%w: %s and %s", ErrAliased, span, other)
		}
	}
	a.next++
	a.leases[a.next] = span
	return &Lease{a: a, id: a.next, span: span}, nil
}

// Lease is an exclusive claim on a span of an Arena
type Lease struct {
	a        *Arena
	id       uint64
	span     Span
	released bool
}

// Span returns the claimed span
func (l *Lease) Span() Span {
	return l.span
}

// Release gives the span back. Releasing twice is a no-op.
func (l *Lease) Release() {
	if l.released {
		return
	}
	delete(l.a.leases, l.id)
	l.released = true
}

// Leased is a view together with the lease over its bytes. It implements Releaser, so an
// AliasGuard holding it as its derived half returns the lease when the original is moved back.
type Leased[V any] struct {
	View  V
	lease *Lease
}

// Release returns the lease
func (l Leased[V]) Release() {
	l.lease.Release()
}

// Span returns the span of the view
func (l Leased[V]) Span() Span {
	return l.lease.span
}

// Open builds t over sub and leases exactly the bytes the view consumed.
func Open[V any](a *Arena, t Type[V], sub []byte) (Leased[V], error) {
	rest, v, err := t.Build(sub)
	if err != nil {
		return Leased[V]{}, err
	}
	lease, err := a.Lease(sub[:consumed(sub, rest)])
	if err != nil {
		return Leased[V]{}, err
	}
	return Leased[V]{View: v, lease: lease}, nil
}
