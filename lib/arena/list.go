package arena

import (
	"fmt"
	"iter"
)

// ListType is the type descriptor of a capacity-prefixed homogeneous sequence:
//
//	[capacity: u32][item 0][item 1]...[item capacity-1]
//
// Items of a Fixed element type are found at i*size. Items of a Scan element type are found by
// summing the sizes of the items before them.
type ListType[V any] struct {
	elem Type[V]
}

// ListOf returns the descriptor of a list of elem
func ListOf[V any](elem Type[V]) ListType[V] {
	return ListType[V]{elem: elem}
}

// Elem returns the element type
func (t ListType[V]) Elem() Type[V] {
	return t.elem
}

// --------------------------------------------------------------------------
// Type Methods (docu see arena.Type)
// --------------------------------------------------------------------------

func (t ListType[V]) Strategy() Strategy { return Scan }

func (t ListType[V]) FixedSize() Ptr { return 0 }

func (t ListType[V]) ReadSize(b []byte) (Ptr, error) {
	n, err := ReadPtr(b)
	if err != nil {
		return 0, err
	}
	if t.elem.Strategy() == Fixed {
		body, err := MulPtr(n, t.elem.FixedSize())
		if err != nil {
			return 0, err
		}
		return AddPtr(PtrSize, body)
	}

	head := PtrSize
	for i := Ptr(0); i < n; i++ {
		rest, err := tail(b, head)
		if err != nil {
			return 0, err
		}
		size, err := t.elem.ReadSize(rest)
		if err != nil {
			return 0, err
		}
		if head, err = AddPtr(head, size); err != nil {
			return 0, err
		}
	}
	return head, nil
}

func (t ListType[V]) Build(b []byte) ([]byte, List[V], error) {
	head, body, err := Split(b, PtrSize)
	if err != nil {
		return nil, List[V]{}, err
	}
	n := getPtr(head)

	var size Ptr
	if t.elem.Strategy() == Fixed {
		size, err = t.buildFixed(n, body)
	} else {
		size, err = t.buildScan(n, body)
	}
	if err != nil {
		err = shifted(err, PtrSize)
		log.Debugf("list of %d items rejected: %v", n, err)
		return nil, List[V]{}, err
	}

	items, rest := mustSplit(body, size)
	return rest, List[V]{elem: t.elem, n: n, items: items}, nil
}

// buildFixed validates n items of a fixed-size element type and returns their total size
func (t ListType[V]) buildFixed(n Ptr, body []byte) (Ptr, error) {
	es := t.elem.FixedSize()
	size, err := MulPtr(n, es)
	if err != nil {
		return 0, err
	}
	if uint64(size) > uint64(len(body)) {
		return 0, undersized(uint64(size), body)
	}
	if n == 0 || isPlain(t.elem) {
		return size, nil
	}
	// zero-sized items all share the same (empty) bytes, one check covers them all
	if es == 0 {
		n = 1
	}
	for i := Ptr(0); i < n; i++ {
		if _, err := Unused(t.elem, body[i*es:]); err != nil {
			return 0, shifted(err, i*es)
		}
	}
	return size, nil
}

// buildScan validates n items of a scan-dependent element type and returns their total size
func (t ListType[V]) buildScan(n Ptr, body []byte) (Ptr, error) {
	var size Ptr
	for i := Ptr(0); i < n; i++ {
		rest, err := tail(body, size)
		if err != nil {
			return 0, err
		}
		out, err := Unused(t.elem, rest)
		if err != nil {
			return 0, shifted(err, size)
		}
		if size, err = AddPtr(size, consumed(rest, out)); err != nil {
			return 0, err
		}
	}
	return size, nil
}

func (t ListType[V]) UncheckedBuild(b []byte) ([]byte, List[V]) {
	n := getPtr(b)
	body := b[PtrSize:]

	var size Ptr
	if t.elem.Strategy() == Fixed {
		size = n * t.elem.FixedSize()
	} else {
		for i := Ptr(0); i < n; i++ {
			size += mustReadSize(t.elem, body[size:])
		}
	}

	items, rest := mustSplit(body, size)
	return rest, List[V]{elem: t.elem, n: n, items: items}
}

// FrozenBuild is UncheckedBuild returning a frozen list
func (t ListType[V]) FrozenBuild(b []byte) ([]byte, List[V]) {
	rest, l := t.UncheckedBuild(b)
	l.frozen = true
	return rest, l
}

// mustReadSize is ReadSize on bytes that were validated before
func mustReadSize(s Sizer, b []byte) Ptr {
	size, err := s.ReadSize(b)
	if err != nil {
		panic(fmt.Sprintf("arena: size of validated item unreadable: %v", err))
	}
	return size
}

// --------------------------------------------------------------------------
// Imprinters
// --------------------------------------------------------------------------

// WithCapacity plans a list of n zeroed items. The element type has to be Fixed, otherwise the
// plan fails with ErrNotFixed.
func (t ListType[V]) WithCapacity(n Ptr) Imprinter {
	return listPlan{n: n, reserve: t.elem}
}

// ListFrom plans a list holding one item per imprinter, in order
func ListFrom(items ...Imprinter) Imprinter {
	n, err := LenPtr(len(items))
	if err != nil {
		return failedPlan{err: err}
	}
	return listPlan{n: n, items: items}
}

// ListRepeat plans a list of n items that all follow the same plan
func ListRepeat(n Ptr, item Imprinter) Imprinter {
	return listPlan{n: n, repeat: item}
}

// listPlan is the imprinter of a list. Exactly one of reserve, items and repeat describes the
// items.
type listPlan struct {
	n       Ptr
	reserve Sizer
	items   []Imprinter
	repeat  Imprinter
}

func (p listPlan) ResultSize() (Ptr, error) {
	var body Ptr
	var err error
	switch {
	case p.reserve != nil:
		if p.reserve.Strategy() != Fixed {
			return 0, ErrNotFixed
		}
		body, err = MulPtr(p.n, p.reserve.FixedSize())
	case p.repeat != nil:
		var item Ptr
		if item, err = p.repeat.ResultSize(); err == nil {
			body, err = MulPtr(p.n, item)
		}
	default:
		body, err = sumSizes(p.items)
	}
	if err != nil {
		return 0, err
	}
	return AddPtr(PtrSize, body)
}

func (p listPlan) Imprint(b []byte) error {
	size, err := p.ResultSize()
	if err != nil {
		return err
	}
	if uint64(size) > uint64(len(b)) {
		return undersized(uint64(size), b)
	}
	putPtr(b, p.n)
	body := b[PtrSize:size]

	switch {
	case p.reserve != nil:
		return nil
	case p.repeat != nil:
		for i := Ptr(0); i < p.n; i++ {
			if body, err = imprintSeq(body, []Imprinter{p.repeat}); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err = imprintSeq(body, p.items)
		return err
	}
}

// --------------------------------------------------------------------------
// List view
// --------------------------------------------------------------------------

// List is a view over a validated list. Indexing past Capacity is a programmer error and panics.
type List[V any] struct {
	elem    Type[V]
	n       Ptr
	items   []byte
	offsets []Ptr
	frozen  bool
}

// Capacity returns the number of items
func (l List[V]) Capacity() Ptr {
	return l.n
}

// Get constructs the view of item idx. It panics if idx >= Capacity().
func (l List[V]) Get(idx Ptr) V {
	_, v := l.build(l.items[l.offset(idx):])
	return v
}

// Borrow returns the frozen view of item idx. It panics if idx >= Capacity().
func (l List[V]) Borrow(idx Ptr) ReadOnly[V] {
	return ReadOnly[V]{v: l.Freeze().Get(idx)}
}

// All iterates over all items in order. Unlike repeated calls to Get it scans a list of
// scan-dependent items only once.
func (l List[V]) All() iter.Seq2[Ptr, V] {
	return func(yield func(Ptr, V) bool) {
		rest := l.items
		for i := Ptr(0); i < l.n; i++ {
			out, v := l.build(rest)
			if !yield(i, v) {
				return
			}
			rest = out
		}
	}
}

// Indexed returns a copy of the view that remembers the offset of every item, so Get is O(1)
// for scan-dependent items as well. The table lives in memory only, the encoding is unchanged.
func (l List[V]) Indexed() List[V] {
	if l.offsets != nil || l.elem.Strategy() == Fixed {
		return l
	}
	offsets := make([]Ptr, l.n)
	var off Ptr
	for i := range offsets {
		offsets[i] = off
		off += mustReadSize(l.elem, l.items[off:])
	}
	l.offsets = offsets
	return l
}

// Freeze returns a copy of the view whose items are frozen as well
func (l List[V]) Freeze() List[V] {
	l.frozen = true
	return l
}

// Size returns the encoded size of the list including the capacity prefix
func (l List[V]) Size() Ptr {
	return PtrSize + Ptr(len(l.items))
}

func (l List[V]) build(b []byte) ([]byte, V) {
	if l.frozen {
		return UncheckedFrozenBuild(l.elem, b)
	}
	return l.elem.UncheckedBuild(b)
}

func (l List[V]) offset(idx Ptr) Ptr {
	if idx >= l.n {
		panic(fmt.Sprintf("arena: list index %d out of range [0:%d]", idx, l.n))
	}
	if l.elem.Strategy() == Fixed {
		return idx * l.elem.FixedSize()
	}
	if l.offsets != nil {
		return l.offsets[idx]
	}
	var off Ptr
	for i := Ptr(0); i < idx; i++ {
		off += mustReadSize(l.elem, l.items[off:])
	}
	return off
}
