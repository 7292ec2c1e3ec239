package arena

import "fmt"

// StaticUnionType is the reinterpretable form of a tagged union: the tag followed by a region
// sized to the largest variant. Every variant has to be Fixed. The region never changes size, so
// the active variant can be swapped in place with Static.Reinterpret.
type StaticUnionType[V any] struct {
	variantSet[V]
	name   string
	region Ptr
	size   Ptr
}

// StaticUnion creates a static union descriptor. It panics if a variant is not Fixed.
func StaticUnion[V any](name string, variants ...Variant[V]) *StaticUnionType[V] {
	t := &StaticUnionType[V]{variantSet: newVariantSet(variants), name: name}
	for _, v := range variants {
		if v.sizer.Strategy() != Fixed {
			panic(fmt.Sprintf("arena: static union %s: variant %s is not fixed-size", name, v.name))
		}
		t.region = max(t.region, v.sizer.FixedSize())
	}
	size, err := AddPtr(t.tagBytes, t.region)
	if err != nil {
		panic(fmt.Sprintf("arena: static union %s: %v", name, err))
	}
	t.size = size
	return t
}

// Name returns the union name
func (t *StaticUnionType[V]) Name() string { return t.name }

func (t *StaticUnionType[V]) String() string { return t.name }

// Region returns the size of the payload region
func (t *StaticUnionType[V]) Region() Ptr { return t.region }

func (t *StaticUnionType[V]) Strategy() Strategy { return Fixed }

func (t *StaticUnionType[V]) FixedSize() Ptr { return t.size }

func (t *StaticUnionType[V]) ReadSize([]byte) (Ptr, error) { return t.size, nil }

func (t *StaticUnionType[V]) Build(b []byte) ([]byte, Static[V], error) {
	left, rest, err := Split(b, t.size)
	if err != nil {
		return nil, Static[V]{}, err
	}
	tag, err := t.Tag(left)
	if err != nil {
		log.Debugf("static union %s rejected: %v", t.name, err)
		return nil, Static[V]{}, err
	}
	guard, _, err := TryAliasGuard(left[t.tagBytes:], t.deriver(tag))
	if err != nil {
		return nil, Static[V]{}, err
	}
	return rest, t.view(left, guard), nil
}

func (t *StaticUnionType[V]) UncheckedBuild(b []byte) ([]byte, Static[V]) {
	left, rest := mustSplit(b, t.size)
	tag := int(readTag(left, t.tagBytes))
	guard := NewAliasGuard(left[t.tagBytes:], t.uncheckedDeriver(tag))
	return rest, t.view(left, guard)
}

// FrozenBuild is UncheckedBuild returning a frozen view
func (t *StaticUnionType[V]) FrozenBuild(b []byte) ([]byte, Static[V]) {
	rest, s := t.UncheckedBuild(b)
	s.frozen = true
	return rest, s
}

// Variant plans the union holding variant k. The payload is imprinted into the start of the
// region, the remaining region bytes are left as they are.
func (t *StaticUnionType[V]) Variant(k int, payload Imprinter) Imprinter {
	if err := t.checkIndex(k); err != nil {
		return failedPlan{err: err}
	}
	return unionPlan{tagBytes: t.tagBytes, tag: uint64(k), payload: payload, region: t.region, static: true}
}

// deriver constructs variant k over a region, validating the bytes
func (t *StaticUnionType[V]) deriver(k int) func([]byte) (V, error) {
	return func(region []byte) (V, error) {
		_, v, err := t.variants[k].build(region)
		return v, err
	}
}

func (t *StaticUnionType[V]) uncheckedDeriver(k int) func([]byte) V {
	return func(region []byte) V {
		_, v := t.variants[k].unchecked(region)
		return v
	}
}

func (t *StaticUnionType[V]) view(whole []byte, guard *AliasGuard[[]byte, V]) Static[V] {
	return Static[V]{t: t, tag: whole[:t.tagBytes:t.tagBytes], guard: guard}
}

// --------------------------------------------------------------------------
// Static view
// --------------------------------------------------------------------------

// Static is a view over a static union. Reinterpret consumes the view: copies of a view that was
// reinterpreted panic with ErrMoved, only the view returned by Reinterpret stays usable.
type Static[V any] struct {
	t      *StaticUnionType[V]
	tag    []byte
	guard  *AliasGuard[[]byte, V]
	frozen bool
}

// Tag returns the index of the active variant
func (s Static[V]) Tag() int {
	s.guard.mustBeLive()
	return int(readTag(s.tag, s.t.tagBytes))
}

// VariantName returns the name of the active variant
func (s Static[V]) VariantName() string {
	return s.t.variants[s.Tag()].name
}

// Value returns the view of the active variant
func (s Static[V]) Value() V {
	if s.frozen {
		s.guard.mustBeLive()
		_, v := s.t.variants[s.Tag()].frozen(s.guard.first)
		return v
	}
	return s.guard.Second()
}

// Reinterpret swaps the active variant in place. The payload bytes are not touched, they are
// read as variant to from now on. If variant to cannot be constructed over the current bytes the
// union is left exactly as it was and returned together with the error.
func (s Static[V]) Reinterpret(to int) (Static[V], error) {
	checkWritable(s.frozen)
	if err := s.t.checkIndex(to); err != nil {
		return s, err
	}

	from := s.Tag()
	region := s.guard.MoveFirst()

	guard, region, err := TryAliasGuard(region, s.t.deriver(to))
	if err != nil {
		log.Debugf("static union %s: reinterpret %s -> %s rolled back: %v",
			s.t.name, s.t.variants[from].name, s.t.variants[to].name, err)
		// the bytes were accepted as variant from before and Build never writes
		restored := NewAliasGuard(region, s.t.uncheckedDeriver(from))
		return Static[V]{t: s.t, tag: s.tag, guard: restored}, err
	}

	writeTag(s.tag, s.t.tagBytes, uint64(to))
	return Static[V]{t: s.t, tag: s.tag, guard: guard}, nil
}

// Freeze returns a copy of the view that cannot be reinterpreted and whose value is frozen
func (s Static[V]) Freeze() Static[V] {
	s.frozen = true
	return s
}
