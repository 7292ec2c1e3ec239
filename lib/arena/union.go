package arena

import (
	"fmt"
	"math/bits"
)

// TagBytes returns the number of bytes the tag of a union with n variants occupies:
// ceil(log2(n)/8), and 0 for n <= 1.
func TagBytes(n int) Ptr {
	if n <= 1 {
		return 0
	}
	return Ptr((bits.Len(uint(n-1)) + 7) / 8)
}

func readTag(b []byte, width Ptr) uint64 {
	var tag uint64
	for i := width; i > 0; i-- {
		tag = tag<<8 | uint64(b[i-1])
	}
	return tag
}

func writeTag(b []byte, width Ptr, tag uint64) {
	for i := Ptr(0); i < width; i++ {
		b[i] = byte(tag)
		tag >>= 8
	}
}

// Variant is one alternative of a union. Its payload type P is erased, the wrap function given to
// VariantOf turns the payload view into the union's value type V.
type Variant[V any] struct {
	name      string
	sizer     Sizer
	build     func(b []byte) ([]byte, V, error)
	unchecked func(b []byte) ([]byte, V)
	frozen    func(b []byte) ([]byte, V)
}

// VariantOf declares a variant whose payload is encoded with t
func VariantOf[P any, V any](name string, t Type[P], wrap func(P) V) Variant[V] {
	return Variant[V]{
		name:  name,
		sizer: t,
		build: func(b []byte) ([]byte, V, error) {
			rest, p, err := t.Build(b)
			if err != nil {
				var zero V
				return nil, zero, err
			}
			return rest, wrap(p), nil
		},
		unchecked: func(b []byte) ([]byte, V) {
			rest, p := t.UncheckedBuild(b)
			return rest, wrap(p)
		},
		frozen: func(b []byte) ([]byte, V) {
			rest, p := UncheckedFrozenBuild(t, b)
			return rest, wrap(p)
		},
	}
}

// UnitVariant declares a variant without payload that always decodes to v
func UnitVariant[V any](name string, v V) Variant[V] {
	return VariantOf(name, Unit, func(struct{}) V { return v })
}

// Name returns the variant name
func (v Variant[V]) Name() string { return v.name }

// Payload returns the size protocol of the payload type
func (v Variant[V]) Payload() Sizer { return v.sizer }

// variantSet is the part shared by both union forms
type variantSet[V any] struct {
	variants []Variant[V]
	tagBytes Ptr
}

func newVariantSet[V any](variants []Variant[V]) variantSet[V] {
	return variantSet[V]{variants: variants, tagBytes: TagBytes(len(variants))}
}

// Variants returns the number of variants
func (s *variantSet[V]) Variants() int { return len(s.variants) }

// VariantAt returns variant k
func (s *variantSet[V]) VariantAt(k int) Variant[V] { return s.variants[k] }

// TagBytes returns the size of the tag
func (s *variantSet[V]) TagBytes() Ptr { return s.tagBytes }

// Tag reads and validates the tag at the start of b without building the variant
func (s *variantSet[V]) Tag(b []byte) (int, error) {
	if uint64(len(b)) < uint64(s.tagBytes) {
		return 0, undersized(uint64(s.tagBytes), b)
	}
	tag := readTag(b, s.tagBytes)
	if tag >= uint64(len(s.variants)) {
		return 0, &MalformedError{Tag: tag, Variants: len(s.variants)}
	}
	return int(tag), nil
}

func (s *variantSet[V]) checkIndex(k int) error {
	if k < 0 || k >= len(s.variants) {
		return &MalformedError{Tag: uint64(k), Variants: len(s.variants)}
	}
	return nil
}

// --------------------------------------------------------------------------
// Dynamic Union
// --------------------------------------------------------------------------

// UnionType is the dynamic form of a tagged union: the tag followed by exactly the bytes of the
// active variant. It is Fixed when all variants are Fixed and share one size, Scan otherwise.
type UnionType[V any] struct {
	variantSet[V]
	name  string
	fixed bool
	size  Ptr
}

// Union creates a dynamic union descriptor. The tag of a variant is its index.
func Union[V any](name string, variants ...Variant[V]) *UnionType[V] {
	t := &UnionType[V]{variantSet: newVariantSet(variants), name: name, fixed: true}
	var payload Ptr
	for i, v := range variants {
		if v.sizer.Strategy() != Fixed || (i > 0 && v.sizer.FixedSize() != payload) {
			t.fixed = false
			break
		}
		payload = v.sizer.FixedSize()
	}
	if t.fixed {
		size, err := AddPtr(t.tagBytes, payload)
		if err != nil {
			panic(fmt.Sprintf("arena: union %s: %v", name, err))
		}
		t.size = size
	}
	return t
}

// Name returns the union name
func (t *UnionType[V]) Name() string { return t.name }

func (t *UnionType[V]) String() string { return t.name }

func (t *UnionType[V]) Strategy() Strategy {
	if t.fixed {
		return Fixed
	}
	return Scan
}

func (t *UnionType[V]) FixedSize() Ptr { return t.size }

func (t *UnionType[V]) ReadSize(b []byte) (Ptr, error) {
	if t.fixed {
		return t.size, nil
	}
	tag, err := t.Tag(b)
	if err != nil {
		return 0, err
	}
	size, err := t.variants[tag].sizer.ReadSize(b[t.tagBytes:])
	if err != nil {
		return 0, err
	}
	return AddPtr(t.tagBytes, size)
}

func (t *UnionType[V]) Build(b []byte) ([]byte, V, error) {
	var zero V
	tag, err := t.Tag(b)
	if err != nil {
		log.Debugf("union %s rejected: %v", t.name, err)
		return nil, zero, err
	}
	rest, v, err := t.variants[tag].build(b[t.tagBytes:])
	if err != nil {
		return nil, zero, shifted(err, t.tagBytes)
	}
	return rest, v, nil
}

func (t *UnionType[V]) UncheckedBuild(b []byte) ([]byte, V) {
	tag := readTag(b, t.tagBytes)
	return t.variants[tag].unchecked(b[t.tagBytes:])
}

// FrozenBuild is UncheckedBuild with the payload view frozen
func (t *UnionType[V]) FrozenBuild(b []byte) ([]byte, V) {
	tag := readTag(b, t.tagBytes)
	return t.variants[tag].frozen(b[t.tagBytes:])
}

// Variant plans the union holding variant k with the given payload plan
func (t *UnionType[V]) Variant(k int, payload Imprinter) Imprinter {
	if err := t.checkIndex(k); err != nil {
		return failedPlan{err: err}
	}
	return unionPlan{tagBytes: t.tagBytes, tag: uint64(k), payload: payload}
}

type unionPlan struct {
	tagBytes Ptr
	tag      uint64
	payload  Imprinter
	// region is the reserved payload size of a static union, 0 for the dynamic form
	region Ptr
	static bool
}

func (p unionPlan) ResultSize() (Ptr, error) {
	if p.static {
		return AddPtr(p.tagBytes, p.region)
	}
	size, err := p.payload.ResultSize()
	if err != nil {
		return 0, err
	}
	return AddPtr(p.tagBytes, size)
}

func (p unionPlan) Imprint(b []byte) error {
	size, err := p.ResultSize()
	if err != nil {
		return err
	}
	if uint64(size) > uint64(len(b)) {
		return undersized(uint64(size), b)
	}
	writeTag(b, p.tagBytes, p.tag)
	body := b[p.tagBytes:size]
	if p.static {
		psize, err := p.payload.ResultSize()
		if err != nil {
			return err
		}
		if psize > p.region {
			return undersized(uint64(psize), body)
		}
		body = body[:psize]
	}
	return p.payload.Imprint(body)
}
