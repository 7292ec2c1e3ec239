package arena

import "fmt"

// Fields is the cursor a record's build function reads its fields with. Fields are consumed in
// declaration order. After the first failure every further Field call returns the zero view and
// the record build fails as a whole.
type Fields struct {
	rest      []byte
	off       Ptr
	err       error
	unchecked bool
	frozen    bool
}

// Field builds the next field of the record
func Field[V any](f *Fields, t Type[V]) V {
	var v V
	if f.err != nil {
		return v
	}
	if f.frozen {
		f.rest, v = UncheckedFrozenBuild(t, f.rest)
		return v
	}
	if f.unchecked {
		f.rest, v = t.UncheckedBuild(f.rest)
		return v
	}
	rest, v, err := t.Build(f.rest)
	if err != nil {
		f.err = shifted(err, f.off)
		var zero V
		return zero
	}
	f.off += consumed(f.rest, rest)
	f.rest = rest
	return v
}

// Err returns the first error a field build ran into
func (f *Fields) Err() error {
	return f.err
}

// RecordType is the type descriptor of an ordered concatenation of fields without padding. The
// field types are declared once for the size protocol, the build function reads them back in the
// same order through the Fields cursor:
//
//	point := arena.Record("point", func(f *arena.Fields) Point {
//		return Point{X: arena.Field(f, arena.I32), Y: arena.Field(f, arena.I32)}
//	}, arena.I32, arena.I32)
type RecordType[V any] struct {
	name   string
	fields []Sizer
	build  func(f *Fields) V
	size   Ptr
	fixed  bool
	plain  bool
}

// Record creates a record descriptor. It panics if the combined size of the fixed fields does not
// fit into a Ptr.
func Record[V any](name string, build func(f *Fields) V, fields ...Sizer) *RecordType[V] {
	size, fixed, err := fixedSum(fields)
	if err != nil {
		panic(fmt.Sprintf("arena: record %s: %v", name, err))
	}
	plain := fixed
	for _, s := range fields {
		plain = plain && isPlain(s)
	}
	return &RecordType[V]{name: name, fields: fields, build: build, size: size, fixed: fixed, plain: plain}
}

// Name returns the record name
func (t *RecordType[V]) Name() string { return t.name }

// Fields returns the declared field types
func (t *RecordType[V]) Fields() []Sizer { return t.fields }

func (t *RecordType[V]) String() string { return t.name }

// --------------------------------------------------------------------------
// Type Methods (docu see arena.Type)
// --------------------------------------------------------------------------

func (t *RecordType[V]) Strategy() Strategy {
	if t.fixed {
		return Fixed
	}
	return Scan
}

func (t *RecordType[V]) FixedSize() Ptr { return t.size }

func (t *RecordType[V]) Plain() bool { return t.plain }

func (t *RecordType[V]) ReadSize(b []byte) (Ptr, error) {
	if t.fixed {
		return t.size, nil
	}
	return readSizeSeq(b, t.fields)
}

func (t *RecordType[V]) Build(b []byte) ([]byte, V, error) {
	f := &Fields{rest: b}
	v := t.build(f)
	if f.err != nil {
		log.Debugf("record %s rejected: %v", t.name, f.err)
		var zero V
		return nil, zero, f.err
	}
	return f.rest, v, nil
}

func (t *RecordType[V]) UncheckedBuild(b []byte) ([]byte, V) {
	f := &Fields{rest: b, unchecked: true}
	v := t.build(f)
	return f.rest, v
}

// FrozenBuild is UncheckedBuild with every field view frozen
func (t *RecordType[V]) FrozenBuild(b []byte) ([]byte, V) {
	f := &Fields{rest: b, unchecked: true, frozen: true}
	v := t.build(f)
	return f.rest, v
}

// RecordOf plans a record whose fields follow the given plans, in order
func RecordOf(fields ...Imprinter) Imprinter {
	return recordPlan{fields: fields}
}

type recordPlan struct {
	fields []Imprinter
}

func (p recordPlan) ResultSize() (Ptr, error) {
	return sumSizes(p.fields)
}

func (p recordPlan) Imprint(b []byte) error {
	size, err := p.ResultSize()
	if err != nil {
		return err
	}
	if uint64(size) > uint64(len(b)) {
		return undersized(uint64(size), b)
	}
	_, err = imprintSeq(b, p.fields)
	return err
}
