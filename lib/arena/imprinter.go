package arena

// Imprinter is the write-planning protocol. ResultSize computes the encoded size of a value
// description before any bytes exist. Imprint writes the static framing (capacities, tags,
// length prefixes) into b and leaves payload bytes as they are.
type Imprinter interface {
	ResultSize() (Ptr, error)
	Imprint(b []byte) error
}

// CreateBuffer allocates a zeroed buffer of exactly ResultSize bytes and imprints it.
func CreateBuffer(im Imprinter) ([]byte, error) {
	size, err := im.ResultSize()
	if err != nil {
		return nil, err
	}
	b := make([]byte, size)
	if err := im.Imprint(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Reserve plans a value of a fixed-size type without any framing. The bytes are left as they
// are, which for a buffer from CreateBuffer means zero.
func Reserve(s Sizer) Imprinter {
	return reserveImprinter{s: s}
}

type reserveImprinter struct {
	s Sizer
}

func (r reserveImprinter) ResultSize() (Ptr, error) {
	if r.s.Strategy() != Fixed {
		return 0, ErrNotFixed
	}
	return r.s.FixedSize(), nil
}

func (r reserveImprinter) Imprint(b []byte) error {
	size, err := r.ResultSize()
	if err != nil {
		return err
	}
	if uint64(size) > uint64(len(b)) {
		return undersized(uint64(size), b)
	}
	return nil
}

// sumSizes adds the planned sizes of several imprinters
func sumSizes(items []Imprinter) (Ptr, error) {
	var total Ptr
	for _, im := range items {
		size, err := im.ResultSize()
		if err != nil {
			return 0, err
		}
		if total, err = AddPtr(total, size); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// imprintSeq imprints consecutive items into b and returns the remaining bytes
func imprintSeq(b []byte, items []Imprinter) ([]byte, error) {
	for _, im := range items {
		size, err := im.ResultSize()
		if err != nil {
			return nil, err
		}
		left, right, err := Split(b, size)
		if err != nil {
			return nil, err
		}
		if err := im.Imprint(left); err != nil {
			return nil, err
		}
		b = right
	}
	return b, nil
}
