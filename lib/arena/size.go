package arena

// Strategy classifies how the encoded size of a type is determined.
type Strategy uint8

const (
	// Fixed types have the same size for every instance
	Fixed Strategy = iota
	// Scan types carry their size in their bytes
	Scan
)

func (s Strategy) String() string {
	switch s {
	case Fixed:
		return "fixed"
	case Scan:
		return "scan"
	default:
		return "unknown"
	}
}

// Sizer is the size protocol every encodable type implements.
type Sizer interface {
	// Strategy reports whether the size is fixed or has to be scanned
	Strategy() Strategy
	// FixedSize returns the size of every instance. It is only meaningful for Fixed types and
	// cannot fail.
	FixedSize() Ptr
	// ReadSize returns the encoded size of the value at the start of b. For Fixed types it
	// returns FixedSize without looking at b. It fails with ErrIntegerOverflow or an
	// *UndersizedError when b is too short to even read the length-bearing bytes. It does not
	// guarantee that b holds all of the reported bytes, see InBounds.
	ReadSize(b []byte) (Ptr, error)
}

// Plain is implemented by fixed-size types that accept every byte pattern of their size as a
// valid value. Containers skip per-item validation for plain element types.
type Plain interface {
	Plain() bool
}

// InBounds returns the encoded size of the value at the start of b and checks that b actually
// holds that many bytes.
func InBounds(s Sizer, b []byte) (Ptr, error) {
	size, err := s.ReadSize(b)
	if err != nil {
		return 0, err
	}
	if uint64(size) > uint64(len(b)) {
		return 0, undersized(uint64(size), b)
	}
	return size, nil
}

// isPlain reports whether s is a fixed type that declares itself plain
func isPlain(s Sizer) bool {
	if s.Strategy() != Fixed {
		return false
	}
	p, ok := s.(Plain)
	return ok && p.Plain()
}

// fixedSum sums the sizes of fixed sizers. It reports false if one of them is Scan.
func fixedSum(sizers []Sizer) (Ptr, bool, error) {
	var total Ptr
	for _, s := range sizers {
		if s.Strategy() != Fixed {
			return 0, false, nil
		}
		var err error
		if total, err = AddPtr(total, s.FixedSize()); err != nil {
			return 0, true, err
		}
	}
	return total, true, nil
}

// readSizeSeq reads the sizes of consecutive values and returns their total.
func readSizeSeq(b []byte, sizers []Sizer) (Ptr, error) {
	var head Ptr
	for _, s := range sizers {
		rest, err := tail(b, head)
		if err != nil {
			return 0, err
		}
		size, err := s.ReadSize(rest)
		if err != nil {
			return 0, err
		}
		if head, err = AddPtr(head, size); err != nil {
			return 0, err
		}
	}
	return head, nil
}
