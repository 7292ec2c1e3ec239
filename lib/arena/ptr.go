package arena

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// Ptr is the unsigned offset/length type used for capacities, tags and sizes. An arena is
// therefore limited to less than 4 GiB.
type Ptr uint32

const (
	// PtrSize is the encoded size of a Ptr (length prefixes, list capacities)
	PtrSize Ptr = 4
	// MaxPtr is the largest representable size
	MaxPtr Ptr = math.MaxUint32
)

// AddPtr adds two sizes, reporting ErrIntegerOverflow instead of wrapping.
func AddPtr(a, b Ptr) (Ptr, error) {
	sum, carry := bits.Add32(uint32(a), uint32(b), 0)
	if carry != 0 {
		return 0, ErrIntegerOverflow
	}
	return Ptr(sum), nil
}

// MulPtr multiplies two sizes, reporting ErrIntegerOverflow instead of wrapping.
func MulPtr(a, b Ptr) (Ptr, error) {
	hi, lo := bits.Mul32(uint32(a), uint32(b))
	if hi != 0 {
		return 0, ErrIntegerOverflow
	}
	return Ptr(lo), nil
}

// LenPtr converts a Go length into a Ptr.
func LenPtr(n int) (Ptr, error) {
	if n < 0 || uint64(n) > uint64(MaxPtr) {
		return 0, ErrIntegerOverflow
	}
	return Ptr(n), nil
}

// ReadPtr reads a little-endian Ptr from the start of b.
func ReadPtr(b []byte) (Ptr, error) {
	if len(b) < int(PtrSize) {
		return 0, undersized(uint64(PtrSize), b)
	}
	return Ptr(binary.LittleEndian.Uint32(b)), nil
}

func getPtr(b []byte) Ptr {
	return Ptr(binary.LittleEndian.Uint32(b))
}

func putPtr(b []byte, p Ptr) {
	binary.LittleEndian.PutUint32(b, uint32(p))
}

// Split carves b into b[:at] and b[at:]. The capacity of left is capped at at, so appending to it
// can never spill into right. Split is the only place where a sub-range is handed out and it has a
// single failure mode: b is shorter than at.
func Split(b []byte, at Ptr) (left, right []byte, err error) {
	if uint64(at) > uint64(len(b)) {
		return nil, nil, undersized(uint64(at), b)
	}
	return b[:at:at], b[at:], nil
}

// mustSplit is Split for bytes that were already validated
func mustSplit(b []byte, at Ptr) (left, right []byte) {
	return b[:at:at], b[at:]
}

// tail returns b[off:] or an error when off is past the end of b
func tail(b []byte, off Ptr) ([]byte, error) {
	if uint64(off) > uint64(len(b)) {
		return nil, undersized(uint64(off), b)
	}
	return b[off:], nil
}
