package arena

import (
	"errors"
	"fmt"
)

var (
	// ErrUndersized is matched by every *UndersizedError
	ErrUndersized = errors.New("arena: buffer undersized")
	// ErrIntegerOverflow is returned when size arithmetic leaves the range of Ptr
	ErrIntegerOverflow = errors.New("arena: integer overflow")
	// ErrMalformed is matched by every *MalformedError
	ErrMalformed = errors.New("arena: malformed tag")
	// ErrInvalidUTF8 is returned by Text.Read. It is a decode outcome, the bytes themselves are
	// structurally valid.
	ErrInvalidUTF8 = errors.New("arena: invalid utf-8")
	// ErrLengthMismatch is returned when a blob write does not match the imprinted length
	ErrLengthMismatch = errors.New("arena: length mismatch")
	// ErrReadOnly is the panic value of a write through a frozen view
	ErrReadOnly = errors.New("arena: write through read-only view")
	// ErrMoved is the panic value of a use of an AliasGuard after one of its halves was moved out
	ErrMoved = errors.New("arena: alias guard already moved")
	// ErrAliased is returned by an Arena when a lease would overlap a live lease
	ErrAliased = errors.New("arena: overlapping lease")
	// ErrOutside is returned by an Arena for slices that do not lie within its buffer
	ErrOutside = errors.New("arena: slice outside of arena")
	// ErrNotFixed is returned when a fixed-size element type is required
	ErrNotFixed = errors.New("arena: type is not fixed-size")
)

// UndersizedError reports a buffer that is shorter than a computed or declared requirement. The
// numbers are relative to the buffer given to the outermost Build, composites shift the errors of
// their fields, items and variants by the offset those start at.
type UndersizedError struct {
	// Required is the number of bytes that were needed. It is a uint64 because the requirement
	// may itself be computed from an untrusted capacity.
	Required uint64
	// Actual is the length of the buffer that was supplied
	Actual int
}

func (e *UndersizedError) Error() string {
	return fmt.Sprintf("arena: buffer undersized: need %d bytes, have %d", e.Required, e.Actual)
}

// Is reports whether target is ErrUndersized
func (e *UndersizedError) Is(target error) bool {
	return target == ErrUndersized
}

// undersized is a shorthand used all over the package
func undersized(required uint64, b []byte) error {
	return &UndersizedError{Required: required, Actual: len(b)}
}

// shifted returns err with an *UndersizedError moved off bytes further into the buffer
func shifted(err error, off Ptr) error {
	var u *UndersizedError
	if off == 0 || !errors.As(err, &u) {
		return err
	}
	return &UndersizedError{Required: u.Required + uint64(off), Actual: u.Actual + int(off)}
}

// MalformedError reports a union tag outside of the valid variant range.
type MalformedError struct {
	Tag      uint64
	Variants int
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("arena: malformed tag %d (union has %d variants)", e.Tag, e.Variants)
}

// Is reports whether target is ErrMalformed
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}
