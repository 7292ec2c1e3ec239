package arena

import (
	"unicode/utf8"
)

// readBlobSize returns the size of a length-prefixed byte string including the prefix
func readBlobSize(b []byte) (Ptr, error) {
	n, err := ReadPtr(b)
	if err != nil {
		return 0, err
	}
	return AddPtr(PtrSize, n)
}

// buildBlob splits a length-prefixed byte string off b and returns its payload
func buildBlob(b []byte) (rest, payload []byte, err error) {
	size, err := readBlobSize(b)
	if err != nil {
		return nil, nil, err
	}
	left, right, err := Split(b, size)
	if err != nil {
		return nil, nil, err
	}
	return right, left[PtrSize:], nil
}

func uncheckedBuildBlob(b []byte) (rest, payload []byte) {
	left, right := mustSplit(b, PtrSize+getPtr(b))
	return right, left[PtrSize:]
}

// blobPlan plans a length-prefixed byte string with length n and optional initial content
type blobPlan struct {
	n    Ptr
	init []byte
}

func (p blobPlan) ResultSize() (Ptr, error) {
	return AddPtr(PtrSize, p.n)
}

func (p blobPlan) Imprint(b []byte) error {
	size, err := p.ResultSize()
	if err != nil {
		return err
	}
	if uint64(size) > uint64(len(b)) {
		return undersized(uint64(size), b)
	}
	putPtr(b, p.n)
	copy(b[PtrSize:size], p.init)
	return nil
}

func planOf(p []byte) Imprinter {
	n, err := LenPtr(len(p))
	if err != nil {
		return failedPlan{err: err}
	}
	return blobPlan{n: n, init: p}
}

// failedPlan carries an error found while planning
type failedPlan struct {
	err error
}

func (f failedPlan) ResultSize() (Ptr, error) { return 0, f.err }

func (f failedPlan) Imprint([]byte) error { return f.err }

// --------------------------------------------------------------------------
// Blob
// --------------------------------------------------------------------------

// BlobType is the type descriptor of a length-prefixed byte string.
type BlobType struct{}

// Bytes is the descriptor of the byte string literal
var Bytes BlobType

func (BlobType) Strategy() Strategy { return Scan }

func (BlobType) FixedSize() Ptr { return 0 }

func (BlobType) ReadSize(b []byte) (Ptr, error) { return readBlobSize(b) }

func (BlobType) Build(b []byte) ([]byte, Blob, error) {
	rest, payload, err := buildBlob(b)
	if err != nil {
		return nil, Blob{}, err
	}
	return rest, Blob{b: payload}, nil
}

func (BlobType) UncheckedBuild(b []byte) ([]byte, Blob) {
	rest, payload := uncheckedBuildBlob(b)
	return rest, Blob{b: payload}
}

// WithLen plans a zeroed byte string of length n
func (BlobType) WithLen(n Ptr) Imprinter { return blobPlan{n: n} }

// Value plans a byte string initialized with p
func (BlobType) Value(p []byte) Imprinter { return planOf(p) }

func (BlobType) String() string { return "bytes" }

// Blob is a view over the payload of a length-prefixed byte string.
type Blob struct {
	b      []byte
	frozen bool
}

// Len returns the payload length
func (b Blob) Len() Ptr { return Ptr(len(b.b)) }

// Read returns the payload without copying. The slice aliases the arena, callers must not write
// through it and should use Write instead.
func (b Blob) Read() []byte { return b.b }

// Write replaces the payload. p must have exactly the imprinted length.
func (b Blob) Write(p []byte) error {
	checkWritable(b.frozen)
	if len(p) != len(b.b) {
		return ErrLengthMismatch
	}
	copy(b.b, p)
	return nil
}

func (b Blob) Freeze() Blob {
	b.frozen = true
	return b
}

// --------------------------------------------------------------------------
// Text
// --------------------------------------------------------------------------

// StrType is the type descriptor of a length-prefixed UTF-8 string. The layout is identical to
// BlobType, validity is only checked on Read.
type StrType struct{}

// Str is the descriptor of the string literal
var Str StrType

func (StrType) Strategy() Strategy { return Scan }

func (StrType) FixedSize() Ptr { return 0 }

func (StrType) ReadSize(b []byte) (Ptr, error) { return readBlobSize(b) }

func (StrType) Build(b []byte) ([]byte, Text, error) {
	rest, payload, err := buildBlob(b)
	if err != nil {
		return nil, Text{}, err
	}
	return rest, Text{b: payload}, nil
}

func (StrType) UncheckedBuild(b []byte) ([]byte, Text) {
	rest, payload := uncheckedBuildBlob(b)
	return rest, Text{b: payload}
}

// WithLen plans a zeroed string of n bytes
func (StrType) WithLen(n Ptr) Imprinter { return blobPlan{n: n} }

// Value plans a string initialized with s
func (StrType) Value(s string) Imprinter { return planOf([]byte(s)) }

func (StrType) String() string { return "str" }

// Text is a view over the payload of a length-prefixed string.
type Text struct {
	b      []byte
	frozen bool
}

// Len returns the length in bytes
func (t Text) Len() Ptr { return Ptr(len(t.b)) }

// Read returns a copy of the string. Invalid UTF-8 is reported as ErrInvalidUTF8 and never
// replaced.
func (t Text) Read() (string, error) {
	if !utf8.Valid(t.b) {
		return "", ErrInvalidUTF8
	}
	return string(t.b), nil
}

// Bytes returns the raw payload without copying or validating it
func (t Text) Bytes() []byte { return t.b }

// Write replaces the string. s must have exactly the imprinted length in bytes.
func (t Text) Write(s string) error {
	checkWritable(t.frozen)
	if len(s) != len(t.b) {
		return ErrLengthMismatch
	}
	copy(t.b, s)
	return nil
}

func (t Text) Freeze() Text {
	t.frozen = true
	return t
}
