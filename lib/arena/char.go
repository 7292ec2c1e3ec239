package arena

import (
	"encoding/binary"
	"unicode/utf8"
)

// CharType is the type descriptor of a unicode scalar value stored as a little-endian u32 code
// point.
type CharType struct{}

// Char is the descriptor of the char literal
var Char CharType

const charSize Ptr = 4

func (CharType) Strategy() Strategy { return Fixed }

func (CharType) FixedSize() Ptr { return charSize }

func (CharType) ReadSize([]byte) (Ptr, error) { return charSize, nil }

// Plain is true: an invalid code point is reported by CharLiteral.Read, not by Build.
func (CharType) Plain() bool { return true }

func (CharType) Build(b []byte) ([]byte, CharLiteral, error) {
	left, right, err := Split(b, charSize)
	if err != nil {
		return nil, CharLiteral{}, err
	}
	return right, CharLiteral{b: left}, nil
}

func (CharType) UncheckedBuild(b []byte) ([]byte, CharLiteral) {
	left, right := mustSplit(b, charSize)
	return right, CharLiteral{b: left}
}

func (CharType) ResultSize() (Ptr, error) { return charSize, nil }

func (CharType) Imprint(b []byte) error {
	if len(b) < int(charSize) {
		return undersized(uint64(charSize), b)
	}
	return nil
}

// Value plans a char initialized with r
func (c CharType) Value(r rune) Imprinter {
	return charValue{r: r}
}

func (CharType) String() string { return "char" }

type charValue struct {
	r rune
}

func (v charValue) ResultSize() (Ptr, error) { return charSize, nil }

func (v charValue) Imprint(b []byte) error {
	if err := Char.Imprint(b); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, uint32(v.r))
	return nil
}

// CharLiteral is a view over one encoded char.
type CharLiteral struct {
	b      []byte
	frozen bool
}

// Read decodes the char. ok is false when the stored code point is not a valid unicode scalar
// value (a surrogate or anything above U+10FFFF).
func (c CharLiteral) Read() (r rune, ok bool) {
	cp := binary.LittleEndian.Uint32(c.b)
	if cp > utf8.MaxRune {
		return utf8.RuneError, false
	}
	r = rune(cp)
	if !utf8.ValidRune(r) {
		return utf8.RuneError, false
	}
	return r, true
}

// Write stores the code point of r
func (c CharLiteral) Write(r rune) {
	checkWritable(c.frozen)
	binary.LittleEndian.PutUint32(c.b, uint32(r))
}

func (c CharLiteral) Freeze() CharLiteral {
	c.frozen = true
	return c
}
