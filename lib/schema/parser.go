package schema

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ValentinKolb/inplace/lib/arena"
)

var (
	// ErrSyntax is returned for expressions that do not follow the type language
	ErrSyntax = errors.New("schema: syntax error")
	// ErrUnknownType is returned for names that are neither builtin nor defined
	ErrUnknownType = errors.New("schema: unknown type")
)

// builtins maps the leaf type names to their kinds
var builtins = map[string]Kind{
	"u8": KindScalar, "i8": KindScalar, "bool": KindScalar,
	"u16": KindScalar, "i16": KindScalar,
	"u32": KindScalar, "i32": KindScalar, "f32": KindScalar,
	"u64": KindScalar, "i64": KindScalar, "f64": KindScalar,
	"char": KindChar, "bytes": KindBytes, "str": KindStr, "unit": KindUnit,
}

// keywords introduce composite types and cannot be used as definition names
var keywords = map[string]bool{"list": true, "record": true, "union": true, "static": true}

// Resolver looks up named definitions while parsing
type Resolver interface {
	Lookup(name string) (*Node, bool)
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

type parser struct {
	src     string
	pos     int
	tok     token
	resolve Resolver
}

// ParseWith parses expr and resolves references with r, which may be nil.
func ParseWith(expr string, r Resolver) (*Node, error) {
	p := &parser{src: expr, resolve: r}
	p.next()
	n, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s after type", p.tok)
	}
	return n, nil
}

// --------------------------------------------------------------------------
// Lexer
// --------------------------------------------------------------------------

func (p *parser) next() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.src[p.pos]
	switch {
	case isLetter(c):
		for p.pos < len(p.src) && (isLetter(p.src[p.pos]) || isDigit(p.src[p.pos])) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	case isDigit(c):
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokNumber, text: p.src[start:p.pos], pos: start}
	default:
		p.pos++
		p.tok = token{kind: tokPunct, text: p.src[start:p.pos], pos: start}
	}
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isLetter(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, p.tok.pos, fmt.Sprintf(format, args...))
}

func (p *parser) is(punct string) bool {
	return p.tok.kind == tokPunct && p.tok.text == punct
}

func (p *parser) expect(punct string) error {
	if !p.is(punct) {
		return p.errorf("expected %q, found %s", punct, p.tok)
	}
	p.next()
	return nil
}

// --------------------------------------------------------------------------
// Grammar
// --------------------------------------------------------------------------

func (p *parser) parseType() (*Node, error) {
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected type, found %s", p.tok)
	}
	name, pos := p.tok.text, p.tok.pos
	p.next()

	switch name {
	case "list":
		if err := p.expect("<"); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
		n := &Node{Kind: KindList, Elem: elem}
		if n.Len, err = p.parseLen(); err != nil {
			return nil, err
		}
		return n, nil
	case "record":
		members, err := p.parseMembers(",")
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindRecord, Members: members}, nil
	case "union", "static":
		members, err := p.parseMembers("|")
		if err != nil {
			return nil, err
		}
		kind := KindUnion
		if name == "static" {
			kind = KindStatic
		}
		return &Node{Kind: kind, Members: members}, nil
	}

	if kind, ok := builtins[name]; ok {
		n := &Node{Kind: kind, Name: name}
		if kind == KindBytes || kind == KindStr {
			var err error
			if n.Len, err = p.parseLen(); err != nil {
				return nil, err
			}
		}
		return n, nil
	}

	if p.resolve != nil {
		if target, ok := p.resolve.Lookup(name); ok {
			return &Node{Kind: KindRef, Name: name, Target: target}, nil
		}
	}
	return nil, fmt.Errorf("%w %q at offset %d", ErrUnknownType, name, pos)
}

// parseMembers parses {name: T <sep> name: T ...}
func (p *parser) parseMembers(sep string) ([]Member, error) {
	if err := p.expect("{"); err != nil {
		return nil, err
	}
	var members []Member
	seen := make(map[string]bool)
	for !p.is("}") {
		if len(members) > 0 {
			if err := p.expect(sep); err != nil {
				return nil, err
			}
		}
		if p.tok.kind != tokIdent {
			return nil, p.errorf("expected member name, found %s", p.tok)
		}
		name := p.tok.text
		if seen[name] {
			return nil, p.errorf("duplicate member %q", name)
		}
		seen[name] = true
		p.next()
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		members = append(members, Member{Name: name, Type: t})
	}
	p.next()
	return members, nil
}

// parseLen parses an optional [n] annotation
func (p *parser) parseLen() (arena.Ptr, error) {
	if !p.is("[") {
		return 0, nil
	}
	p.next()
	if p.tok.kind != tokNumber {
		return 0, p.errorf("expected length, found %s", p.tok)
	}
	n, err := strconv.ParseUint(p.tok.text, 10, 32)
	if err != nil {
		return 0, p.errorf("length %s out of range", p.tok.text)
	}
	p.next()
	if err := p.expect("]"); err != nil {
		return 0, err
	}
	return arena.Ptr(n), nil
}
