package schema

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/inplace/lib/arena"
)

// Kind classifies a Node or a Value
type Kind uint8

const (
	KindInvalid Kind = iota
	KindScalar
	KindChar
	KindBytes
	KindStr
	KindUnit
	KindList
	KindRecord
	KindUnion
	KindStatic
	KindRef
)

var kindNames = map[Kind]string{
	KindInvalid: "invalid",
	KindScalar:  "scalar",
	KindChar:    "char",
	KindBytes:   "bytes",
	KindStr:     "str",
	KindUnit:    "unit",
	KindList:    "list",
	KindRecord:  "record",
	KindUnion:   "union",
	KindStatic:  "static",
	KindRef:     "ref",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Member is a named field of a record or a named variant of a union
type Member struct {
	Name string
	Type *Node
}

// Node is one parsed type expression
type Node struct {
	Kind Kind
	// Name is the scalar name for leaves and the definition name for references
	Name string
	// Elem is the element type of a list
	Elem *Node
	// Members are the fields of a record or the variants of a union
	Members []Member
	// Len is the planned length of bytes/str or the planned capacity of a list
	Len arena.Ptr
	// Target is the resolved definition of a reference
	Target *Node
}

// Resolved follows references to the node they point at
func (n *Node) Resolved() *Node {
	for n.Kind == KindRef {
		n = n.Target
	}
	return n
}

// String renders the node in canonical form, parseable by Parse
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Kind {
	case KindScalar, KindChar, KindUnit, KindRef:
		sb.WriteString(n.Name)
	case KindBytes, KindStr:
		sb.WriteString(n.Name)
		n.writeLen(sb)
	case KindList:
		sb.WriteString("list<")
		n.Elem.write(sb)
		sb.WriteString(">")
		n.writeLen(sb)
	case KindRecord, KindUnion, KindStatic:
		sep := " | "
		if n.Kind == KindRecord {
			sep = ", "
		}
		sb.WriteString(n.Kind.String())
		sb.WriteString("{")
		for i, m := range n.Members {
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(m.Name)
			sb.WriteString(": ")
			m.Type.write(sb)
		}
		sb.WriteString("}")
	default:
		sb.WriteString("invalid")
	}
}

func (n *Node) writeLen(sb *strings.Builder) {
	if n.Len > 0 {
		fmt.Fprintf(sb, "[%d]", n.Len)
	}
}

// label is the name used for records and unions in the arena descriptors and in log output
func (n *Node) label(fallback string) string {
	if n.Name != "" {
		return n.Name
	}
	return fallback
}
