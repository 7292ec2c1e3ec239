package schema

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"io"
	"strings"
	"text/template"
	"unicode"
)

// ArenaImport is the import path generated code refers to
const ArenaImport = "github.com/ValentinKolb/inplace/lib/arena"

// ErrNameClash is returned by Generate when two generated identifiers would be the same
var ErrNameClash = errors.New("schema: generated name clash")

// genLeaves maps leaf names to the generated view type and descriptor expression
var genLeaves = map[string][2]string{
	"u8": {"arena.Literal[uint8]", "arena.U8"}, "i8": {"arena.Literal[int8]", "arena.I8"},
	"u16": {"arena.Literal[uint16]", "arena.U16"}, "i16": {"arena.Literal[int16]", "arena.I16"},
	"u32": {"arena.Literal[uint32]", "arena.U32"}, "i32": {"arena.Literal[int32]", "arena.I32"},
	"u64": {"arena.Literal[uint64]", "arena.U64"}, "i64": {"arena.Literal[int64]", "arena.I64"},
	"f32": {"arena.Literal[float32]", "arena.F32"}, "f64": {"arena.Literal[float64]", "arena.F64"},
	"bool": {"arena.Literal[bool]", "arena.Bool"}, "char": {"arena.CharLiteral", "arena.Char"},
	"bytes": {"arena.Blob", "arena.Bytes"}, "str": {"arena.Text", "arena.Str"},
	"unit": {"struct{}", "arena.Unit"},
}

type genMember struct {
	Name   string // schema name
	Field  string // Go field name
	View   string // Go view type
	Expr   string // descriptor expression
	Unit   bool
	Freeze bool
}

type genDef struct {
	Name    string
	GoName  string
	Kind    Kind
	Members []genMember
}

var genTemplate = template.Must(template.New("gen").Parse(`// Code generated by inplace gen. DO NOT EDIT.

package {{.Package}}

import "{{.Import}}"
{{range .Defs}}
{{- if eq .Kind.String "record"}}
// {{.GoName}} is a view over the {{.Name}} record.
type {{.GoName}} struct {
{{- range .Members}}
	{{.Field}} {{.View}}
{{- end}}
}

// {{.GoName}}Type describes the {{.Name}} record.
var {{.GoName}}Type = arena.Record("{{.Name}}", func(f *arena.Fields) {{.GoName}} {
	return {{.GoName}}{
{{- range .Members}}
		{{.Field}}: arena.Field(f, {{.Expr}}),
{{- end}}
	}
}{{range .Members}}, {{.Expr}}{{end}})

// Freeze returns a copy of the view that cannot be written through.
func (v {{.GoName}}) Freeze() {{.GoName}} {
{{- range .Members}}{{if .Freeze}}
	v.{{.Field}} = v.{{.Field}}.Freeze()
{{- end}}{{end}}
	return v
}
{{else}}
{{- $def := .}}
// {{.GoName}} is a view over the {{.Name}} union. Tag selects the variant field that is set.
type {{.GoName}} struct {
	Tag int
{{- range .Members}}{{if not .Unit}}
	{{.Field}} {{.View}}
{{- end}}{{end}}
}

// Variant tags of {{.GoName}}.
const (
{{- range $i, $m := .Members}}
	{{$def.GoName}}Tag{{$m.Field}} = {{$i}}
{{- end}}
)

// {{.GoName}}Type describes the {{.Name}} union.
var {{.GoName}}Type = arena.{{if eq .Kind.String "static"}}StaticUnion{{else}}Union{{end}}("{{.Name}}",
{{- range .Members}}
	arena.VariantOf("{{.Name}}", {{.Expr}}, func(p {{.View}}) {{$def.GoName}} {
		return {{$def.GoName}}{Tag: {{$def.GoName}}Tag{{.Field}}{{if not .Unit}}, {{.Field}}: p{{end}}}
	}),
{{- end}}
)

// Freeze returns a copy of the view that cannot be written through.
func (v {{.GoName}}) Freeze() {{.GoName}} {
{{- range .Members}}{{if .Freeze}}
	v.{{.Field}} = v.{{.Field}}.Freeze()
{{- end}}{{end}}
	return v
}
{{end}}
{{- end}}`))

// Generate writes Go source with typed views and descriptors for every record and union among
// defs. Other definitions are inlined where they are referenced. Records and unions used as
// field or variant types have to be named definitions.
func Generate(w io.Writer, pkg string, defs []Definition) error {
	var out []genDef
	for _, d := range defs {
		switch d.Node.Kind {
		case KindRecord, KindUnion, KindStatic:
		default:
			continue
		}
		gd := genDef{Name: d.Name, GoName: goName(d.Name), Kind: d.Node.Kind}
		for _, m := range d.Node.Members {
			view, expr, err := genType(m.Type)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", d.Name, m.Name, err)
			}
			unit := m.Type.Resolved().Kind == KindUnit
			gd.Members = append(gd.Members, genMember{
				Name:   m.Name,
				Field:  goName(m.Name),
				View:   view,
				Expr:   expr,
				Unit:   unit,
				Freeze: !unit,
			})
		}
		out = append(out, gd)
	}
	if err := checkNames(out); err != nil {
		return err
	}

	var buf bytes.Buffer
	err := genTemplate.Execute(&buf, map[string]any{
		"Package": pkg,
		"Import":  ArenaImport,
		"Defs":    out,
	})
	if err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to format generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// checkNames rejects definitions whose generated identifiers collide, at package level or
// within a view struct. Fields named Freeze clash with the generated method, unions reserve Tag.
func checkNames(defs []genDef) error {
	global := make(map[string]string)
	claim := func(ident, owner string) error {
		if prev, ok := global[ident]; ok {
			return fmt.Errorf("%w: %s of %s and %s", ErrNameClash, ident, owner, prev)
		}
		global[ident] = owner
		return nil
	}
	for _, d := range defs {
		if err := claim(d.GoName, d.Name); err != nil {
			return err
		}
		if err := claim(d.GoName+"Type", d.Name); err != nil {
			return err
		}
		fields := map[string]string{"Freeze": "the Freeze method"}
		if d.Kind != KindRecord {
			fields["Tag"] = "the variant tag"
		}
		for _, m := range d.Members {
			if m.Field == "" {
				return fmt.Errorf("%w: %s.%s has no Go name", ErrNameClash, d.Name, m.Name)
			}
			if !m.Unit {
				if prev, ok := fields[m.Field]; ok {
					return fmt.Errorf("%w: %s.%s and %s are both %s", ErrNameClash, d.Name, m.Name, prev, m.Field)
				}
				fields[m.Field] = m.Name
			}
			if d.Kind != KindRecord {
				if err := claim(d.GoName+"Tag"+m.Field, d.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// genType returns the view type and descriptor expression of a field or variant type
func genType(n *Node) (view, expr string, err error) {
	switch n.Kind {
	case KindRef:
		switch n.Target.Kind {
		case KindRecord, KindUnion:
			return goName(n.Name), goName(n.Name) + "Type", nil
		case KindStatic:
			return "arena.Static[" + goName(n.Name) + "]", goName(n.Name) + "Type", nil
		default:
			return genType(n.Target)
		}
	case KindList:
		view, expr, err := genType(n.Elem)
		if err != nil {
			return "", "", err
		}
		return "arena.List[" + view + "]", "arena.ListOf(" + expr + ")", nil
	case KindRecord, KindUnion, KindStatic:
		return "", "", fmt.Errorf("inline %s %s has to be a named definition", n.Kind, n)
	default:
		l, ok := genLeaves[n.Name]
		if !ok {
			return "", "", fmt.Errorf("%w %q", ErrUnknownType, n.Name)
		}
		return l[0], l[1], nil
	}
}

// goName turns a schema name like home_address into an exported Go name like HomeAddress
func goName(name string) string {
	var sb strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
