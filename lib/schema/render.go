package schema

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette holds the colors of the tree rendering
type palette struct {
	name    *color.Color
	number  *color.Color
	text    *color.Color
	variant *color.Color
	invalid *color.Color
	meta    *color.Color
}

func newPalette(colored bool) palette {
	p := palette{
		name:    color.New(color.FgCyan),
		number:  color.New(color.FgYellow),
		text:    color.New(color.FgGreen),
		variant: color.New(color.FgMagenta, color.Bold),
		invalid: color.New(color.FgRed),
		meta:    color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.name, p.number, p.text, p.variant, p.invalid, p.meta} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render writes v as an indented tree, optionally colored
func Render(w io.Writer, v Value, colored bool) error {
	r := renderer{w: w, p: newPalette(colored)}
	r.value("", v, 0)
	return r.err
}

type renderer struct {
	w   io.Writer
	p   palette
	err error
}

func (r *renderer) line(depth int, format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (r *renderer) label(name string) string {
	if name == "" {
		return ""
	}
	return r.p.name.Sprint(name) + ": "
}

func (r *renderer) value(name string, v Value, depth int) {
	switch x := v.(type) {
	case Scalar:
		r.line(depth, "%s%s %s", r.label(name), r.scalar(x), r.p.meta.Sprint("("+x.Type()+")"))
	case List:
		r.line(depth, "%s%s", r.label(name), r.p.meta.Sprintf("list[%d]", x.Len()))
		for i, item := range x.All() {
			r.value(fmt.Sprintf("[%d]", i), item, depth+1)
		}
	case Record:
		r.line(depth, "%s%s", r.label(name), r.p.meta.Sprint("record"))
		for i := 0; i < x.Len(); i++ {
			r.value(x.Name(i), x.At(i), depth+1)
		}
	case tagged:
		r.line(depth, "%s%s %s", r.label(name), r.p.meta.Sprint(x.Kind().String()), r.p.variant.Sprint(x.Variant()))
		r.value("", x.Value(), depth+1)
	}
}

func (r *renderer) scalar(s Scalar) string {
	v, err := s.Get()
	if err != nil {
		return r.p.invalid.Sprintf("<%v>", err)
	}
	switch x := v.(type) {
	case nil:
		return r.p.meta.Sprint("()")
	case string:
		return r.p.text.Sprintf("%q", x)
	case []byte:
		return r.p.text.Sprint(hex.EncodeToString(x))
	default:
		return r.p.number.Sprint(x)
	}
}

// Export converts v into plain Go values (maps, slices, numbers, strings) for JSON or YAML
// encoding. Records become maps keyed by field name and unions single-entry maps keyed by the
// active variant.
func Export(v Value) (any, error) {
	switch x := v.(type) {
	case Scalar:
		return x.Get()
	case List:
		items := make([]any, 0, x.Len())
		for i, item := range x.All() {
			e, err := Export(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, e)
		}
		return items, nil
	case Record:
		fields := make(map[string]any, x.Len())
		for i := 0; i < x.Len(); i++ {
			e, err := Export(x.At(i))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", x.Name(i), err)
			}
			fields[x.Name(i)] = e
		}
		return fields, nil
	case tagged:
		e, err := Export(x.Value())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", x.Variant(), err)
		}
		return map[string]any{x.Variant(): e}, nil
	default:
		return nil, fmt.Errorf("schema: cannot export %T", v)
	}
}
