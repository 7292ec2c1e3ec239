package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup walks a dotted path from v. Record fields are addressed by name, list items by index and
// union payloads by the name of the active variant:
//
//	people.3.name
//	shape.circle.radius
func Lookup(v Value, path string) (Value, error) {
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			continue
		}
		next, err := step(v, seg)
		if err != nil {
			return nil, fmt.Errorf("schema: path %q: %w", path, err)
		}
		v = next
	}
	return v, nil
}

func step(v Value, seg string) (Value, error) {
	switch x := v.(type) {
	case Record:
		if f, ok := x.Field(seg); ok {
			return f, nil
		}
		return nil, fmt.Errorf("record has no field %q", seg)
	case List:
		i, err := strconv.Atoi(seg)
		if err != nil {
			return nil, fmt.Errorf("list index %q is not a number", seg)
		}
		if i < 0 || i >= x.Len() {
			return nil, fmt.Errorf("list index %d out of range [0:%d]", i, x.Len())
		}
		return x.At(i), nil
	case tagged:
		if x.Variant() != seg {
			return nil, fmt.Errorf("variant %q is not active (active: %q)", seg, x.Variant())
		}
		return x.Value(), nil
	default:
		return nil, fmt.Errorf("cannot descend into %s with %q", v.Kind(), seg)
	}
}

// Set looks up path from v and writes text into the scalar found there
func Set(v Value, path, text string) error {
	target, err := Lookup(v, path)
	if err != nil {
		return err
	}
	s, ok := target.(Scalar)
	if !ok {
		return fmt.Errorf("%w: %s at %q", ErrNotSettable, target.Kind(), path)
	}
	return s.Set(text)
}
