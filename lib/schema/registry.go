package schema

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/ValentinKolb/inplace/lib/arena"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"gopkg.in/yaml.v3"
)

var log = logger.GetLogger("schema")

// ErrDefined is returned when a name is defined twice
var ErrDefined = errors.New("schema: already defined")

// Definition is a named type
type Definition struct {
	Name string
	Node *Node
}

// Registry holds named definitions and caches compiled types by canonical expression. It is safe
// for concurrent use. Definitions can only refer to definitions that exist already, so a
// registry never contains cycles.
type Registry struct {
	defs     *xsync.MapOf[string, *Node]
	compiled *xsync.MapOf[string, arena.Type[Value]]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		defs:     xsync.NewMapOf[string, *Node](),
		compiled: xsync.NewMapOf[string, arena.Type[Value]](),
	}
}

// Default is the registry used by Parse
var Default = NewRegistry()

// Parse parses expr against the default registry
func Parse(expr string) (*Node, error) {
	return Default.Parse(expr)
}

// Lookup returns the definition with the given name
func (r *Registry) Lookup(name string) (*Node, bool) {
	return r.defs.Load(name)
}

// Parse parses expr, resolving references against the registry
func (r *Registry) Parse(expr string) (*Node, error) {
	return ParseWith(expr, r)
}

// Define parses expr and registers it under name
func (r *Registry) Define(name, expr string) error {
	if err := checkName(name); err != nil {
		return err
	}
	n, err := r.Parse(expr)
	if err != nil {
		return fmt.Errorf("definition %s: %w", name, err)
	}
	if n.Kind == KindRecord || n.Kind == KindUnion || n.Kind == KindStatic {
		n.Name = name
	}
	if _, loaded := r.defs.LoadOrStore(name, n); loaded {
		return fmt.Errorf("%w: %s", ErrDefined, name)
	}
	log.Debugf("defined %s = %s", name, n)
	return nil
}

func checkName(name string) error {
	if name == "" || !isLetter(name[0]) {
		return fmt.Errorf("%w: invalid definition name %q", ErrSyntax, name)
	}
	for i := 1; i < len(name); i++ {
		if !isLetter(name[i]) && !isDigit(name[i]) {
			return fmt.Errorf("%w: invalid definition name %q", ErrSyntax, name)
		}
	}
	if _, ok := builtins[name]; ok || keywords[name] {
		return fmt.Errorf("%w: %q is reserved", ErrDefined, name)
	}
	return nil
}

// DefineAll registers a set of definitions that may refer to each other in any order. Names
// whose references never resolve are reported together.
func (r *Registry) DefineAll(defs map[string]string) error {
	pending := make(map[string]string, len(defs))
	for name, expr := range defs {
		pending[name] = expr
	}
	for len(pending) > 0 {
		progress := false
		failed := make(map[string]error)
		for _, name := range sortedKeys(pending) {
			err := r.Define(name, pending[name])
			switch {
			case err == nil:
				delete(pending, name)
				progress = true
			case errors.Is(err, ErrUnknownType):
				failed[name] = err
			default:
				return err
			}
		}
		if !progress {
			errs := make([]error, 0, len(failed))
			for _, name := range sortedKeys(failed) {
				errs = append(errs, failed[name])
			}
			return errors.Join(errs...)
		}
	}
	return nil
}

// LoadFile reads definitions from a YAML file that maps names to expressions:
//
//	point: record{x: i32, y: i32}
//	path: list<point>[4]
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	defs := make(map[string]string)
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("failed to parse schema file: %w", err)
	}
	log.Infof("loading %d definitions from %s", len(defs), path)
	return r.DefineAll(defs)
}

// Definitions returns all definitions sorted by name
func (r *Registry) Definitions() []Definition {
	var defs []Definition
	r.defs.Range(func(name string, n *Node) bool {
		defs = append(defs, Definition{Name: name, Node: n})
		return true
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Compile parses and compiles expr. Compiled types are cached by the canonical form of the
// expression.
func (r *Registry) Compile(expr string) (*Node, arena.Type[Value], error) {
	n, err := r.Parse(expr)
	if err != nil {
		return nil, nil, err
	}
	key := n.String()
	if t, ok := r.compiled.Load(key); ok {
		return n, t, nil
	}
	t, err := n.Compile()
	if err != nil {
		return nil, nil, err
	}
	t, _ = r.compiled.LoadOrStore(key, t)
	return n, t, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
