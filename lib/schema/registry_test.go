package schema

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefine(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define("point", "record{x: i32, y: i32}"))

	n, ok := r.Lookup("point")
	require.True(t, ok)
	assert.Equal(t, "point", n.Name)

	assert.ErrorIs(t, r.Define("point", "u8"), ErrDefined)
	assert.ErrorIs(t, r.Define("u8", "u16"), ErrDefined)
	assert.ErrorIs(t, r.Define("list", "u16"), ErrDefined)
	assert.ErrorIs(t, r.Define("2fast", "u16"), ErrSyntax)
	assert.ErrorIs(t, r.Define("line", "list<pt>"), ErrUnknownType)
}

func TestRegistryDefineAll(t *testing.T) {
	r := NewRegistry()
	err := r.DefineAll(map[string]string{
		"path":  "list<point>",
		"point": "record{x: i32, y: i32}",
		"shape": "union{dot: point | line: path}",
	})
	require.NoError(t, err)

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "path", defs[0].Name)
	assert.Equal(t, "point", defs[1].Name)
	assert.Equal(t, "shape", defs[2].Name)

	err = NewRegistry().DefineAll(map[string]string{
		"a": "list<b>",
		"b": "list<c>",
	})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestRegistryLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	content := "point: record{x: i32, y: i32}\npath: list<point>[4]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r := NewRegistry()
	require.NoError(t, r.LoadFile(path))
	_, ok := r.Lookup("path")
	assert.True(t, ok)

	assert.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("- not\n- a map\n"), 0o644))
	assert.Error(t, NewRegistry().LoadFile(broken))
}

func TestRegistryCompileCache(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Define("point", "record{x: i32, y: i32}"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, typ, err := r.Compile("list< point >")
			assert.NoError(t, err)
			assert.NotNil(t, typ)
		}()
	}
	wg.Wait()

	_, ok := r.compiled.Load("list<point>")
	assert.True(t, ok)
	assert.Equal(t, 1, r.compiled.Size())

	_, _, err := r.Compile("list<nope>")
	assert.ErrorIs(t, err, ErrUnknownType)
}
