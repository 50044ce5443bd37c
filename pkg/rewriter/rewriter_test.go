// Test Type: Unit Test
// Description: Tests for the rewriter package - scan, register, persist, splice pipeline

package rewriter_test

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/manifest"
	"github.com/globmod/globmod/pkg/rewriter"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/globmod/globmod/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver derives predictable virtual paths and counts content
// generations.
type stubResolver struct {
	generated int
	failWith  error
}

func (s *stubResolver) ResolvePath(spec, importerPath string) (string, error) {
	cleaned := strings.NewReplacer(":", "_", "/", "_", "*", "_", ".", "_", "[", "_", "]", "_").Replace(spec)
	return filepath.Join("/proj/.cache", cleaned+".js"), nil
}

func (s *stubResolver) GenerateContents(path string) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.generated++
	return fmt.Sprintf("export default [/* %s */];", path), nil
}

func newRewriter(t *testing.T) (*rewriter.Rewriter, *stubResolver, *vfs.Registry, *manifest.Manifest) {
	t.Helper()
	res := &stubResolver{}
	registry := vfs.NewRegistry()
	cache := manifest.New(t.TempDir(), nil)
	rw := rewriter.New(specifier.Default(), res, registry, cache)
	return rw, res, registry, cache
}

func TestRewrite_SingleImport(t *testing.T) {
	rw, res, registry, cache := newRewriter(t)

	input := "import data from 'glob:./fixtures/*.json';\nconsole.log(data);"
	out, err := rw.Rewrite(input, "/proj/src/index.ts")
	require.NoError(t, err)

	vpath, _ := res.ResolvePath("glob:./fixtures/*.json", "/proj/src/index.ts")
	assert.Equal(t, fmt.Sprintf("import data from %q;\nconsole.log(data);", vpath), out)

	contents, err := registry.Get(vpath)
	require.NoError(t, err)
	assert.Contains(t, contents, vpath)

	paths, err := cache.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{vpath}, paths)
}

func TestRewrite_RoundTripTransparency(t *testing.T) {
	rw, _, registry, _ := newRewriter(t)

	tests := []struct {
		name string
		text string
	}{
		{"no_imports", "const x = 1;\nexport default x;\n"},
		{"ordinary_imports", "import a from './a.js';\nexport * from './b.js';\n"},
		{"glob_only_in_comment", "// import x from 'glob:./a/*.js'\nconst y = 1;\n"},
		{"glob_only_in_string", "const s = 'glob:./a/*.js';\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := rw.Rewrite(tt.text, "/proj/src/index.ts")
			require.NoError(t, err)
			assert.Equal(t, tt.text, out)
		})
	}

	assert.Zero(t, registry.Count())
}

func TestRewrite_MultipleSpecifiers(t *testing.T) {
	rw, res, registry, _ := newRewriter(t)

	input := "import a from 'glob:./a/*.js';\n" +
		"const mid = 'untouched';\n" +
		"export { b } from 'glob[files]:./b/*.js';\n" +
		"// trailing comment\n"
	out, err := rw.Rewrite(input, "/proj/src/index.ts")
	require.NoError(t, err)

	va, _ := res.ResolvePath("glob:./a/*.js", "/proj/src/index.ts")
	vb, _ := res.ResolvePath("glob[files]:./b/*.js", "/proj/src/index.ts")
	want := fmt.Sprintf("import a from %q;\n", va) +
		"const mid = 'untouched';\n" +
		fmt.Sprintf("export { b } from %q;\n", vb) +
		"// trailing comment\n"
	assert.Equal(t, want, out)

	assert.Equal(t, 2, registry.Count())
	assert.NotEqual(t, va, vb)
}

func TestRewrite_DiffersOnlyWithinSpans(t *testing.T) {
	rw, _, _, _ := newRewriter(t)

	prefix := "/* header */\nimport a from "
	suffix := ";\nconst tail = `${1 + 1}`;\n"
	input := prefix + "'glob:./a/*.js'" + suffix

	out, err := rw.Rewrite(input, "/proj/src/index.ts")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, prefix))
	assert.True(t, strings.HasSuffix(out, suffix))
}

func TestRewrite_RepeatedSpecifierGeneratesOnce(t *testing.T) {
	rw, res, registry, cache := newRewriter(t)

	input := "import a from 'glob:./a/*.js';\nimport b from 'glob:./a/*.js';\n"
	_, err := rw.Rewrite(input, "/proj/src/index.ts")
	require.NoError(t, err)

	// second occurrence reuses the registered module
	assert.Equal(t, 1, res.generated)
	assert.Equal(t, 1, registry.Count())

	// and rewriting again later is fully idempotent on the cache
	_, err = rw.Rewrite(input, "/proj/src/index.ts")
	require.NoError(t, err)
	paths, err := cache.Paths()
	require.NoError(t, err)
	assert.Len(t, paths, 1)
}

func TestRewrite_ParseErrorPropagates(t *testing.T) {
	rw, _, _, _ := newRewriter(t)

	_, err := rw.Rewrite("import a from 'glob:./a/*.js\n", "/proj/src/bad.ts")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestRewrite_ContentGenerationFailurePropagates(t *testing.T) {
	res := &stubResolver{failWith: errors.New(errors.ErrContentGen, "no files match")}
	registry := vfs.NewRegistry()
	cache := manifest.New(t.TempDir(), nil)
	rw := rewriter.New(specifier.Default(), res, registry, cache)

	_, err := rw.Rewrite("import a from 'glob:./a/*.js';", "/proj/src/index.ts")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrContentGen))
	assert.Zero(t, registry.Count())
}

func TestRewrite_ManifestGainsExactlyOneKey(t *testing.T) {
	rw, _, _, cache := newRewriter(t)

	entries, err := cache.Load()
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = rw.Rewrite("import a from 'glob:./a/*.js';", "/proj/src/index.ts")
	require.NoError(t, err)

	entries, err = cache.Load()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
