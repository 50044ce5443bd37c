// Test Type: Unit Test
// Description: Tests for the paths package - cache location policy

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FallbackCacheLocation(t *testing.T) {
	root := t.TempDir()

	p, err := paths.New(paths.Options{ProjectRoot: root})
	require.NoError(t, err)

	assert.Equal(t, root, p.ProjectRoot())
	assert.Equal(t, filepath.Join(root, "node_modules", ".cache", "globmod"), p.CacheRoot())
}

func TestNew_BuildDirCacheLocation(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".build"), 0755))

	p, err := paths.New(paths.Options{ProjectRoot: root})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, ".build", "cache", "globmod"), p.CacheRoot())
}

func TestNew_CustomDirNames(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dist"), 0755))

	p, err := paths.New(paths.Options{ProjectRoot: root, BuildDir: "dist", DepsDir: "deps"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "dist", "cache", "globmod"), p.CacheRoot())

	// without the build dir present, the custom deps dir is used
	other := t.TempDir()
	p, err = paths.New(paths.Options{ProjectRoot: other, BuildDir: "dist", DepsDir: "deps"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(other, "deps", ".cache", "globmod"), p.CacheRoot())
}

func TestNew_MissingRootIsFatal(t *testing.T) {
	_, err := paths.New(paths.Options{ProjectRoot: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRoot))
}

func TestNew_LookupFailureIsFatal(t *testing.T) {
	_, err := paths.New(paths.Options{
		LookupRoot: func() (string, error) {
			return "", errors.New(errors.ErrNotFound, "nothing here")
		},
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRoot))
}

func TestFindRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0644))

	found, err := paths.FindRoot(nested)
	require.NoError(t, err)

	// macOS tempdirs may come back through symlinked parents
	wantInfo, statErr := os.Stat(root)
	require.NoError(t, statErr)
	gotInfo, statErr := os.Stat(found)
	require.NoError(t, statErr)
	assert.True(t, os.SameFile(wantInfo, gotInfo))
}

func TestFindRoot_NotFound(t *testing.T) {
	dir := t.TempDir()

	_, err := paths.FindRoot(dir)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProjectRoot))
}
