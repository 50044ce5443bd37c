// Test Type: Unit Test
// Description: Tests for the vfs package - in-memory virtual module registry

package vfs_test

import (
	"testing"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/types"
	"github.com/globmod/globmod/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter records WriteModule calls in order.
type fakeWriter struct {
	applied types.BuildContext
	writes  []types.VirtualModule
}

func (w *fakeWriter) Apply(ctx types.BuildContext) error {
	w.applied = ctx
	return nil
}

func (w *fakeWriter) WriteModule(path, contents string) error {
	w.writes = append(w.writes, types.VirtualModule{Path: path, Contents: contents})
	return nil
}

func TestRegistry_Register(t *testing.T) {
	r := vfs.NewRegistry()

	require.NoError(t, r.Register("/proj/a.glob.js", "export default [];"))
	assert.True(t, r.Has("/proj/a.glob.js"))
	assert.Equal(t, 1, r.Count())

	contents, err := r.Get("/proj/a.glob.js")
	require.NoError(t, err)
	assert.Equal(t, "export default [];", contents)
}

func TestRegistry_RegisterIdempotent(t *testing.T) {
	r := vfs.NewRegistry()

	for i := 0; i < 5; i++ {
		require.NoError(t, r.Register("/proj/a.glob.js", "export default [];"))
	}

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, []string{"/proj/a.glob.js"}, r.Paths())
	contents, err := r.Get("/proj/a.glob.js")
	require.NoError(t, err)
	assert.Equal(t, "export default [];", contents)
}

func TestRegistry_EmptyPathRejected(t *testing.T) {
	r := vfs.NewRegistry()

	err := r.Register("", "contents")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRegistry_GetMissing(t *testing.T) {
	r := vfs.NewRegistry()

	_, err := r.Get("/proj/missing.glob.js")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.False(t, r.Has("/proj/missing.glob.js"))
}

func TestRegistry_PathsSorted(t *testing.T) {
	r := vfs.NewRegistry()

	require.NoError(t, r.Register("/proj/c.glob.js", "c"))
	require.NoError(t, r.Register("/proj/a.glob.js", "a"))
	require.NoError(t, r.Register("/proj/b.glob.js", "b"))

	assert.Equal(t, []string{"/proj/a.glob.js", "/proj/b.glob.js", "/proj/c.glob.js"}, r.Paths())
}

func TestRegistry_AttachReplaysExistingModules(t *testing.T) {
	r := vfs.NewRegistry()
	require.NoError(t, r.Register("/proj/b.glob.js", "bb"))
	require.NoError(t, r.Register("/proj/a.glob.js", "aa"))

	w := &fakeWriter{}
	ctx := struct{ name string }{"build"}
	require.NoError(t, r.Attach(w, ctx))

	assert.Equal(t, ctx, w.applied)
	require.Len(t, w.writes, 2)
	assert.Equal(t, "/proj/a.glob.js", w.writes[0].Path)
	assert.Equal(t, "/proj/b.glob.js", w.writes[1].Path)
}

func TestRegistry_ForwardsAfterAttach(t *testing.T) {
	r := vfs.NewRegistry()
	w := &fakeWriter{}
	require.NoError(t, r.Attach(w, nil))

	require.NoError(t, r.Register("/proj/a.glob.js", "aa"))
	require.Len(t, w.writes, 1)
	assert.Equal(t, types.VirtualModule{Path: "/proj/a.glob.js", Contents: "aa"}, w.writes[0])

	// idempotent re-registration does not reach the host again
	require.NoError(t, r.Register("/proj/a.glob.js", "aa"))
	assert.Len(t, w.writes, 1)
}
