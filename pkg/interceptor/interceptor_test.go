// Test Type: Unit Test
// Description: Tests for the interceptor package - resolution-hook redirection

package interceptor_test

import (
	"testing"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/globmod/globmod/pkg/interceptor"
	"github.com/globmod/globmod/pkg/manifest"
	"github.com/globmod/globmod/pkg/specifier"
	"github.com/globmod/globmod/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	generated int
	failWith  error
}

func (s *stubResolver) ResolvePath(spec, importerPath string) (string, error) {
	return "/proj/.cache/virtual.js", nil
}

func (s *stubResolver) GenerateContents(path string) (string, error) {
	if s.failWith != nil {
		return "", s.failWith
	}
	s.generated++
	return "export default [];", nil
}

func newInterceptor(t *testing.T) (*interceptor.Interceptor, *stubResolver, *vfs.Registry, *manifest.Manifest) {
	t.Helper()
	res := &stubResolver{}
	registry := vfs.NewRegistry()
	cache := manifest.New(t.TempDir(), nil)
	return interceptor.New(specifier.Default(), res, registry, cache), res, registry, cache
}

func TestIntercept_RedirectsGlobRequests(t *testing.T) {
	ic, _, registry, cache := newInterceptor(t)

	redirect, ok, err := ic.Intercept("glob:./icons/*.svg", "/proj/src/index.ts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/proj/.cache/virtual.js", redirect)

	assert.True(t, registry.Has(redirect))
	paths, err := cache.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{redirect}, paths)
}

func TestIntercept_PassesThroughOrdinaryRequests(t *testing.T) {
	ic, _, registry, _ := newInterceptor(t)

	for _, request := range []string{"./icons/star.svg", "lodash", "/abs/path.js", "globish:./x/*.js"} {
		redirect, ok, err := ic.Intercept(request, "/proj/src/index.ts")
		require.NoError(t, err)
		assert.False(t, ok, "request %q should pass through", request)
		assert.Empty(t, redirect)
	}
	assert.Zero(t, registry.Count())
}

func TestIntercept_GeneratesOncePerPath(t *testing.T) {
	ic, res, _, _ := newInterceptor(t)

	for i := 0; i < 3; i++ {
		_, ok, err := ic.Intercept("glob:./icons/*.svg", "/proj/src/index.ts")
		require.NoError(t, err)
		require.True(t, ok)
	}
	assert.Equal(t, 1, res.generated)
}

func TestIntercept_ContentGenerationFailure(t *testing.T) {
	res := &stubResolver{failWith: errors.New(errors.ErrContentGen, "no files match")}
	registry := vfs.NewRegistry()
	cache := manifest.New(t.TempDir(), nil)
	ic := interceptor.New(specifier.Default(), res, registry, cache)

	_, ok, err := ic.Intercept("glob:./missing/*.js", "/proj/src/index.ts")
	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, errors.IsErrorCode(err, errors.ErrContentGen))
	assert.Zero(t, registry.Count())
}

func TestHook(t *testing.T) {
	ic, _, _, _ := newInterceptor(t)
	hook := ic.Hook()

	redirect, ok, err := hook("glob:./a/*.js", "/proj/src/index.ts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/proj/.cache/virtual.js", redirect)
}
