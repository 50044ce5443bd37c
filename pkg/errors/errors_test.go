// Test Type: Unit Test
// Description: Tests for the errors package - structured error codes and wrapping

package errors_test

import (
	"fmt"
	"testing"

	"github.com/globmod/globmod/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrParse, "unterminated string literal")
	require.Error(t, err)
	assert.Equal(t, "[PARSE] unterminated string literal", err.Error())
	assert.Equal(t, errors.ErrParse, errors.GetErrorCode(err))
}

func TestWrap(t *testing.T) {
	t.Run("wraps_and_unwraps", func(t *testing.T) {
		inner := fmt.Errorf("disk gone")
		err := errors.Wrap(inner, errors.ErrManifestWrite, "writing manifest")
		require.Error(t, err)
		assert.Equal(t, "[MANIFEST_WRITE] writing manifest: disk gone", err.Error())
		assert.Equal(t, inner, err.Unwrap())
	})

	t.Run("nil_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "ignored"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "ignored %d", 1))
	})
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrContentGen, "no files match %q", "./icons/*.svg")
	assert.True(t, errors.IsErrorCode(err, errors.ErrContentGen))
	assert.False(t, errors.IsErrorCode(err, errors.ErrParse))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrContentGen))
}

func TestGetErrorCode_NonStructured(t *testing.T) {
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrProjectRoot, "no project root").
		WithDetail("searched", "/tmp/nowhere")
	assert.Equal(t, "/tmp/nowhere", err.Details["searched"])
}
