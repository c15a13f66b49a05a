package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := fmt.Errorf("yaml: line 3: mapping values are not allowed")
	err := NewParseError("/srv/site/app/config/config.yml", cause)

	assert.True(t, IsParseError(err))
	assert.False(t, IsRecoverable(err))
	assert.Contains(t, err.Error(), "config.yml")
	assert.Contains(t, err.Error(), ErrCodeMalformedSource)
	assert.Equal(t, cause, stderrors.Unwrap(err))
}

func TestErrMissingIdentity(t *testing.T) {
	err := ErrMissingIdentity("pages", false)
	assert.True(t, IsSchemaError(err))
	assert.Contains(t, err.Error(), `"pages"`)
	assert.Contains(t, err.Error(), "neither name nor slug")

	singular := ErrMissingIdentity("pages", true)
	assert.Contains(t, singular.Error(), "neither singular_name nor singular_slug")
}

func TestCacheErrorIsRecoverable(t *testing.T) {
	err := NewCacheError("cache corrupt", fmt.Errorf("unexpected EOF"))
	assert.True(t, IsRecoverable(err))
	assert.False(t, IsParseError(err))
}

func TestErrorIsMatchesTypeAndCode(t *testing.T) {
	a := NewSchemaError(ErrCodeMissingIdentity, "first")
	b := NewSchemaError(ErrCodeMissingIdentity, "second")
	c := NewSchemaError("OTHER", "third")

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWrappedErrorsStayDetectable(t *testing.T) {
	err := fmt.Errorf("resolution failed: %w", NewParseError("config.yml", nil))
	assert.True(t, IsParseError(err))
}
