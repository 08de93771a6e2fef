package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeCompoundNotFound, "no structure match")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeCompoundNotFound, err.Code)
	assert.Equal(t, "no structure match", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, `[CMP_002] no structure match`, err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeInputEmpty, "query %q is blank", "  ")
	assert.Equal(t, ErrCodeInputEmpty, err.Code)
	assert.Contains(t, err.Message, `"  "`)
}

func TestError_WithDetail(t *testing.T) {
	base := New(ErrCodeNotFound, "not found")
	detailed := base.WithDetail("name=aspirin")

	assert.Equal(t, `[COMMON_003] not found: name=aspirin`, detailed.Error())
	// The receiver is not mutated.
	assert.Empty(t, base.Detail)

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
	assert.Nil(t, nilErr.WithCause(errors.New("y")))
}

func TestError_RendersCause(t *testing.T) {
	cause := New(ErrCodeConfiguration, "generative.api_key is required")
	err := Wrap(cause, ErrCodeConfiguration, "validation failed")

	assert.Equal(t,
		`[COMMON_012] validation failed: [COMMON_012] generative.api_key is required`,
		err.Error())

	withDetail := Wrap(errors.New("dial tcp: refused"), ErrCodeExternalService, "lookup failed").
		WithDetail("name=aspirin")
	assert.Equal(t,
		`[COMMON_011] lookup failed: name=aspirin: dial tcp: refused`,
		withDetail.Error())
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "ignored"))

	cause := fmt.Errorf("connection refused")
	err := Wrap(cause, ErrCodeExternalService, "lookup failed")
	require.NotNil(t, err)
	assert.Equal(t, ErrCodeExternalService, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrap_PreservesCodeForUnknown(t *testing.T) {
	inner := New(ErrCodeDossierParseFailed, "no JSON span")
	wrapped := Wrap(inner, CodeUnknown, "analysis failed")
	assert.Equal(t, ErrCodeDossierParseFailed, wrapped.Code)
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeCompoundNotFound, "missing")
	outer := Wrap(fmt.Errorf("stage: %w", inner), ErrCodeInternal, "pipeline")

	assert.True(t, IsCode(outer, ErrCodeCompoundNotFound))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeDossierParseFailed))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(ErrCodeNotFound, "x")))
	assert.True(t, IsNotFound(New(ErrCodeCompoundNotFound, "x")))
	assert.True(t, IsNotFound(Wrap(New(ErrCodeCompoundNotFound, "x"), ErrCodeInternal, "outer")))
	assert.False(t, IsNotFound(New(ErrCodeInternal, "x")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, ErrCodeGenerativeUpstream, GetCode(New(ErrCodeGenerativeUpstream, "boom")))
	assert.Equal(t, ErrCodeGenerativeUpstream,
		GetCode(fmt.Errorf("outer: %w", New(ErrCodeGenerativeUpstream, "boom"))))
}
