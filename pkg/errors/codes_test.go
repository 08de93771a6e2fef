package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(ErrCodeInputEmpty))
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeCompoundNotFound))
	assert.Equal(t, http.StatusBadGateway, HTTPStatusForCode(ErrCodeDossierParseFailed))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatusForCode(ErrCodeGenerativeTimeout))
	// Unmapped codes default to 500.
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_001")))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "compound not found", DefaultMessageForCode(ErrCodeCompoundNotFound))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_001")))
}

func TestIsClientServerError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeInputEmpty))
	assert.False(t, IsServerError(ErrCodeInputEmpty))
	assert.True(t, IsServerError(ErrCodeScoringFailed))
	assert.False(t, IsClientError(ErrCodeScoringFailed))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CMP", ModuleForCode(ErrCodeCompoundNotFound))
	assert.Equal(t, "GEN", ModuleForCode(ErrCodeDossierParseFailed))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}
