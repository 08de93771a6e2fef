package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeExternalService    ErrorCode = "COMMON_011"
	ErrCodeConfiguration      ErrorCode = "COMMON_012"
)

// Short aliases used across the codebase.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeRateLimit    = ErrCodeTooManyRequests
	CodeUnknown      = ErrorCode("")
	CodeOK           = ErrorCode("OK")
)

// Compound Resolution Error Codes
const (
	ErrCodeInputEmpty          ErrorCode = "CMP_001"
	ErrCodeCompoundNotFound    ErrorCode = "CMP_002"
	ErrCodeStructureFetchError ErrorCode = "CMP_003"
	ErrCodeConformerMalformed  ErrorCode = "CMP_004"
)

// Generative Analysis Error Codes
const (
	ErrCodeGenerativeUpstream      ErrorCode = "GEN_001"
	ErrCodeDossierParseFailed      ErrorCode = "GEN_002"
	ErrCodeGenerativeNotConfigured ErrorCode = "GEN_003"
	ErrCodeGenerativeTimeout       ErrorCode = "GEN_004"
)

// Validation Source Error Codes
const (
	ErrCodeVocabularyUnavailable ErrorCode = "VAL_001"
	ErrCodeRegulatoryUnavailable ErrorCode = "VAL_002"
)

// Scoring Error Codes
const (
	ErrCodeDescriptorsInvalid ErrorCode = "TOX_001"
	ErrCodeScoringFailed      ErrorCode = "TOX_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeConfiguration:      http.StatusInternalServerError,

	ErrCodeInputEmpty:          http.StatusBadRequest,
	ErrCodeCompoundNotFound:    http.StatusNotFound,
	ErrCodeStructureFetchError: http.StatusBadGateway,
	ErrCodeConformerMalformed:  http.StatusBadGateway,

	ErrCodeGenerativeUpstream:      http.StatusBadGateway,
	ErrCodeDossierParseFailed:      http.StatusBadGateway,
	ErrCodeGenerativeNotConfigured: http.StatusInternalServerError,
	ErrCodeGenerativeTimeout:       http.StatusGatewayTimeout,

	ErrCodeVocabularyUnavailable: http.StatusBadGateway,
	ErrCodeRegulatoryUnavailable: http.StatusBadGateway,

	ErrCodeDescriptorsInvalid: http.StatusUnprocessableEntity,
	ErrCodeScoringFailed:      http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeConfiguration:      "invalid configuration",

	ErrCodeInputEmpty:          "query is empty",
	ErrCodeCompoundNotFound:    "compound not found",
	ErrCodeStructureFetchError: "failed to fetch structure data",
	ErrCodeConformerMalformed:  "3D conformer record is inconsistent",

	ErrCodeGenerativeUpstream:      "generative analysis failed",
	ErrCodeDossierParseFailed:      "no parseable JSON in generative output",
	ErrCodeGenerativeNotConfigured: "generative client is not configured",
	ErrCodeGenerativeTimeout:       "generative analysis timed out",

	ErrCodeVocabularyUnavailable: "drug vocabulary lookup failed",
	ErrCodeRegulatoryUnavailable: "regulatory label lookup failed",

	ErrCodeDescriptorsInvalid: "molecular descriptors are invalid",
	ErrCodeScoringFailed:      "descriptor scoring failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
