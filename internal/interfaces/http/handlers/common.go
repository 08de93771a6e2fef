// Package handlers implements the REST endpoints of the analysis API.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/PharmaLens/internal/interfaces/http/middleware"
	apperrors "github.com/turtacn/PharmaLens/pkg/errors"
)

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// respondError maps an application error onto its HTTP status and the
// ErrorResponse body.  Unknown errors become COMMON_001.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown || code == apperrors.CodeOK {
		code = apperrors.ErrCodeInternal
	}

	message := apperrors.DefaultMessageForCode(code)
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	c.AbortWithStatusJSON(apperrors.HTTPStatusForCode(code), ErrorResponse{
		Code:      string(code),
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

// respondValidation rejects a malformed request body with COMMON_002.
func respondValidation(c *gin.Context, detail string) {
	respondError(c, apperrors.New(apperrors.ErrCodeBadRequest, detail))
}
