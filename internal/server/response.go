package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mindpath/internal/session"
)

// Codes that do not come from a session error kind.
const (
	CodeInvalidRequest = "validation_error"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal_error"
)

// APIError is the body of an error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps every error response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the error envelope and aborts the chain.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload with status 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondSessionError maps a session error to its HTTP status.
func respondSessionError(c *gin.Context, err error) {
	status, code := statusFor(err)
	RespondError(c, status, code, err)
}

func statusFor(err error) (int, string) {
	var se *session.Error
	if !errors.As(err, &se) {
		return http.StatusInternalServerError, CodeInternal
	}
	switch se.Kind {
	case session.KindUnknownSession, session.KindUnknownQuestion:
		return http.StatusNotFound, string(se.Kind)
	case session.KindPhase:
		return http.StatusConflict, string(se.Kind)
	case session.KindValidation:
		return http.StatusBadRequest, string(se.Kind)
	case session.KindContentUnavailable:
		return http.StatusServiceUnavailable, string(se.Kind)
	case session.KindAlreadyAnswered:
		// Handlers that allow repeats answer 200 before getting here.
		return http.StatusConflict, string(se.Kind)
	}
	return http.StatusInternalServerError, CodeInternal
}
