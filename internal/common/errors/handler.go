// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrorResponder writes standardized error responses for the HTTP API.
type ErrorResponder struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorResponder(logger Logger) *ErrorResponder {
	return &ErrorResponder{logger: logger}
}

// Respond normalizes any error to a StandardError, maps it to an HTTP
// status, and writes the JSON payload.
func (h *ErrorResponder) Respond(w http.ResponseWriter, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"code":      stdErr.Code,
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(stdErr.Code))
	_ = json.NewEncoder(w).Encode(stdErr)
}

// normalizeError ensures we always have a StandardError
func (h *ErrorResponder) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to its HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeConversationNotFound:
		return http.StatusNotFound
	case ErrCodeRequestInvalid, ErrCodeValidationRejected:
		return http.StatusBadRequest
	case ErrCodeDatabaseQueryFailed, ErrCodeLookupUnavailable,
		ErrCodeReplyGenerationFailed, ErrCodeNotificationSendFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
