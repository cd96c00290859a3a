// Package errors provides standardized error handling for the intake service.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Conversation-core errors (recovered within a turn, never fatal)
	ErrCodeValidationRejected    ErrorCode = "VALIDATION_REJECTED"
	ErrCodeLookupUnavailable     ErrorCode = "LOOKUP_UNAVAILABLE"
	ErrCodeReplyGenerationFailed ErrorCode = "REPLY_GENERATION_FAILED"

	// Infrastructure errors
	ErrCodeConversationNotFound   ErrorCode = "CONVERSATION_NOT_FOUND"
	ErrCodeDatabaseQueryFailed    ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeRequestInvalid         ErrorCode = "REQUEST_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is lets errors.Is match two StandardErrors by code.
func (e *StandardError) Is(target error) bool {
	var std *StandardError
	if errors.As(target, &std) {
		return e.Code == std.Code
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewValidationRejected marks user input that does not fit the current
// state. Message is the user-facing reason; an empty message means the
// question is silently re-asked.
func NewValidationRejected(state, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationRejected,
		Message:   reason,
		Retryable: false,
		Metadata:  map[string]interface{}{"state": state},
		Timestamp: time.Now().UTC(),
	}
}

// NewLookupUnavailable creates an error for a failed vehicle-data lookup.
func NewLookupUnavailable(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLookupUnavailable,
		Message:   "Vehicle lookup service unavailable",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReplyGenerationFailed creates an error for a failed reply-generator call.
func NewReplyGenerationFailed(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReplyGenerationFailed,
		Message:   "Reply generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConversationNotFound creates a non-retryable missing-conversation error.
func NewConversationNotFound(conversationID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConversationNotFound,
		Message:   "Conversation not found",
		Details:   fmt.Sprintf("conversationId: %s", conversationID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseQueryFailed creates a retryable database error.
func NewDatabaseQueryFailed(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseQueryFailed,
		Message:   "Database query failed",
		Details:   fmt.Sprintf("operation: %s, error: %v", operation, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailed creates a retryable notification error.
func NewNotificationSendFailed(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification send failed",
		Details:   fmt.Sprintf("channel: %s, error: %v", channel, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRequestInvalid creates a non-retryable malformed-request error.
func NewRequestInvalid(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRequestInvalid,
		Message:   "Request payload is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Inspection Helpers
// ==========================

// CodeOf extracts the error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var std *StandardError
	if errors.As(err, &std) {
		return std.Code
	}
	return ""
}

// IsValidationRejected reports whether err is a validation rejection.
func IsValidationRejected(err error) bool {
	return CodeOf(err) == ErrCodeValidationRejected
}

// RejectionReason returns the user-facing reason carried by a validation
// rejection. Empty for silent re-asks and for foreign errors.
func RejectionReason(err error) string {
	var std *StandardError
	if errors.As(err, &std) && std.Code == ErrCodeValidationRejected {
		return std.Message
	}
	return ""
}
