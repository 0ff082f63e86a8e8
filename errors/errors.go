package errors

import (
	"fmt"
	"net/http"
	"time"
)

// AppError is the error type handlers turn into a JSON error body
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_INTERNAL,
		Message:   "Internal server error",
		Timestamp: time.Now(),
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_ARGUMENT,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_UNAUTHENTICATED,
		Message:   "Authentication required",
		Timestamp: time.Now(),
	}
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_AUTH_INVALID_TOKEN,
		Message:   "Invalid authentication token",
		Timestamp: time.Now(),
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode:  http.StatusUnauthorized,
		Code:      ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:   "Authentication token has expired",
		Timestamp: time.Now(),
	}
}

func ErrPermissionDenied() AppError {
	return AppError{
		HTTPCode:  http.StatusForbidden,
		Code:      ErrorCode_AUTH_PERMISSION_DENIED,
		Message:   "Insufficient permissions",
		Timestamp: time.Now(),
	}
}

func ErrInvalidSignature() AppError {
	return AppError{
		HTTPCode:  http.StatusForbidden,
		Code:      ErrorCode_WEBHOOK_INVALID_SIGNATURE,
		Message:   "Invalid webhook signature",
		Timestamp: time.Now(),
	}
}

// Meeting Errors
func ErrMeetingNotFound(meetingID int64) AppError {
	return AppError{
		HTTPCode:  http.StatusNotFound,
		Code:      ErrorCode_MEETING_NOT_FOUND,
		Message:   "Meeting not found",
		Timestamp: time.Now(),
	}.WithDetail("meeting_id", fmt.Sprintf("%d", meetingID))
}

// Database Errors
func ErrDBConnectionFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusServiceUnavailable,
		Code:      ErrorCode_DB_CONNECTION_FAILED,
		Message:   "Database connection failed",
		Timestamp: time.Now(),
	}
}

// Custom Errors
func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode:  http.StatusBadRequest,
		Code:      ErrorCode_INVALID_PAYLOAD,
		Message:   "Invalid payload",
		Timestamp: time.Now(),
	}
}

func ErrProcessingFailed(err error) AppError {
	return AppError{
		Raw:       err,
		HTTPCode:  http.StatusInternalServerError,
		Code:      ErrorCode_PROCESSING_FAILED,
		Message:   "Processing failed",
		Timestamp: time.Now(),
	}
}
