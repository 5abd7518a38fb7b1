package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrTokenExpired        = errors.New("token expired")
	ErrNoBiometricData     = errors.New("no biometric data available for submission")
	ErrCaptureFailed       = errors.New("biometric capture failed")
	ErrUpstreamUnavailable = errors.New("partner status unavailable")
	ErrBusinessRejection   = errors.New("partner rejected the request")
	ErrTerminalState       = errors.New("merchant is in a terminal state")
	ErrWorkflowState       = errors.New("operation not allowed in current workflow state")
	ErrBankNotListed       = errors.New("bank is not in the partner bank list")
	ErrPartnerProtocol     = errors.New("unexpected partner response")
	ErrSubmissionInFlight  = errors.New("a submission is already in progress for this agent")
	ErrPartnerUnavailable  = errors.New("banking partner unavailable")
)

// Error codes returned to clients
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeValidation        = "VALIDATION_FAILED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeInternalError     = "INTERNAL_ERROR"
	CodeCaptureFailed     = "CAPTURE_FAILED"
	CodeNoBiometricData   = "NO_BIOMETRIC_DATA"
	CodeUpstreamStatus    = "UPSTREAM_STATUS_UNAVAILABLE"
	CodeBusinessRejection = "PARTNER_REJECTED"
	CodeTerminalState     = "TERMINAL_STATE"
	CodeWorkflowState     = "WORKFLOW_STATE"
	CodeSubmissionBusy    = "SUBMISSION_IN_PROGRESS"
	CodePartnerFailure    = "PARTNER_UNAVAILABLE"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
