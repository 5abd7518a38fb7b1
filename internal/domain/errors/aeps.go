package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError collects every failing field of a pre-flight check.
// It is never sent to the partner.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
	order  []string
}

// NewValidationError returns an empty collector
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a field failure. Only the first message per field is kept.
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; exists {
		return
	}
	e.Fields[field] = message
	e.order = append(e.order, field)
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// FirstField returns the first failing field in check order
func (e *ValidationError) FirstField() string {
	if len(e.order) > 0 {
		return e.order[0]
	}
	// Fields populated directly (e.g. in tests) have no order; fall back to a stable one.
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func (e *ValidationError) Error() string {
	fields := e.order
	if len(fields) != len(e.Fields) {
		fields = make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			fields = append(fields, k)
		}
		sort.Strings(fields)
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// CaptureError is reported by the biometric device callback
type CaptureError struct {
	DeviceCode string
	Message    string
}

func (e *CaptureError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("biometric capture failed (device code %s)", e.DeviceCode)
	}
	return fmt.Sprintf("biometric capture failed (device code %s): %s", e.DeviceCode, e.Message)
}

func (e *CaptureError) Unwrap() error {
	return ErrCaptureFailed
}

// UpstreamStatusError means the status fetch itself failed (auth, network, timeout).
// It never feeds the resolver.
type UpstreamStatusError struct {
	Op  string
	Err error
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamStatusError) Unwrap() error {
	return e.Err
}

func (e *UpstreamStatusError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}

// Retryable is always true: the client offers a manual refresh.
func (e *UpstreamStatusError) Retryable() bool {
	return true
}

// BusinessRejection is a logical failure reported by the partner; Message is shown verbatim.
type BusinessRejection struct {
	Operation    string
	ResponseCode string
	Message      string
}

func (e *BusinessRejection) Error() string {
	return fmt.Sprintf("%s rejected by partner: %s", e.Operation, e.Message)
}

func (e *BusinessRejection) Unwrap() error {
	return ErrBusinessRejection
}

// TerminalStateError is returned for any automated progression out of a terminal state
type TerminalStateError struct {
	State string
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("merchant is in terminal state %s; contact support", e.State)
}

func (e *TerminalStateError) Unwrap() error {
	return ErrTerminalState
}

// WorkflowStateError means the freshly resolved state does not permit the operation
type WorkflowStateError struct {
	Operation string
	State     string
}

func (e *WorkflowStateError) Error() string {
	return fmt.Sprintf("%s not allowed while merchant is in state %s", e.Operation, e.State)
}

func (e *WorkflowStateError) Unwrap() error {
	return ErrWorkflowState
}
