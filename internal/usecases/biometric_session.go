package usecases

import (
	"sync"
	"time"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
)

// BiometricSession holds at most one fingerprint capture.
//
//	Idle --capture--> Captured --consume--> Consumed --reset--> Idle
//
// A failed capture leaves the session Idle. A second successful capture
// replaces the first; captures never accumulate.
type BiometricSession struct {
	mu      sync.Mutex
	capture *entities.BiometricCapture
	now     func() time.Time
}

// NewBiometricSession creates an idle session
func NewBiometricSession() *BiometricSession {
	return &BiometricSession{now: time.Now}
}

// Capture accepts a device scan result
func (s *BiometricSession) Capture(result entities.DeviceResult) (*entities.BiometricCapture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !result.Success() {
		s.capture = nil
		return nil, &domainerrors.CaptureError{DeviceCode: result.ErrorCode, Message: result.ErrorMessage}
	}
	if result.PidData == "" {
		s.capture = nil
		return nil, &domainerrors.CaptureError{DeviceCode: result.ErrorCode, Message: "device returned an empty PID block"}
	}

	s.capture = &entities.BiometricCapture{
		Payload:    result.PidData,
		CapturedAt: s.now(),
	}
	snapshot := *s.capture
	return &snapshot, nil
}

// ConsumeForSubmission hands out the payload once
func (s *BiometricSession) ConsumeForSubmission() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil || s.capture.Consumed {
		return "", domainerrors.ErrNoBiometricData
	}
	s.capture.Consumed = true
	return s.capture.Payload, nil
}

// Reset drops any held capture
func (s *BiometricSession) Reset() {
	s.mu.Lock()
	s.capture = nil
	s.mu.Unlock()
}

// State reports the lifecycle state
func (s *BiometricSession) State() entities.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.capture == nil:
		return entities.SessionIdle
	case s.capture.Consumed:
		return entities.SessionConsumed
	default:
		return entities.SessionCaptured
	}
}

// CapturedAt returns when the held capture was taken
func (s *BiometricSession) CapturedAt() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return time.Time{}, false
	}
	return s.capture.CapturedAt, true
}

// ExpireBefore drops a capture taken before cutoff and reports whether it did
func (s *BiometricSession) ExpireBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil || !s.capture.CapturedAt.Before(cutoff) {
		return false
	}
	s.capture = nil
	return true
}
