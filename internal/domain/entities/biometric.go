package entities

import "time"

// DeviceResult is what the native scanner callback hands over.
// ErrorCode "0" (or empty) means success.
type DeviceResult struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	PidData      string `json:"pidData"`
}

// Success reports whether the device signalled a good scan
func (r DeviceResult) Success() bool {
	return r.ErrorCode == "" || r.ErrorCode == "0"
}

// BiometricCapture is one fingerprint scan; the payload is opaque PID XML
type BiometricCapture struct {
	Payload    string    `json:"-"`
	CapturedAt time.Time `json:"capturedAt"`
	Consumed   bool      `json:"consumed"`
}

// SessionState is the lifecycle state of a biometric session
type SessionState string

const (
	SessionIdle     SessionState = "idle"
	SessionCaptured SessionState = "captured"
	SessionConsumed SessionState = "consumed"
)
