package entities

import "github.com/google/uuid"

// CallContext carries per-request partner call inputs explicitly instead of
// through shared header state.
type CallContext struct {
	AgentID     uuid.UUID
	BearerToken string
	Latitude    string
	Longitude   string
	DeviceIP    string
	RequestID   string
}
