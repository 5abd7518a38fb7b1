package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// AttemptOutcome classifies how a submission attempt ended
type AttemptOutcome string

const (
	AttemptSucceeded AttemptOutcome = "SUCCEEDED"
	AttemptRejected  AttemptOutcome = "REJECTED"
	AttemptInvalid   AttemptOutcome = "INVALID"
	AttemptFailed    AttemptOutcome = "FAILED"
)

// TransactionLog is the audit record of one submission attempt.
// Customer identifiers are stored masked or fingerprinted only.
type TransactionLog struct {
	ID                 uuid.UUID           `json:"id"`
	AgentID            uuid.UUID           `json:"agentId"`
	ReferenceID        uuid.UUID           `json:"referenceId"`
	Operation          Operation           `json:"operation"`
	BankCode           string              `json:"bankCode"`
	MaskedMobile       string              `json:"maskedMobile"`
	MaskedAadhaar      string              `json:"maskedAadhaar"`
	AadhaarFingerprint string              `json:"-"`
	Amount             decimal.NullDecimal `json:"amount"`
	Outcome            AttemptOutcome      `json:"outcome"`
	PartnerMessage     null.String         `json:"partnerMessage,omitempty"`
	PartnerReference   null.String         `json:"partnerReference,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
}
