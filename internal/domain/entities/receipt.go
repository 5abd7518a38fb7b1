package entities

import "time"

// Receipt is kept briefly after a successful transaction so the app can re-open it
type Receipt struct {
	ID            string             `json:"id"`
	AgentID       string             `json:"agentId"`
	BankName      string             `json:"bankName"`
	MaskedAadhaar string             `json:"maskedAadhaar"`
	MaskedMobile  string             `json:"maskedMobile"`
	Result        *TransactionResult `json:"result"`
	IssuedAt      time.Time          `json:"issuedAt"`
}
