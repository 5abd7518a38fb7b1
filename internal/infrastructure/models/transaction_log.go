package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type TransactionLog struct {
	ID                 uuid.UUID           `gorm:"type:uuid;primaryKey"`
	AgentID            uuid.UUID           `gorm:"type:uuid;not null;index:idx_transaction_logs_agent_created,priority:1"`
	ReferenceID        uuid.UUID           `gorm:"type:uuid;index"`
	Operation          string              `gorm:"type:varchar(32);not null"`
	BankCode           string              `gorm:"type:varchar(16)"`
	MaskedMobile       string              `gorm:"type:varchar(16)"`
	MaskedAadhaar      string              `gorm:"type:varchar(16)"`
	AadhaarFingerprint string              `gorm:"type:varchar(64);index"`
	Amount             decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Outcome            string              `gorm:"type:varchar(16);not null;index"`
	PartnerMessage     null.String         `gorm:"type:text"`
	PartnerReference   null.String         `gorm:"type:varchar(64)"`
	CreatedAt          time.Time           `gorm:"not null;index:idx_transaction_logs_agent_created,priority:2"`
}

func (TransactionLog) TableName() string {
	return "aeps_transaction_logs"
}
