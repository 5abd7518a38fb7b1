package entities

import "github.com/shopspring/decimal"

// Direction of a statement entry
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// NpciTransactionRecord is one decoded mini-statement line
type NpciTransactionRecord struct {
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Direction Direction       `json:"direction"`
	Narration string          `json:"narration"`
}
