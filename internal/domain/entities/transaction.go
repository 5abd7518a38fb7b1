package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

// Operation is an AEPS financial operation
type Operation string

const (
	OperationBalanceEnquiry Operation = "balanceEnquiry"
	OperationCashWithdrawal Operation = "cashWithdrawal"
	OperationMiniStatement  Operation = "miniStatement"
	OperationTwoFaAuth      Operation = "twoFaAuth"
)

// Valid reports whether the operation is known
func (o Operation) Valid() bool {
	switch o {
	case OperationBalanceEnquiry, OperationCashWithdrawal, OperationMiniStatement, OperationTwoFaAuth:
		return true
	}
	return false
}

// IsCustomerOperation reports whether the operation acts on a customer's account
func (o Operation) IsCustomerOperation() bool {
	return o == OperationBalanceEnquiry || o == OperationCashWithdrawal || o == OperationMiniStatement
}

// RequiresAmount reports whether the operation carries an amount
func (o Operation) RequiresAmount() bool {
	return o == OperationCashWithdrawal
}

// CustomerIdentity holds the last-resort customer identifiers
type CustomerIdentity struct {
	Mobile  string `json:"mobile"`
	Aadhaar string `json:"aadhaar"`
}

// TransactionRequest is built fresh per submission and dropped after the call returns
type TransactionRequest struct {
	ReferenceID uuid.UUID           `json:"referenceId"`
	Operation   Operation           `json:"operation"`
	Bank        BankSelection       `json:"bank"`
	Biometric   string              `json:"-"`
	Customer    CustomerIdentity    `json:"-"`
	Amount      decimal.NullDecimal `json:"amount"`
	IPAddress   string              `json:"ipAddress"`
}

// TransactionInput is what the app submits for an operation
type TransactionInput struct {
	Operation Operation        `json:"operation" binding:"required"`
	Mobile    string           `json:"mobile"`
	Aadhaar   string           `json:"aadhaar"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

// TransactionResult is the partner's successful answer
type TransactionResult struct {
	ReferenceID      uuid.UUID               `json:"referenceId"`
	Operation        Operation               `json:"operation"`
	PartnerReference null.String             `json:"partnerReference,omitempty"`
	BankRRN          null.String             `json:"bankRrn,omitempty"`
	Balance          decimal.NullDecimal     `json:"balance"`
	Amount           decimal.NullDecimal     `json:"amount"`
	Message          string                  `json:"message"`
	Statement        []NpciTransactionRecord `json:"statement,omitempty"`
	RawStatement     []string                `json:"-"`
	CompletedAt      time.Time               `json:"completedAt"`
}

// TransactionOutcome is everything the app needs after a submission attempt
type TransactionOutcome struct {
	Result    *TransactionResult `json:"result,omitempty"`
	ReceiptID string             `json:"receiptId,omitempty"`
	Workflow  *WorkflowStatus    `json:"workflow,omitempty"`

	// RefreshError is set when the post-submission status refresh failed.
	RefreshError string `json:"refreshError,omitempty"`
}
