package usecases

import (
	"net"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	"aeps-agent.backend/pkg/utils"
)

// DefaultFallbackIP is sent when no device address could be resolved
const DefaultFallbackIP = "0.0.0.0"

var indianMobilePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

var newReferenceID = utils.GenerateUUIDv7

// BuildInput is everything needed to assemble one partner request.
// BiometricPayload must be the value returned by ConsumeForSubmission.
type BuildInput struct {
	Operation        entities.Operation
	Bank             entities.BankSelection
	BiometricPayload string
	Customer         entities.CustomerIdentity
	Amount           *decimal.Decimal
	IPAddress        string
}

// TransactionRequestBuilder validates form input and assembles a TransactionRequest
type TransactionRequestBuilder struct {
	validate   *validator.Validate
	ceiling    decimal.Decimal
	fallbackIP string
}

func NewTransactionRequestBuilder(withdrawalCeiling decimal.Decimal, fallbackIP string) *TransactionRequestBuilder {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("indianmobile", func(fl validator.FieldLevel) bool {
		return indianMobilePattern.MatchString(fl.Field().String())
	})
	if fallbackIP == "" {
		fallbackIP = DefaultFallbackIP
	}
	return &TransactionRequestBuilder{
		validate:   v,
		ceiling:    withdrawalCeiling,
		fallbackIP: fallbackIP,
	}
}

// FallbackIP returns the placeholder used when the device address is unknown
func (b *TransactionRequestBuilder) FallbackIP() string {
	return b.fallbackIP
}

// Build checks every field and returns a *ValidationError listing all failures,
// or a request ready for submission.
func (b *TransactionRequestBuilder) Build(in BuildInput) (*entities.TransactionRequest, error) {
	verr := domainerrors.NewValidationError()

	if !in.Operation.Valid() {
		verr.Add("operation", "unsupported operation")
	}

	if in.Operation.IsCustomerOperation() {
		b.checkVar(verr, "mobile", in.Customer.Mobile, "required,indianmobile")
	}
	b.checkVar(verr, "aadhaar", in.Customer.Aadhaar, "required,len=12,numeric")
	b.checkVar(verr, "bank", in.Bank.BankCode, "required,numeric")

	if in.BiometricPayload == "" {
		verr.Add("biometric", "capture a fingerprint before submitting")
	}

	var amount decimal.NullDecimal
	if in.Operation.RequiresAmount() {
		switch {
		case in.Amount == nil:
			verr.Add("amount", "This field is required")
		case !in.Amount.IsPositive():
			verr.Add("amount", "Value must be greater than 0")
		case !in.Amount.Equal(in.Amount.Truncate(2)):
			verr.Add("amount", "Value must have at most 2 decimal places")
		case in.Amount.GreaterThan(b.ceiling):
			verr.Add("amount", "Value must not exceed "+b.ceiling.StringFixed(2))
		default:
			amount = decimal.NewNullDecimal(*in.Amount)
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	return &entities.TransactionRequest{
		ReferenceID: newReferenceID(),
		Operation:   in.Operation,
		Bank:        in.Bank,
		Biometric:   in.BiometricPayload,
		Customer:    in.Customer,
		Amount:      amount,
		IPAddress:   b.normaliseIP(in.IPAddress),
	}, nil
}

func (b *TransactionRequestBuilder) checkVar(verr *domainerrors.ValidationError, field, value, tag string) {
	err := b.validate.Var(value, tag)
	if err == nil {
		return
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		verr.Add(field, "Invalid value")
		return
	}
	verr.Add(field, fieldErrorMessage(field, fieldErrs[0]))
}

func fieldErrorMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "indianmobile":
		return "must be a 10 digit mobile number starting with 6-9"
	case "len":
		return "must be exactly " + fe.Param() + " digits"
	case "numeric":
		if field == "bank" {
			return "select a bank from the bank list"
		}
		return "must contain digits only"
	default:
		return "Invalid value"
	}
}

func (b *TransactionRequestBuilder) normaliseIP(ip string) string {
	if parsed := net.ParseIP(ip); parsed != nil {
		return parsed.String()
	}
	return b.fallbackIP
}

