package usecases_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	"aeps-agent.backend/internal/usecases"
)

func amountPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func validBuildInput(op entities.Operation) usecases.BuildInput {
	return usecases.BuildInput{
		Operation:        op,
		Bank:             entities.BankSelection{BankCode: "607094", BankName: "State Bank of India"},
		BiometricPayload: samplePid,
		Customer:         entities.CustomerIdentity{Mobile: "9876543210", Aadhaar: "123412341234"},
		IPAddress:        "103.21.58.10",
	}
}

func newBuilder() *usecases.TransactionRequestBuilder {
	return usecases.NewTransactionRequestBuilder(decimal.NewFromInt(10000), "")
}

func TestTransactionRequestBuilder_BalanceEnquiry(t *testing.T) {
	req, err := newBuilder().Build(validBuildInput(entities.OperationBalanceEnquiry))
	require.NoError(t, err)
	assert.Equal(t, entities.OperationBalanceEnquiry, req.Operation)
	assert.Equal(t, "607094", req.Bank.BankCode)
	assert.Equal(t, samplePid, req.Biometric)
	assert.Equal(t, "103.21.58.10", req.IPAddress)
	assert.False(t, req.Amount.Valid)
	assert.NotEqual(t, uuid.Nil, req.ReferenceID)
}

func TestTransactionRequestBuilder_AmountIgnoredOutsideWithdrawal(t *testing.T) {
	in := validBuildInput(entities.OperationMiniStatement)
	in.Amount = amountPtr("0")

	req, err := newBuilder().Build(in)
	require.NoError(t, err)
	assert.False(t, req.Amount.Valid)
}

func TestTransactionRequestBuilder_WithdrawalAmountBounds(t *testing.T) {
	tests := []struct {
		name    string
		amount  *decimal.Decimal
		wantErr bool
	}{
		{name: "missing", amount: nil, wantErr: true},
		{name: "zero", amount: amountPtr("0"), wantErr: true},
		{name: "negative", amount: amountPtr("-5"), wantErr: true},
		{name: "above ceiling", amount: amountPtr("10001"), wantErr: true},
		{name: "at ceiling", amount: amountPtr("10000"), wantErr: false},
		{name: "typical", amount: amountPtr("500"), wantErr: false},
		{name: "sub-paisa", amount: amountPtr("0.004"), wantErr: true},
		{name: "three decimals", amount: amountPtr("100.125"), wantErr: true},
		{name: "paisa", amount: amountPtr("0.01"), wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validBuildInput(entities.OperationCashWithdrawal)
			in.Amount = tt.amount

			req, err := newBuilder().Build(in)
			if tt.wantErr {
				var verr *domainerrors.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "amount", verr.FirstField())
				assert.Len(t, verr.Fields, 1)
				return
			}
			require.NoError(t, err)
			assert.True(t, req.Amount.Valid)
			assert.True(t, tt.amount.Equal(req.Amount.Decimal))
		})
	}
}

func TestTransactionRequestBuilder_ReportsEveryField(t *testing.T) {
	in := usecases.BuildInput{
		Operation: entities.OperationCashWithdrawal,
		Customer:  entities.CustomerIdentity{Mobile: "12345", Aadhaar: "1234"},
		Amount:    amountPtr("0"),
	}

	_, err := newBuilder().Build(in)
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.Equal(t, "mobile", verr.FirstField())
	for _, field := range []string{"mobile", "aadhaar", "bank", "biometric", "amount"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.Equal(t, "must be exactly 12 digits", verr.Fields["aadhaar"])
}

func TestTransactionRequestBuilder_CustomerFormats(t *testing.T) {
	tests := []struct {
		name    string
		mobile  string
		aadhaar string
		field   string
	}{
		{name: "mobile starts with 5", mobile: "5876543210", aadhaar: "123412341234", field: "mobile"},
		{name: "mobile too long", mobile: "98765432101", aadhaar: "123412341234", field: "mobile"},
		{name: "aadhaar letters", mobile: "9876543210", aadhaar: "12341234123A", field: "aadhaar"},
		{name: "aadhaar missing", mobile: "9876543210", aadhaar: "", field: "aadhaar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validBuildInput(entities.OperationBalanceEnquiry)
			in.Customer = entities.CustomerIdentity{Mobile: tt.mobile, Aadhaar: tt.aadhaar}

			_, err := newBuilder().Build(in)
			var verr *domainerrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{tt.field}, keys(verr.Fields))
		})
	}
}

func TestTransactionRequestBuilder_TwoFaSkipsCustomerMobile(t *testing.T) {
	in := validBuildInput(entities.OperationTwoFaAuth)
	in.Customer.Mobile = ""

	req, err := newBuilder().Build(in)
	require.NoError(t, err)
	assert.Equal(t, entities.OperationTwoFaAuth, req.Operation)
}

func TestTransactionRequestBuilder_UnknownOperation(t *testing.T) {
	_, err := newBuilder().Build(validBuildInput(entities.Operation("refund")))
	var verr *domainerrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "operation", verr.FirstField())
}

func TestTransactionRequestBuilder_IPFallback(t *testing.T) {
	b := usecases.NewTransactionRequestBuilder(decimal.NewFromInt(10000), "10.10.10.10")
	assert.Equal(t, "10.10.10.10", b.FallbackIP())

	for _, ip := range []string{"", "not-an-ip", "999.1.1.1"} {
		in := validBuildInput(entities.OperationBalanceEnquiry)
		in.IPAddress = ip
		req, err := b.Build(in)
		require.NoError(t, err)
		assert.Equal(t, "10.10.10.10", req.IPAddress)
	}

	assert.Equal(t, usecases.DefaultFallbackIP, newBuilder().FallbackIP())
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
