package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"aeps-agent.backend/internal/domain/entities"
)

// Mock AepsPartner
type MockAepsPartner struct {
	mock.Mock
}

func (m *MockAepsPartner) FetchOnboardingStatus(ctx context.Context, cc entities.CallContext) (*entities.OnboardingStatus, error) {
	args := m.Called(ctx, cc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OnboardingStatus), args.Error(1)
}

func (m *MockAepsPartner) ListBanks(ctx context.Context, cc entities.CallContext) ([]entities.Bank, error) {
	args := m.Called(ctx, cc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Bank), args.Error(1)
}

func (m *MockAepsPartner) SubmitOnboarding(ctx context.Context, cc entities.CallContext, input *entities.OnboardingInput) (string, error) {
	args := m.Called(ctx, cc, input)
	return args.String(0), args.Error(1)
}

func (m *MockAepsPartner) SendEkycOtp(ctx context.Context, cc entities.CallContext) (*entities.EkycOtpResult, error) {
	args := m.Called(ctx, cc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EkycOtpResult), args.Error(1)
}

func (m *MockAepsPartner) VerifyEkycOtp(ctx context.Context, cc entities.CallContext, input *entities.EkycOtpVerifyInput) (*entities.EkycOtpResult, error) {
	args := m.Called(ctx, cc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.EkycOtpResult), args.Error(1)
}

func (m *MockAepsPartner) SubmitEkycBiometric(ctx context.Context, cc entities.CallContext, input *entities.EkycBiometricInput, pidData string) (string, error) {
	args := m.Called(ctx, cc, input, pidData)
	return args.String(0), args.Error(1)
}

func (m *MockAepsPartner) SubmitTransaction(ctx context.Context, cc entities.CallContext, req *entities.TransactionRequest) (*entities.TransactionResult, error) {
	args := m.Called(ctx, cc, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransactionResult), args.Error(1)
}

// Mock BankCache
type MockBankCache struct {
	mock.Mock
}

func (m *MockBankCache) Get(ctx context.Context, key string) ([]entities.Bank, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]entities.Bank), args.Bool(1), args.Error(2)
}

func (m *MockBankCache) Set(ctx context.Context, key string, banks []entities.Bank, ttl time.Duration) error {
	args := m.Called(ctx, key, banks, ttl)
	return args.Error(0)
}

func (m *MockBankCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Mock IPResolver
type MockIPResolver struct {
	mock.Mock
}

func (m *MockIPResolver) Resolve(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// Mock TransactionLogRepository
type MockTransactionLogRepository struct {
	mock.Mock
}

func (m *MockTransactionLogRepository) Create(ctx context.Context, log *entities.TransactionLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockTransactionLogRepository) ListByAgent(ctx context.Context, agentID uuid.UUID, limit, offset int) ([]*entities.TransactionLog, int64, error) {
	args := m.Called(ctx, agentID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.TransactionLog), args.Get(1).(int64), args.Error(2)
}

// Mock ReceiptStore
type MockReceiptStore struct {
	mock.Mock
}

func (m *MockReceiptStore) Save(ctx context.Context, receipt *entities.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

func (m *MockReceiptStore) Get(ctx context.Context, agentID, receiptID string) (*entities.Receipt, error) {
	args := m.Called(ctx, agentID, receiptID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Receipt), args.Error(1)
}
