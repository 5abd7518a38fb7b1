package repositories

import (
	"context"

	"aeps-agent.backend/internal/domain/entities"
)

// AepsPartner defines the upstream banking partner operations.
// Logical failures are returned as *errors.BusinessRejection.
type AepsPartner interface {
	FetchOnboardingStatus(ctx context.Context, cc entities.CallContext) (*entities.OnboardingStatus, error)
	ListBanks(ctx context.Context, cc entities.CallContext) ([]entities.Bank, error)
	SubmitOnboarding(ctx context.Context, cc entities.CallContext, input *entities.OnboardingInput) (string, error)
	SendEkycOtp(ctx context.Context, cc entities.CallContext) (*entities.EkycOtpResult, error)
	VerifyEkycOtp(ctx context.Context, cc entities.CallContext, input *entities.EkycOtpVerifyInput) (*entities.EkycOtpResult, error)
	SubmitEkycBiometric(ctx context.Context, cc entities.CallContext, input *entities.EkycBiometricInput, pidData string) (string, error)
	SubmitTransaction(ctx context.Context, cc entities.CallContext, req *entities.TransactionRequest) (*entities.TransactionResult, error)
}

// IPResolver resolves the device's public address
type IPResolver interface {
	Resolve(ctx context.Context) (string, error)
}
