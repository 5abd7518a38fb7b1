package usecases

import (
	"aeps-agent.backend/internal/domain/entities"
)

// Partner onboarding codes
const (
	OnboardingCodeSubmitted = 0
	OnboardingCodeOnboarded = 1
	OnboardingCodeReOnboard = 2
)

// ResolveWorkflowState maps one fetched partner status tuple to exactly one
// workflow state. It is total: anything unrecognised resolves to
// WorkflowNeedsOnboarding, the least-privileged step.
//
// Precedence is fixed, first match wins:
//
//	code 0, merchant pending        -> NeedsOnboarding
//	code 0, merchant not pending    -> UnderReview
//	code 2                          -> NeedsOnboarding
//	code 1, KYC pending             -> NeedsEkyc
//	code 1, KYC rejected            -> KycRejected
//	code 1, 2FA not done            -> Needs2FA
//	code 1, 2FA done                -> TransactionReady
//	anything else                   -> NeedsOnboarding
func ResolveWorkflowState(code int, merchantStatus entities.MerchantStatus, kycSubStatus entities.KycSubStatus, twoFaDone bool) entities.WorkflowState {
	switch code {
	case OnboardingCodeSubmitted:
		if merchantStatus == entities.MerchantStatusPending {
			return entities.WorkflowNeedsOnboarding
		}
		return entities.WorkflowUnderReview
	case OnboardingCodeReOnboard:
		return entities.WorkflowNeedsOnboarding
	case OnboardingCodeOnboarded:
		switch kycSubStatus {
		case entities.KycSubStatusPending:
			return entities.WorkflowNeedsEkyc
		case entities.KycSubStatusRejected:
			return entities.WorkflowKycRejected
		}
		if !twoFaDone {
			return entities.WorkflowNeeds2FA
		}
		return entities.WorkflowTransactionReady
	default:
		return entities.WorkflowNeedsOnboarding
	}
}

// ResolveOnboardingStatus resolves a fetched status. A response without a
// merchant record cannot be "under review" and falls back to onboarding.
func ResolveOnboardingStatus(status entities.OnboardingStatus) entities.WorkflowState {
	if status.Code == OnboardingCodeSubmitted && !status.MerchantFound {
		return entities.WorkflowNeedsOnboarding
	}
	return ResolveWorkflowState(status.Code, status.MerchantStatus, status.KycSubStatus, status.TwoFaDone)
}

// ResolveRaw parses raw partner strings before resolving
func ResolveRaw(code int, merchantStatus, kycSubStatus string, twoFaDone bool) entities.WorkflowState {
	return ResolveWorkflowState(code,
		entities.ParseMerchantStatus(merchantStatus),
		entities.ParseKycSubStatus(kycSubStatus),
		twoFaDone,
	)
}

func newWorkflowStatus(status entities.OnboardingStatus) *entities.WorkflowStatus {
	state := ResolveOnboardingStatus(status)
	return &entities.WorkflowStatus{
		State:      state,
		NextAction: state.NextAction(),
		Terminal:   state.Terminal(),
		Onboarding: status,
	}
}
