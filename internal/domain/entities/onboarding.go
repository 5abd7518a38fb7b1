package entities

import (
	"strings"
)

// MerchantStatus represents the partner's own onboarding status for the merchant record
type MerchantStatus string

const (
	MerchantStatusPending     MerchantStatus = "pending"
	MerchantStatusUnderReview MerchantStatus = "underReview"
	MerchantStatusApproved    MerchantStatus = "approved"
	MerchantStatusRejected    MerchantStatus = "rejected"
	MerchantStatusUnknown     MerchantStatus = "unknown"
)

// ParseMerchantStatus normalises the partner's merchant.onboard_status string
func ParseMerchantStatus(raw string) MerchantStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return MerchantStatusPending
	case "underreview", "under_review", "under review", "submitted", "in_review":
		return MerchantStatusUnderReview
	case "approved", "active", "success":
		return MerchantStatusApproved
	case "rejected", "declined":
		return MerchantStatusRejected
	default:
		return MerchantStatusUnknown
	}
}

// KycSubStatus represents the partner's response.data.is_approved value
type KycSubStatus string

const (
	KycSubStatusPending  KycSubStatus = "pending"
	KycSubStatusApproved KycSubStatus = "approved"
	KycSubStatusRejected KycSubStatus = "rejected"
	KycSubStatusUnknown  KycSubStatus = "unknown"
)

// ParseKycSubStatus normalises the partner's is_approved string
func ParseKycSubStatus(raw string) KycSubStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return KycSubStatusPending
	case "approved", "accepted":
		return KycSubStatusApproved
	case "rejected":
		return KycSubStatusRejected
	default:
		return KycSubStatusUnknown
	}
}

// OnboardingStatus is derived from one partner status fetch and never persisted
type OnboardingStatus struct {
	Code           int            `json:"code"`
	MerchantStatus MerchantStatus `json:"merchantStatus"`
	KycSubStatus   KycSubStatus   `json:"kycSubStatus"`
	TwoFaDone      bool           `json:"twoFaDone"`
	Message        string         `json:"message,omitempty"`

	// MerchantFound is false when the partner returned no merchant record.
	MerchantFound bool `json:"merchantFound"`
}

// WorkflowState is the single next step the merchant must complete
type WorkflowState string

const (
	WorkflowNeedsOnboarding  WorkflowState = "NeedsOnboarding"
	WorkflowUnderReview      WorkflowState = "UnderReview"
	WorkflowNeedsEkyc        WorkflowState = "NeedsEkyc"
	WorkflowKycRejected      WorkflowState = "KycRejected"
	WorkflowNeeds2FA         WorkflowState = "Needs2FA"
	WorkflowTransactionReady WorkflowState = "TransactionReady"
)

// AllWorkflowStates lists every state the resolver may return
var AllWorkflowStates = []WorkflowState{
	WorkflowNeedsOnboarding,
	WorkflowUnderReview,
	WorkflowNeedsEkyc,
	WorkflowKycRejected,
	WorkflowNeeds2FA,
	WorkflowTransactionReady,
}

// Terminal reports whether no automated transition leaves this state
func (s WorkflowState) Terminal() bool {
	return s == WorkflowKycRejected
}

// AllowsTransactions reports whether customer AEPS operations may be submitted
func (s WorkflowState) AllowsTransactions() bool {
	return s == WorkflowTransactionReady
}

// NextAction is the user-facing instruction for the state
func (s WorkflowState) NextAction() string {
	switch s {
	case WorkflowNeedsOnboarding:
		return "Complete the merchant onboarding form"
	case WorkflowUnderReview:
		return "Your onboarding is under review by the bank partner"
	case WorkflowNeedsEkyc:
		return "Complete eKYC verification"
	case WorkflowKycRejected:
		return "Your KYC was rejected. Please contact support"
	case WorkflowNeeds2FA:
		return "Complete daily biometric authentication"
	case WorkflowTransactionReady:
		return "Ready for AEPS transactions"
	default:
		return ""
	}
}

// WorkflowStatus is returned to the app after every status fetch
type WorkflowStatus struct {
	State      WorkflowState    `json:"state"`
	NextAction string           `json:"nextAction"`
	Terminal   bool             `json:"terminal"`
	Onboarding OnboardingStatus `json:"onboarding"`
}

// OnboardingInput is the merchant onboarding form forwarded to the partner
type OnboardingInput struct {
	MerchantCode string `json:"merchantCode" binding:"required"`
	Mobile       string `json:"mobile" binding:"required,len=10,numeric"`
	Email        string `json:"email" binding:"required,email"`
	FirmName     string `json:"firmName" binding:"required,min=2,max=255"`
	PanNumber    string `json:"panNumber" binding:"required,len=10,alphanum"`
	Pincode      string `json:"pincode" binding:"required,len=6,numeric"`
	Address      string `json:"address" binding:"required"`
}

// EkycOtpVerifyInput carries the OTP the merchant received together with the
// partner references returned by the send-OTP step
type EkycOtpVerifyInput struct {
	Otp           string `json:"otp" binding:"required,min=4,max=8,numeric"`
	PrimaryKeyID  string `json:"primaryKeyId" binding:"required"`
	EncodeFPTxnID string `json:"encodeFpTxnId" binding:"required"`
}

// EkycBiometricInput references the verified OTP step; the fingerprint comes
// from the agent's biometric session
type EkycBiometricInput struct {
	PrimaryKeyID  string `json:"primaryKeyId" binding:"required"`
	EncodeFPTxnID string `json:"encodeFpTxnId" binding:"required"`
}

// EkycOtpResult carries the partner's references needed for the next eKYC step
type EkycOtpResult struct {
	Message       string `json:"message"`
	PrimaryKeyID  string `json:"primaryKeyId,omitempty"`
	EncodeFPTxnID string `json:"encodeFpTxnId,omitempty"`
}
