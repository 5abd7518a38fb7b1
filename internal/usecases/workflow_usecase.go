package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	domainRepos "aeps-agent.backend/internal/domain/repositories"
	"aeps-agent.backend/pkg/crypto"
	"aeps-agent.backend/pkg/logger"
	"aeps-agent.backend/pkg/npci"
	"aeps-agent.backend/pkg/utils"
)

const defaultRefreshTimeout = 10 * time.Second

// WorkflowMetrics receives workflow counters
type WorkflowMetrics interface {
	ObserveResolution(state entities.WorkflowState)
	StatusFetchFailed()
	ObserveTransaction(op entities.Operation, outcome entities.AttemptOutcome)
	IPFallbackUsed()
}

type noopMetrics struct{}

func (noopMetrics) ObserveResolution(entities.WorkflowState)                       {}
func (noopMetrics) StatusFetchFailed()                                             {}
func (noopMetrics) ObserveTransaction(entities.Operation, entities.AttemptOutcome) {}
func (noopMetrics) IPFallbackUsed()                                                {}

// MutationOutcome is returned after an onboarding or eKYC call. Workflow is the
// state fetched after the call, whatever the call's result.
type MutationOutcome struct {
	Message      string                   `json:"message,omitempty"`
	Otp          *entities.EkycOtpResult  `json:"otp,omitempty"`
	Workflow     *entities.WorkflowStatus `json:"workflow,omitempty"`
	RefreshError string                   `json:"refreshError,omitempty"`
}

// TransactionHistory is one page of audit records
type TransactionHistory struct {
	Items []*entities.TransactionLog `json:"items"`
	Meta  utils.PaginationMeta       `json:"meta"`
}

// WorkflowUsecase drives the merchant through onboarding, eKYC, daily 2FA
// and AEPS transactions. The next step is always taken from a fresh partner
// status fetch, never from locally assumed success.
type WorkflowUsecase struct {
	partner        domainRepos.AepsPartner
	banks          *BankUsecase
	forms          *FormRegistry
	builder        *TransactionRequestBuilder
	ipResolver     domainRepos.IPResolver
	logRepo        domainRepos.TransactionLogRepository
	receipts       domainRepos.ReceiptStore
	fingerprinter  *crypto.Fingerprinter
	metrics        WorkflowMetrics
	refreshTimeout time.Duration
	now            func() time.Time
}

func NewWorkflowUsecase(
	partner domainRepos.AepsPartner,
	banks *BankUsecase,
	forms *FormRegistry,
	builder *TransactionRequestBuilder,
	ipResolver domainRepos.IPResolver,
	logRepo domainRepos.TransactionLogRepository,
	receipts domainRepos.ReceiptStore,
	fingerprinter *crypto.Fingerprinter,
) *WorkflowUsecase {
	return &WorkflowUsecase{
		partner:        partner,
		banks:          banks,
		forms:          forms,
		builder:        builder,
		ipResolver:     ipResolver,
		logRepo:        logRepo,
		receipts:       receipts,
		fingerprinter:  fingerprinter,
		metrics:        noopMetrics{},
		refreshTimeout: defaultRefreshTimeout,
		now:            time.Now,
	}
}

func (uc *WorkflowUsecase) SetMetrics(m WorkflowMetrics) {
	if m == nil {
		m = noopMetrics{}
	}
	uc.metrics = m
}

func (uc *WorkflowUsecase) SetRefreshTimeout(d time.Duration) {
	if d > 0 {
		uc.refreshTimeout = d
	}
}

// Status fetches the partner status and resolves the current step.
// Fetch failures are returned as *UpstreamStatusError and never resolved.
func (uc *WorkflowUsecase) Status(ctx context.Context, cc entities.CallContext) (*entities.WorkflowStatus, error) {
	status, err := uc.partner.FetchOnboardingStatus(ctx, cc)
	if err == nil && status == nil {
		err = domainerrors.ErrPartnerProtocol
	}
	if err != nil {
		uc.metrics.StatusFetchFailed()
		var upstream *domainerrors.UpstreamStatusError
		if errors.As(err, &upstream) {
			return nil, err
		}
		return nil, &domainerrors.UpstreamStatusError{Op: "fetch onboarding status", Err: err}
	}

	ws := newWorkflowStatus(*status)
	uc.metrics.ObserveResolution(ws.State)
	logger.Debug(ctx, "Resolved workflow state",
		zap.String("state", string(ws.State)),
		zap.Int("code", status.Code),
		zap.String("merchant_status", string(status.MerchantStatus)),
		zap.String("kyc_sub_status", string(status.KycSubStatus)),
		zap.Bool("two_fa_done", status.TwoFaDone),
	)
	return ws, nil
}

// refreshAfterWrite re-fetches the status after a mutating call. It runs even
// when the caller's context was cancelled mid-call.
func (uc *WorkflowUsecase) refreshAfterWrite(ctx context.Context, cc entities.CallContext) (*entities.WorkflowStatus, string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.refreshTimeout)
	defer cancel()

	ws, err := uc.Status(rctx, cc)
	if err != nil {
		logger.Warn(ctx, "Status refresh after write failed", zap.Error(err))
		return nil, err.Error()
	}
	return ws, ""
}

// requireState fetches a fresh status and checks it permits the operation
func (uc *WorkflowUsecase) requireState(ctx context.Context, cc entities.CallContext, operation string, allowed ...entities.WorkflowState) (*entities.WorkflowStatus, error) {
	ws, err := uc.Status(ctx, cc)
	if err != nil {
		return nil, err
	}
	if ws.Terminal {
		return ws, &domainerrors.TerminalStateError{State: string(ws.State)}
	}
	for _, s := range allowed {
		if ws.State == s {
			return ws, nil
		}
	}
	return ws, &domainerrors.WorkflowStateError{Operation: operation, State: string(ws.State)}
}

func allowedStatesFor(op entities.Operation) []entities.WorkflowState {
	if op == entities.OperationTwoFaAuth {
		return []entities.WorkflowState{entities.WorkflowNeeds2FA, entities.WorkflowTransactionReady}
	}
	return []entities.WorkflowState{entities.WorkflowTransactionReady}
}

// Form returns the agent's current form state
func (uc *WorkflowUsecase) Form(agentID uuid.UUID) FormSnapshot {
	return uc.forms.Get(agentID).Snapshot()
}

// SelectBank sets the form bank. The code must be in the partner bank list.
func (uc *WorkflowUsecase) SelectBank(ctx context.Context, cc entities.CallContext, bankCode string) (FormSnapshot, error) {
	selection, err := uc.banks.Lookup(ctx, cc, bankCode)
	if err != nil {
		if errors.Is(err, domainerrors.ErrBankNotListed) {
			verr := domainerrors.NewValidationError()
			verr.Add("bank", "select a bank from the bank list")
			return FormSnapshot{}, verr
		}
		return FormSnapshot{}, err
	}

	form := uc.forms.Get(cc.AgentID)
	form.SelectBank(selection)
	return form.Snapshot(), nil
}

// CaptureBiometric stores a device scan on the agent's form
func (uc *WorkflowUsecase) CaptureBiometric(ctx context.Context, agentID uuid.UUID, result entities.DeviceResult) (FormSnapshot, error) {
	form := uc.forms.Get(agentID)
	if _, err := form.Session().Capture(result); err != nil {
		logger.Warn(ctx, "Biometric capture rejected", zap.String("device_code", result.ErrorCode))
		return form.Snapshot(), err
	}
	return form.Snapshot(), nil
}

// ResetForm clears the bank selection and any biometric capture
func (uc *WorkflowUsecase) ResetForm(agentID uuid.UUID) FormSnapshot {
	form := uc.forms.Get(agentID)
	form.Reset()
	return form.Snapshot()
}

// SubmitTransaction builds and submits one AEPS operation from the agent's form.
//
// The form is fully reset after every attempt, whatever the result. The
// returned outcome carries the latest fetched workflow state even when err is
// non-nil: the gating fetch for pre-flight failures, a fresh refresh once the
// partner has been called.
func (uc *WorkflowUsecase) SubmitTransaction(ctx context.Context, cc entities.CallContext, input entities.TransactionInput) (*entities.TransactionOutcome, error) {
	form := uc.forms.Get(cc.AgentID)
	if !form.TryBegin() {
		return nil, domainerrors.ErrSubmissionInFlight
	}
	defer form.End()
	defer form.Reset()

	customer := entities.CustomerIdentity{Mobile: input.Mobile, Aadhaar: input.Aadhaar}

	if !input.Operation.Valid() {
		verr := domainerrors.NewValidationError()
		verr.Add("operation", "unsupported operation")
		return nil, verr
	}
	gate, err := uc.requireState(ctx, cc, string(input.Operation), allowedStatesFor(input.Operation)...)
	if err != nil {
		if gate == nil {
			return nil, err
		}
		return &entities.TransactionOutcome{Workflow: gate}, err
	}

	// An empty payload is reported by the builder together with the other fields.
	payload, _ := form.Session().ConsumeForSubmission()

	req, err := uc.builder.Build(BuildInput{
		Operation:        input.Operation,
		Bank:             form.Bank(),
		BiometricPayload: payload,
		Customer:         customer,
		Amount:           input.Amount,
		IPAddress:        uc.resolveIP(ctx, cc),
	})
	if err != nil {
		uc.audit(ctx, cc, auditEntry{
			operation: input.Operation,
			bankCode:  form.Bank().BankCode,
			customer:  customer,
			outcome:   entities.AttemptInvalid,
			message:   err.Error(),
		})
		return &entities.TransactionOutcome{Workflow: gate}, err
	}

	result, submitErr := uc.partner.SubmitTransaction(ctx, cc, req)

	outcome := &entities.TransactionOutcome{}
	outcome.Workflow, outcome.RefreshError = uc.refreshAfterWrite(ctx, cc)

	entry := auditEntry{
		referenceID: req.ReferenceID,
		operation:   req.Operation,
		bankCode:    req.Bank.BankCode,
		customer:    customer,
		amount:      req.Amount,
	}

	if submitErr != nil {
		entry.outcome = entities.AttemptFailed
		var rejection *domainerrors.BusinessRejection
		if errors.As(submitErr, &rejection) {
			entry.outcome = entities.AttemptRejected
			entry.message = rejection.Message
		} else {
			entry.message = submitErr.Error()
		}
		uc.audit(ctx, cc, entry)
		logger.Warn(ctx, "AEPS transaction failed",
			zap.String("operation", string(req.Operation)),
			zap.String("reference_id", req.ReferenceID.String()),
			zap.Error(submitErr),
		)
		return outcome, submitErr
	}

	if result.ReferenceID == uuid.Nil {
		result.ReferenceID = req.ReferenceID
	}
	result.Operation = req.Operation
	if result.CompletedAt.IsZero() {
		result.CompletedAt = uc.now()
	}
	if req.Operation == entities.OperationMiniStatement && len(result.RawStatement) > 0 {
		records, skipped := npci.DecodeWithReport(result.RawStatement)
		result.Statement = records
		if len(skipped) > 0 {
			logger.Warn(ctx, "Mini statement lines skipped",
				zap.Int("skipped", len(skipped)),
				zap.Int("decoded", len(records)),
			)
		}
	}
	outcome.Result = result

	entry.outcome = entities.AttemptSucceeded
	entry.message = result.Message
	entry.partnerReference = result.PartnerReference
	uc.audit(ctx, cc, entry)

	if req.Operation.IsCustomerOperation() {
		outcome.ReceiptID = uc.saveReceipt(ctx, cc, req, result)
	}

	logger.Info(ctx, "AEPS transaction completed",
		zap.String("operation", string(req.Operation)),
		zap.String("reference_id", req.ReferenceID.String()),
	)
	return outcome, nil
}

func (uc *WorkflowUsecase) resolveIP(ctx context.Context, cc entities.CallContext) string {
	if cc.DeviceIP != "" {
		return cc.DeviceIP
	}
	if uc.ipResolver != nil {
		ip, err := uc.ipResolver.Resolve(ctx)
		if err == nil && ip != "" {
			return ip
		}
		logger.Warn(ctx, "Device IP resolution failed, using fallback",
			zap.String("fallback", uc.builder.FallbackIP()),
			zap.Error(err),
		)
	}
	uc.metrics.IPFallbackUsed()
	return uc.builder.FallbackIP()
}

type auditEntry struct {
	referenceID      uuid.UUID
	operation        entities.Operation
	bankCode         string
	customer         entities.CustomerIdentity
	amount           decimal.NullDecimal
	outcome          entities.AttemptOutcome
	message          string
	partnerReference null.String
}

// audit records the attempt. Failures are logged and never change the result.
func (uc *WorkflowUsecase) audit(ctx context.Context, cc entities.CallContext, e auditEntry) {
	uc.metrics.ObserveTransaction(e.operation, e.outcome)
	if uc.logRepo == nil {
		return
	}

	entry := &entities.TransactionLog{
		ID:               utils.GenerateUUIDv7(),
		AgentID:          cc.AgentID,
		ReferenceID:      e.referenceID,
		Operation:        e.operation,
		BankCode:         e.bankCode,
		MaskedMobile:     crypto.MaskMobile(e.customer.Mobile),
		MaskedAadhaar:    crypto.MaskAadhaar(e.customer.Aadhaar),
		Amount:           e.amount,
		Outcome:          e.outcome,
		PartnerReference: e.partnerReference,
		CreatedAt:        uc.now(),
	}
	if e.message != "" {
		entry.PartnerMessage = null.StringFrom(e.message)
	}
	if uc.fingerprinter != nil && e.customer.Aadhaar != "" {
		entry.AadhaarFingerprint = uc.fingerprinter.Fingerprint(e.customer.Aadhaar)
	}

	if err := uc.logRepo.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.Error(ctx, "Failed to record transaction attempt", zap.Error(err))
	}
}

func (uc *WorkflowUsecase) saveReceipt(ctx context.Context, cc entities.CallContext, req *entities.TransactionRequest, result *entities.TransactionResult) string {
	if uc.receipts == nil {
		return ""
	}
	receipt := &entities.Receipt{
		ID:            req.ReferenceID.String(),
		AgentID:       cc.AgentID.String(),
		BankName:      req.Bank.BankName,
		MaskedAadhaar: crypto.MaskAadhaar(req.Customer.Aadhaar),
		MaskedMobile:  crypto.MaskMobile(req.Customer.Mobile),
		Result:        result,
		IssuedAt:      uc.now(),
	}
	if err := uc.receipts.Save(context.WithoutCancel(ctx), receipt); err != nil {
		logger.Error(ctx, "Failed to store receipt", zap.Error(err))
		return ""
	}
	return receipt.ID
}

// SubmitOnboarding forwards the merchant onboarding form
func (uc *WorkflowUsecase) SubmitOnboarding(ctx context.Context, cc entities.CallContext, input *entities.OnboardingInput) (*MutationOutcome, error) {
	gate, err := uc.requireState(ctx, cc, "onboarding", entities.WorkflowNeedsOnboarding)
	if err != nil {
		return gateOutcome(gate), err
	}

	message, err := uc.partner.SubmitOnboarding(ctx, cc, input)
	return uc.finishMutation(ctx, cc, "onboarding", &MutationOutcome{Message: message}, err)
}

// SendEkycOtp asks the partner to send the eKYC OTP to the merchant
func (uc *WorkflowUsecase) SendEkycOtp(ctx context.Context, cc entities.CallContext) (*MutationOutcome, error) {
	gate, err := uc.requireState(ctx, cc, "ekycSendOtp", entities.WorkflowNeedsEkyc)
	if err != nil {
		return gateOutcome(gate), err
	}

	otp, err := uc.partner.SendEkycOtp(ctx, cc)
	out := &MutationOutcome{Otp: otp}
	if otp != nil {
		out.Message = otp.Message
	}
	return uc.finishMutation(ctx, cc, "ekycSendOtp", out, err)
}

// VerifyEkycOtp submits the OTP the merchant received
func (uc *WorkflowUsecase) VerifyEkycOtp(ctx context.Context, cc entities.CallContext, input *entities.EkycOtpVerifyInput) (*MutationOutcome, error) {
	gate, err := uc.requireState(ctx, cc, "ekycVerifyOtp", entities.WorkflowNeedsEkyc)
	if err != nil {
		return gateOutcome(gate), err
	}

	otp, err := uc.partner.VerifyEkycOtp(ctx, cc, input)
	out := &MutationOutcome{Otp: otp}
	if otp != nil {
		out.Message = otp.Message
	}
	return uc.finishMutation(ctx, cc, "ekycVerifyOtp", out, err)
}

// SubmitEkycBiometric completes eKYC with the fingerprint held on the agent's
// form. The capture is dropped afterwards whatever the result.
func (uc *WorkflowUsecase) SubmitEkycBiometric(ctx context.Context, cc entities.CallContext, input *entities.EkycBiometricInput) (*MutationOutcome, error) {
	session := uc.forms.Get(cc.AgentID).Session()
	defer session.Reset()

	gate, err := uc.requireState(ctx, cc, "ekycBiometric", entities.WorkflowNeedsEkyc)
	if err != nil {
		return gateOutcome(gate), err
	}
	payload, err := session.ConsumeForSubmission()
	if err != nil {
		return gateOutcome(gate), err
	}

	message, err := uc.partner.SubmitEkycBiometric(ctx, cc, input, payload)
	return uc.finishMutation(ctx, cc, "ekycBiometric", &MutationOutcome{Message: message}, err)
}

// gateOutcome keeps the status fetched for a rejected call, if there was one
func gateOutcome(gate *entities.WorkflowStatus) *MutationOutcome {
	if gate == nil {
		return nil
	}
	return &MutationOutcome{Workflow: gate}
}

func (uc *WorkflowUsecase) finishMutation(ctx context.Context, cc entities.CallContext, operation string, out *MutationOutcome, callErr error) (*MutationOutcome, error) {
	out.Workflow, out.RefreshError = uc.refreshAfterWrite(ctx, cc)
	if callErr != nil {
		logger.Warn(ctx, "Partner call failed", zap.String("operation", operation), zap.Error(callErr))
		return out, callErr
	}
	logger.Info(ctx, "Partner call completed", zap.String("operation", operation))
	return out, nil
}

// History lists the agent's recorded attempts, newest first
func (uc *WorkflowUsecase) History(ctx context.Context, agentID uuid.UUID, page, limit int) (*TransactionHistory, error) {
	params := utils.GetPaginationParams(page, limit)
	items, total, err := uc.logRepo.ListByAgent(ctx, agentID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}
	return &TransactionHistory{
		Items: items,
		Meta:  utils.CalculateMeta(total, params.Page, params.Limit),
	}, nil
}

// Receipt returns a stored receipt owned by the agent
func (uc *WorkflowUsecase) Receipt(ctx context.Context, agentID uuid.UUID, receiptID string) (*entities.Receipt, error) {
	if uc.receipts == nil {
		return nil, domainerrors.NotFound("receipt not found")
	}
	receipt, err := uc.receipts.Get(ctx, agentID.String(), receiptID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.NotFound("receipt not found or expired")
		}
		return nil, domainerrors.InternalError(err)
	}
	return receipt, nil
}
