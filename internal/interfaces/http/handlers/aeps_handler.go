package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	"aeps-agent.backend/internal/interfaces/http/middleware"
	"aeps-agent.backend/internal/interfaces/http/response"
	"aeps-agent.backend/internal/usecases"
)

// AepsService is the workflow surface the handler drives
type AepsService interface {
	Status(ctx context.Context, cc entities.CallContext) (*entities.WorkflowStatus, error)
	SubmitOnboarding(ctx context.Context, cc entities.CallContext, input *entities.OnboardingInput) (*usecases.MutationOutcome, error)
	SendEkycOtp(ctx context.Context, cc entities.CallContext) (*usecases.MutationOutcome, error)
	VerifyEkycOtp(ctx context.Context, cc entities.CallContext, input *entities.EkycOtpVerifyInput) (*usecases.MutationOutcome, error)
	SubmitEkycBiometric(ctx context.Context, cc entities.CallContext, input *entities.EkycBiometricInput) (*usecases.MutationOutcome, error)
	Form(agentID uuid.UUID) usecases.FormSnapshot
	SelectBank(ctx context.Context, cc entities.CallContext, bankCode string) (usecases.FormSnapshot, error)
	CaptureBiometric(ctx context.Context, agentID uuid.UUID, result entities.DeviceResult) (usecases.FormSnapshot, error)
	ResetForm(agentID uuid.UUID) usecases.FormSnapshot
	SubmitTransaction(ctx context.Context, cc entities.CallContext, input entities.TransactionInput) (*entities.TransactionOutcome, error)
	History(ctx context.Context, agentID uuid.UUID, page, limit int) (*usecases.TransactionHistory, error)
	Receipt(ctx context.Context, agentID uuid.UUID, receiptID string) (*entities.Receipt, error)
}

// BankLister serves the partner bank list
type BankLister interface {
	ListBanks(ctx context.Context, cc entities.CallContext, refresh bool) ([]entities.Bank, error)
}

type AepsHandler struct {
	workflow AepsService
	banks    BankLister
}

func NewAepsHandler(workflow AepsService, banks BankLister) *AepsHandler {
	return &AepsHandler{workflow: workflow, banks: banks}
}

type SelectBankRequest struct {
	BankCode string `json:"bankCode" binding:"required"`
}

type TwoFactorRequest struct {
	Aadhaar string `json:"aadhaar" binding:"required"`
}

func callContext(c *gin.Context) (entities.CallContext, bool) {
	cc, ok := middleware.CallContext(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("unauthorized"))
		return cc, false
	}
	return cc, true
}

// writeMutation answers with the outcome, keeping the refreshed workflow on failures too
func writeMutation(c *gin.Context, out *usecases.MutationOutcome, err error) {
	if err != nil {
		if out == nil {
			response.Error(c, err)
			return
		}
		response.ErrorWithBody(c, err, refreshedStatus(out.Workflow, out.RefreshError))
		return
	}
	response.Success(c, http.StatusOK, out)
}

func refreshedStatus(ws *entities.WorkflowStatus, refreshErr string) gin.H {
	extra := gin.H{}
	if ws != nil {
		extra["workflow"] = ws
	}
	if refreshErr != "" {
		extra["refreshError"] = refreshErr
	}
	return extra
}

// GetStatus resolves the merchant's current workflow state
// GET /api/v1/aeps/status
func (h *AepsHandler) GetStatus(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	status, err := h.workflow.Status(c.Request.Context(), cc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, status)
}

// SubmitOnboarding POST /api/v1/aeps/onboarding
func (h *AepsHandler) SubmitOnboarding(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	var input entities.OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	out, err := h.workflow.SubmitOnboarding(c.Request.Context(), cc, &input)
	writeMutation(c, out, err)
}

// SendEkycOtp POST /api/v1/aeps/ekyc/otp
func (h *AepsHandler) SendEkycOtp(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	out, err := h.workflow.SendEkycOtp(c.Request.Context(), cc)
	writeMutation(c, out, err)
}

// VerifyEkycOtp POST /api/v1/aeps/ekyc/otp/verify
func (h *AepsHandler) VerifyEkycOtp(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	var input entities.EkycOtpVerifyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	out, err := h.workflow.VerifyEkycOtp(c.Request.Context(), cc, &input)
	writeMutation(c, out, err)
}

// SubmitEkycBiometric POST /api/v1/aeps/ekyc/biometric
func (h *AepsHandler) SubmitEkycBiometric(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	var input entities.EkycBiometricInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	out, err := h.workflow.SubmitEkycBiometric(c.Request.Context(), cc, &input)
	writeMutation(c, out, err)
}

// ListBanks returns the partner bank list; refresh=true bypasses the cache
// GET /api/v1/aeps/banks
func (h *AepsHandler) ListBanks(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))
	banks, err := h.banks.ListBanks(c.Request.Context(), cc, refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"banks": banks})
}

// GetForm GET /api/v1/aeps/form
func (h *AepsHandler) GetForm(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.workflow.Form(cc.AgentID))
}

// SelectBank PUT /api/v1/aeps/form/bank
func (h *AepsHandler) SelectBank(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	var req SelectBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	form, err := h.workflow.SelectBank(c.Request.Context(), cc, req.BankCode)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, form)
}

// CaptureBiometric stores the scanner result on the agent's form
// POST /api/v1/aeps/form/biometric
func (h *AepsHandler) CaptureBiometric(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	var result entities.DeviceResult
	if err := c.ShouldBindJSON(&result); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	form, err := h.workflow.CaptureBiometric(c.Request.Context(), cc.AgentID, result)
	if err != nil {
		response.ErrorWithBody(c, err, gin.H{"form": form})
		return
	}
	response.Success(c, http.StatusOK, form)
}

// ResetForm DELETE /api/v1/aeps/form
func (h *AepsHandler) ResetForm(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, h.workflow.ResetForm(cc.AgentID))
}

// SubmitTwoFactor runs the daily merchant authentication
// POST /api/v1/aeps/two-fa
func (h *AepsHandler) SubmitTwoFactor(c *gin.Context) {
	var req TwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.submit(c, entities.TransactionInput{Operation: entities.OperationTwoFaAuth, Aadhaar: req.Aadhaar})
}

// SubmitTransaction POST /api/v1/aeps/transactions
func (h *AepsHandler) SubmitTransaction(c *gin.Context) {
	var input entities.TransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	h.submit(c, input)
}

func (h *AepsHandler) submit(c *gin.Context, input entities.TransactionInput) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	outcome, err := h.workflow.SubmitTransaction(c.Request.Context(), cc, input)
	if err != nil {
		if outcome == nil {
			response.Error(c, err)
			return
		}
		response.ErrorWithBody(c, err, refreshedStatus(outcome.Workflow, outcome.RefreshError))
		return
	}
	response.Success(c, http.StatusOK, outcome)
}

// ListTransactions returns the agent's audited attempts
// GET /api/v1/aeps/transactions
func (h *AepsHandler) ListTransactions(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	history, err := h.workflow.History(c.Request.Context(), cc.AgentID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}

// GetReceipt GET /api/v1/aeps/receipts/:id
func (h *AepsHandler) GetReceipt(c *gin.Context) {
	cc, ok := callContext(c)
	if !ok {
		return
	}

	receiptID := c.Param("id")
	if _, err := uuid.Parse(receiptID); err != nil {
		response.Error(c, domainerrors.BadRequest("invalid receipt ID"))
		return
	}

	receipt, err := h.workflow.Receipt(c.Request.Context(), cc.AgentID, receiptID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, receipt)
}
