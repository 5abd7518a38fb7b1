package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"aeps-agent.backend/internal/domain/entities"
	domainerrors "aeps-agent.backend/internal/domain/errors"
	"aeps-agent.backend/pkg/logger"
)

const (
	pathStatus          = "/aeps/merchant/status"
	pathBanks           = "/aeps/banks"
	pathOnboard         = "/aeps/merchant/onboard"
	pathEkycSendOtp     = "/aeps/ekyc/send-otp"
	pathEkycVerifyOtp   = "/aeps/ekyc/verify-otp"
	pathEkycBiometric   = "/aeps/ekyc/biometric"
	pathBalanceEnquiry  = "/aeps/balance-enquiry"
	pathCashWithdrawal  = "/aeps/cash-withdrawal"
	pathMiniStatement   = "/aeps/mini-statement"
	pathTwoFactorAuth   = "/aeps/two-fa"
	accessModeSite      = "SITE"
	maxResponseBodySize = 1 << 20
)

// CallObserver receives one sample per partner round trip
type CallObserver interface {
	ObservePartnerCall(endpoint string, status int, latency time.Duration)
}

// Client talks to the AEPS banking partner over HTTPS+JSON
type Client struct {
	baseURL    string
	bankID     string
	httpClient *http.Client
	envelope   *envelope
	observer   CallObserver
}

func NewClient(baseURL string, timeout time.Duration, bankID, encryptionKeyHex string) (*Client, error) {
	env, err := newEnvelope(encryptionKeyHex)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		bankID:     bankID,
		httpClient: &http.Client{Timeout: timeout},
		envelope:   env,
	}, nil
}

// SetObserver attaches a latency observer
func (c *Client) SetObserver(o CallObserver) {
	c.observer = o
}

// apiResponse is the partner's common reply shape
type apiResponse struct {
	Status       bool            `json:"status"`
	ResponseCode string          `json:"response_code"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
}

type statusResponse struct {
	Status   bool   `json:"status"`
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Merchant *struct {
		OnboardStatus string `json:"onboard_status"`
	} `json:"merchant"`
	Response struct {
		Data struct {
			IsApproved string `json:"is_approved"`
		} `json:"data"`
	} `json:"response"`
	IsTwoFaDone bool `json:"isTwoFaDone"`
}

type bankData struct {
	IIN      string `json:"iinno"`
	BankName string `json:"bankName"`
}

type otpData struct {
	PrimaryKeyID  string `json:"primaryKeyId"`
	EncodeFPTxnID string `json:"encodeFPTxnId"`
}

type transactionBody struct {
	ReferenceID    string `json:"reference_id"`
	BankIIN        string `json:"bank_iin"`
	AccessModeType string `json:"access_mode_type"`
	PidData        string `json:"pid_data"`
	IPAddress      string `json:"ip_address"`
	Mobile         string `json:"mobile,omitempty"`
	Aadhaar        string `json:"aadhaar"`
	Amount         string `json:"amount,omitempty"`
}

type transactionData struct {
	PartnerRef    string              `json:"partner_ref"`
	BankRRN       string              `json:"bank_rrn"`
	Balance       decimal.NullDecimal `json:"balance"`
	Amount        decimal.NullDecimal `json:"amount"`
	MiniStatement []string            `json:"mini_statement"`
}

type onboardingBody struct {
	MerchantCode string `json:"merchant_code"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	FirmName     string `json:"firm_name"`
	PanNumber    string `json:"pan_number"`
	Pincode      string `json:"pincode"`
	Address      string `json:"address"`
}

type ekycVerifyBody struct {
	Otp           string `json:"otp"`
	PrimaryKeyID  string `json:"primaryKeyId"`
	EncodeFPTxnID string `json:"encodeFPTxnId"`
}

type ekycBiometricBody struct {
	PrimaryKeyID   string `json:"primaryKeyId"`
	EncodeFPTxnID  string `json:"encodeFPTxnId"`
	AccessModeType string `json:"access_mode_type"`
	PidData        string `json:"pid_data"`
}

func (c *Client) FetchOnboardingStatus(ctx context.Context, cc entities.CallContext) (*entities.OnboardingStatus, error) {
	raw, err := c.do(ctx, cc, http.MethodGet, pathStatus, nil)
	if err != nil {
		return nil, err
	}

	var res statusResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: status decode: %v", domainerrors.ErrPartnerProtocol, err)
	}

	status := &entities.OnboardingStatus{
		Code:         res.Code,
		KycSubStatus: entities.ParseKycSubStatus(res.Response.Data.IsApproved),
		TwoFaDone:    res.IsTwoFaDone,
		Message:      res.Message,
	}
	if res.Merchant != nil {
		status.MerchantFound = true
		status.MerchantStatus = entities.ParseMerchantStatus(res.Merchant.OnboardStatus)
	} else {
		status.MerchantStatus = entities.MerchantStatusUnknown
	}
	return status, nil
}

func (c *Client) ListBanks(ctx context.Context, cc entities.CallContext) ([]entities.Bank, error) {
	res, err := c.call(ctx, cc, http.MethodGet, pathBanks, "bankList", nil)
	if err != nil {
		return nil, err
	}

	var data []bankData
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: bank list decode: %v", domainerrors.ErrPartnerProtocol, err)
	}
	banks := make([]entities.Bank, 0, len(data))
	for _, b := range data {
		if b.IIN == "" {
			continue
		}
		banks = append(banks, entities.Bank{IIN: b.IIN, Name: strings.TrimSpace(b.BankName)})
	}
	return banks, nil
}

func (c *Client) SubmitOnboarding(ctx context.Context, cc entities.CallContext, input *entities.OnboardingInput) (string, error) {
	res, err := c.call(ctx, cc, http.MethodPost, pathOnboard, "onboarding", onboardingBody{
		MerchantCode: input.MerchantCode,
		Mobile:       input.Mobile,
		Email:        input.Email,
		FirmName:     input.FirmName,
		PanNumber:    strings.ToUpper(input.PanNumber),
		Pincode:      input.Pincode,
		Address:      input.Address,
	})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) SendEkycOtp(ctx context.Context, cc entities.CallContext) (*entities.EkycOtpResult, error) {
	res, err := c.call(ctx, cc, http.MethodPost, pathEkycSendOtp, "ekycSendOtp", struct{}{})
	if err != nil {
		return nil, err
	}
	return otpResult(res)
}

func (c *Client) VerifyEkycOtp(ctx context.Context, cc entities.CallContext, input *entities.EkycOtpVerifyInput) (*entities.EkycOtpResult, error) {
	res, err := c.call(ctx, cc, http.MethodPost, pathEkycVerifyOtp, "ekycVerifyOtp", ekycVerifyBody{
		Otp:           input.Otp,
		PrimaryKeyID:  input.PrimaryKeyID,
		EncodeFPTxnID: input.EncodeFPTxnID,
	})
	if err != nil {
		return nil, err
	}
	return otpResult(res)
}

func otpResult(res *apiResponse) (*entities.EkycOtpResult, error) {
	out := &entities.EkycOtpResult{Message: res.Message}
	if len(res.Data) == 0 || string(res.Data) == "null" {
		return out, nil
	}
	var data otpData
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: otp decode: %v", domainerrors.ErrPartnerProtocol, err)
	}
	out.PrimaryKeyID = data.PrimaryKeyID
	out.EncodeFPTxnID = data.EncodeFPTxnID
	return out, nil
}

func (c *Client) SubmitEkycBiometric(ctx context.Context, cc entities.CallContext, input *entities.EkycBiometricInput, pidData string) (string, error) {
	res, err := c.call(ctx, cc, http.MethodPost, pathEkycBiometric, "ekycBiometric", ekycBiometricBody{
		PrimaryKeyID:   input.PrimaryKeyID,
		EncodeFPTxnID:  input.EncodeFPTxnID,
		AccessModeType: accessModeSite,
		PidData:        pidData,
	})
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func transactionPath(op entities.Operation) (string, bool) {
	switch op {
	case entities.OperationBalanceEnquiry:
		return pathBalanceEnquiry, true
	case entities.OperationCashWithdrawal:
		return pathCashWithdrawal, true
	case entities.OperationMiniStatement:
		return pathMiniStatement, true
	case entities.OperationTwoFaAuth:
		return pathTwoFactorAuth, true
	}
	return "", false
}

func (c *Client) SubmitTransaction(ctx context.Context, cc entities.CallContext, req *entities.TransactionRequest) (*entities.TransactionResult, error) {
	path, ok := transactionPath(req.Operation)
	if !ok {
		return nil, fmt.Errorf("unsupported operation %q", req.Operation)
	}

	body := transactionBody{
		ReferenceID:    req.ReferenceID.String(),
		BankIIN:        req.Bank.BankCode,
		AccessModeType: accessModeSite,
		PidData:        req.Biometric,
		IPAddress:      req.IPAddress,
		Mobile:         req.Customer.Mobile,
		Aadhaar:        req.Customer.Aadhaar,
	}
	if req.Amount.Valid {
		body.Amount = req.Amount.Decimal.StringFixed(2)
	}

	res, err := c.call(ctx, cc, http.MethodPost, path, string(req.Operation), body)
	if err != nil {
		return nil, err
	}

	var data transactionData
	if len(res.Data) > 0 && string(res.Data) != "null" {
		if err := json.Unmarshal(res.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: transaction decode: %v", domainerrors.ErrPartnerProtocol, err)
		}
	}

	result := &entities.TransactionResult{
		ReferenceID:  req.ReferenceID,
		Operation:    req.Operation,
		Balance:      data.Balance,
		Amount:       data.Amount,
		Message:      res.Message,
		RawStatement: data.MiniStatement,
		CompletedAt:  time.Now(),
	}
	if data.PartnerRef != "" {
		result.PartnerReference = null.StringFrom(data.PartnerRef)
	}
	if data.BankRRN != "" {
		result.BankRRN = null.StringFrom(data.BankRRN)
	}
	return result, nil
}

// call performs a request and turns a status=false reply into a *BusinessRejection
func (c *Client) call(ctx context.Context, cc entities.CallContext, method, path, operation string, payload interface{}) (*apiResponse, error) {
	raw, err := c.do(ctx, cc, method, path, payload)
	if err != nil {
		return nil, err
	}

	var res apiResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("%w: %s decode: %v", domainerrors.ErrPartnerProtocol, path, err)
	}
	if !res.Status {
		return nil, &domainerrors.BusinessRejection{
			Operation:    operation,
			ResponseCode: res.ResponseCode,
			Message:      res.Message,
		}
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, cc entities.CallContext, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		sealed, err := c.envelope.seal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", path, err)
		}
		body = bytes.NewReader(sealed)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if cc.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cc.BearerToken)
	}
	if cc.Latitude != "" {
		httpReq.Header.Set("X-Latitude", cc.Latitude)
	}
	if cc.Longitude != "" {
		httpReq.Header.Set("X-Longitude", cc.Longitude)
	}
	if c.bankID != "" {
		httpReq.Header.Set("X-Bank-Id", c.bankID)
	}
	if cc.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", cc.RequestID)
	}
	if c.envelope.enabled() {
		httpReq.Header.Set("X-Payload-Encryption", "JWE")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(ctx, path, 0, start, err)
		return nil, fmt.Errorf("%w: %s request: %v", domainerrors.ErrPartnerUnavailable, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		c.observe(ctx, path, resp.StatusCode, start, err)
		return nil, fmt.Errorf("partner %s read: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: %s failed: http=%d", domainerrors.ErrPartnerUnavailable, path, resp.StatusCode)
		c.observe(ctx, path, resp.StatusCode, start, err)
		return nil, err
	}
	c.observe(ctx, path, resp.StatusCode, start, nil)

	plain, err := c.envelope.open(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s envelope: %v", domainerrors.ErrPartnerProtocol, path, err)
	}
	return plain, nil
}

func (c *Client) observe(ctx context.Context, path string, status int, start time.Time, err error) {
	latency := time.Since(start)
	logger.LogPartnerCall(ctx, path, status, latency, err)
	if c.observer != nil {
		c.observer.ObservePartnerCall(path, status, latency)
	}
}
