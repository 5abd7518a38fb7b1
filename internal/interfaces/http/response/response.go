package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "aeps-agent.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps err onto the AEPS error taxonomy and writes it
func Error(c *gin.Context, err error) {
	ErrorWithBody(c, err, nil)
}

// ErrorWithBody writes the mapped error plus extra fields, e.g. the refreshed
// workflow status a failed submission still carries
func ErrorWithBody(c *gin.Context, err error, extra gin.H) {
	appErr, fields := mapError(err)

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	for k, v := range extra {
		if v != nil {
			body[k] = v
		}
	}
	c.JSON(appErr.Status, body)
}

// ErrorWithError sends an error response with a specific status and message
func ErrorWithError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

func mapError(err error) (*domainerrors.AppError, map[string]string) {
	var (
		appErr     *domainerrors.AppError
		validation *domainerrors.ValidationError
		capture    *domainerrors.CaptureError
		upstream   *domainerrors.UpstreamStatusError
		rejection  *domainerrors.BusinessRejection
		terminal   *domainerrors.TerminalStateError
		wrongState *domainerrors.WorkflowStateError
	)

	switch {
	case errors.As(err, &appErr):
		return appErr, nil
	case errors.As(err, &validation):
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeValidation, validation.Error(), err), validation.Fields
	case errors.As(err, &capture):
		return domainerrors.NewAppError(http.StatusUnprocessableEntity, domainerrors.CodeCaptureFailed, capture.Error(), err), nil
	case errors.Is(err, domainerrors.ErrNoBiometricData):
		return domainerrors.NewAppError(http.StatusUnprocessableEntity, domainerrors.CodeNoBiometricData, "capture a fingerprint before submitting", err), nil
	case errors.As(err, &upstream):
		return domainerrors.NewAppError(http.StatusServiceUnavailable, domainerrors.CodeUpstreamStatus, "merchant status is unavailable, please refresh", err), nil
	case errors.As(err, &rejection):
		return domainerrors.NewAppError(http.StatusUnprocessableEntity, domainerrors.CodeBusinessRejection, rejection.Message, err), nil
	case errors.As(err, &terminal):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeTerminalState, terminal.Error(), err), nil
	case errors.As(err, &wrongState):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeWorkflowState, wrongState.Error(), err), nil
	case errors.Is(err, domainerrors.ErrSubmissionInFlight):
		return domainerrors.NewAppError(http.StatusConflict, domainerrors.CodeSubmissionBusy, err.Error(), err), nil
	case errors.Is(err, domainerrors.ErrBankNotListed):
		return domainerrors.NewAppError(http.StatusBadRequest, domainerrors.CodeInvalidInput, err.Error(), err), nil
	case errors.Is(err, domainerrors.ErrPartnerProtocol), errors.Is(err, domainerrors.ErrPartnerUnavailable):
		return domainerrors.NewAppError(http.StatusBadGateway, domainerrors.CodePartnerFailure, "the banking partner could not complete the request", err), nil
	case errors.Is(err, domainerrors.ErrNotFound):
		return domainerrors.NotFound(err.Error()), nil
	}
	return domainerrors.InternalError(err), nil
}

// Status returns the HTTP status err maps to
func Status(err error) int {
	appErr, _ := mapError(err)
	return appErr.Status
}
