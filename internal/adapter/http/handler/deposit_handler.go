package handler

import (
	"strings"

	"case-opening-platform/internal/adapter/http/dto"
	"case-opening-platform/internal/adapter/http/middleware"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"
	"case-opening-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	defaultCurrency      = "RUB"
)

// DepositHandler handles deposit endpoints.
type DepositHandler struct {
	paymentSvc ports.PaymentService
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(paymentSvc ports.PaymentService) *DepositHandler {
	return &DepositHandler{paymentSvc: paymentSvc}
}

// CreateDeposit handles POST /api/v1/deposits.
func (h *DepositHandler) CreateDeposit(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	key := strings.TrimSpace(c.GetHeader(HeaderIdempotencyKey))
	if key != "" && !dto.ValidIdempotencyKey(key) {
		response.Error(c, apperror.Validation("invalid Idempotency-Key header"))
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	result, err := h.paymentSvc.CreateDeposit(c.Request.Context(), ports.DepositRequest{
		AccountID:      accountID,
		Amount:         req.Amount,
		Currency:       strings.ToUpper(currency),
		Provider:       domain.Provider(strings.ToUpper(req.Provider)),
		IdempotencyKey: key,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// QRCode handles GET /api/v1/deposits/:id/qr.
func (h *DepositHandler) QRCode(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid deposit id"))
		return
	}

	img, err := h.paymentSvc.DepositQRCode(c.Request.Context(), accountID, entryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.PNG(c, img)
}

// Return handles GET /api/v1/payments/return, where gateways send the payer back.
func (h *DepositHandler) Return(c *gin.Context) {
	state := c.Query("state")
	if state == "" || len(state) > 128 {
		response.Error(c, apperror.Validation("state is required"))
		return
	}

	status, err := h.paymentSvc.ResolveReturn(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}
