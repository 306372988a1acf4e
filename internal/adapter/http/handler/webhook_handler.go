package handler

import (
	"errors"

	"case-opening-platform/internal/adapter/http/dto"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"
	"case-opening-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// yooKassaEntryKey is the metadata key carrying our ledger entry id.
const yooKassaEntryKey = "transactionId"

// WebhookHandler receives gateway callbacks. Every callback is acknowledged
// with 200 so the gateway stops retrying; outcomes only reach the log.
type WebhookHandler struct {
	paymentSvc ports.PaymentService
	log        zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(paymentSvc ports.PaymentService, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{paymentSvc: paymentSvc, log: log}
}

// YooKassa handles POST /api/v1/webhooks/yookassa.
func (h *WebhookHandler) YooKassa(c *gin.Context) {
	defer response.Acknowledge(c)

	var req dto.YooKassaWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn().Err(err).Str("provider", string(domain.ProviderYooKassa)).Msg("malformed webhook")
		return
	}

	outcome, err := h.paymentSvc.ReconcileYooKassa(c.Request.Context(), ports.YooKassaNotification{
		Event:         req.Event,
		PaymentID:     req.Object.ID,
		Status:        req.Object.Status,
		TransactionID: req.Object.Metadata[yooKassaEntryKey],
	})
	h.logOutcome(domain.ProviderYooKassa, req.Object.ID, outcome, err)
}

// Exnode handles POST /api/v1/webhooks/exnode.
func (h *WebhookHandler) Exnode(c *gin.Context) {
	defer response.Acknowledge(c)

	var req dto.ExnodeWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn().Err(err).Str("provider", string(domain.ProviderExnode)).Msg("malformed webhook")
		return
	}

	outcome, err := h.paymentSvc.ReconcileExnode(c.Request.Context(), req.TrackerID)
	h.logOutcome(domain.ProviderExnode, req.TrackerID, outcome, err)
}

func (h *WebhookHandler) logOutcome(provider domain.Provider, ref string, outcome domain.SettlementOutcome, err error) {
	switch {
	case err == nil:
		h.log.Info().
			Str("provider", string(provider)).
			Str("external_ref", ref).
			Stringer("outcome", outcome).
			Msg("webhook processed")
	case errors.Is(err, apperror.ErrAlreadyProcessed):
		h.log.Debug().Str("provider", string(provider)).Str("external_ref", ref).Msg("duplicate webhook ignored")
	case apperror.IsKind(err, apperror.KindNotFound):
		h.log.Warn().Str("provider", string(provider)).Str("external_ref", ref).Msg("webhook for unknown order")
	default:
		h.log.Error().Err(err).Str("provider", string(provider)).Str("external_ref", ref).Msg("webhook processing failed")
	}
}
