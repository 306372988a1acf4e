package handler

import (
	"fmt"

	"case-opening-platform/internal/adapter/http/dto"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"
	"case-opening-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler handles admin endpoints.
type AdminHandler struct {
	probabilitySvc ports.ProbabilityService
	caseAdminSvc   ports.CaseAdminService
	paymentSvc     ports.PaymentService
	catalog        ports.Catalog
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	probabilitySvc ports.ProbabilityService,
	caseAdminSvc ports.CaseAdminService,
	paymentSvc ports.PaymentService,
	catalog ports.Catalog,
) *AdminHandler {
	return &AdminHandler{
		probabilitySvc: probabilitySvc,
		caseAdminSvc:   caseAdminSvc,
		paymentSvc:     paymentSvc,
		catalog:        catalog,
	}
}

// PreviewProbabilities handles POST /api/v1/admin/probabilities/preview.
func (h *AdminHandler) PreviewProbabilities(c *gin.Context) {
	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	calc := ports.CalculateRequest{
		Names:     req.ItemNames,
		Algorithm: req.Algorithm,
	}
	if req.Options != nil {
		calc.MinChance = req.Options.MinChance
		calc.MaxChance = req.Options.MaxChance
	}

	result, err := h.probabilitySvc.Calculate(c.Request.Context(), calc)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// SetCaseItems handles PUT /api/v1/admin/cases/:id/items.
func (h *AdminHandler) SetCaseItems(c *gin.Context) {
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid case id"))
		return
	}

	var req dto.SetCaseItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	inputs := make([]ports.CaseItemInput, len(req.Items))
	for i, it := range req.Items {
		inputs[i] = ports.CaseItemInput{MarketHashName: it.MarketHashName, ChancePercent: it.ChancePercent}
	}

	updated, err := h.caseAdminSvc.SetCaseItems(c.Request.Context(), caseID, inputs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, updated)
}

// PaymentStats handles GET /api/v1/admin/payments/stats.
func (h *AdminHandler) PaymentStats(c *gin.Context) {
	stats, err := h.paymentSvc.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ReloadCatalog handles POST /api/v1/admin/catalog/reload.
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	if err := h.catalog.Reload(c.Request.Context()); err != nil {
		response.Error(c, apperror.InternalError(fmt.Errorf("reload catalog: %w", err)))
		return
	}
	response.OK(c, dto.CatalogReloadResponse{Items: h.catalog.Len()})
}
