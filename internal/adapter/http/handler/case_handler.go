package handler

import (
	"case-opening-platform/internal/adapter/http/dto"
	"case-opening-platform/internal/adapter/http/middleware"
	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"
	"case-opening-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CaseHandler handles case endpoints.
type CaseHandler struct {
	openingSvc ports.CaseOpeningService
}

// NewCaseHandler creates a new CaseHandler.
func NewCaseHandler(openingSvc ports.CaseOpeningService) *CaseHandler {
	return &CaseHandler{openingSvc: openingSvc}
}

// OpenCase handles POST /api/v1/cases/:id/open.
func (h *CaseHandler) OpenCase(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid case id"))
		return
	}

	result, err := h.openingSvc.OpenCase(c.Request.Context(), ports.OpenCaseRequest{
		AccountID: accountID,
		CaseID:    caseID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.OpenCaseResponse{
		Item:       toItemResponse(&result.Item),
		NewBalance: result.NewBalance,
		OpeningID:  result.OpeningID.String(),
	})
}

func toItemResponse(it *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:             it.ID.String(),
		MarketHashName: it.MarketHashName,
		DisplayName:    it.DisplayName,
		Rarity:         string(it.Rarity),
		Category:       it.Category,
		ImageURL:       it.ImageURL,
		Price:          it.Price,
	}
}
