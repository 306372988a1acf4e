package handler

import (
	"case-opening-platform/internal/adapter/http/dto"
	"case-opening-platform/internal/adapter/http/middleware"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"
	"case-opening-platform/pkg/response"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles account query endpoints.
type AccountHandler struct {
	accountSvc ports.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountSvc ports.AccountService) *AccountHandler {
	return &AccountHandler{accountSvc: accountSvc}
}

// GetBalance handles GET /api/v1/account/balance.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	balance, err := h.accountSvc.GetBalance(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.BalanceResponse{Balance: balance, Currency: defaultCurrency})
}

// GetStats handles GET /api/v1/account/stats.
func (h *AccountHandler) GetStats(c *gin.Context) {
	accountID, ok := middleware.AccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stats, err := h.accountSvc.GetStats(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}
