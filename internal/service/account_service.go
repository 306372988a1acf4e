package service

import (
	"context"
	"fmt"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"

	"github.com/google/uuid"
)

// AccountServiceImpl answers read-only account queries.
type AccountServiceImpl struct {
	accountRepo ports.AccountRepository
	statsRepo   ports.UserStatsRepository
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo ports.AccountRepository, statsRepo ports.UserStatsRepository) *AccountServiceImpl {
	return &AccountServiceImpl{accountRepo: accountRepo, statsRepo: statsRepo}
}

// GetBalance returns the account balance in kopecks.
func (s *AccountServiceImpl) GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return 0, apperror.ErrNotFound("Account")
	}
	return account.Balance, nil
}

// GetStats returns the derived statistics of an account. An account that never
// opened a case gets zeroed stats.
func (s *AccountServiceImpl) GetStats(ctx context.Context, accountID uuid.UUID) (*domain.UserStats, error) {
	stats, err := s.statsRepo.Get(ctx, accountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get user stats: %w", err))
	}
	if stats == nil {
		return &domain.UserStats{AccountID: accountID}, nil
	}
	return stats, nil
}
