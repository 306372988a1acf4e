package postgres

import (
	"context"
	"errors"
	"fmt"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UserStatsRepo implements ports.UserStatsRepository.
type UserStatsRepo struct {
	pool Pool
}

// NewUserStatsRepo creates a new UserStatsRepo.
func NewUserStatsRepo(pool Pool) *UserStatsRepo {
	return &UserStatsRepo{pool: pool}
}

// Get returns the stats row of an account, or nil if it has none yet.
func (r *UserStatsRepo) Get(ctx context.Context, accountID uuid.UUID) (*domain.UserStats, error) {
	query := `SELECT account_id, total_opened, best_item_id, best_item_price,
		favorite_case_id, favorite_case_count, updated_at
		FROM user_stats WHERE account_id = $1`

	s := &domain.UserStats{}
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&s.AccountID, &s.TotalOpened, &s.BestItemID, &s.BestItemPrice,
		&s.FavoriteCaseID, &s.FavoriteCaseCount, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return s, nil
}

// Upsert writes the stats row. The best drop is only replaced by a strictly
// more expensive one, even if a concurrent writer got there first.
func (r *UserStatsRepo) Upsert(ctx context.Context, s *domain.UserStats) error {
	query := `INSERT INTO user_stats (account_id, total_opened, best_item_id, best_item_price,
		favorite_case_id, favorite_case_count, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (account_id) DO UPDATE SET
			total_opened = GREATEST(user_stats.total_opened, EXCLUDED.total_opened),
			best_item_id = CASE
				WHEN user_stats.best_item_id IS NULL OR EXCLUDED.best_item_price > user_stats.best_item_price
				THEN EXCLUDED.best_item_id ELSE user_stats.best_item_id END,
			best_item_price = GREATEST(user_stats.best_item_price, EXCLUDED.best_item_price),
			favorite_case_id = EXCLUDED.favorite_case_id,
			favorite_case_count = EXCLUDED.favorite_case_count,
			updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query,
		s.AccountID, s.TotalOpened, s.BestItemID, s.BestItemPrice,
		s.FavoriteCaseID, s.FavoriteCaseCount,
	)
	if err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}
	return nil
}
