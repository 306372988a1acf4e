package postgres

import (
	"context"
	"fmt"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OpeningRepo implements ports.OpeningRepository.
type OpeningRepo struct {
	pool Pool
}

// NewOpeningRepo creates a new OpeningRepo.
func NewOpeningRepo(pool Pool) *OpeningRepo {
	return &OpeningRepo{pool: pool}
}

// Create appends an opening record within a database transaction.
func (r *OpeningRepo) Create(ctx context.Context, tx pgx.Tx, rec *domain.OpeningRecord) error {
	query := `INSERT INTO case_openings (id, account_id, case_id, item_id, item_price, case_price, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		rec.ID, rec.AccountID, rec.CaseID, rec.ItemID, rec.ItemPrice, rec.CasePrice, rec.OpenedAt,
	)
	if err != nil {
		return fmt.Errorf("insert case opening: %w", err)
	}
	return nil
}

// CountByAccountAndCase returns how many times the account opened the case.
func (r *OpeningRepo) CountByAccountAndCase(ctx context.Context, accountID, caseID uuid.UUID) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM case_openings WHERE account_id = $1 AND case_id = $2`,
		accountID, caseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count case openings: %w", err)
	}
	return n, nil
}

// InventoryRepo implements ports.InventoryRepository.
type InventoryRepo struct{}

// NewInventoryRepo creates a new InventoryRepo. Inventory writes always happen
// inside the opening transaction, so it needs no pool.
func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{}
}

// Create inserts an inventory entry within a database transaction.
func (r *InventoryRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.InventoryEntry) error {
	query := `INSERT INTO inventory_entries (id, account_id, item_id, opening_id, status, acquired_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query, e.ID, e.AccountID, e.ItemID, e.OpeningID, e.Status, e.AcquiredAt)
	if err != nil {
		return fmt.Errorf("insert inventory entry: %w", err)
	}
	return nil
}
