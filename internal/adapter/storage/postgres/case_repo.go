package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CaseRepo implements ports.CaseRepository.
type CaseRepo struct {
	pool Pool
}

// NewCaseRepo creates a new CaseRepo.
func NewCaseRepo(pool Pool) *CaseRepo {
	return &CaseRepo{pool: pool}
}

const caseColumns = `id, name, price, is_active, total_opened, created_at, updated_at`

// GetByIDForUpdate fetches a case header with pessimistic locking. Items are not loaded.
func (r *CaseRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1 FOR UPDATE`

	c := &domain.Case{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Price, &c.IsActive, &c.TotalOpened, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get case for update: %w", err)
	}
	return c, nil
}

// GetWithItems loads a case and its items ordered by position.
func (r *CaseRepo) GetWithItems(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	c := &domain.Case{}
	err := tx.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Price, &c.IsActive, &c.TotalOpened, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get case: %w", err)
	}

	itemsQuery := `SELECT ci.item_id, ci.chance_percent, ci.position,
		i.id, i.market_hash_name, i.display_name, i.rarity, i.category, i.image_url, i.price, i.created_at, i.updated_at
		FROM case_items ci
		JOIN items i ON i.id = ci.item_id
		WHERE ci.case_id = $1
		ORDER BY ci.position`

	rows, err := tx.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get case items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ci domain.CaseItem
		it := &domain.Item{}
		dest := append([]any{&ci.ItemID, &ci.ChancePercent, &ci.Position}, itemDest(it)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan case item: %w", err)
		}
		ci.Item = it
		c.Items = append(c.Items, ci)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case items: %w", err)
	}
	return c, nil
}

// ReplaceItems swaps the whole item list of a case. Position follows slice order.
func (r *CaseRepo) ReplaceItems(ctx context.Context, tx pgx.Tx, caseID uuid.UUID, items []domain.CaseItem) error {
	if _, err := tx.Exec(ctx, `DELETE FROM case_items WHERE case_id = $1`, caseID); err != nil {
		return fmt.Errorf("delete case items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO case_items (case_id, item_id, chance_percent, position) VALUES `)
	args := make([]any, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", n+1, n+2, n+3, n+4)
		args = append(args, caseID, it.ItemID, it.ChancePercent, i)
	}

	if _, err := tx.Exec(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert case items: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE cases SET updated_at = NOW() WHERE id = $1`, caseID); err != nil {
		return fmt.Errorf("touch case: %w", err)
	}
	return nil
}

// IncrementOpenCount bumps the case open counter within a transaction.
func (r *CaseRepo) IncrementOpenCount(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `UPDATE cases SET total_opened = total_opened + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment case open count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("case not found: %s", id)
	}
	return nil
}
