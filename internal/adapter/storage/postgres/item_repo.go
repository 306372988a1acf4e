package postgres

import (
	"context"
	"fmt"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ItemRepo implements ports.ItemRepository.
type ItemRepo struct {
	pool Pool
}

// NewItemRepo creates a new ItemRepo.
func NewItemRepo(pool Pool) *ItemRepo {
	return &ItemRepo{pool: pool}
}

const itemColumns = `id, market_hash_name, display_name, rarity, category, image_url, price, created_at, updated_at`

// GetByNames fetches all persisted items whose market hash name is in names.
// Order of the result is unspecified.
func (r *ItemRepo) GetByNames(ctx context.Context, names []string) ([]domain.Item, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE market_hash_name = ANY($1)`

	rows, err := r.pool.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("get items by names: %w", err)
	}
	return collectItems(rows)
}

// Create inserts a new item within a database transaction.
func (r *ItemRepo) Create(ctx context.Context, tx pgx.Tx, it *domain.Item) error {
	query := `INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		it.ID, it.MarketHashName, it.DisplayName, it.Rarity, it.Category,
		it.ImageURL, it.Price, it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// ListAll returns every persisted item ordered by name.
func (r *ItemRepo) ListAll(ctx context.Context) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY market_hash_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return collectItems(rows)
}

// UpdatePrice sets the current market price of an item.
func (r *ItemRepo) UpdatePrice(ctx context.Context, id uuid.UUID, price int64) error {
	query := `UPDATE items SET price = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, price, id)
	if err != nil {
		return fmt.Errorf("update item price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

func itemDest(it *domain.Item) []any {
	return []any{
		&it.ID, &it.MarketHashName, &it.DisplayName, &it.Rarity, &it.Category,
		&it.ImageURL, &it.Price, &it.CreatedAt, &it.UpdatedAt,
	}
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(itemDest(&it)...); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
