package postgres

import (
	"context"
	"testing"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(name string, price int64) domain.Item {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Item{
		ID:             uuid.New(),
		MarketHashName: name,
		DisplayName:    name,
		Rarity:         domain.RarityMilSpec,
		Category:       "rifles",
		ImageURL:       "https://cdn.example.com/" + name + ".png",
		Price:          price,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func itemRows(items ...domain.Item) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "market_hash_name", "display_name", "rarity", "category", "image_url", "price", "created_at", "updated_at",
	})
	for _, it := range items {
		rows.AddRow(it.ID, it.MarketHashName, it.DisplayName, it.Rarity, it.Category, it.ImageURL, it.Price, it.CreatedAt, it.UpdatedAt)
	}
	return rows
}

func TestItemRepo_GetByNames(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepo(mock)
	a := newTestItem("M4A4 | Howl", 5000000)
	names := []string{"M4A4 | Howl", "Unknown"}

	mock.ExpectQuery("SELECT .+ FROM items WHERE market_hash_name = ANY").
		WithArgs(names).
		WillReturnRows(itemRows(a))

	result, err := repo.GetByNames(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, a.ID, result[0].ID)
	assert.Equal(t, domain.RarityMilSpec, result[0].Rarity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_GetByNames_EmptySkipsQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepo(mock)

	result, err := repo.GetByNames(context.Background(), nil)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepo(mock)
	it := newTestItem("AWP | Asiimov", 800000)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO items").
		WithArgs(it.ID, it.MarketHashName, it.DisplayName, it.Rarity, it.Category,
			it.ImageURL, it.Price, it.CreatedAt, it.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	assert.NoError(t, repo.Create(context.Background(), tx, &it))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_ListAllAndUpdatePrice(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewItemRepo(mock)
	a := newTestItem("A", 100)
	b := newTestItem("B", 200)

	mock.ExpectQuery("SELECT .+ FROM items ORDER BY market_hash_name").WillReturnRows(itemRows(a, b))
	mock.ExpectExec("UPDATE items SET price").
		WithArgs(int64(250), b.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	items, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)

	assert.NoError(t, repo.UpdatePrice(context.Background(), b.ID, 250))
	assert.NoError(t, mock.ExpectationsWereMet())
}
