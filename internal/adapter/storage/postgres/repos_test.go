package postgres

import (
	"context"
	"testing"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpeningRepo_CreateAndCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOpeningRepo(mock)
	rec := &domain.OpeningRecord{
		ID: uuid.New(), AccountID: uuid.New(), CaseID: uuid.New(), ItemID: uuid.New(),
		ItemPrice: 1200, CasePrice: 9900, OpenedAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO case_openings").
		WithArgs(rec.ID, rec.AccountID, rec.CaseID, rec.ItemID, rec.ItemPrice, rec.CasePrice, rec.OpenedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM case_openings").
		WithArgs(rec.AccountID, rec.CaseID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), tx, rec))

	n, err := repo.CountByAccountAndCase(context.Background(), rec.AccountID, rec.CaseID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewInventoryRepo()
	openingID := uuid.New()
	e := &domain.InventoryEntry{
		ID: uuid.New(), AccountID: uuid.New(), ItemID: uuid.New(), OpeningID: &openingID,
		Status: domain.InventoryStatusOwned, AcquiredAt: time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO inventory_entries").
		WithArgs(e.ID, e.AccountID, e.ItemID, e.OpeningID, e.Status, e.AcquiredAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	assert.NoError(t, repo.Create(context.Background(), tx, e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStatsRepo_GetMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserStatsRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM user_stats WHERE account_id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	s, err := repo.Get(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestUserStatsRepo_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserStatsRepo(mock)
	itemID, caseID := uuid.New(), uuid.New()
	s := &domain.UserStats{
		AccountID: uuid.New(), TotalOpened: 3,
		BestItemID: &itemID, BestItemPrice: 5000,
		FavoriteCaseID: &caseID, FavoriteCaseCount: 2,
	}

	mock.ExpectExec("INSERT INTO user_stats .+ ON CONFLICT \\(account_id\\) DO UPDATE").
		WithArgs(s.AccountID, s.TotalOpened, s.BestItemID, s.BestItemPrice, s.FavoriteCaseID, s.FavoriteCaseCount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Upsert(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAuditRepository(mock)
	accountID := uuid.New()
	log := &domain.AuditLog{
		ID: uuid.New(), AccountID: &accountID, Action: domain.AuditActionSetCaseItems,
		ResourceType: "case", ResourceID: uuid.NewString(), Details: `{"items":3}`,
		IPAddress: "10.0.0.1", CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(log.ID, log.AccountID, string(log.Action), log.ResourceType,
			log.ResourceID, log.Details, log.IPAddress, log.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), log))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	hc := NewHealthCheck(mock)
	mock.ExpectQuery("SELECT to_regclass").
		WillReturnRows(pgxmock.NewRows([]string{"ok"}).AddRow(true))

	assert.NoError(t, hc.Ping(context.Background()))
	assert.Equal(t, "postgresql", hc.Name())
}

func TestTransactor_Begin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	tx, err := NewTransactor(mock).Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
