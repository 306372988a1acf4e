package ports

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

import (
	"context"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepository defines persistence operations for accounts.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, balance int64) error
}

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	GetByNames(ctx context.Context, names []string) ([]domain.Item, error)
	Create(ctx context.Context, tx pgx.Tx, item *domain.Item) error
	ListAll(ctx context.Context) ([]domain.Item, error)
	UpdatePrice(ctx context.Context, id uuid.UUID, price int64) error
}

// CaseRepository defines persistence operations for cases and their item lists.
type CaseRepository interface {
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Case, error)
	// GetWithItems loads the case and its items in persisted order.
	GetWithItems(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Case, error)
	ReplaceItems(ctx context.Context, tx pgx.Tx, caseID uuid.UUID, items []domain.CaseItem) error
	IncrementOpenCount(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// InventoryRepository defines persistence operations for inventory entries.
type InventoryRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.InventoryEntry) error
}

// OpeningRepository defines persistence operations for opening history.
type OpeningRepository interface {
	Create(ctx context.Context, tx pgx.Tx, record *domain.OpeningRecord) error
	CountByAccountAndCase(ctx context.Context, accountID, caseID uuid.UUID) (int64, error)
}

// LedgerRepository defines persistence operations for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	GetByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string) (*domain.LedgerEntry, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LedgerEntry, error)
	GetByExternalRefForUpdate(ctx context.Context, tx pgx.Tx, provider domain.Provider, externalRef string) (*domain.LedgerEntry, error)
	GetByClientRefForUpdate(ctx context.Context, tx pgx.Tx, clientRef uuid.UUID) (*domain.LedgerEntry, error)
	AttachExternalRef(ctx context.Context, id uuid.UUID, externalRef string, paymentURL string) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.LedgerStatus, processedAt time.Time) error
	// FailPending marks a PENDING entry FAILED outside a transaction. Returns false if the entry was already final.
	FailPending(ctx context.Context, id uuid.UUID, processedAt time.Time) (bool, error)
	// MarkExpiredFailed fails every PENDING entry whose expiry is before now and returns the count.
	MarkExpiredFailed(ctx context.Context, now time.Time) (int64, error)
	GetStats(ctx context.Context) ([]domain.ProviderStats, error)
}

// UserStatsRepository defines persistence for derived per-account statistics.
type UserStatsRepository interface {
	Get(ctx context.Context, accountID uuid.UUID) (*domain.UserStats, error)
	Upsert(ctx context.Context, stats *domain.UserStats) error
}

// AuditRepository defines persistence for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
