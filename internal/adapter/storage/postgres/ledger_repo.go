package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

const ledgerColumns = `id, account_id, amount, kind, status, provider, client_ref, external_ref,
	idempotency_key, payment_url, expires_at, created_at, processed_at`

// Create inserts a new ledger entry within a database transaction.
func (r *LedgerRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.AccountID, e.Amount, e.Kind, e.Status, e.Provider, e.ClientRef,
		e.ExternalRef, e.IdempotencyKey, e.PaymentURL, e.ExpiresAt, e.CreatedAt, e.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID fetches a ledger entry by UUID.
func (r *LedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1`

	e, err := scanLedgerEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry by id: %w", err)
	}
	return e, nil
}

// GetByIdempotencyKey fetches the entry an account created with a client idempotency key.
func (r *LedgerRepo) GetByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE account_id = $1 AND idempotency_key = $2`

	e, err := scanLedgerEntry(r.pool.QueryRow(ctx, query, accountID, key))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry by idempotency key: %w", err)
	}
	return e, nil
}

// GetByIDForUpdate fetches a ledger entry with pessimistic locking.
// This MUST be called within a transaction.
func (r *LedgerRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE id = $1 FOR UPDATE`

	e, err := scanLedgerEntry(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry for update: %w", err)
	}
	return e, nil
}

// GetByExternalRefForUpdate fetches a ledger entry by gateway order id with pessimistic locking.
// This MUST be called within a transaction.
func (r *LedgerRepo) GetByExternalRefForUpdate(ctx context.Context, tx pgx.Tx, provider domain.Provider, externalRef string) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries
		WHERE provider = $1 AND external_ref = $2 FOR UPDATE`

	e, err := scanLedgerEntry(tx.QueryRow(ctx, query, provider, externalRef))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry by external ref: %w", err)
	}
	return e, nil
}

// GetByClientRefForUpdate fetches a ledger entry by the order id we sent to the gateway, with pessimistic locking.
// This MUST be called within a transaction.
func (r *LedgerRepo) GetByClientRefForUpdate(ctx context.Context, tx pgx.Tx, clientRef uuid.UUID) (*domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE client_ref = $1 FOR UPDATE`

	e, err := scanLedgerEntry(tx.QueryRow(ctx, query, clientRef))
	if err != nil {
		return nil, fmt.Errorf("get ledger entry by client ref: %w", err)
	}
	return e, nil
}

// AttachExternalRef stores the gateway order id and payment URL on an entry.
func (r *LedgerRepo) AttachExternalRef(ctx context.Context, id uuid.UUID, externalRef string, paymentURL string) error {
	query := `UPDATE ledger_entries SET external_ref = $1, payment_url = $2 WHERE id = $3`

	tag, err := r.pool.Exec(ctx, query, externalRef, paymentURL, id)
	if err != nil {
		return fmt.Errorf("attach external ref: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger entry not found: %s", id)
	}
	return nil
}

// UpdateStatus finalizes a ledger entry within a database transaction.
// The caller holds the row lock and has checked the transition.
func (r *LedgerRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.LedgerStatus, processedAt time.Time) error {
	query := `UPDATE ledger_entries SET status = $1, processed_at = $2 WHERE id = $3 AND status = 'PENDING'`

	tag, err := tx.Exec(ctx, query, status, processedAt, id)
	if err != nil {
		return fmt.Errorf("update ledger status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger entry not pending: %s", id)
	}
	return nil
}

// FailPending marks a pending entry as FAILED. Returns false if it was already final.
func (r *LedgerRepo) FailPending(ctx context.Context, id uuid.UUID, processedAt time.Time) (bool, error) {
	query := `UPDATE ledger_entries SET status = 'FAILED', processed_at = $1 WHERE id = $2 AND status = 'PENDING'`

	tag, err := r.pool.Exec(ctx, query, processedAt, id)
	if err != nil {
		return false, fmt.Errorf("fail pending ledger entry: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkExpiredFailed fails all pending entries whose expiry has passed.
func (r *LedgerRepo) MarkExpiredFailed(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE ledger_entries SET status = 'FAILED', processed_at = $1
		WHERE status = 'PENDING' AND expires_at IS NOT NULL AND expires_at < $1`

	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired ledger entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetStats aggregates deposit figures per provider.
func (r *LedgerRepo) GetStats(ctx context.Context) ([]domain.ProviderStats, error) {
	query := `SELECT
		provider,
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
		COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
		COALESCE(SUM(amount), 0) AS total_amount,
		COALESCE(SUM(amount) FILTER (WHERE status = 'COMPLETED'), 0) AS completed_amount
		FROM ledger_entries
		WHERE kind = 'DEPOSIT'
		GROUP BY provider
		ORDER BY provider`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get ledger stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.ProviderStats
	for rows.Next() {
		var s domain.ProviderStats
		if err := rows.Scan(&s.Provider, &s.Total, &s.Completed, &s.Failed, &s.TotalAmount, &s.CompletedAmount); err != nil {
			return nil, fmt.Errorf("scan ledger stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger stats: %w", err)
	}
	return stats, nil
}

func scanLedgerEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	e := &domain.LedgerEntry{}
	err := row.Scan(
		&e.ID, &e.AccountID, &e.Amount, &e.Kind, &e.Status, &e.Provider, &e.ClientRef,
		&e.ExternalRef, &e.IdempotencyKey, &e.PaymentURL, &e.ExpiresAt, &e.CreatedAt, &e.ProcessedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}
