package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerKind represents the direction of a money movement.
type LedgerKind string

const (
	LedgerKindDeposit    LedgerKind = "DEPOSIT"
	LedgerKindWithdrawal LedgerKind = "WITHDRAWAL"
)

// LedgerStatus represents the lifecycle state of a ledger entry.
// An entry leaves PENDING exactly once and never goes back.
type LedgerStatus string

const (
	LedgerStatusPending   LedgerStatus = "PENDING"
	LedgerStatusCompleted LedgerStatus = "COMPLETED"
	LedgerStatusFailed    LedgerStatus = "FAILED"
)

// Provider identifies the external payment gateway behind a ledger entry.
type Provider string

const (
	ProviderYooKassa Provider = "YOOKASSA"
	ProviderExnode   Provider = "EXNODE"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	return p == ProviderYooKassa || p == ProviderExnode
}

// LedgerEntry records a monetary deposit or withdrawal and its settlement state.
type LedgerEntry struct {
	ID             uuid.UUID    `json:"id"`
	AccountID      uuid.UUID    `json:"account_id"`
	Amount         int64        `json:"amount"` // kopecks
	Kind           LedgerKind   `json:"kind"`
	Status         LedgerStatus `json:"status"`
	Provider       Provider     `json:"provider"`
	ClientRef      uuid.UUID    `json:"client_ref"` // sent to the gateway as our order id
	ExternalRef    *string      `json:"external_ref,omitempty"`
	IdempotencyKey *string      `json:"-"`
	PaymentURL     *string      `json:"payment_url,omitempty"`
	ExpiresAt      *time.Time   `json:"expires_at,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	ProcessedAt    *time.Time   `json:"processed_at,omitempty"`
}

// IsTerminal returns true if the entry has been finalized.
func (e *LedgerEntry) IsTerminal() bool {
	return e.Status == LedgerStatusCompleted || e.Status == LedgerStatusFailed
}

// CanTransition reports whether the entry may move to the given status.
func (e *LedgerEntry) CanTransition(to LedgerStatus) bool {
	return e.Status == LedgerStatusPending &&
		(to == LedgerStatusCompleted || to == LedgerStatusFailed)
}

// IsExpired reports whether a pending entry is past its expiry.
func (e *LedgerEntry) IsExpired(now time.Time) bool {
	return e.Status == LedgerStatusPending && e.ExpiresAt != nil && e.ExpiresAt.Before(now)
}

// SettlementOutcome is the gateway-neutral verdict on a payment.
type SettlementOutcome int

const (
	OutcomePending SettlementOutcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o SettlementOutcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// ProviderStats holds aggregated deposit figures for one provider.
type ProviderStats struct {
	Provider        Provider `json:"provider"`
	Total           int64    `json:"total"`
	Completed       int64    `json:"completed"`
	Failed          int64    `json:"failed"`
	TotalAmount     int64    `json:"total_amount"`
	CompletedAmount int64    `json:"completed_amount"`
}
