package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
)

// Token roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(accountID uuid.UUID, role string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	AccountID uuid.UUID
	Role      string
}

// AuditService records administrative actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// CaseOpeningService debits a balance and grants a drawn item atomically.
type CaseOpeningService interface {
	OpenCase(ctx context.Context, req OpenCaseRequest) (*OpenCaseResult, error)
}

type OpenCaseRequest struct {
	AccountID uuid.UUID
	CaseID    uuid.UUID
}

type OpenCaseResult struct {
	Item        domain.Item `json:"item"`
	NewBalance  int64       `json:"new_balance"`
	OpeningID   uuid.UUID   `json:"opening_id"`
	InventoryID uuid.UUID   `json:"inventory_id"`
}

// ProbabilityService proposes chances for a set of items.
type ProbabilityService interface {
	Calculate(ctx context.Context, req CalculateRequest) (*CalculateResult, error)
}

// Probability algorithms.
const (
	AlgorithmPrice    = "price"
	AlgorithmRarity   = "rarity"
	AlgorithmCombined = "combined"
)

type CalculateRequest struct {
	Names     []string
	Algorithm string
	MinChance *float64
	MaxChance *float64
}

type CalculatedItem struct {
	ItemID         *uuid.UUID    `json:"item_id,omitempty"`
	MarketHashName string        `json:"market_hash_name"`
	DisplayName    string        `json:"display_name"`
	Rarity         domain.Rarity `json:"rarity"`
	Price          int64         `json:"price"`
	ChancePercent  float64       `json:"chance_percent"`
}

// Warning codes.
const (
	WarningNotFound   = "NOT_FOUND"
	WarningPriceError = "PRICE_ERROR"
)

type Warning struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CalculateResult struct {
	Items       []CalculatedItem `json:"items"`
	TotalChance float64          `json:"total_chance"`
	Algorithm   string           `json:"algorithm"`
	Warnings    []Warning        `json:"warnings"`
}

// CaseAdminService replaces the weighted item list of a case.
type CaseAdminService interface {
	SetCaseItems(ctx context.Context, caseID uuid.UUID, items []CaseItemInput) (*domain.Case, error)
}

type CaseItemInput struct {
	MarketHashName string
	ChancePercent  float64
}

// PaymentService runs the deposit and settlement pipeline.
type PaymentService interface {
	CreateDeposit(ctx context.Context, req DepositRequest) (*DepositResult, error)
	ReconcileYooKassa(ctx context.Context, n YooKassaNotification) (domain.SettlementOutcome, error)
	ReconcileExnode(ctx context.Context, trackerID string) (domain.SettlementOutcome, error)
	SweepExpired(ctx context.Context) (int64, error)
	ResolveReturn(ctx context.Context, state string) (*ReturnStatus, error)
	GetStats(ctx context.Context) ([]domain.ProviderStats, error)
	DepositQRCode(ctx context.Context, accountID, entryID uuid.UUID) ([]byte, error)
}

type DepositRequest struct {
	AccountID      uuid.UUID
	Amount         int64 // kopecks
	Currency       string
	Provider       domain.Provider
	IdempotencyKey string
}

type DepositResult struct {
	LedgerEntryID    uuid.UUID  `json:"ledger_entry_id"`
	RedirectURL      string     `json:"redirect_url"`
	ProviderOrderRef string     `json:"provider_order_ref"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
}

// YooKassaNotification is the relevant part of a YooKassa push.
type YooKassaNotification struct {
	Event         string
	PaymentID     string
	Status        string
	TransactionID string // metadata.transactionId, our ledger entry id
}

type ReturnStatus struct {
	LedgerEntryID uuid.UUID           `json:"ledger_entry_id"`
	Status        domain.LedgerStatus `json:"status"`
	Amount        int64               `json:"amount"`
	Provider      domain.Provider     `json:"provider"`
}

// AccountService answers read-only account queries.
type AccountService interface {
	GetBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
	GetStats(ctx context.Context, accountID uuid.UUID) (*domain.UserStats, error)
}

// PriceRefreshService re-prices persisted items.
type PriceRefreshService interface {
	RefreshPrices(ctx context.Context) (*PriceRefreshResult, error)
}

type PriceRefreshResult struct {
	Checked int `json:"checked"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
