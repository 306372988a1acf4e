package ports

//go:generate mockgen -source=infrastructure.go -destination=mocks/mock_infrastructure.go -package=mocks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
)

// HTTPClient abstracts outbound HTTP for gateway and market clients.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Catalog is the read-only product catalog.
type Catalog interface {
	ByID(id string) (*domain.CatalogItem, bool)
	ByName(marketHashName string) (*domain.CatalogItem, bool)
	ByCategory(category string) []domain.CatalogItem
	ByRarity(rarity domain.Rarity) []domain.CatalogItem
	Len() int
	Reload(ctx context.Context) error
}

// PriceSource fetches current market prices in kopecks, keyed by market hash name.
// Names missing from the returned map had no usable price.
type PriceSource interface {
	FetchPrices(ctx context.Context, names []string) (map[string]int64, error)
}

// Drawer produces a uniformly distributed value in [0, 100).
type Drawer interface {
	Draw() (float64, error)
}

// LiveFeedPublisher broadcasts committed openings.
type LiveFeedPublisher interface {
	PublishOpening(ctx context.Context, event domain.OpeningEvent) error
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// StateStore holds short-lived one-time values.
type StateStore interface {
	// Put stores value under a fresh random token.
	Put(ctx context.Context, value string, ttl time.Duration) (string, error)
	// Take returns and deletes the value. found is false for unknown or already used tokens.
	Take(ctx context.Context, token string) (value string, found bool, err error)
}

// JobLock is a cross-instance mutual exclusion lock for periodic jobs.
type JobLock interface {
	// Acquire returns a release token when the lock was taken, "" when it is held elsewhere.
	Acquire(ctx context.Context, name string, ttl time.Duration) (string, error)
	Release(ctx context.Context, name, token string) error
}

// ErrGatewayRejected marks a definitive refusal by a payment gateway, as opposed
// to a timeout or transport failure whose outcome is unknown.
var ErrGatewayRejected = errors.New("payment gateway rejected the request")

// GatewayOrderRequest is the provider-neutral input for creating a payment order.
type GatewayOrderRequest struct {
	LedgerEntryID uuid.UUID
	ClientRef     uuid.UUID
	AccountID     uuid.UUID
	Amount        int64 // kopecks
	Currency      string
	ReturnURL     string
	Description   string
}

// GatewayOrder is the gateway's answer to an order creation.
type GatewayOrder struct {
	ExternalRef string
	PaymentURL  string
}

// GatewayStatus is the authoritative state of an order as reported by the gateway.
type GatewayStatus struct {
	ExternalRef string
	ClientRef   string
	RawStatus   string
	Outcome     domain.SettlementOutcome
}

// PaymentGateway creates orders and reports their status.
type PaymentGateway interface {
	Provider() domain.Provider
	CreateOrder(ctx context.Context, req GatewayOrderRequest) (*GatewayOrder, error)
	FetchStatus(ctx context.Context, externalRef string) (*GatewayStatus, error)
}
