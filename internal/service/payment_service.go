package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net/url"
	"strings"
	"time"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"
	"case-opening-platform/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

const (
	depositCurrency = "RUB"
	qrImageSize     = 256
)

// ProviderSettings holds the per-gateway deposit rules.
type ProviderSettings struct {
	MinAmount int64 // kopecks
	ReturnURL string
	// OrderTTL is how long a deposit stays payable. Zero falls back to PaymentSettings.PendingTTL.
	OrderTTL time.Duration
}

// PaymentSettings configures the deposit pipeline.
type PaymentSettings struct {
	MaxAmount      int64 // kopecks
	PendingTTL     time.Duration
	ReturnStateTTL time.Duration
	IdempotencyTTL time.Duration
	// VerifyYooKassa re-reads a payment from the API instead of trusting the push payload.
	VerifyYooKassa bool
	Providers      map[domain.Provider]ProviderSettings
}

// PaymentServiceImpl implements ports.PaymentService.
type PaymentServiceImpl struct {
	ledgerRepo  ports.LedgerRepository
	accountRepo ports.AccountRepository
	transactor  ports.DBTransactor
	gateways    map[domain.Provider]ports.PaymentGateway
	idempCache  ports.IdempotencyCache
	states      ports.StateStore
	cfg         PaymentSettings
	log         zerolog.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentServiceImpl.
func NewPaymentService(
	ledgerRepo ports.LedgerRepository,
	accountRepo ports.AccountRepository,
	transactor ports.DBTransactor,
	gateways []ports.PaymentGateway,
	idempCache ports.IdempotencyCache,
	states ports.StateStore,
	cfg PaymentSettings,
	log zerolog.Logger,
) *PaymentServiceImpl {
	byProvider := make(map[domain.Provider]ports.PaymentGateway, len(gateways))
	for _, g := range gateways {
		byProvider[g.Provider()] = g
	}
	return &PaymentServiceImpl{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		transactor:  transactor,
		gateways:    byProvider,
		idempCache:  idempCache,
		states:      states,
		cfg:         cfg,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func depositCacheKey(accountID uuid.UUID, key string) string {
	return "deposit:" + accountID.String() + ":" + key
}

// CreateDeposit opens a PENDING ledger entry and a gateway order for it.
func (s *PaymentServiceImpl) CreateDeposit(ctx context.Context, req ports.DepositRequest) (*ports.DepositResult, error) {
	gateway, settings, err := s.validateDeposit(req)
	if err != nil {
		return nil, err
	}

	idempKey := strings.TrimSpace(req.IdempotencyKey)
	if idempKey != "" {
		if res, err := s.replayDeposit(ctx, req, idempKey); res != nil || err != nil {
			return res, err
		}
	}

	now := s.now()
	ttl := settings.OrderTTL
	if ttl <= 0 {
		ttl = s.cfg.PendingTTL
	}
	expiresAt := now.Add(ttl)

	entry := &domain.LedgerEntry{
		ID:        uuid.New(),
		AccountID: req.AccountID,
		Amount:    req.Amount,
		Kind:      domain.LedgerKindDeposit,
		Status:    domain.LedgerStatusPending,
		Provider:  req.Provider,
		ClientRef: uuid.New(),
		ExpiresAt: &expiresAt,
		CreatedAt: now,
	}
	if idempKey != "" {
		entry.IdempotencyKey = &idempKey
	}

	if err := s.insertEntry(ctx, entry); err != nil {
		// A concurrent request with the same key may have won the unique index.
		if idempKey != "" {
			if res, replayErr := s.replayDeposit(ctx, req, idempKey); res != nil || replayErr != nil {
				return res, replayErr
			}
		}
		return nil, apperror.InternalError(err)
	}

	order, err := gateway.CreateOrder(ctx, ports.GatewayOrderRequest{
		LedgerEntryID: entry.ID,
		ClientRef:     entry.ClientRef,
		AccountID:     req.AccountID,
		Amount:        req.Amount,
		Currency:      depositCurrency,
		ReturnURL:     s.returnURL(ctx, settings.ReturnURL, entry.ID),
		Description:   fmt.Sprintf("Balance top-up %s RUB", money.ToMajor(req.Amount)),
	})
	if err != nil {
		if errors.Is(err, ports.ErrGatewayRejected) {
			if _, failErr := s.ledgerRepo.FailPending(ctx, entry.ID, s.now()); failErr != nil {
				s.log.Warn().Err(failErr).Str("ledger_entry_id", entry.ID.String()).Msg("failed to mark rejected deposit as failed")
			}
		}
		s.log.Warn().Err(err).
			Str("ledger_entry_id", entry.ID.String()).
			Str("provider", string(req.Provider)).
			Bool("rejected", errors.Is(err, ports.ErrGatewayRejected)).
			Msg("gateway order creation failed")
		return nil, apperror.ErrExternalService(string(req.Provider), err)
	}

	if err := s.ledgerRepo.AttachExternalRef(ctx, entry.ID, order.ExternalRef, order.PaymentURL); err != nil {
		s.log.Error().Err(err).
			Str("ledger_entry_id", entry.ID.String()).
			Str("external_ref", order.ExternalRef).
			Msg("failed to store gateway order reference")
	}

	result := &ports.DepositResult{
		LedgerEntryID:    entry.ID,
		RedirectURL:      order.PaymentURL,
		ProviderOrderRef: order.ExternalRef,
		ExpiresAt:        &expiresAt,
	}

	if idempKey != "" {
		if data, err := json.Marshal(cachedDeposit{Amount: req.Amount, Provider: req.Provider, Result: *result}); err == nil {
			if err := s.idempCache.Set(ctx, depositCacheKey(req.AccountID, idempKey), data, s.cfg.IdempotencyTTL); err != nil {
				s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache deposit idempotency in redis")
			}
		}
	}

	s.log.Info().
		Str("ledger_entry_id", entry.ID.String()).
		Str("account_id", req.AccountID.String()).
		Str("provider", string(req.Provider)).
		Str("external_ref", order.ExternalRef).
		Int64("amount", req.Amount).
		Msg("deposit created")

	return result, nil
}

func (s *PaymentServiceImpl) validateDeposit(req ports.DepositRequest) (ports.PaymentGateway, ProviderSettings, error) {
	gateway, ok := s.gateways[req.Provider]
	if !ok || !req.Provider.Valid() {
		return nil, ProviderSettings{}, apperror.Validation("unsupported payment provider")
	}
	settings := s.cfg.Providers[req.Provider]

	if !strings.EqualFold(req.Currency, depositCurrency) {
		return nil, settings, apperror.Validation("only RUB deposits are supported")
	}
	if req.Amount <= 0 {
		return nil, settings, apperror.ErrInvalidAmount()
	}
	if req.Amount < settings.MinAmount {
		return nil, settings, apperror.ErrAmountBelowMinimum(settings.MinAmount)
	}
	if s.cfg.MaxAmount > 0 && req.Amount > s.cfg.MaxAmount {
		return nil, settings, apperror.Validation(fmt.Sprintf("amount exceeds the maximum of %d", s.cfg.MaxAmount))
	}
	return gateway, settings, nil
}

func errIdempotencyKeyReused() error {
	return apperror.Validation("idempotency key was already used for a different deposit")
}

// cachedDeposit keeps the request fields a replay must match next to the result.
type cachedDeposit struct {
	Amount   int64               `json:"amount"`
	Provider domain.Provider     `json:"provider"`
	Result   ports.DepositResult `json:"result"`
}

// replayDeposit returns the original result for a reused idempotency key, or nil if the key is new.
func (s *PaymentServiceImpl) replayDeposit(ctx context.Context, req ports.DepositRequest, key string) (*ports.DepositResult, error) {
	cacheKey := depositCacheKey(req.AccountID, key)

	cached, err := s.idempCache.Get(ctx, cacheKey)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		var c cachedDeposit
		if err := json.Unmarshal(cached, &c); err == nil && c.Provider != "" {
			if c.Amount != req.Amount || c.Provider != req.Provider {
				return nil, errIdempotencyKeyReused()
			}
			return &c.Result, nil
		}
		s.log.Warn().Str("key", key).Msg("discarding unreadable cached deposit")
	}

	entry, err := s.ledgerRepo.GetByIdempotencyKey(ctx, req.AccountID, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if entry == nil {
		return nil, nil
	}
	if entry.Amount != req.Amount || entry.Provider != req.Provider {
		return nil, errIdempotencyKeyReused()
	}
	if entry.PaymentURL == nil || entry.ExternalRef == nil {
		return nil, apperror.ErrExternalService(string(entry.Provider),
			fmt.Errorf("deposit %s has no gateway order", entry.ID))
	}

	return &ports.DepositResult{
		LedgerEntryID:    entry.ID,
		RedirectURL:      *entry.PaymentURL,
		ProviderOrderRef: *entry.ExternalRef,
		ExpiresAt:        entry.ExpiresAt,
	}, nil
}

func (s *PaymentServiceImpl) insertEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.ledgerRepo.Create(ctx, dbTx, entry); err != nil {
		return fmt.Errorf("create ledger entry: %w", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// returnURL appends a one-time state token identifying the entry. Without a
// stored state the bare URL is used.
func (s *PaymentServiceImpl) returnURL(ctx context.Context, base string, entryID uuid.UUID) string {
	if base == "" {
		return ""
	}
	token, err := s.states.Put(ctx, entryID.String(), s.cfg.ReturnStateTTL)
	if err != nil {
		s.log.Warn().Err(err).Str("ledger_entry_id", entryID.String()).Msg("failed to issue return state")
		return base
	}

	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("state", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// ReconcileYooKassa settles a YooKassa payment from a push notification.
func (s *PaymentServiceImpl) ReconcileYooKassa(ctx context.Context, n ports.YooKassaNotification) (domain.SettlementOutcome, error) {
	if strings.TrimSpace(n.PaymentID) == "" {
		return domain.OutcomePending, apperror.Validation("notification without payment id")
	}

	outcome := domain.YooKassaOutcome(n.Status)
	if s.cfg.VerifyYooKassa {
		gateway, ok := s.gateways[domain.ProviderYooKassa]
		if !ok {
			return domain.OutcomePending, apperror.InternalError(errors.New("yookassa gateway not configured"))
		}
		st, err := gateway.FetchStatus(ctx, n.PaymentID)
		if err != nil {
			return domain.OutcomePending, apperror.ErrExternalService("yookassa", err)
		}
		if st.RawStatus != n.Status {
			s.log.Warn().
				Str("payment_id", n.PaymentID).
				Str("pushed", n.Status).
				Str("actual", st.RawStatus).
				Msg("YooKassa notification status differs from API")
		}
		outcome = st.Outcome
	}

	var fallback entryFallback
	if id, err := uuid.Parse(n.TransactionID); err == nil {
		fallback.ledgerEntryID = &id
	}
	return s.settle(ctx, domain.ProviderYooKassa, n.PaymentID, fallback, outcome)
}

// ReconcileExnode settles an Exnode invoice. The push only names the invoice;
// its status is always read back from the API.
func (s *PaymentServiceImpl) ReconcileExnode(ctx context.Context, trackerID string) (domain.SettlementOutcome, error) {
	if strings.TrimSpace(trackerID) == "" {
		return domain.OutcomePending, apperror.Validation("notification without tracker_id")
	}
	gateway, ok := s.gateways[domain.ProviderExnode]
	if !ok {
		return domain.OutcomePending, apperror.InternalError(errors.New("exnode gateway not configured"))
	}

	st, err := gateway.FetchStatus(ctx, trackerID)
	if err != nil {
		return domain.OutcomePending, apperror.ErrExternalService("exnode", err)
	}
	var fallback entryFallback
	if ref, err := uuid.Parse(st.ClientRef); err == nil {
		fallback.clientRef = &ref
	}
	return s.settle(ctx, domain.ProviderExnode, trackerID, fallback, st.Outcome)
}

// entryFallback names the entry by our own ids when the gateway ref was never
// stored on it (AttachExternalRef failed after the gateway accepted the order).
type entryFallback struct {
	ledgerEntryID *uuid.UUID
	clientRef     *uuid.UUID
}

func (s *PaymentServiceImpl) lockFallbackEntry(ctx context.Context, dbTx pgx.Tx, fb entryFallback) (*domain.LedgerEntry, error) {
	switch {
	case fb.ledgerEntryID != nil:
		return s.ledgerRepo.GetByIDForUpdate(ctx, dbTx, *fb.ledgerEntryID)
	case fb.clientRef != nil:
		return s.ledgerRepo.GetByClientRefForUpdate(ctx, dbTx, *fb.clientRef)
	default:
		return nil, nil
	}
}

// settle applies an outcome to the entry behind externalRef. The entry row lock
// makes concurrent deliveries of the same notification take turns; only the
// first one finds the entry PENDING.
func (s *PaymentServiceImpl) settle(
	ctx context.Context,
	provider domain.Provider,
	externalRef string,
	fallback entryFallback,
	outcome domain.SettlementOutcome,
) (domain.SettlementOutcome, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return outcome, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry, err := s.ledgerRepo.GetByExternalRefForUpdate(ctx, dbTx, provider, externalRef)
	if err != nil {
		return outcome, apperror.InternalError(fmt.Errorf("lock ledger entry: %w", err))
	}
	if entry == nil {
		entry, err = s.lockFallbackEntry(ctx, dbTx, fallback)
		if err != nil {
			return outcome, apperror.InternalError(fmt.Errorf("lock ledger entry: %w", err))
		}
		if entry != nil && (entry.Provider != provider ||
			(entry.ExternalRef != nil && *entry.ExternalRef != externalRef)) {
			entry = nil
		}
	}
	if entry == nil {
		return outcome, apperror.ErrNotFound("ledger entry")
	}

	if entry.IsTerminal() {
		s.log.Info().
			Str("ledger_entry_id", entry.ID.String()).
			Str("status", string(entry.Status)).
			Str("outcome", outcome.String()).
			Msg("ledger entry already processed")
		return outcome, apperror.ErrAlreadyProcessed
	}

	now := s.now()
	switch outcome {
	case domain.OutcomeSucceeded:
		account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, entry.AccountID)
		if err != nil {
			return outcome, apperror.InternalError(fmt.Errorf("lock account: %w", err))
		}
		if account == nil {
			err := fmt.Errorf("ledger entry %s references missing account %s", entry.ID, entry.AccountID)
			s.log.Error().Err(err).Msg("balance integrity fault")
			return outcome, apperror.ErrIntegrity(err)
		}
		newBalance := account.Balance + entry.Amount
		if entry.Amount <= 0 || newBalance < account.Balance {
			err := fmt.Errorf("credit of %d to account %s is invalid", entry.Amount, account.ID)
			s.log.Error().Err(err).Str("ledger_entry_id", entry.ID.String()).Msg("balance integrity fault")
			return outcome, apperror.ErrIntegrity(err)
		}
		if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, newBalance); err != nil {
			return outcome, apperror.InternalError(fmt.Errorf("credit account: %w", err))
		}
		if err := s.ledgerRepo.UpdateStatus(ctx, dbTx, entry.ID, domain.LedgerStatusCompleted, now); err != nil {
			return outcome, apperror.InternalError(fmt.Errorf("complete ledger entry: %w", err))
		}
	case domain.OutcomeFailed:
		if err := s.ledgerRepo.UpdateStatus(ctx, dbTx, entry.ID, domain.LedgerStatusFailed, now); err != nil {
			return outcome, apperror.InternalError(fmt.Errorf("fail ledger entry: %w", err))
		}
	default:
		s.log.Debug().
			Str("ledger_entry_id", entry.ID.String()).
			Str("provider", string(provider)).
			Msg("payment still pending")
		return outcome, nil
	}

	if err := dbTx.Commit(ctx); err != nil {
		return outcome, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("ledger_entry_id", entry.ID.String()).
		Str("account_id", entry.AccountID.String()).
		Str("provider", string(provider)).
		Str("outcome", outcome.String()).
		Int64("amount", entry.Amount).
		Msg("deposit settled")
	return outcome, nil
}

// SweepExpired fails every PENDING entry past its expiry.
func (s *PaymentServiceImpl) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.ledgerRepo.MarkExpiredFailed(ctx, s.now())
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("sweep expired deposits: %w", err))
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("expired deposits marked failed")
	}
	return n, nil
}

// ResolveReturn consumes a return state and reports the deposit behind it.
func (s *PaymentServiceImpl) ResolveReturn(ctx context.Context, state string) (*ports.ReturnStatus, error) {
	if strings.TrimSpace(state) == "" {
		return nil, apperror.Validation("state is required")
	}

	value, found, err := s.states.Take(ctx, state)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("take return state: %w", err))
	}
	if !found {
		return nil, apperror.ErrNotFound("return state")
	}

	entryID, err := uuid.Parse(value)
	if err != nil {
		return nil, apperror.ErrNotFound("return state")
	}
	entry, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get ledger entry: %w", err))
	}
	if entry == nil {
		return nil, apperror.ErrNotFound("ledger entry")
	}

	return &ports.ReturnStatus{
		LedgerEntryID: entry.ID,
		Status:        entry.Status,
		Amount:        entry.Amount,
		Provider:      entry.Provider,
	}, nil
}

// GetStats returns deposit figures for every provider, including idle ones.
func (s *PaymentServiceImpl) GetStats(ctx context.Context) ([]domain.ProviderStats, error) {
	rows, err := s.ledgerRepo.GetStats(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("payment stats: %w", err))
	}

	byProvider := make(map[domain.Provider]domain.ProviderStats, len(rows))
	for _, r := range rows {
		byProvider[r.Provider] = r
	}
	out := make([]domain.ProviderStats, 0, 2)
	for _, p := range []domain.Provider{domain.ProviderYooKassa, domain.ProviderExnode} {
		st, ok := byProvider[p]
		if !ok {
			st = domain.ProviderStats{Provider: p}
		}
		out = append(out, st)
	}
	return out, nil
}

// DepositQRCode renders the payment URL of a pending deposit as a PNG.
func (s *PaymentServiceImpl) DepositQRCode(ctx context.Context, accountID, entryID uuid.UUID) ([]byte, error) {
	entry, err := s.ledgerRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get ledger entry: %w", err))
	}
	if entry == nil || entry.AccountID != accountID {
		return nil, apperror.ErrNotFound("deposit")
	}
	if entry.Status != domain.LedgerStatusPending || entry.IsExpired(s.now()) {
		return nil, apperror.ErrInactive("deposit")
	}
	if entry.PaymentURL == nil || *entry.PaymentURL == "" {
		return nil, apperror.ErrNotFound("payment url")
	}

	qr, err := qrcode.New(*entry.PaymentURL, qrcode.Medium)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("build qr code: %w", err))
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrImageSize)); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encode qr code: %w", err))
	}
	return buf.Bytes(), nil
}
