package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const sideEffectTimeout = 5 * time.Second

// CaseOpeningServiceImpl implements ports.CaseOpeningService.
type CaseOpeningServiceImpl struct {
	accountRepo   ports.AccountRepository
	caseRepo      ports.CaseRepository
	inventoryRepo ports.InventoryRepository
	openingRepo   ports.OpeningRepository
	statsRepo     ports.UserStatsRepository
	transactor    ports.DBTransactor
	drawer        ports.Drawer
	feed          ports.LiveFeedPublisher
	log           zerolog.Logger

	wg sync.WaitGroup
}

// NewCaseOpeningService creates a new CaseOpeningServiceImpl.
func NewCaseOpeningService(
	accountRepo ports.AccountRepository,
	caseRepo ports.CaseRepository,
	inventoryRepo ports.InventoryRepository,
	openingRepo ports.OpeningRepository,
	statsRepo ports.UserStatsRepository,
	transactor ports.DBTransactor,
	drawer ports.Drawer,
	feed ports.LiveFeedPublisher,
	log zerolog.Logger,
) *CaseOpeningServiceImpl {
	return &CaseOpeningServiceImpl{
		accountRepo:   accountRepo,
		caseRepo:      caseRepo,
		inventoryRepo: inventoryRepo,
		openingRepo:   openingRepo,
		statsRepo:     statsRepo,
		transactor:    transactor,
		drawer:        drawer,
		feed:          feed,
		log:           log,
	}
}

// OpenCase debits the case price and grants a drawn item in one transaction.
// The account row lock serializes concurrent openings by the same account.
func (s *CaseOpeningServiceImpl) OpenCase(ctx context.Context, req ports.OpenCaseRequest) (*ports.OpenCaseResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	account, err := s.accountRepo.GetByIDForUpdate(ctx, dbTx, req.AccountID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		return nil, apperror.ErrNotFound("account")
	}

	c, err := s.caseRepo.GetWithItems(ctx, dbTx, req.CaseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("load case: %w", err))
	}
	if c == nil {
		return nil, apperror.ErrNotFound("case")
	}
	if !c.IsActive {
		return nil, apperror.ErrInactive("case")
	}
	if len(c.Items) == 0 {
		return nil, apperror.Validation("case has no items")
	}

	if !account.CanAfford(c.Price) {
		return nil, apperror.ErrInsufficientFunds()
	}

	draw, err := s.drawer.Draw()
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	itemID, err := SelectItem(c.Items, draw)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("select item: %w", err))
	}
	won := c.ItemByID(itemID)
	if won == nil || won.Item == nil {
		return nil, apperror.InternalError(fmt.Errorf("selected item %s missing from case %s", itemID, c.ID))
	}

	newBalance := account.Balance - c.Price
	if newBalance < 0 {
		err := fmt.Errorf("account %s would go to %d", account.ID, newBalance)
		s.log.Error().Err(err).Str("case_id", c.ID.String()).Msg("balance integrity fault")
		return nil, apperror.ErrIntegrity(err)
	}
	if err := s.accountRepo.UpdateBalance(ctx, dbTx, account.ID, newBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit account: %w", err))
	}

	now := time.Now().UTC()
	opening := &domain.OpeningRecord{
		ID:        uuid.New(),
		AccountID: account.ID,
		CaseID:    c.ID,
		ItemID:    itemID,
		ItemPrice: won.Item.Price,
		CasePrice: c.Price,
		OpenedAt:  now,
	}
	if err := s.openingRepo.Create(ctx, dbTx, opening); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create opening: %w", err))
	}

	entry := &domain.InventoryEntry{
		ID:         uuid.New(),
		AccountID:  account.ID,
		ItemID:     itemID,
		OpeningID:  &opening.ID,
		Status:     domain.InventoryStatusOwned,
		AcquiredAt: now,
	}
	if err := s.inventoryRepo.Create(ctx, dbTx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create inventory entry: %w", err))
	}

	if err := s.caseRepo.IncrementOpenCount(ctx, dbTx, c.ID); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("increment open count: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("case_id", c.ID.String()).
		Str("item_id", itemID.String()).
		Int64("item_price", won.Item.Price).
		Int64("new_balance", newBalance).
		Msg("case opened")

	s.afterCommit(ctx, c, won.Item, opening)

	return &ports.OpenCaseResult{
		Item:        *won.Item,
		NewBalance:  newBalance,
		OpeningID:   opening.ID,
		InventoryID: entry.ID,
	}, nil
}

// afterCommit runs the live feed publish and the stats update in the background.
// Neither can affect the committed opening.
func (s *CaseOpeningServiceImpl) afterCommit(ctx context.Context, c *domain.Case, item *domain.Item, opening *domain.OpeningRecord) {
	event := domain.OpeningEvent{
		OpeningID:  opening.ID,
		AccountID:  opening.AccountID,
		CaseID:     c.ID,
		CaseName:   c.Name,
		ItemID:     item.ID,
		ItemName:   item.DisplayName,
		ItemRarity: item.Rarity,
		ItemImage:  item.ImageURL,
		ItemPrice:  opening.ItemPrice,
		OpenedAt:   opening.OpenedAt,
	}
	bg := context.WithoutCancel(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pubCtx, cancel := context.WithTimeout(bg, sideEffectTimeout)
		defer cancel()
		if err := s.feed.PublishOpening(pubCtx, event); err != nil {
			s.log.Warn().Err(err).Str("opening_id", opening.ID.String()).Msg("failed to publish opening to live feed")
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		statsCtx, cancel := context.WithTimeout(bg, sideEffectTimeout)
		defer cancel()
		if err := s.updateStats(statsCtx, opening); err != nil {
			s.log.Warn().Err(err).Str("account_id", opening.AccountID.String()).Msg("failed to update user stats")
		}
	}()
}

func (s *CaseOpeningServiceImpl) updateStats(ctx context.Context, opening *domain.OpeningRecord) error {
	stats, err := s.statsRepo.Get(ctx, opening.AccountID)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	if stats == nil {
		stats = &domain.UserStats{AccountID: opening.AccountID}
	}

	count, err := s.openingRepo.CountByAccountAndCase(ctx, opening.AccountID, opening.CaseID)
	if err != nil {
		return fmt.Errorf("count openings: %w", err)
	}

	stats.TotalOpened++
	stats.RecordDrop(opening.ItemID, opening.ItemPrice)
	stats.RecordCaseCount(opening.CaseID, count)

	return s.statsRepo.Upsert(ctx, stats)
}

// Wait blocks until in-flight side effects finish.
func (s *CaseOpeningServiceImpl) Wait() {
	s.wg.Wait()
}
