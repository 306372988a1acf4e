package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CaseAdminServiceImpl implements ports.CaseAdminService.
type CaseAdminServiceImpl struct {
	caseRepo   ports.CaseRepository
	itemRepo   ports.ItemRepository
	resolver   *itemResolver
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewCaseAdminService creates a new CaseAdminServiceImpl.
func NewCaseAdminService(
	caseRepo ports.CaseRepository,
	itemRepo ports.ItemRepository,
	catalog ports.Catalog,
	prices ports.PriceSource,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *CaseAdminServiceImpl {
	return &CaseAdminServiceImpl{
		caseRepo:   caseRepo,
		itemRepo:   itemRepo,
		resolver:   &itemResolver{itemRepo: itemRepo, catalog: catalog, prices: prices, log: log},
		transactor: transactor,
		log:        log,
	}
}

// SetCaseItems replaces the weighted item list of a case. The input order becomes
// the persisted order the selector walks.
func (s *CaseAdminServiceImpl) SetCaseItems(ctx context.Context, caseID uuid.UUID, inputs []ports.CaseItemInput) (*domain.Case, error) {
	names, err := validateCaseItemInputs(inputs)
	if err != nil {
		return nil, err
	}

	resolved, warnings, err := s.resolver.resolve(ctx, names)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if len(warnings) > 0 {
		bad := make([]string, len(warnings))
		for i, w := range warnings {
			bad[i] = fmt.Sprintf("%s (%s)", w.Name, w.Code)
		}
		return nil, apperror.Validation("unresolvable items: " + strings.Join(bad, ", "))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	c, err := s.caseRepo.GetByIDForUpdate(ctx, dbTx, caseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock case: %w", err))
	}
	if c == nil {
		return nil, apperror.ErrNotFound("case")
	}

	now := time.Now().UTC()
	caseItems := make([]domain.CaseItem, len(resolved))
	created := 0
	for i, r := range resolved {
		item := r.toItem()
		if r.Persisted == nil {
			item.ID = uuid.New()
			item.CreatedAt = now
			item.UpdatedAt = now
			if err := s.itemRepo.Create(ctx, dbTx, &item); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("create item %q: %w", item.MarketHashName, err))
			}
			created++
		}
		caseItems[i] = domain.CaseItem{
			ItemID:        item.ID,
			ChancePercent: inputs[i].ChancePercent,
			Position:      i,
		}
	}

	if err := s.caseRepo.ReplaceItems(ctx, dbTx, caseID, caseItems); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("replace case items: %w", err))
	}

	updated, err := s.caseRepo.GetWithItems(ctx, dbTx, caseID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reload case: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("case_id", caseID.String()).
		Int("items", len(caseItems)).
		Int("items_created", created).
		Msg("case items replaced")

	return updated, nil
}

// validateCaseItemInputs returns the trimmed names in input order.
func validateCaseItemInputs(inputs []ports.CaseItemInput) ([]string, error) {
	if len(inputs) == 0 {
		return nil, apperror.Validation("a case needs at least one item")
	}

	names := make([]string, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	var sum float64
	for i := range inputs {
		name := strings.TrimSpace(inputs[i].MarketHashName)
		if name == "" {
			return nil, apperror.Validation(fmt.Sprintf("item %d has no market_hash_name", i+1))
		}
		if _, dup := seen[name]; dup {
			return nil, apperror.Validation(fmt.Sprintf("duplicate item %q", name))
		}
		seen[name] = struct{}{}

		c := inputs[i].ChancePercent
		if math.IsNaN(c) || c <= 0 || c > 100 {
			return nil, apperror.Validation(fmt.Sprintf("chance of %q must be in (0, 100]", name))
		}
		sum += c
		names[i] = name
	}

	if math.Abs(sum-100) > domain.ChanceSumTolerance+1e-9 {
		return nil, apperror.ErrChanceSumOutOfTolerance(sum)
	}
	return names, nil
}
