package service

import (
	"context"
	"errors"
	"testing"

	"case-opening-platform/internal/core/domain"
	"case-opening-platform/internal/core/ports"
	"case-opening-platform/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type caseAdminTestDeps struct {
	svc        *CaseAdminServiceImpl
	caseRepo   *mocks.MockCaseRepository
	itemRepo   *mocks.MockItemRepository
	catalog    *mocks.MockCatalog
	prices     *mocks.MockPriceSource
	transactor *mocks.MockDBTransactor
}

func setupCaseAdminService(t *testing.T) *caseAdminTestDeps {
	ctrl := gomock.NewController(t)
	d := &caseAdminTestDeps{
		caseRepo:   mocks.NewMockCaseRepository(ctrl),
		itemRepo:   mocks.NewMockItemRepository(ctrl),
		catalog:    mocks.NewMockCatalog(ctrl),
		prices:     mocks.NewMockPriceSource(ctrl),
		transactor: mocks.NewMockDBTransactor(ctrl),
	}
	d.svc = NewCaseAdminService(d.caseRepo, d.itemRepo, d.catalog, d.prices, d.transactor, zerolog.Nop())
	return d
}

func TestCaseAdminService_SetCaseItems_Success(t *testing.T) {
	d := setupCaseAdminService(t)
	ctx := context.Background()
	tx := &mockTx{}
	caseID := uuid.New()

	existing := dbItem("AK-47 | Redline (Field-Tested)", domain.RarityMilSpec, 1500)
	inputs := []ports.CaseItemInput{
		{MarketHashName: "★ Karambit | Fade (Factory New)", ChancePercent: 0.5},
		{MarketHashName: existing.MarketHashName, ChancePercent: 99.5},
	}
	names := []string{inputs[0].MarketHashName, existing.MarketHashName}

	d.itemRepo.EXPECT().GetByNames(ctx, names).Return([]domain.Item{existing}, nil)
	d.catalog.EXPECT().ByName(names[0]).Return(&domain.CatalogItem{
		MarketHashName: names[0], Name: "Karambit | Fade", Category: "Knives", RarityID: "rarity_ancient_weapon",
	}, true)
	d.prices.EXPECT().FetchPrices(ctx, []string{names[0]}).Return(map[string]int64{names[0]: 12_000_000}, nil)

	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.caseRepo.EXPECT().GetByIDForUpdate(ctx, tx, caseID).Return(&domain.Case{ID: caseID, IsActive: true}, nil)

	var createdID uuid.UUID
	d.itemRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, it *domain.Item) error {
			assert.Equal(t, domain.RarityKnife, it.Rarity)
			assert.Equal(t, int64(12_000_000), it.Price)
			assert.NotEqual(t, uuid.Nil, it.ID)
			createdID = it.ID
			return nil
		})
	d.caseRepo.EXPECT().ReplaceItems(ctx, tx, caseID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ any, _ uuid.UUID, items []domain.CaseItem) error {
			require.Len(t, items, 2)
			assert.Equal(t, createdID, items[0].ItemID)
			assert.Equal(t, 0, items[0].Position)
			assert.Equal(t, existing.ID, items[1].ItemID)
			assert.Equal(t, 99.5, items[1].ChancePercent)
			assert.Equal(t, 1, items[1].Position)
			return nil
		})
	reloaded := &domain.Case{ID: caseID, Items: []domain.CaseItem{{ItemID: createdID}, {ItemID: existing.ID}}}
	d.caseRepo.EXPECT().GetWithItems(ctx, tx, caseID).Return(reloaded, nil)

	got, err := d.svc.SetCaseItems(ctx, caseID, inputs)
	require.NoError(t, err)
	assert.Same(t, reloaded, got)
}

func TestCaseAdminService_SetCaseItems_Validation(t *testing.T) {
	d := setupCaseAdminService(t)

	tests := []struct {
		name   string
		inputs []ports.CaseItemInput
		code   string
	}{
		{"empty", nil, "VAL_001"},
		{"blank name", []ports.CaseItemInput{{MarketHashName: " ", ChancePercent: 100}}, "VAL_001"},
		{"zero chance", []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 0}, {MarketHashName: "b", ChancePercent: 100}}, "VAL_001"},
		{"over 100", []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 100.5}}, "VAL_001"},
		{"duplicate", []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 50}, {MarketHashName: "a", ChancePercent: 50}}, "VAL_001"},
		{"sum too low", []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 50}, {MarketHashName: "b", ChancePercent: 49.98}}, "VAL_002"},
		{"sum too high", []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 50}, {MarketHashName: "b", ChancePercent: 50.02}}, "VAL_002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.svc.SetCaseItems(context.Background(), uuid.New(), tt.inputs)
			assertAppError(t, err, tt.code)
		})
	}
}

func TestValidateCaseItemInputs_WithinTolerance(t *testing.T) {
	names, err := validateCaseItemInputs([]ports.CaseItemInput{
		{MarketHashName: "a", ChancePercent: 33.33},
		{MarketHashName: " b ", ChancePercent: 33.33},
		{MarketHashName: "c", ChancePercent: 33.33},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestCaseAdminService_SetCaseItems_Unresolvable(t *testing.T) {
	d := setupCaseAdminService(t)
	ctx := context.Background()

	d.itemRepo.EXPECT().GetByNames(ctx, []string{"ghost"}).Return(nil, nil)
	d.catalog.EXPECT().ByName("ghost").Return(nil, false)

	_, err := d.svc.SetCaseItems(ctx, uuid.New(), []ports.CaseItemInput{{MarketHashName: "ghost", ChancePercent: 100}})
	assertAppError(t, err, "VAL_001")
	assert.Contains(t, err.Error(), "ghost (NOT_FOUND)")
}

func TestCaseAdminService_SetCaseItems_CaseNotFound(t *testing.T) {
	d := setupCaseAdminService(t)
	ctx := context.Background()
	tx := &mockTx{}
	item := dbItem("a", domain.RarityConsumer, 100)

	d.itemRepo.EXPECT().GetByNames(ctx, []string{"a"}).Return([]domain.Item{item}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.caseRepo.EXPECT().GetByIDForUpdate(ctx, tx, gomock.Any()).Return(nil, nil)

	_, err := d.svc.SetCaseItems(ctx, uuid.New(), []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 100}})
	assertAppError(t, err, "RES_001")
}

func TestCaseAdminService_SetCaseItems_ReplaceFails(t *testing.T) {
	d := setupCaseAdminService(t)
	ctx := context.Background()
	tx := &mockTx{}
	item := dbItem("a", domain.RarityConsumer, 100)

	d.itemRepo.EXPECT().GetByNames(ctx, []string{"a"}).Return([]domain.Item{item}, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.caseRepo.EXPECT().GetByIDForUpdate(ctx, tx, gomock.Any()).Return(&domain.Case{}, nil)
	d.caseRepo.EXPECT().ReplaceItems(ctx, tx, gomock.Any(), gomock.Any()).Return(errors.New("fk violation"))

	_, err := d.svc.SetCaseItems(ctx, uuid.New(), []ports.CaseItemInput{{MarketHashName: "a", ChancePercent: 100}})
	assertAppError(t, err, "SYS_001")
}
