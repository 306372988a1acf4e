package service

import (
	"context"
	"errors"
	"math"
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

type probabilityTestDeps struct {
	svc      *ProbabilityServiceImpl
	itemRepo *mocks.MockItemRepository
	catalog  *mocks.MockCatalog
	prices   *mocks.MockPriceSource
	ctrl     *gomock.Controller
}

func setupProbabilityService(t *testing.T) *probabilityTestDeps {
	ctrl := gomock.NewController(t)
	d := &probabilityTestDeps{
		itemRepo: mocks.NewMockItemRepository(ctrl),
		catalog:  mocks.NewMockCatalog(ctrl),
		prices:   mocks.NewMockPriceSource(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewProbabilityService(d.itemRepo, d.catalog, d.prices, zerolog.Nop())
	return d
}

func dbItem(name string, rarity domain.Rarity, price int64) domain.Item {
	return domain.Item{ID: uuid.New(), MarketHashName: name, DisplayName: name, Rarity: rarity, Price: price}
}

func floatPtr(v float64) *float64 { return &v }

func sumChances(items []ports.CalculatedItem) float64 {
	var s float64
	for _, it := range items {
		s += it.ChancePercent
	}
	return s
}

// ==================== Algorithms ====================

func TestChancesByPrice_InverseProportional(t *testing.T) {
	got := chancesByPrice([]int64{100, 200, 700}, 0.01, 100)
	assert.Equal(t, []float64{60.87, 30.43, 8.7}, got)
	assert.InDelta(t, 100, got[0]+got[1]+got[2], 0.1)
}

func TestChancesByPrice_ClampThenNormalize(t *testing.T) {
	got := normalizeChances(chancesByPrice([]int64{100, 200, 700}, 0.1, 50))
	assert.Equal(t, 50.0, chancesByPrice([]int64{100, 200, 700}, 0.1, 50)[0])
	assert.InDelta(t, 100, got[0]+got[1]+got[2], 1e-9)
	assert.Greater(t, got[0], got[1])
	assert.Greater(t, got[1], got[2])
}

func TestChancesByRarity_EqualSplitWithinTier(t *testing.T) {
	got := chancesByRarity([]domain.Rarity{
		domain.RarityConsumer, domain.RarityConsumer, domain.RarityIndustrial, domain.RarityContraband,
	}, 0.01, 100)

	assert.Equal(t, 39.96, got[0])
	assert.Equal(t, 39.96, got[1])
	assert.Equal(t, 15.98, got[2])
	assert.Equal(t, 10.0, got[3], "tiers outside the table fall back to 10")
}

func TestChancesCombined_PriceWithinTier(t *testing.T) {
	got := chancesCombined(
		[]domain.Rarity{domain.RarityIndustrial, domain.RarityIndustrial, domain.RarityConsumer},
		[]int64{100, 400, 50},
		0.01, 100,
	)

	assert.Equal(t, 12.78, got[0])
	assert.Equal(t, 3.2, got[1])
	assert.Equal(t, 79.92, got[2])
}

func TestNormalizeChances(t *testing.T) {
	t.Run("close enough stays untouched", func(t *testing.T) {
		in := []float64{33.33, 33.33, 33.33}
		assert.Equal(t, in, normalizeChances(in))
	})
	t.Run("rescales to exactly 100", func(t *testing.T) {
		got := normalizeChances([]float64{50, 0.1, 0.1})
		var sum float64
		for _, c := range got {
			sum += c
		}
		assert.InDelta(t, 100, sum, 1e-9)
	})
	t.Run("single clamped item", func(t *testing.T) {
		assert.Equal(t, []float64{100}, normalizeChances([]float64{50}))
	})
}

func TestAllAlgorithms_SumWithinTolerance(t *testing.T) {
	rarities := []domain.Rarity{
		domain.RarityConsumer, domain.RarityConsumer, domain.RarityIndustrial, domain.RarityMilSpec,
		domain.RarityRestricted, domain.RarityClassified, domain.RarityCovert, domain.RarityKnife,
	}
	prices := []int64{300, 450, 1_200, 9_000, 45_000, 160_000, 700_000, 2_500_000}

	for name, chances := range map[string][]float64{
		"price":    chancesByPrice(prices, defaultMinChance, defaultMaxChance),
		"rarity":   chancesByRarity(rarities, defaultMinChance, defaultMaxChance),
		"combined": chancesCombined(rarities, prices, defaultMinChance, defaultMaxChance),
	} {
		t.Run(name, func(t *testing.T) {
			var sum float64
			for _, c := range normalizeChances(chances) {
				assert.GreaterOrEqual(t, c, 0.0)
				sum += c
			}
			assert.Less(t, math.Abs(sum-100), 0.1)
		})
	}
}

// ==================== Calculate ====================

func TestProbabilityService_Calculate_MixedSources(t *testing.T) {
	d := setupProbabilityService(t)
	ctx := context.Background()

	ak := dbItem("AK-47 | Redline (Field-Tested)", domain.RarityMilSpec, 100)
	names := []string{ak.MarketHashName, "AWP | Asiimov (Field-Tested)", "Unknown", "Unpriced"}

	d.itemRepo.EXPECT().GetByNames(ctx, names).Return([]domain.Item{ak}, nil)
	d.catalog.EXPECT().ByName("AWP | Asiimov (Field-Tested)").Return(&domain.CatalogItem{
		MarketHashName: "AWP | Asiimov (Field-Tested)", Name: "AWP | Asiimov", RarityID: "rarity_ancient_weapon",
	}, true)
	d.catalog.EXPECT().ByName("Unknown").Return(nil, false)
	d.catalog.EXPECT().ByName("Unpriced").Return(&domain.CatalogItem{MarketHashName: "Unpriced"}, true)
	d.prices.EXPECT().FetchPrices(ctx, []string{"AWP | Asiimov (Field-Tested)", "Unpriced"}).
		Return(map[string]int64{"AWP | Asiimov (Field-Tested)": 200}, nil)

	res, err := d.svc.Calculate(ctx, ports.CalculateRequest{
		Names:     append(names, ak.MarketHashName),
		Algorithm: "byPrice",
		MaxChance: floatPtr(100),
	})
	require.NoError(t, err)

	assert.Equal(t, ports.AlgorithmPrice, res.Algorithm)
	require.Len(t, res.Items, 2)
	assert.Equal(t, ak.MarketHashName, res.Items[0].MarketHashName)
	require.NotNil(t, res.Items[0].ItemID)
	assert.Equal(t, ak.ID, *res.Items[0].ItemID)
	assert.Nil(t, res.Items[1].ItemID)
	assert.Equal(t, domain.RarityCovert, res.Items[1].Rarity)
	assert.Equal(t, 66.67, res.Items[0].ChancePercent)
	assert.Equal(t, 33.33, res.Items[1].ChancePercent)
	assert.Equal(t, 100.0, res.TotalChance)

	require.Len(t, res.Warnings, 2)
	assert.Equal(t, ports.Warning{Name: "Unknown", Code: ports.WarningNotFound, Message: res.Warnings[0].Message}, res.Warnings[0])
	assert.Equal(t, ports.WarningPriceError, res.Warnings[1].Code)
	assert.Equal(t, "Unpriced", res.Warnings[1].Name)
}

func TestProbabilityService_Calculate_PriceSourceDown(t *testing.T) {
	d := setupProbabilityService(t)
	ctx := context.Background()

	ak := dbItem("AK-47 | Redline (Field-Tested)", domain.RarityMilSpec, 100)
	d.itemRepo.EXPECT().GetByNames(ctx, gomock.Any()).Return([]domain.Item{ak}, nil)
	d.catalog.EXPECT().ByName("New").Return(&domain.CatalogItem{MarketHashName: "New"}, true)
	d.prices.EXPECT().FetchPrices(ctx, []string{"New"}).Return(nil, errors.New("timeout"))

	res, err := d.svc.Calculate(ctx, ports.CalculateRequest{
		Names:     []string{ak.MarketHashName, "New"},
		Algorithm: ports.AlgorithmRarity,
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 100.0, res.Items[0].ChancePercent)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, ports.WarningPriceError, res.Warnings[0].Code)
}

func TestProbabilityService_Calculate_NothingResolved(t *testing.T) {
	d := setupProbabilityService(t)
	ctx := context.Background()

	d.itemRepo.EXPECT().GetByNames(ctx, []string{"ghost"}).Return(nil, nil)
	d.catalog.EXPECT().ByName("ghost").Return(nil, false)

	_, err := d.svc.Calculate(ctx, ports.CalculateRequest{Names: []string{"ghost"}, Algorithm: ports.AlgorithmPrice})
	assertAppError(t, err, "VAL_001")
}

func TestProbabilityService_Calculate_Validation(t *testing.T) {
	d := setupProbabilityService(t)

	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = uuid.NewString()
	}

	tests := []struct {
		name string
		req  ports.CalculateRequest
	}{
		{"no names", ports.CalculateRequest{Names: []string{" ", ""}, Algorithm: ports.AlgorithmPrice}},
		{"too many names", ports.CalculateRequest{Names: tooMany, Algorithm: ports.AlgorithmPrice}},
		{"unknown algorithm", ports.CalculateRequest{Names: []string{"a"}, Algorithm: "random"}},
		{"min above max", ports.CalculateRequest{Names: []string{"a"}, Algorithm: ports.AlgorithmPrice, MinChance: floatPtr(10), MaxChance: floatPtr(5)}},
		{"min too small", ports.CalculateRequest{Names: []string{"a"}, Algorithm: ports.AlgorithmPrice, MinChance: floatPtr(0)}},
		{"max too large", ports.CalculateRequest{Names: []string{"a"}, Algorithm: ports.AlgorithmPrice, MaxChance: floatPtr(101)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.svc.Calculate(context.Background(), tt.req)
			assertAppError(t, err, "VAL_001")
		})
	}
}

func TestProbabilityService_Calculate_RepoError(t *testing.T) {
	d := setupProbabilityService(t)
	d.itemRepo.EXPECT().GetByNames(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := d.svc.Calculate(context.Background(), ports.CalculateRequest{Names: []string{"a"}, Algorithm: ports.AlgorithmCombined})
	assertAppError(t, err, "SYS_001")
}

func TestDedupeNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, dedupeNames([]string{" a", "b", "a", "", "b "}))
}
