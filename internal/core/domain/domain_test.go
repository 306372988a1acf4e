package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status LedgerStatus
		want   bool
	}{
		{"pending", LedgerStatusPending, false},
		{"completed", LedgerStatusCompleted, true},
		{"failed", LedgerStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &LedgerEntry{Status: tt.status}
			assert.Equal(t, tt.want, e.IsTerminal())
		})
	}
}

func TestLedgerEntry_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from LedgerStatus
		to   LedgerStatus
		want bool
	}{
		{"pending to completed", LedgerStatusPending, LedgerStatusCompleted, true},
		{"pending to failed", LedgerStatusPending, LedgerStatusFailed, true},
		{"pending to pending", LedgerStatusPending, LedgerStatusPending, false},
		{"completed to failed", LedgerStatusCompleted, LedgerStatusFailed, false},
		{"failed to completed", LedgerStatusFailed, LedgerStatusCompleted, false},
		{"completed to pending", LedgerStatusCompleted, LedgerStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &LedgerEntry{Status: tt.from}
			assert.Equal(t, tt.want, e.CanTransition(tt.to))
		})
	}
}

func TestLedgerEntry_IsExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	assert.True(t, (&LedgerEntry{Status: LedgerStatusPending, ExpiresAt: &past}).IsExpired(now))
	assert.False(t, (&LedgerEntry{Status: LedgerStatusPending, ExpiresAt: &future}).IsExpired(now))
	assert.False(t, (&LedgerEntry{Status: LedgerStatusPending}).IsExpired(now))
	assert.False(t, (&LedgerEntry{Status: LedgerStatusFailed, ExpiresAt: &past}).IsExpired(now))
}

func TestProvider_Valid(t *testing.T) {
	assert.True(t, ProviderYooKassa.Valid())
	assert.True(t, ProviderExnode.Valid())
	assert.False(t, Provider("PAYPAL").Valid())
}

func TestRarityFromCatalogID(t *testing.T) {
	tests := []struct {
		id   string
		want Rarity
	}{
		{"rarity_common", RarityConsumer},
		{"rarity_uncommon", RarityIndustrial},
		{"rarity_rare", RarityMilSpec},
		{"rarity_mythical", RarityRestricted},
		{"rarity_legendary", RarityClassified},
		{"rarity_ancient", RarityCovert},
		{"rarity_contraband", RarityContraband},
		{"RARITY_COVERT", RarityCovert},
		{"rarity_ancient_weapon", RarityCovert},
		{"rarity_rare_weapon", RarityMilSpec},
		{"rarity_unknown", RarityConsumer},
		{"", RarityConsumer},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, RarityFromCatalogID(tt.id))
		})
	}
}

func TestRarity_BaseChance(t *testing.T) {
	assert.Equal(t, 79.92, RarityConsumer.BaseChance())
	assert.Equal(t, 0.026, RarityKnife.BaseChance())
	assert.Equal(t, FallbackBaseChance, RarityContraband.BaseChance())
	assert.Equal(t, FallbackBaseChance, Rarity("GOLD").BaseChance())
}

func TestCatalogItem_Rarity(t *testing.T) {
	knife := CatalogItem{Category: "Knives", RarityID: "rarity_ancient_weapon"}
	assert.Equal(t, RarityKnife, knife.Rarity())

	rifle := CatalogItem{Category: "Rifles", RarityID: "rarity_ancient_weapon"}
	assert.Equal(t, RarityCovert, rifle.Rarity())
}

func TestRarity_Rank(t *testing.T) {
	assert.Less(t, RarityConsumer.Rank(), RarityIndustrial.Rank())
	assert.Less(t, RarityCovert.Rank(), RarityKnife.Rank())
	assert.Less(t, RarityKnife.Rank(), RarityContraband.Rank())
	assert.Equal(t, -1, Rarity("GOLD").Rank())
	assert.False(t, Rarity("GOLD").Valid())
}

func TestChancesBalanced(t *testing.T) {
	tests := []struct {
		name    string
		chances []float64
		want    bool
	}{
		{"exact", []float64{10, 30, 60}, true},
		{"within tolerance above", []float64{33.34, 33.34, 33.33}, true},
		{"within tolerance below", []float64{33.33, 33.33, 33.33}, true},
		{"outside tolerance", []float64{33.3, 33.3, 33.3}, false},
		{"over", []float64{50, 50.5}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]CaseItem, 0, len(tt.chances))
			for _, c := range tt.chances {
				items = append(items, CaseItem{ItemID: uuid.New(), ChancePercent: c})
			}
			assert.Equal(t, tt.want, ChancesBalanced(items))
		})
	}
}

func TestAccount_CanAfford(t *testing.T) {
	a := &Account{Balance: 500}
	assert.True(t, a.CanAfford(500))
	assert.True(t, a.CanAfford(0))
	assert.False(t, a.CanAfford(501))
	assert.False(t, a.CanAfford(-1))
}

func TestUserStats_RecordDrop(t *testing.T) {
	s := &UserStats{}
	first := uuid.New()
	assert.True(t, s.RecordDrop(first, 1000))
	assert.Equal(t, first, *s.BestItemID)

	// equal price keeps the earlier drop
	assert.False(t, s.RecordDrop(uuid.New(), 1000))
	assert.Equal(t, first, *s.BestItemID)

	assert.False(t, s.RecordDrop(uuid.New(), 999))

	better := uuid.New()
	assert.True(t, s.RecordDrop(better, 1001))
	assert.Equal(t, better, *s.BestItemID)
	assert.Equal(t, int64(1001), s.BestItemPrice)
}

func TestUserStats_RecordCaseCount(t *testing.T) {
	s := &UserStats{}
	a, b := uuid.New(), uuid.New()

	s.RecordCaseCount(a, 1)
	assert.Equal(t, a, *s.FavoriteCaseID)

	s.RecordCaseCount(b, 1)
	assert.Equal(t, a, *s.FavoriteCaseID, "tie keeps current favorite")

	s.RecordCaseCount(b, 2)
	assert.Equal(t, b, *s.FavoriteCaseID)
	assert.Equal(t, int64(2), s.FavoriteCaseCount)

	s.RecordCaseCount(b, 3)
	assert.Equal(t, int64(3), s.FavoriteCaseCount)
}
