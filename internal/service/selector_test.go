package service

import (
	"math"
	"math/rand/v2"
	"testing"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caseItems(chances ...float64) []domain.CaseItem {
	items := make([]domain.CaseItem, len(chances))
	for i, c := range chances {
		items[i] = domain.CaseItem{ItemID: uuid.New(), ChancePercent: c, Position: i}
	}
	return items
}

func TestSelectItem_Boundaries(t *testing.T) {
	items := caseItems(50, 30, 20)

	tests := []struct {
		name string
		draw float64
		want int
	}{
		{"zero draw", 0, 0},
		{"inside first", 49.999, 0},
		{"exact boundary goes to next item", 50, 1},
		{"inside second", 79.99, 1},
		{"second boundary", 80, 2},
		{"top of range", 99.999999999, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectItem(items, tt.draw)
			require.NoError(t, err)
			assert.Equal(t, items[tt.want].ItemID, got)
		})
	}
}

func TestSelectItem_ShortSumFallsBackToLast(t *testing.T) {
	items := caseItems(33.33, 33.33, 33.33)

	got, err := SelectItem(items, 99.995)
	require.NoError(t, err)
	assert.Equal(t, items[2].ItemID, got)
}

func TestSelectItem_SingleItem(t *testing.T) {
	items := caseItems(100)
	for _, draw := range []float64{0, 42, 99.9} {
		got, err := SelectItem(items, draw)
		require.NoError(t, err)
		assert.Equal(t, items[0].ItemID, got)
	}
}

func TestSelectItem_Empty(t *testing.T) {
	_, err := SelectItem(nil, 10)
	assert.ErrorIs(t, err, ErrEmptyItemList)
}

func TestSelectItem_OrderMatters(t *testing.T) {
	a := caseItems(10, 90)
	b := []domain.CaseItem{a[1], a[0]}

	gotA, _ := SelectItem(a, 5)
	gotB, _ := SelectItem(b, 5)
	assert.Equal(t, a[0].ItemID, gotA)
	assert.Equal(t, a[1].ItemID, gotB)
}

func TestSelectItem_Frequencies(t *testing.T) {
	tests := []struct {
		name    string
		chances []float64
	}{
		{"ten thirty sixty", []float64{10, 30, 60}},
		{"rarity table", []float64{79.92, 15.98, 3.2, 0.64, 0.13, 0.13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := caseItems(tt.chances...)
			rng := rand.New(rand.NewPCG(42, 1024))

			const draws = 100_000
			counts := make(map[uuid.UUID]int, len(items))
			for i := 0; i < draws; i++ {
				id, err := SelectItem(items, rng.Float64()*100)
				require.NoError(t, err)
				counts[id]++
			}

			for _, it := range items {
				p := it.ChancePercent / 100
				expected := p * draws
				sigma := math.Sqrt(draws * p * (1 - p))
				assert.InDelta(t, expected, float64(counts[it.ItemID]), 5*sigma+1,
					"chance %.2f%%", it.ChancePercent)
			}
		})
	}
}

func TestCryptoDrawer_Range(t *testing.T) {
	var d CryptoDrawer
	for i := 0; i < 10_000; i++ {
		v, err := d.Draw()
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 100.0)
	}
}

func TestCryptoDrawer_Spread(t *testing.T) {
	var d CryptoDrawer
	var buckets [10]int
	const n = 20_000
	for i := 0; i < n; i++ {
		v, err := d.Draw()
		require.NoError(t, err)
		buckets[int(v/10)]++
	}
	for i, c := range buckets {
		assert.InDelta(t, n/10, c, 300, "bucket %d", i)
	}
}
