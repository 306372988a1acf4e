package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ChanceSumTolerance is the allowed deviation of a case's chance sum from 100.
const ChanceSumTolerance = 0.01

// Case is a purchasable bundle with a weighted list of possible outcomes.
type Case struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Price       int64      `json:"price"` // kopecks
	IsActive    bool       `json:"is_active"`
	TotalOpened int64      `json:"total_opened"`
	Items       []CaseItem `json:"items"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CaseItem is one outcome of a case. Items are kept in persisted order.
type CaseItem struct {
	ItemID        uuid.UUID `json:"item_id"`
	ChancePercent float64   `json:"chance_percent"`
	Position      int       `json:"position"`
	Item          *Item     `json:"item,omitempty"`
}

// ChanceSum returns the sum of the item chances.
func (c *Case) ChanceSum() float64 {
	return SumChances(c.Items)
}

// SumChances returns Σ chancePercent over items.
func SumChances(items []CaseItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.ChancePercent
	}
	return sum
}

// ChancesBalanced reports whether the chances sum to 100 within tolerance.
func ChancesBalanced(items []CaseItem) bool {
	return math.Abs(SumChances(items)-100) <= ChanceSumTolerance+1e-9
}

// ItemByID returns the case item with the given id, or nil.
func (c *Case) ItemByID(id uuid.UUID) *CaseItem {
	for i := range c.Items {
		if c.Items[i].ItemID == id {
			return &c.Items[i]
		}
	}
	return nil
}
