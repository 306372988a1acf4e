package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"case-opening-platform/internal/core/domain"

	"github.com/google/uuid"
)

// ErrEmptyItemList is returned when a selection is attempted on a case without items.
var ErrEmptyItemList = errors.New("item list is empty")

// drawScale gives draws a granularity of 1e-9 over [0, 100).
const drawScale = 1_000_000_000

var drawUpper = big.NewInt(100 * drawScale)

// SelectItem walks items in persisted order and returns the first one whose
// running chance sum is strictly greater than draw. When rounding leaves the
// sum short of the draw, the last item wins.
func SelectItem(items []domain.CaseItem, draw float64) (uuid.UUID, error) {
	if len(items) == 0 {
		return uuid.Nil, ErrEmptyItemList
	}

	var cumulative float64
	for _, it := range items {
		cumulative += it.ChancePercent
		if cumulative > draw {
			return it.ItemID, nil
		}
	}
	return items[len(items)-1].ItemID, nil
}

// CryptoDrawer implements ports.Drawer with crypto/rand.
type CryptoDrawer struct{}

// Draw returns a uniformly distributed value in [0, 100).
func (CryptoDrawer) Draw() (float64, error) {
	n, err := rand.Int(rand.Reader, drawUpper)
	if err != nil {
		return 0, fmt.Errorf("draw: %w", err)
	}
	return float64(n.Int64()) / drawScale, nil
}
