package service

import (
	"context"
	"fmt"

	"case-opening-platform/internal/core/ports"
	"case-opening-platform/pkg/apperror"

	"github.com/rs/zerolog"
)

const (
	priceRefreshBatch = 50
	// priceMoveLogRatio is the relative change above which a repricing is logged at Info.
	priceMoveLogRatio = 0.10
)

// PriceRefreshServiceImpl re-prices every persisted item from the market.
type PriceRefreshServiceImpl struct {
	itemRepo ports.ItemRepository
	prices   ports.PriceSource
	log      zerolog.Logger
}

// NewPriceRefreshService creates a new price refresh service.
func NewPriceRefreshService(itemRepo ports.ItemRepository, prices ports.PriceSource, log zerolog.Logger) *PriceRefreshServiceImpl {
	return &PriceRefreshServiceImpl{itemRepo: itemRepo, prices: prices, log: log}
}

// RefreshPrices fetches prices in batches and updates rows whose price changed.
// A failed batch or a missing price counts the affected items as failed and
// does not stop the run.
func (s *PriceRefreshServiceImpl) RefreshPrices(ctx context.Context) (*ports.PriceRefreshResult, error) {
	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list items: %w", err))
	}

	result := &ports.PriceRefreshResult{Checked: len(items)}
	for start := 0; start < len(items); start += priceRefreshBatch {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := min(start+priceRefreshBatch, len(items))
		batch := items[start:end]

		names := make([]string, len(batch))
		for i := range batch {
			names[i] = batch[i].MarketHashName
		}

		fetched, err := s.prices.FetchPrices(ctx, names)
		if err != nil {
			s.log.Warn().Err(err).Int("batch_size", len(batch)).Msg("price batch failed")
			result.Failed += len(batch)
			continue
		}

		for i := range batch {
			item := &batch[i]
			price, ok := fetched[item.MarketHashName]
			if !ok || price <= 0 {
				result.Failed++
				continue
			}
			if price == item.Price {
				continue
			}
			if err := s.itemRepo.UpdatePrice(ctx, item.ID, price); err != nil {
				s.log.Error().Err(err).Str("item_id", item.ID.String()).Msg("failed to update item price")
				result.Failed++
				continue
			}
			result.Updated++

			if bigMove(item.Price, price) {
				s.log.Info().
					Str("item", item.MarketHashName).
					Int64("old_price", item.Price).
					Int64("new_price", price).
					Msg("item price moved")
			}
		}
	}

	s.log.Info().
		Int("checked", result.Checked).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("price refresh finished")
	return result, nil
}

func bigMove(oldPrice, newPrice int64) bool {
	if oldPrice <= 0 {
		return true
	}
	diff := newPrice - oldPrice
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/float64(oldPrice) > priceMoveLogRatio
}
