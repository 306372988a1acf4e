package scheduler

import (
	"context"
	"time"

	"case-opening-platform/internal/core/ports"

	"github.com/rs/zerolog"
)

// Job names double as lock keys.
const (
	JobLedgerExpirySweep = "ledger-expiry-sweep"
	JobItemPriceRefresh  = "item-price-refresh"
)

// LedgerExpirySweep fails PENDING deposits past their expiry.
func LedgerExpirySweep(payments ports.PaymentService, interval time.Duration, log zerolog.Logger) Job {
	return Job{
		Name:       JobLedgerExpirySweep,
		Interval:   interval,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			n, err := payments.SweepExpired(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int64("expired", n).Msg("expired pending deposits")
			}
			return nil
		},
	}
}

// ItemPriceRefresh re-prices persisted items from the market.
func ItemPriceRefresh(refresher ports.PriceRefreshService, interval time.Duration) Job {
	return Job{
		Name:     JobItemPriceRefresh,
		Interval: interval,
		Run: func(ctx context.Context) error {
			_, err := refresher.RefreshPrices(ctx)
			return err
		},
	}
}
