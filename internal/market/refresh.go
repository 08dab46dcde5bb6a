package market

import (
	"context"
	"fmt"

	"PortTrack/internal/domain/repository"
	"PortTrack/internal/ledger"
)

// RefreshJob is the periodic market-synchronization job: it refreshes
// the market cache from the quote source and derives holdings for
// every priced order.
type RefreshJob struct {
	ctx      context.Context
	orders   *ledger.OrderLedger
	cache    *Cache
	holdings *ledger.HoldingsLedger
	metrics  repository.Metrics
}

// NewRefreshJob creates the refresh job. ctx is the process lifetime
// context; cancelling it aborts in-flight fetches.
func NewRefreshJob(ctx context.Context, orders *ledger.OrderLedger, cache *Cache, holdings *ledger.HoldingsLedger, metrics repository.Metrics) *RefreshJob {
	return &RefreshJob{
		ctx:      ctx,
		orders:   orders,
		cache:    cache,
		holdings: holdings,
		metrics:  metrics,
	}
}

// Name implements scheduler.Job.
func (j *RefreshJob) Name() string { return "market-refresh" }

// Run executes one refresh cycle. The cycle is all-or-nothing: a
// failed fetch leaves the snapshot and the holdings untouched.
func (j *RefreshJob) Run() error {
	orders := j.orders.AllOrders()

	if err := j.cache.Refresh(j.ctx, orders); err != nil {
		if j.metrics != nil {
			j.metrics.RecordRefreshCycle("aborted")
		}
		return fmt.Errorf("refresh market: %w", err)
	}

	if err := j.holdings.UpdateFromMarket(orders, j.cache.Snapshot()); err != nil {
		if j.metrics != nil {
			j.metrics.RecordRefreshCycle("derive_failed")
		}
		return fmt.Errorf("derive holdings: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordRefreshCycle("ok")
	}
	return nil
}
