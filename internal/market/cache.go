// Package market holds the in-memory market snapshot and the
// background refresh job feeding it.
package market

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/ledger"
	"PortTrack/pkg/util"
)

// Cache holds the most recent quote history per tracked symbol. The
// snapshot is replaced wholesale by a successful refresh cycle and
// never partially updated: a single failed fetch keeps the previous
// snapshot intact, stale data being preferred over partial data.
type Cache struct {
	source       repository.QuoteSource
	history      *ledger.PriceHistory
	metrics      repository.Metrics
	fetchTimeout time.Duration

	mu       sync.RWMutex
	snapshot map[string]models.PriceInfo
}

// New creates a market cache over the quote source and the durable
// daily-close history.
func New(source repository.QuoteSource, history *ledger.PriceHistory, metrics repository.Metrics, fetchTimeout time.Duration) *Cache {
	return &Cache{
		source:       source,
		history:      history,
		metrics:      metrics,
		fetchTimeout: fetchTimeout,
		snapshot:     make(map[string]models.PriceInfo),
	}
}

// Refresh fetches fresh quotes for every distinct symbol referenced by
// orders, appends new daily closes to the durable history, and swaps
// the snapshot. Any single failure aborts the whole cycle before the
// swap.
func (c *Cache) Refresh(ctx context.Context, orders []models.Order) error {
	symbols := distinctSymbols(orders)

	fetched := make(map[string]models.PriceInfo, len(symbols))
	for _, sym := range symbols {
		fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
		quotes, err := c.source.FetchQuotes(fctx, sym)
		cancel()
		if err != nil {
			if c.metrics != nil {
				c.metrics.RecordFetchError("quotes")
			}
			return fmt.Errorf("fetch quotes for %s: %w", sym, err)
		}
		fetched[sym] = models.PriceInfo{History: quotes}
	}

	for _, sym := range symbols {
		last, ok := fetched[sym].Latest()
		if !ok {
			continue
		}
		if err := c.history.RecordClose(sym, util.DayBucket(last.Timestamp), last.Close); err != nil {
			return err
		}
		if c.metrics != nil {
			c.metrics.RecordLastPrice(sym, last.Close)
		}
	}

	c.mu.Lock()
	c.snapshot = fetched
	c.mu.Unlock()
	return nil
}

// Prices projects the latest close per tracked symbol.
func (c *Cache) Prices() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	prices := make(map[string]float64, len(c.snapshot))
	for sym, info := range c.snapshot {
		if q, ok := info.Latest(); ok {
			prices[sym] = q.Close
		}
	}
	return prices
}

// Symbols lists the currently tracked symbols.
func (c *Cache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	symbols := make([]string, 0, len(c.snapshot))
	for sym := range c.snapshot {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// Snapshot returns a copy of the current per-symbol quote histories.
func (c *Cache) Snapshot() map[string]models.PriceInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.PriceInfo, len(c.snapshot))
	for sym, info := range c.snapshot {
		out[sym] = info
	}
	return out
}

func distinctSymbols(orders []models.Order) []string {
	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		seen[o.Symbol] = struct{}{}
	}
	symbols := make([]string, 0, len(seen))
	for sym := range seen {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}
