package ledger

import (
	"errors"
	"fmt"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/storage"
	"PortTrack/internal/store"
)

// PriceHistory keeps the per-symbol daily close history: an
// append-only sequence with at most one entry per calendar day.
type PriceHistory struct {
	store *store.Store[string, []models.DailyClose]
}

// NewPriceHistory creates a price history ledger over the durable
// tables.
func NewPriceHistory(tables *storage.Tables, m repository.Metrics) *PriceHistory {
	load := func(symbol string) ([]models.DailyClose, bool, error) {
		closes, ok, err := tables.ReadPrices(symbol)
		if err != nil || !ok {
			return nil, false, err
		}
		return closes, len(closes) > 0, nil
	}
	save := func(symbol string, closes []models.DailyClose) error {
		return tables.WritePrices(symbol, closes)
	}

	opts := []store.Option[string, []models.DailyClose]{}
	if m != nil {
		opts = append(opts, store.WithObserver[string, []models.DailyClose](
			func() { m.RecordCacheHit("prices") },
			func() { m.RecordCacheMiss("prices") },
		))
	}
	return &PriceHistory{store: store.New(load, save, opts...)}
}

// RecordClose appends a close for the given day unless the day already
// has one. Re-recording the same day is a no-op at the durable layer.
func (p *PriceHistory) RecordClose(symbol, date string, close float64) error {
	// Warm the cache from durable storage first so the dedup check
	// sees history from before a restart.
	if _, err := p.store.Get(symbol); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load price history for %s: %w", symbol, err)
	}

	_, err := p.store.Merge(symbol, []models.DailyClose{{Date: date, Close: close}},
		func(existing []models.DailyClose, _ bool, incoming []models.DailyClose) ([]models.DailyClose, bool) {
			for _, c := range existing {
				if c.Date == incoming[0].Date {
					return existing, false
				}
			}
			return append(existing, incoming[0]), true
		})
	if err != nil {
		return fmt.Errorf("record close for %s: %w", symbol, err)
	}
	return nil
}

// History returns the symbol's daily closes, loading from durable
// storage on a cache miss.
func (p *PriceHistory) History(symbol string) ([]models.DailyClose, error) {
	closes, err := p.store.Get(symbol)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &store.NotFoundError{Message: fmt.Sprintf("no price history for %s", symbol)}
		}
		return nil, err
	}
	return closes, nil
}

// Evict drops the symbol's in-memory entry.
func (p *PriceHistory) Evict(symbol string) {
	p.store.Evict(symbol)
}
