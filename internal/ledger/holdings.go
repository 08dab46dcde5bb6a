package ledger

import (
	"errors"
	"fmt"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/storage"
	"PortTrack/internal/store"
	applogger "PortTrack/pkg/logger"
	"PortTrack/pkg/util"
)

// HoldingsLedger keeps per-user daily valuations derived from orders
// and fetched prices, upserted by day bucket.
type HoldingsLedger struct {
	store *store.Store[string, []models.HoldingRecord]
	log   *applogger.Logger
}

// NewHoldingsLedger creates a holdings ledger over the durable tables.
func NewHoldingsLedger(tables *storage.Tables, m repository.Metrics, log *applogger.Logger) *HoldingsLedger {
	load := func(user string) ([]models.HoldingRecord, bool, error) {
		records, ok, err := tables.ReadHoldings(user)
		if err != nil || !ok {
			return nil, false, err
		}
		return records, len(records) > 0, nil
	}
	save := func(user string, records []models.HoldingRecord) error {
		return tables.WriteHoldings(user, records)
	}

	opts := []store.Option[string, []models.HoldingRecord]{}
	if m != nil {
		opts = append(opts, store.WithObserver[string, []models.HoldingRecord](
			func() { m.RecordCacheHit("holdings") },
			func() { m.RecordCacheMiss("holdings") },
		))
	}
	return &HoldingsLedger{store: store.New(load, save, opts...), log: log}
}

// Upsert applies the day-bucketed upsert: a record matching (symbol,
// original price, quantity, day) gets only its current price
// refreshed; otherwise the record is appended. Original prices compare
// exactly, they always originate from a stored order and are never
// recomputed. A price refresh rewrites the list instead of mutating
// the stored record, so slices already handed to readers stay stable.
func (h *HoldingsLedger) Upsert(rec models.HoldingRecord) error {
	_, err := h.store.Merge(rec.User, []models.HoldingRecord{rec},
		func(existing []models.HoldingRecord, _ bool, incoming []models.HoldingRecord) ([]models.HoldingRecord, bool) {
			in := incoming[0]
			for i, r := range existing {
				if r.Symbol == in.Symbol &&
					r.OriginalPrice == in.OriginalPrice &&
					r.Quantity == in.Quantity &&
					r.UpdatedAt == in.UpdatedAt {
					if r.CurrentPrice == in.CurrentPrice {
						return existing, false
					}
					updated := append([]models.HoldingRecord(nil), existing...)
					updated[i].CurrentPrice = in.CurrentPrice
					h.log.Info("updated holding",
						applogger.String("user", in.User),
						applogger.String("symbol", in.Symbol),
						applogger.Float64("price", in.CurrentPrice),
					)
					return updated, true
				}
			}
			h.log.Info("added holding",
				applogger.String("user", in.User),
				applogger.String("symbol", in.Symbol),
				applogger.Int64("quantity", in.Quantity),
				applogger.Float64("price", in.CurrentPrice),
			)
			return append(existing, in), true
		})
	if err != nil {
		return fmt.Errorf("upsert holding for %s: %w", rec.User, err)
	}
	return nil
}

// AllHoldings flattens every user's cached records.
func (h *HoldingsLedger) AllHoldings() []models.HoldingRecord {
	var all []models.HoldingRecord
	h.store.Each(func(_ string, records []models.HoldingRecord) {
		all = append(all, records...)
	})
	return all
}

// HoldingsForUser returns a copy of the user's records, loading from
// durable storage on a cache miss. Callers get their own slice; later
// upserts never reach into it.
func (h *HoldingsLedger) HoldingsForUser(user string) ([]models.HoldingRecord, error) {
	records, err := h.store.Get(user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &store.NotFoundError{Message: fmt.Sprintf("no holdings for user %s", user)}
		}
		return nil, err
	}
	return append([]models.HoldingRecord(nil), records...), nil
}

// UpdateFromMarket derives one valuation per order whose symbol has a
// current price, bucketed by the latest quote's trading day.
func (h *HoldingsLedger) UpdateFromMarket(orders []models.Order, prices map[string]models.PriceInfo) error {
	for _, order := range orders {
		info, ok := prices[order.Symbol]
		if !ok {
			continue
		}
		last, ok := info.Latest()
		if !ok {
			continue
		}
		rec := models.HoldingRecord{
			User:          order.User,
			Symbol:        order.Symbol,
			Quantity:      order.Amount,
			OriginalPrice: order.Price,
			CurrentPrice:  last.Close,
			UpdatedAt:     util.DayBucket(last.Timestamp),
		}
		if err := h.Upsert(rec); err != nil {
			return err
		}
	}
	return nil
}

// Evict drops the user's in-memory entry.
func (h *HoldingsLedger) Evict(user string) {
	h.store.Evict(user)
}
