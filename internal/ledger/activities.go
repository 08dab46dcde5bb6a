package ledger

import (
	"context"
	"errors"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/storage"
	"PortTrack/internal/store"
)

// ActivityLedger keeps activity records, filling gaps from the
// external source. Records move absent -> partial -> complete and
// fields never regress; a complete record triggers no further fetch.
type ActivityLedger struct {
	store  *store.Store[uint64, models.Activity]
	source repository.ActivitySource
}

// NewActivityLedger creates an activity ledger over the durable tables
// and the external source.
func NewActivityLedger(tables *storage.Tables, source repository.ActivitySource, m repository.Metrics) *ActivityLedger {
	load := func(id uint64) (models.Activity, bool, error) {
		return tables.ReadActivity(id)
	}
	save := func(id uint64, act models.Activity) error {
		return tables.WriteActivity(id, act)
	}

	opts := []store.Option[uint64, models.Activity]{}
	if m != nil {
		opts = append(opts, store.WithObserver[uint64, models.Activity](
			func() { m.RecordCacheHit("activities") },
			func() { m.RecordCacheMiss("activities") },
		))
	}
	return &ActivityLedger{store: store.New(load, save, opts...), source: source}
}

// fillMerge adopts only the fields the existing record is missing.
func fillMerge(existing models.Activity, exists bool, incoming models.Activity) (models.Activity, bool) {
	if !exists {
		return incoming, true
	}
	changed := existing.FillFrom(incoming)
	return existing, changed
}

// Get returns the activity. A stored record that is already complete
// is returned without touching the external source; otherwise a fresh
// record is fetched and fill-merged, persisting only when the merge
// changed state. A fetch failure propagates to the caller.
func (l *ActivityLedger) Get(ctx context.Context, id uint64) (models.Activity, error) {
	act, err := l.store.Get(id)
	if err == nil && act.Complete() {
		return act, nil
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return models.Activity{}, err
	}

	fetched, err := l.source.FetchActivity(ctx, id)
	if err != nil {
		return models.Activity{}, err
	}

	return l.store.Merge(id, fetched, fillMerge)
}

// Add stores an activity directly, merging into any existing record.
func (l *ActivityLedger) Add(act models.Activity) (models.Activity, error) {
	return l.store.Merge(act.ID, act, fillMerge)
}

// Evict drops the in-memory entry for id.
func (l *ActivityLedger) Evict(id uint64) {
	l.store.Evict(id)
}
