// Package ledger contains the entity-specific specializations of the
// cache-aside store: orders, holdings, daily price history and
// activities, each with its own merge or derivation policy.
package ledger

import (
	"errors"
	"fmt"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
	"PortTrack/internal/storage"
	"PortTrack/internal/store"
)

// OrderLedger keeps every user's order list, cached in memory and
// persisted to the per-user orders table.
type OrderLedger struct {
	store *store.Store[string, []models.Order]
}

// NewOrderLedger creates an order ledger over the durable tables.
func NewOrderLedger(tables *storage.Tables, m repository.Metrics) *OrderLedger {
	load := func(user string) ([]models.Order, bool, error) {
		orders, ok, err := tables.ReadOrders(user)
		if err != nil || !ok {
			return nil, false, err
		}
		// An empty table reads the same as a missing one.
		return orders, len(orders) > 0, nil
	}
	save := func(user string, orders []models.Order) error {
		return tables.WriteOrders(user, orders)
	}

	opts := []store.Option[string, []models.Order]{}
	if m != nil {
		opts = append(opts, store.WithObserver[string, []models.Order](
			func() { m.RecordCacheHit("orders") },
			func() { m.RecordCacheMiss("orders") },
		))
	}
	return &OrderLedger{store: store.New(load, save, opts...)}
}

// AddOrder appends the order to its user's list and persists the full
// list. Identical orders are appended, never deduplicated.
func (l *OrderLedger) AddOrder(order models.Order) error {
	_, err := l.store.Merge(order.User, []models.Order{order},
		func(existing []models.Order, _ bool, incoming []models.Order) ([]models.Order, bool) {
			return append(existing, incoming...), true
		})
	if err != nil {
		return fmt.Errorf("add order for %s: %w", order.User, err)
	}
	return nil
}

// AllOrders flattens every user's cached list. Order across users is
// unspecified.
func (l *OrderLedger) AllOrders() []models.Order {
	var all []models.Order
	l.store.Each(func(_ string, orders []models.Order) {
		all = append(all, orders...)
	})
	return all
}

// OrdersForUser returns the user's orders, loading from durable
// storage on a cache miss. A user with no orders anywhere reports a
// NotFound error, which is an expected outcome rather than a failure.
func (l *OrderLedger) OrdersForUser(user string) ([]models.Order, error) {
	orders, err := l.store.Get(user)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &store.NotFoundError{Message: fmt.Sprintf("no orders for user %s", user)}
		}
		return nil, err
	}
	return orders, nil
}

// Evict drops the user's in-memory entry, forcing the next read to go
// through durable storage.
func (l *OrderLedger) Evict(user string) {
	l.store.Evict(user)
}
