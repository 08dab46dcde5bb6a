package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/storage"
	"PortTrack/internal/store"
)

func newOrderLedger(t *testing.T) *OrderLedger {
	t.Helper()
	return NewOrderLedger(storage.New(t.TempDir()), nil)
}

func TestAddOrderNeverDeduplicates(t *testing.T) {
	l := newOrderLedger(t)

	o := models.Order{User: "alice", Symbol: "AAPL", Amount: 5, Price: 10.0}
	require.NoError(t, l.AddOrder(o))
	require.NoError(t, l.AddOrder(o))

	orders, err := l.OrdersForUser("alice")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrdersForUnknownUser(t *testing.T) {
	l := newOrderLedger(t)

	_, err := l.OrdersForUser("bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, "no orders for user bob", err.Error())
}

func TestOrdersSurviveEviction(t *testing.T) {
	l := newOrderLedger(t)

	require.NoError(t, l.AddOrder(models.Order{User: "alice", Symbol: "AAPL", Amount: 1, Price: 2.5}))
	require.NoError(t, l.AddOrder(models.Order{User: "alice", Symbol: "MSFT", Amount: 3, Price: 40}))

	l.Evict("alice")

	orders, err := l.OrdersForUser("alice")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "AAPL", orders[0].Symbol)
	assert.Equal(t, "MSFT", orders[1].Symbol)
}

func TestAllOrdersFlattensUsers(t *testing.T) {
	l := newOrderLedger(t)

	require.NoError(t, l.AddOrder(models.Order{User: "alice", Symbol: "AAPL", Amount: 1, Price: 1}))
	require.NoError(t, l.AddOrder(models.Order{User: "bob", Symbol: "MSFT", Amount: 1, Price: 2}))

	all := l.AllOrders()
	assert.Len(t, all, 2)
}
