// Package storage implements the on-disk durable tables behind the
// ledgers: one directory per entity key, one columnar table file per
// entity type, full rewrite on every write.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/domain/repository"
)

const (
	ordersTable   = "orders.tbl"
	holdingsTable = "holdings.tbl"
	pricesTable   = "prices.tbl"
	activitiesDir = "activities"
)

// Option configures Tables.
type Option func(*Tables)

// WithMetrics records persist latency per table.
func WithMetrics(m repository.Metrics) Option {
	return func(t *Tables) {
		t.metrics = m
	}
}

// Tables manages the durable table files under one data directory.
type Tables struct {
	root    string
	metrics repository.Metrics
}

// New creates a Tables over the given data directory.
func New(root string, opts ...Option) *Tables {
	t := &Tables{root: root}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// orderColumns is the columnar layout of the orders table.
type orderColumns struct {
	Users   []string  `msgpack:"user"`
	Symbols []string  `msgpack:"symbol"`
	Amounts []int64   `msgpack:"amount"`
	Prices  []float64 `msgpack:"price"`
}

// WriteOrders rewrites the full orders table for one user.
func (t *Tables) WriteOrders(user string, orders []models.Order) error {
	cols := orderColumns{
		Users:   make([]string, len(orders)),
		Symbols: make([]string, len(orders)),
		Amounts: make([]int64, len(orders)),
		Prices:  make([]float64, len(orders)),
	}
	for i, o := range orders {
		cols.Users[i] = o.User
		cols.Symbols[i] = o.Symbol
		cols.Amounts[i] = o.Amount
		cols.Prices[i] = o.Price
	}
	return t.writeTable(user, ordersTable, cols)
}

// ReadOrders loads the orders table for one user. A missing table
// yields an empty sequence, not an error.
func (t *Tables) ReadOrders(user string) ([]models.Order, bool, error) {
	var cols orderColumns
	ok, err := t.readTable(user, ordersTable, &cols)
	if err != nil || !ok {
		return nil, false, err
	}
	n := len(cols.Users)
	if len(cols.Symbols) != n || len(cols.Amounts) != n || len(cols.Prices) != n {
		return nil, false, fmt.Errorf("orders table for %q: ragged columns", user)
	}
	orders := make([]models.Order, n)
	for i := 0; i < n; i++ {
		orders[i] = models.Order{
			User:   cols.Users[i],
			Symbol: cols.Symbols[i],
			Amount: cols.Amounts[i],
			Price:  cols.Prices[i],
		}
	}
	return orders, true, nil
}

// holdingColumns is the columnar layout of the holdings table.
type holdingColumns struct {
	Users          []string  `msgpack:"user"`
	Symbols        []string  `msgpack:"symbol"`
	Quantities     []int64   `msgpack:"quantity"`
	OriginalPrices []float64 `msgpack:"original_price"`
	CurrentPrices  []float64 `msgpack:"current_price"`
	UpdatedAt      []string  `msgpack:"updated_at"`
}

// WriteHoldings rewrites the full holdings table for one user.
func (t *Tables) WriteHoldings(user string, records []models.HoldingRecord) error {
	cols := holdingColumns{
		Users:          make([]string, len(records)),
		Symbols:        make([]string, len(records)),
		Quantities:     make([]int64, len(records)),
		OriginalPrices: make([]float64, len(records)),
		CurrentPrices:  make([]float64, len(records)),
		UpdatedAt:      make([]string, len(records)),
	}
	for i, r := range records {
		cols.Users[i] = r.User
		cols.Symbols[i] = r.Symbol
		cols.Quantities[i] = r.Quantity
		cols.OriginalPrices[i] = r.OriginalPrice
		cols.CurrentPrices[i] = r.CurrentPrice
		cols.UpdatedAt[i] = r.UpdatedAt
	}
	return t.writeTable(user, holdingsTable, cols)
}

// ReadHoldings loads the holdings table for one user.
func (t *Tables) ReadHoldings(user string) ([]models.HoldingRecord, bool, error) {
	var cols holdingColumns
	ok, err := t.readTable(user, holdingsTable, &cols)
	if err != nil || !ok {
		return nil, false, err
	}
	n := len(cols.Users)
	if len(cols.Symbols) != n || len(cols.Quantities) != n ||
		len(cols.OriginalPrices) != n || len(cols.CurrentPrices) != n || len(cols.UpdatedAt) != n {
		return nil, false, fmt.Errorf("holdings table for %q: ragged columns", user)
	}
	records := make([]models.HoldingRecord, n)
	for i := 0; i < n; i++ {
		records[i] = models.HoldingRecord{
			User:          cols.Users[i],
			Symbol:        cols.Symbols[i],
			Quantity:      cols.Quantities[i],
			OriginalPrice: cols.OriginalPrices[i],
			CurrentPrice:  cols.CurrentPrices[i],
			UpdatedAt:     cols.UpdatedAt[i],
		}
	}
	return records, true, nil
}

// priceColumns is the columnar layout of the prices table.
type priceColumns struct {
	Dates  []string  `msgpack:"date"`
	Closes []float64 `msgpack:"close"`
}

// WritePrices rewrites the full daily-close history for one symbol.
func (t *Tables) WritePrices(symbol string, closes []models.DailyClose) error {
	cols := priceColumns{
		Dates:  make([]string, len(closes)),
		Closes: make([]float64, len(closes)),
	}
	for i, c := range closes {
		cols.Dates[i] = c.Date
		cols.Closes[i] = c.Close
	}
	return t.writeTable(symbol, pricesTable, cols)
}

// ReadPrices loads the daily-close history for one symbol.
func (t *Tables) ReadPrices(symbol string) ([]models.DailyClose, bool, error) {
	var cols priceColumns
	ok, err := t.readTable(symbol, pricesTable, &cols)
	if err != nil || !ok {
		return nil, false, err
	}
	if len(cols.Dates) != len(cols.Closes) {
		return nil, false, fmt.Errorf("prices table for %q: ragged columns", symbol)
	}
	closes := make([]models.DailyClose, len(cols.Dates))
	for i := range cols.Dates {
		closes[i] = models.DailyClose{Date: cols.Dates[i], Close: cols.Closes[i]}
	}
	return closes, true, nil
}

// WriteActivity rewrites one activity document.
func (t *Tables) WriteActivity(id uint64, act models.Activity) error {
	return t.writeTable(activitiesDir, fmt.Sprintf("%d.act", id), act)
}

// ReadActivity loads one activity document.
func (t *Tables) ReadActivity(id uint64) (models.Activity, bool, error) {
	var act models.Activity
	ok, err := t.readTable(activitiesDir, fmt.Sprintf("%d.act", id), &act)
	return act, ok, err
}

// writeTable encodes v with msgpack and swaps it into place with a
// temp-file rename, so a crash mid-write never corrupts the table.
func (t *Tables) writeTable(key, name string, v any) error {
	start := time.Now()

	dir := filepath.Join(t.root, key)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	b, err := msgpack.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, name+".*")
	if err != nil {
		return fmt.Errorf("temp %s: %w", name, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}

	if t.metrics != nil {
		t.metrics.RecordPersistLatency(name, time.Since(start).Seconds())
	}
	return nil
}

// readTable decodes one table file. A missing file reports ok=false;
// a malformed file is fatal for the read.
func (t *Tables) readTable(key, name string, v any) (bool, error) {
	b, err := os.ReadFile(filepath.Join(t.root, key, name))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", name, err)
	}
	if err := msgpack.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}
