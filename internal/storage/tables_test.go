package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortTrack/internal/domain/models"
)

func TestOrdersRoundTrip(t *testing.T) {
	tbl := New(t.TempDir())

	orders := []models.Order{
		{User: "alice", Symbol: "AAPL", Amount: 5, Price: 10.0},
		{User: "alice", Symbol: "MSFT", Amount: -2, Price: 301.5},
	}
	require.NoError(t, tbl.WriteOrders("alice", orders))

	got, ok, err := tbl.ReadOrders("alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, orders, got)
}

func TestReadMissingTableIsNotAnError(t *testing.T) {
	tbl := New(t.TempDir())

	got, ok, err := tbl.ReadOrders("nobody")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestWriteReplacesWholeTable(t *testing.T) {
	tbl := New(t.TempDir())

	require.NoError(t, tbl.WriteOrders("bob", []models.Order{{User: "bob", Symbol: "AAPL", Amount: 1, Price: 1}}))
	require.NoError(t, tbl.WriteOrders("bob", []models.Order{{User: "bob", Symbol: "MSFT", Amount: 2, Price: 2}}))

	got, ok, err := tbl.ReadOrders("bob")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "MSFT", got[0].Symbol)
}

func TestHoldingsRoundTrip(t *testing.T) {
	tbl := New(t.TempDir())

	records := []models.HoldingRecord{
		{User: "alice", Symbol: "AAPL", Quantity: 5, OriginalPrice: 10, CurrentPrice: 12.5, UpdatedAt: "2024-10-10"},
	}
	require.NoError(t, tbl.WriteHoldings("alice", records))

	got, ok, err := tbl.ReadHoldings("alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestPricesRoundTrip(t *testing.T) {
	tbl := New(t.TempDir())

	closes := []models.DailyClose{
		{Date: "2024-10-09", Close: 10},
		{Date: "2024-10-10", Close: 11},
	}
	require.NoError(t, tbl.WritePrices("AAPL", closes))

	got, ok, err := tbl.ReadPrices("AAPL")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, closes, got)
}

func TestActivityRoundTrip(t *testing.T) {
	tbl := New(t.TempDir())

	hr := 140.5
	act := models.Activity{
		ID:               42,
		Name:             "Morning Ride",
		Segments:         []models.Segment{{ID: 1, Name: "Hill", Distance: 1200, AverageGrade: 5.2}},
		AverageHeartrate: &hr,
	}
	require.NoError(t, tbl.WriteActivity(42, act))

	got, ok, err := tbl.ReadActivity(42)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, act, got)
}

func TestCorruptTableIsFatalForRead(t *testing.T) {
	dir := t.TempDir()
	tbl := New(dir)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "alice"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice", "orders.tbl"), []byte("not msgpack"), 0o644))

	_, _, err := tbl.ReadOrders("alice")
	assert.Error(t, err)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	tbl := New(dir)

	require.NoError(t, tbl.WritePrices("AAPL", []models.DailyClose{{Date: "2024-10-10", Close: 1}}))

	entries, err := os.ReadDir(filepath.Join(dir, "AAPL"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prices.tbl", entries[0].Name())
}
