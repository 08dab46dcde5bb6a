package repository

import (
	"context"

	"PortTrack/internal/domain/models"
)

// QuoteSource fetches the recent quote history for one symbol.
type QuoteSource interface {
	FetchQuotes(ctx context.Context, symbol string) ([]models.Quote, error)
}

// SegmentFetcher fetches one activity segment by id.
type SegmentFetcher interface {
	FetchSegment(ctx context.Context, id uint64) (models.Segment, error)
}

// ActivityFetcher fetches one activity record by id.
type ActivityFetcher interface {
	FetchActivity(ctx context.Context, id uint64) (models.Activity, error)
}

// ActivitySource combines both activity capabilities.
type ActivitySource interface {
	SegmentFetcher
	ActivityFetcher
}

// Metrics records operational counters for the stores and the refresh
// scheduler.
type Metrics interface {
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)
	RecordFetchError(source string)
	RecordRefreshCycle(outcome string)
	RecordLastPrice(symbol string, price float64)
	RecordPersistLatency(table string, seconds float64)
}
