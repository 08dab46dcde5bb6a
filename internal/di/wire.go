//go:build wireinject
// +build wireinject

package di

import (
	"PortTrack/pkg/config"
	"PortTrack/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideAppContext,
		ProvideLogger,
		ProvideMetrics,

		// Storage
		ProvideTables,

		// External sources
		ProvideQuoteSource,
		ProvideActivitySource,

		// Ledgers
		ProvideOrderLedger,
		ProvideHoldingsLedger,
		ProvidePriceHistory,
		ProvideActivityLedger,

		// Market refresh
		ProvideMarketCache,
		ProvideRefreshJob,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
