package di

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"PortTrack/internal/domain/repository"
	"PortTrack/internal/handler/api"
	"PortTrack/internal/ledger"
	"PortTrack/internal/market"
	"PortTrack/internal/service/strava"
	"PortTrack/internal/service/yahoo"
	"PortTrack/internal/storage"
	"PortTrack/pkg/config"
	xhttp "PortTrack/pkg/http"
	applogger "PortTrack/pkg/logger"
	"PortTrack/pkg/metrics"
	"PortTrack/pkg/scheduler"
	"PortTrack/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideTables creates the durable table layer over the data
// directory.
func ProvideTables(cfg *config.Config, m repository.Metrics) *storage.Tables {
	return storage.New(cfg.Storage.DataDir, storage.WithMetrics(m))
}

// ProvideQuoteSource creates the market quote source.
func ProvideQuoteSource(cfg *config.Config) repository.QuoteSource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Market.FetchTimeout))
	return yahoo.NewClient(client, cfg.Market.QuoteURL)
}

// ProvideActivitySource creates the activity source.
func ProvideActivitySource(cfg *config.Config) repository.ActivitySource {
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Strava.Timeout))
	return strava.NewClient(client, cfg.Strava.BaseURL, cfg.Strava.Token)
}

// ProvideOrderLedger creates the order ledger.
func ProvideOrderLedger(tables *storage.Tables, m repository.Metrics) *ledger.OrderLedger {
	return ledger.NewOrderLedger(tables, m)
}

// ProvideHoldingsLedger creates the derived-holdings ledger.
func ProvideHoldingsLedger(tables *storage.Tables, m repository.Metrics, l *applogger.Logger) *ledger.HoldingsLedger {
	return ledger.NewHoldingsLedger(tables, m, l)
}

// ProvidePriceHistory creates the daily close history.
func ProvidePriceHistory(tables *storage.Tables, m repository.Metrics) *ledger.PriceHistory {
	return ledger.NewPriceHistory(tables, m)
}

// ProvideActivityLedger creates the activity ledger.
func ProvideActivityLedger(tables *storage.Tables, source repository.ActivitySource, m repository.Metrics) *ledger.ActivityLedger {
	return ledger.NewActivityLedger(tables, source, m)
}

// ProvideMarketCache creates the in-memory market price cache.
func ProvideMarketCache(cfg *config.Config, source repository.QuoteSource, history *ledger.PriceHistory, m repository.Metrics) *market.Cache {
	return market.New(source, history, m, cfg.Market.FetchTimeout)
}

// AppContext is the process-lifetime context; the app cancels it on
// shutdown to abort an in-flight refresh cycle.
type AppContext struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

// ProvideAppContext creates the process-lifetime context.
func ProvideAppContext() AppContext {
	ctx, cancel := context.WithCancel(context.Background())
	return AppContext{Ctx: ctx, Cancel: cancel}
}

// ProvideRefreshJob creates the periodic market refresh job.
func ProvideRefreshJob(actx AppContext, orders *ledger.OrderLedger, cache *market.Cache, holdings *ledger.HoldingsLedger, m repository.Metrics) scheduler.Job {
	return market.NewRefreshJob(actx.Ctx, orders, cache, holdings, m)
}

// routes registers every API handler on one Echo instance.
type routes struct {
	handlers []xhttp.Handler
}

func (r *routes) RegisterRoutes(e *echo.Echo) {
	for _, h := range r.handlers {
		h.RegisterRoutes(e)
	}
}

// ProvideHandler combines the portfolio and activity handlers.
func ProvideHandler(
	l *applogger.Logger,
	orders *ledger.OrderLedger,
	holdings *ledger.HoldingsLedger,
	cache *market.Cache,
	activities *ledger.ActivityLedger,
	source repository.ActivitySource,
) xhttp.Handler {
	return &routes{handlers: []xhttp.Handler{
		api.NewPortfolioHandler(l, orders, holdings, cache),
		api.NewActivityHandler(l, activities, source),
	}}
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, refresh scheduler.Job, actx AppContext) *server.App {
	return server.New(cfg, l, handler, refresh, actx.Cancel)
}
