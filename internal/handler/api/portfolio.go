package api

import (
	"errors"

	"github.com/labstack/echo/v4"

	"PortTrack/internal/domain/models"
	"PortTrack/internal/ledger"
	"PortTrack/internal/market"
	"PortTrack/internal/store"
	xhttp "PortTrack/pkg/http"
	applogger "PortTrack/pkg/logger"
)

// PortfolioHandler serves orders, derived holdings, and market prices.
type PortfolioHandler struct {
	logger   *applogger.Logger
	orders   *ledger.OrderLedger
	holdings *ledger.HoldingsLedger
	cache    *market.Cache
}

func NewPortfolioHandler(logger *applogger.Logger, orders *ledger.OrderLedger, holdings *ledger.HoldingsLedger, cache *market.Cache) *PortfolioHandler {
	return &PortfolioHandler{logger: logger, orders: orders, holdings: holdings, cache: cache}
}

func (h *PortfolioHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.POST("/orders", h.AddOrder)
	g.GET("/orders", h.ListOrders)
	g.GET("/orders/:user", h.OrdersForUser)
	g.GET("/holdings", h.ListHoldings)
	g.GET("/holdings/:user", h.HoldingsForUser)
	g.GET("/prices", h.Prices)
	g.GET("/symbols", h.Symbols)
}

func (h *PortfolioHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *PortfolioHandler) AddOrder(c echo.Context) error {
	req := &models.OrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	order := req.ToOrder()
	if err := h.orders.AddOrder(order); err != nil {
		h.logger.Error("add order", applogger.String("user", order.User), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to record order").WithError(err))
	}
	return xhttp.CreatedResponse(c, order)
}

func (h *PortfolioHandler) ListOrders(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.orders.AllOrders())
}

func (h *PortfolioHandler) OrdersForUser(c echo.Context) error {
	orders, err := h.orders.OrdersForUser(c.Param("user"))
	if err != nil {
		return h.ledgerError(c, "list orders", err)
	}
	return xhttp.SuccessResponse(c, orders)
}

func (h *PortfolioHandler) ListHoldings(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.holdings.AllHoldings())
}

func (h *PortfolioHandler) HoldingsForUser(c echo.Context) error {
	records, err := h.holdings.HoldingsForUser(c.Param("user"))
	if err != nil {
		return h.ledgerError(c, "list holdings", err)
	}
	return xhttp.SuccessResponse(c, records)
}

// Prices returns the latest close per held symbol from the last
// successful refresh cycle.
func (h *PortfolioHandler) Prices(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.cache.Prices())
}

func (h *PortfolioHandler) Symbols(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.cache.Symbols())
}

func (h *PortfolioHandler) ledgerError(c echo.Context, op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	}
	h.logger.Error(op, applogger.Error(err))
	return xhttp.AppErrorResponse(c, xhttp.InternalError("storage failure").WithError(err))
}
