package api

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"PortTrack/internal/domain/repository"
	"PortTrack/internal/ledger"
	"PortTrack/internal/store"
	xhttp "PortTrack/pkg/http"
	applogger "PortTrack/pkg/logger"
)

// ActivityHandler serves activity records and segments, fetching from
// the external source when the stored record is incomplete.
type ActivityHandler struct {
	logger     *applogger.Logger
	activities *ledger.ActivityLedger
	segments   repository.SegmentFetcher
}

func NewActivityHandler(logger *applogger.Logger, activities *ledger.ActivityLedger, segments repository.SegmentFetcher) *ActivityHandler {
	return &ActivityHandler{logger: logger, activities: activities, segments: segments}
}

func (h *ActivityHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/activities/:id", h.Activity)
	g.GET("/segments/:id", h.Segment)
}

func (h *ActivityHandler) Activity(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("id must be a positive integer"))
	}

	activity, err := h.activities.Get(c.Request().Context(), id)
	if err != nil {
		return h.sourceError(c, "get activity", err)
	}
	return xhttp.SuccessResponse(c, activity)
}

func (h *ActivityHandler) Segment(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("id must be a positive integer"))
	}

	segment, err := h.segments.FetchSegment(c.Request().Context(), id)
	if err != nil {
		return h.sourceError(c, "get segment", err)
	}
	return xhttp.SuccessResponse(c, segment)
}

func (h *ActivityHandler) sourceError(c echo.Context, op string, err error) error {
	var fetchErr *repository.FetchError
	switch {
	case errors.Is(err, store.ErrNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.As(err, &fetchErr):
		h.logger.Warn(op, applogger.String("source", fetchErr.Source), applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayError(err.Error()))
	default:
		h.logger.Error(op, applogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("storage failure").WithError(err))
	}
}

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
