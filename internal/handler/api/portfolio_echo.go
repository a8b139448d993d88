package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	models "github.com/vishal13230/BellCurve-Securities/internal/domain/models"
	domrepo "github.com/vishal13230/BellCurve-Securities/internal/domain/repository"
	"github.com/vishal13230/BellCurve-Securities/internal/services/quant"
	"github.com/vishal13230/BellCurve-Securities/internal/usecase"
	xhttp "github.com/vishal13230/BellCurve-Securities/pkg/http"
	xlogger "github.com/vishal13230/BellCurve-Securities/pkg/logger"
)

// PortfolioEchoHandler exposes the analysis usecases over HTTP.
type PortfolioEchoHandler struct {
	logger   *xlogger.Logger
	analyzer *usecase.Analyzer
	store    domrepo.PriceStore
}

func NewPortfolioEchoHandler(logger *xlogger.Logger, analyzer *usecase.Analyzer, store domrepo.PriceStore) *PortfolioEchoHandler {
	return &PortfolioEchoHandler{logger: logger, analyzer: analyzer, store: store}
}

func (h *PortfolioEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.POST("/frontier", h.Frontier)
	g.POST("/simulate", h.Simulate)
	g.GET("/stats", h.Stats)
	g.POST("/commentary", h.Commentary)
}

func (h *PortfolioEchoHandler) Frontier(c echo.Context) error {
	req := &models.FrontierRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Frontier(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("frontier usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapQuantError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) Simulate(c echo.Context) error {
	req := &models.SimulateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Simulate(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("simulate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapQuantError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) Stats(c echo.Context) error {
	req := &models.StatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Stats(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("stats usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, mapQuantError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) Commentary(c echo.Context) error {
	req := &models.CommentaryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Commentary(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("commentary usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError("commentary service failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PortfolioEchoHandler) Health(c echo.Context) error {
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded", "price_store": err.Error()})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// mapQuantError translates the numeric core's sentinel errors into API
// errors with stable codes.
func mapQuantError(err error) error {
	switch {
	case errors.Is(err, quant.ErrInvalidInput):
		return xhttp.NewAppError("ERR_INVALID_INPUT", "", "input table is malformed or empty", http.StatusBadRequest).WithError(err)
	case errors.Is(err, quant.ErrInsufficientAssets):
		return xhttp.UnprocessableError("ERR_INSUFFICIENT_ASSETS", "optimization needs at least two assets").WithError(err)
	case errors.Is(err, quant.ErrDimensionMismatch):
		return xhttp.UnprocessableError("ERR_DIMENSION_MISMATCH", "inputs disagree on asset count").WithError(err)
	case errors.Is(err, quant.ErrNoFeasibleSolution):
		return xhttp.UnprocessableError("ERR_NO_FEASIBLE_SOLUTION", "solver could not satisfy the constraints").WithError(err)
	}
	return xhttp.InternalError("analysis failed").WithError(err)
}
