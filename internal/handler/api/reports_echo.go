package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	"github.com/fslick/fundamentals-yf/internal/service/yahoo"
	"github.com/fslick/fundamentals-yf/internal/services/fundamentals"
	xhttp "github.com/fslick/fundamentals-yf/pkg/http"
	xlogger "github.com/fslick/fundamentals-yf/pkg/logger"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

// MaxSymbolsPerRequest bounds the multi-symbol endpoint.
const MaxSymbolsPerRequest = 20

type reportBuilder interface {
	Build(ctx context.Context, symbol string) (*models.Report, error)
}

type batchRunner interface {
	Run(ctx context.Context, symbols []string) []models.SymbolResult
}

// ReportsEchoHandler serves fundamentals reports over HTTP.
type ReportsEchoHandler struct {
	logger  *xlogger.Logger
	builder reportBuilder
	runner  batchRunner
}

func NewReportsEchoHandler(logger *xlogger.Logger, builder reportBuilder, runner batchRunner) *ReportsEchoHandler {
	return &ReportsEchoHandler{logger: logger, builder: builder, runner: runner}
}

func (h *ReportsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/reports/:symbol", h.Report)
	g.GET("/reports", h.Reports)
}

// Report builds a single symbol's report.
func (h *ReportsEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.builder.Build(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Warn("report request failed", xlogger.Symbol(req.Symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(req.Symbol, err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, report)
}

// Reports builds several symbols; per-symbol failures are reported inline.
func (h *ReportsEchoHandler) Reports(c echo.Context) error {
	req := &models.ReportsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	symbols := util.SplitSymbols(req.Symbols)
	if len(symbols) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("symbols is required"))
	}
	if len(symbols) > MaxSymbolsPerRequest {
		return xhttp.AppErrorResponse(c,
			xhttp.BadRequestErrorf("at most %d symbols per request", MaxSymbolsPerRequest).
				WithParam("max", MaxSymbolsPerRequest))
	}

	results := h.runner.Run(c.Request().Context(), symbols)
	items := make([]models.ReportItem, 0, len(results))
	for _, res := range results {
		item := models.ReportItem{Symbol: res.Symbol, Report: res.Report}
		if res.Err != nil {
			item.Error = res.Err.Error()
		}
		items = append(items, item)
	}
	return xhttp.ListResponse(c, items, int64(len(items)))
}

// toAppError maps provider and calculation failures to HTTP statuses.
func toAppError(symbol string, err error) error {
	var (
		apiErr  *yahoo.APIError
		rateErr *yahoo.RateLimitError
	)
	switch {
	case errors.As(err, &rateErr):
		appErr := xhttp.TooManyRequestsError("upstream rate limit reached").WithError(err)
		if rateErr.RetryAfter > 0 {
			appErr = appErr.WithParam("retryAfterSeconds", int(rateErr.RetryAfter.Seconds()))
		}
		return appErr
	case errors.As(err, &apiErr) && apiErr.NotFound(), errors.Is(err, yahoo.ErrNoData):
		return xhttp.NotFoundErrorf("no data for symbol %s", symbol).WithError(err)
	case errors.As(err, &apiErr):
		return xhttp.BadGatewayError(fmt.Sprintf("upstream %s failed with status %d", apiErr.Endpoint, apiErr.StatusCode)).WithError(err)
	case errors.Is(err, fundamentals.ErrDateOutOfRange):
		return xhttp.UnprocessableError("symbol", "price history does not cover the reported periods").WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.GatewayTimeoutError("report build timed out").WithError(err)
	default:
		return xhttp.InternalError("report build failed").WithError(err)
	}
}
