package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	"github.com/fslick/fundamentals-yf/internal/service/yahoo"
	"github.com/fslick/fundamentals-yf/internal/services/fundamentals"
	xlogger "github.com/fslick/fundamentals-yf/pkg/logger"
)

type stubBuilder struct {
	errs map[string]error
}

func (b *stubBuilder) Build(_ context.Context, symbol string) (*models.Report, error) {
	if err, ok := b.errs[symbol]; ok {
		return nil, err
	}
	return &models.Report{Symbol: symbol, Currency: "USD"}, nil
}

type stubRunner struct {
	b *stubBuilder
}

func (r stubRunner) Run(ctx context.Context, symbols []string) []models.SymbolResult {
	out := make([]models.SymbolResult, 0, len(symbols))
	for _, s := range symbols {
		rep, err := r.b.Build(ctx, s)
		out = append(out, models.SymbolResult{Symbol: s, Report: rep, Err: err})
	}
	return out
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func serve(t *testing.T, b *stubBuilder, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	e := echo.New()
	NewReportsEchoHandler(xlogger.Nop(), b, stubRunner{b: b}).RegisterRoutes(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestReportEndpoint(t *testing.T) {
	rec, env := serve(t, &stubBuilder{}, "/api/reports/AAPL")

	assert.Equal(t, http.StatusOK, rec.Code)
	var r models.Report
	require.NoError(t, json.Unmarshal(env.Data, &r))
	assert.Equal(t, "AAPL", r.Symbol)
	assert.Equal(t, "private, max-age=300", rec.Header().Get(echo.HeaderCacheControl))
}

func TestReportEndpointErrorMapping(t *testing.T) {
	b := &stubBuilder{errs: map[string]error{
		"GONE":  fmt.Errorf("fetch summary: %w", &yahoo.APIError{Endpoint: "quoteSummary", StatusCode: 404}),
		"SLOW":  &yahoo.RateLimitError{Endpoint: "chart", RetryAfter: 30 * time.Second},
		"DOWN":  &yahoo.APIError{Endpoint: "chart", StatusCode: 500},
		"OLD":   &fundamentals.DateOutOfRangeError{Symbol: "OLD"},
		"BROKE": fmt.Errorf("unexpected"),
	}}

	tests := map[string]int{
		"GONE":  http.StatusNotFound,
		"SLOW":  http.StatusTooManyRequests,
		"DOWN":  http.StatusBadGateway,
		"OLD":   http.StatusUnprocessableEntity,
		"BROKE": http.StatusInternalServerError,
	}
	for symbol, want := range tests {
		t.Run(symbol, func(t *testing.T) {
			rec, env := serve(t, b, "/api/reports/"+symbol)
			assert.Equal(t, want, rec.Code)
			assert.Equal(t, want, env.Status)
		})
	}
}

func TestReportsEndpoint(t *testing.T) {
	b := &stubBuilder{errs: map[string]error{"BAD": fmt.Errorf("boom")}}
	rec, env := serve(t, b, "/api/reports?symbols=aapl,BAD,aapl,msft")

	assert.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Rows  []models.ReportItem `json:"rows"`
		Total int64               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, int64(3), list.Total)
	require.Len(t, list.Rows, 3)
	assert.Equal(t, "AAPL", list.Rows[0].Symbol)
	assert.NotNil(t, list.Rows[0].Report)
	assert.Equal(t, "boom", list.Rows[1].Error)
	assert.Nil(t, list.Rows[1].Report)
}

func TestReportsEndpointValidation(t *testing.T) {
	rec, _ := serve(t, &stubBuilder{}, "/api/reports")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	many := "A"
	for i := 0; i < MaxSymbolsPerRequest; i++ {
		many += fmt.Sprintf(",S%d", i)
	}
	rec, _ = serve(t, &stubBuilder{}, "/api/reports?symbols="+many)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
