package repository

import (
	"context"
	"time"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// PriceSource returns daily close history for a symbol or an FX pair symbol.
type PriceSource interface {
	FetchPrices(ctx context.Context, symbol string) (*models.PriceSeries, error)
}

// DataProvider is the market data collaborator consumed by the report pipeline.
// Implementations own retry and rate-limit handling; any returned error is terminal.
type DataProvider interface {
	PriceSource
	FetchSummary(ctx context.Context, symbol string) (*models.Summary, error)
	FetchStatements(ctx context.Context, symbol string, period models.PeriodType) (*models.StatementSeries, error)
}

// ReportRow is one (symbol, key, value) cell of a flattened report.
type ReportRow struct {
	Symbol string
	Key    string
	Value  string
}

// ReportStore persists flattened report rows.
type ReportStore interface {
	Save(ctx context.Context, runAt time.Time, rows []ReportRow) error
	Health(ctx context.Context) error
	Close() error
}

// ReportPublisher ships finished reports to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, r *models.Report) error
	PublishBatch(ctx context.Context, reports []*models.Report) error
	Close() error
}

// ReportWriter writes a batch of symbol results to the tabular outputs.
type ReportWriter interface {
	Write(results []models.SymbolResult) error
}

type Metrics interface {
	RecordReport(result string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordLastPrice(symbol string, price float64)
	RecordProviderRequest(endpoint, result string)
}
