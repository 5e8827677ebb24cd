package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/internal/services/fundamentals"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

// ReportBuilder assembles the per-symbol report from provider data and the
// fundamentals calculators.
type ReportBuilder struct {
	provider       domrepo.DataProvider
	normalizer     *fundamentals.Normalizer
	targetCurrency string
	log            *logger.Logger
	metrics        domrepo.Metrics
	now            func() time.Time
}

type BuilderOption func(*ReportBuilder)

// WithTargetCurrency converts statements and prices into currency instead of
// the instrument's quote currency. The code is kept as given so minor units
// such as GBp stay requestable.
func WithTargetCurrency(currency string) BuilderOption {
	return func(b *ReportBuilder) {
		b.targetCurrency = strings.TrimSpace(currency)
	}
}

func WithBuilderLogger(l *logger.Logger) BuilderOption {
	return func(b *ReportBuilder) {
		if l != nil {
			b.log = l
		}
	}
}

func WithBuilderMetrics(m domrepo.Metrics) BuilderOption {
	return func(b *ReportBuilder) {
		b.metrics = m
	}
}

func WithBuilderClock(now func() time.Time) BuilderOption {
	return func(b *ReportBuilder) {
		b.now = now
	}
}

// NewReportBuilder creates a builder. FX series are loaded through the same provider.
func NewReportBuilder(provider domrepo.DataProvider, opts ...BuilderOption) *ReportBuilder {
	b := &ReportBuilder{
		provider:   provider,
		normalizer: fundamentals.NewNormalizer(provider),
		log:        logger.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build produces the report for one symbol. Any returned error is terminal
// for that symbol only.
func (b *ReportBuilder) Build(ctx context.Context, symbol string) (report *models.Report, err error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol required")
	}

	start := time.Now()
	log := b.log.With(logger.Symbol(symbol))
	defer func() {
		b.observe(symbol, report, err, time.Since(start))
		if err != nil {
			log.Error("build report failed", logger.Error(err))
		}
	}()

	summary, err := b.provider.FetchSummary(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch summary %s: %w", symbol, err)
	}
	prices, err := b.provider.FetchPrices(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch prices %s: %w", symbol, err)
	}

	quoteCurrency := summary.Price.Currency
	if quoteCurrency == "" {
		quoteCurrency = prices.Currency
	}
	target := quoteCurrency
	if b.targetCurrency != "" {
		target = b.targetCurrency
	}

	report = b.baseReport(symbol, summary)
	report.Currency = target
	if target != quoteCurrency && quoteCurrency != "" {
		prices, err = b.normalizer.ConvertCurrencyInPrices(ctx, prices, target)
		if err != nil {
			return nil, fmt.Errorf("convert prices %s: %w", symbol, err)
		}
		b.repriceQuote(report, summary, prices)
	}

	if !summary.IsEquity() {
		log.Debug("skip statements for non-equity", logger.String("quote_type", summary.QuoteType))
		return report, nil
	}

	quarterly, err := b.statements(ctx, symbol, models.PeriodQuarterly, summary, target)
	if err != nil {
		return nil, err
	}
	annual, err := b.statements(ctx, symbol, models.PeriodAnnual, summary, target)
	if err != nil {
		return nil, err
	}

	ttm, err := b.trailing(log, "ttm", quarterly.Statements, prices)
	if err != nil {
		return nil, err
	}
	if ttm != nil {
		report.TTMSource = models.TTMSourceQuarterly
	} else {
		ttm, err = b.ttmStatistics(ctx, symbol, summary, target, prices)
		if err != nil {
			return nil, err
		}
		if ttm != nil {
			report.TTMSource = models.TTMSourceTrailing
		}
	}
	report.TTM = ttm

	report.PreviousTTM, err = b.trailing(log, "previous_ttm", fundamentals.PreviousWindow(quarterly.Statements), prices)
	if err != nil {
		return nil, err
	}

	report.Growth = models.Growth{
		Annual:    fundamentals.CalculateGrowth(annual.Statements),
		Quarterly: fundamentals.CalculateGrowth(quarterly.Statements),
	}
	return report, nil
}

// trailing runs the four-quarter aggregator. A missing share count is logged
// and leaves the section empty.
func (b *ReportBuilder) trailing(log *logger.Logger, section string, statements []models.Statement, prices *models.PriceSeries) (*models.ValuationMetrics, error) {
	m, err := fundamentals.CalculateTrailingStatistics(statements, prices)
	if errors.Is(err, fundamentals.ErrMissingField) {
		log.Warn("trailing statistics unavailable", logger.String("section", section), logger.Error(err))
		b.recordError("missing_field")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", section, err)
	}
	return m, nil
}

// ttmStatistics is the fallback when quarterly history is too short: the
// provider's own trailing figures.
func (b *ReportBuilder) ttmStatistics(ctx context.Context, symbol string, summary *models.Summary, target string, prices *models.PriceSeries) (*models.ValuationMetrics, error) {
	trailing, err := b.statements(ctx, symbol, models.PeriodTrailing, summary, target)
	if err != nil {
		return nil, err
	}
	m, err := fundamentals.SelectTTMStatistics(trailing.Statements, prices)
	if err != nil {
		return nil, fmt.Errorf("trailing ttm: %w", err)
	}
	return m, nil
}

// statements fetches one cadence and converts it into target when needed.
func (b *ReportBuilder) statements(ctx context.Context, symbol string, period models.PeriodType, summary *models.Summary, target string) (*models.StatementSeries, error) {
	series, err := b.provider.FetchStatements(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("fetch %s statements %s: %w", strings.ToLower(string(period)), symbol, err)
	}
	if series == nil {
		series = &models.StatementSeries{Symbol: symbol, PeriodType: period}
	}
	if series.Currency == "" {
		withCurrency := *series
		withCurrency.Currency = summary.StatementCurrency()
		series = &withCurrency
	}
	if series.Len() == 0 || series.Currency == "" || series.Currency == target {
		return series, nil
	}

	converted, err := b.normalizer.ConvertCurrencyInStatements(ctx, series, target)
	if err != nil {
		return nil, fmt.Errorf("normalize %s statements %s: %w", strings.ToLower(string(period)), symbol, err)
	}
	return converted, nil
}

func (b *ReportBuilder) baseReport(symbol string, s *models.Summary) *models.Report {
	r := &models.Report{
		Symbol:            symbol,
		Name:              s.Name(),
		QuoteType:         s.QuoteType,
		Exchange:          s.Price.Exchange,
		FinancialCurrency: s.StatementCurrency(),
		Price:             s.Price.RegularMarketPrice,
		MarketCap:         s.Price.MarketCap,
		Beta:              firstValid(s.SummaryDetail.Beta, s.DefaultKeyStatistics.Beta),
		TrailingPE:        s.SummaryDetail.TrailingPE,
		ForwardPE:         s.SummaryDetail.ForwardPE,
		DividendYield:     s.SummaryDetail.DividendYield,
		FiftyTwoWeek: models.Range{
			Low:  s.SummaryDetail.FiftyTwoWeekLow,
			High: s.SummaryDetail.FiftyTwoWeekHigh,
		},
		TargetMeanPrice: s.FinancialData.TargetMeanPrice,
		Recommendation:  s.FinancialData.RecommendationKey,
		Estimates:       make(map[string]null.Float, len(s.EarningsTrend)),
		GeneratedAt:     b.now().UTC(),
	}
	for _, t := range s.EarningsTrend {
		if t.Period != "" {
			r.Estimates[t.Period] = t.Growth
		}
	}
	return r
}

// repriceQuote restates quote-currency fields after prices were converted.
func (b *ReportBuilder) repriceQuote(r *models.Report, s *models.Summary, prices *models.PriceSeries) {
	r.Price = null.Float{}
	r.MarketCap = null.Float{}
	r.FiftyTwoWeek = models.Range{}
	r.TargetMeanPrice = null.Float{}

	last, err := fundamentals.PriceOn(b.now(), prices)
	if err != nil {
		return
	}
	r.Price = null.FloatFrom(last)
	if shares := s.DefaultKeyStatistics.SharesOutstanding; shares.Valid {
		r.MarketCap = null.FloatFrom(last * shares.Float64)
	}
}

func (b *ReportBuilder) observe(symbol string, r *models.Report, err error, took time.Duration) {
	if b.metrics == nil {
		return
	}
	b.metrics.RecordLatency("build_report", took.Seconds())
	if err != nil {
		b.metrics.RecordReport("error")
		b.metrics.RecordError(errorKind(err))
		return
	}
	b.metrics.RecordReport("ok")
	if r != nil && r.Price.Valid {
		b.metrics.RecordLastPrice(symbol, r.Price.Float64)
	}
}

func (b *ReportBuilder) recordError(kind string) {
	if b.metrics != nil {
		b.metrics.RecordError(kind)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, fundamentals.ErrDateOutOfRange):
		return "date_out_of_range"
	case errors.Is(err, fundamentals.ErrMissingField):
		return "missing_field"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "provider"
	}
}

func firstValid(vs ...null.Float) null.Float {
	for _, v := range vs {
		if v.Valid {
			return v
		}
	}
	return null.Float{}
}
