package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func f(v float64) null.Float { return null.FloatFrom(v) }

type fakeProvider struct {
	mu         sync.Mutex
	summaries  map[string]*models.Summary
	prices     map[string]*models.PriceSeries
	statements map[string]*models.StatementSeries
	errs       map[string]error
	calls      []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		summaries:  map[string]*models.Summary{},
		prices:     map[string]*models.PriceSeries{},
		statements: map[string]*models.StatementSeries{},
		errs:       map[string]error{},
	}
}

func statementKey(symbol string, period models.PeriodType) string {
	return symbol + "/" + string(period)
}

func (p *fakeProvider) record(call string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
	return p.errs[call]
}

func (p *fakeProvider) called(call string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (p *fakeProvider) FetchSummary(_ context.Context, symbol string) (*models.Summary, error) {
	if err := p.record("summary:" + symbol); err != nil {
		return nil, err
	}
	s, ok := p.summaries[symbol]
	if !ok {
		return nil, fmt.Errorf("no summary for %s", symbol)
	}
	return s, nil
}

func (p *fakeProvider) FetchPrices(_ context.Context, symbol string) (*models.PriceSeries, error) {
	if err := p.record("prices:" + symbol); err != nil {
		return nil, err
	}
	s, ok := p.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("no prices for %s", symbol)
	}
	return s, nil
}

func (p *fakeProvider) FetchStatements(_ context.Context, symbol string, period models.PeriodType) (*models.StatementSeries, error) {
	key := statementKey(symbol, period)
	if err := p.record("statements:" + key); err != nil {
		return nil, err
	}
	s, ok := p.statements[key]
	if !ok {
		return &models.StatementSeries{Symbol: symbol, PeriodType: period}, nil
	}
	return s, nil
}

func equitySummary(currency, financialCurrency string) *models.Summary {
	return &models.Summary{
		QuoteType: models.QuoteTypeEquity,
		Price: models.PriceModule{
			LongName:           "Example Corp",
			Currency:           currency,
			Exchange:           "NMS",
			RegularMarketPrice: f(21),
			MarketCap:          f(21000),
		},
		SummaryDetail: models.SummaryDetail{
			TrailingPE:       f(52.5),
			FiftyTwoWeekLow:  f(15),
			FiftyTwoWeekHigh: f(25),
		},
		DefaultKeyStatistics: models.DefaultKeyStatistics{Beta: f(1.1), SharesOutstanding: f(1000)},
		FinancialData:        models.FinancialData{FinancialCurrency: financialCurrency, RecommendationKey: "hold"},
		EarningsTrend: []models.EarningsTrend{
			{Period: "0y", Growth: f(0.05)},
			{Period: "+5y", Growth: null.Float{}},
		},
	}
}

var quarterEnds = []string{"2023-03-31", "2023-06-30", "2023-09-30", "2023-12-31", "2024-03-31"}

func quarterly(symbol, currency string, n int) *models.StatementSeries {
	s := &models.StatementSeries{Symbol: symbol, PeriodType: models.PeriodQuarterly, Currency: currency}
	for i := 0; i < n; i++ {
		s.Statements = append(s.Statements, models.Statement{
			Date:               day(quarterEnds[i]),
			PeriodType:         models.PeriodQuarterly,
			NetIncome:          f(100),
			FreeCashFlow:       f(50),
			TotalRevenue:       f(1000),
			BasicAverageShares: f(1000),
		})
	}
	return s
}

func annual(symbol, currency string) *models.StatementSeries {
	revenue := []float64{1000, 1100, 1210, 1331}
	s := &models.StatementSeries{Symbol: symbol, PeriodType: models.PeriodAnnual, Currency: currency}
	for i, rev := range revenue {
		s.Statements = append(s.Statements, models.Statement{
			Date:         time.Date(2020+i, 12, 31, 0, 0, 0, 0, time.UTC),
			PeriodType:   models.PeriodAnnual,
			TotalRevenue: f(rev),
			NetIncome:    f(-5),
		})
	}
	return s
}

func flatPrices(symbol, currency string, close float64) *models.PriceSeries {
	s := &models.PriceSeries{Symbol: symbol, Currency: currency}
	for d := day("2019-01-02"); d.Before(day("2024-06-01")); d = d.AddDate(0, 0, 7) {
		s.Points = append(s.Points, models.PricePoint{Date: d, Close: close})
	}
	return s
}

type recordingMetrics struct {
	mu      sync.Mutex
	reports map[string]int
	errors  map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{reports: map[string]int{}, errors: map[string]int{}}
}

func (m *recordingMetrics) RecordReport(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[result]++
}

func (m *recordingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *recordingMetrics) RecordLatency(string, float64) {}
func (m *recordingMetrics) RecordLastPrice(string, float64) {}
func (m *recordingMetrics) RecordProviderRequest(string, string) {}
