package fundamentals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func eurSeries() *models.StatementSeries {
	return &models.StatementSeries{
		Symbol:     "ASML.AS",
		PeriodType: models.PeriodQuarterly,
		Currency:   "EUR",
		Statements: []models.Statement{
			{
				Date:               day("2023-12-31"),
				NetIncome:          f(100),
				FreeCashFlow:       f(-40),
				TotalDebt:          f(0),
				BasicAverageShares: f(1000),
				TaxRateForCalcs:    f(0.21),
			},
			{
				Date:         day("2024-03-31"),
				NetIncome:    f(200),
				TotalRevenue: f(1000),
			},
		},
	}
}

func TestConvertStatementsMonetaryOnly(t *testing.T) {
	fx := series("EURUSD=X", point("2023-12-29", 1.1), point("2024-03-28", 1.2))

	out, err := ConvertStatements(eurSeries(), fx, "USD")
	require.NoError(t, err)

	assert.Equal(t, "USD", out.Currency)
	first, second := out.Statements[0], out.Statements[1]
	assert.InDelta(t, 110, first.NetIncome.Float64, 1e-9)
	assert.InDelta(t, -44, first.FreeCashFlow.Float64, 1e-9)
	assert.True(t, first.TotalDebt.Valid)
	assert.Equal(t, 0.0, first.TotalDebt.Float64)
	assert.Equal(t, 1000.0, first.BasicAverageShares.Float64)
	assert.Equal(t, 0.21, first.TaxRateForCalcs.Float64)
	assert.False(t, first.TotalRevenue.Valid)

	assert.InDelta(t, 240, second.NetIncome.Float64, 1e-9)
	assert.InDelta(t, 1200, second.TotalRevenue.Float64, 1e-9)
}

func TestConvertStatementsDoesNotMutateInput(t *testing.T) {
	in := eurSeries()
	fx := series("EURUSD=X", point("2023-01-01", 2))

	_, err := ConvertStatements(in, fx, "USD")
	require.NoError(t, err)

	assert.Equal(t, "EUR", in.Currency)
	assert.Equal(t, 100.0, in.Statements[0].NetIncome.Float64)
}

func TestConvertStatementsRoundTrip(t *testing.T) {
	fx := series("EURUSD=X", point("2023-12-29", 1.08), point("2024-03-28", 1.25))
	inverse := series("USDEUR=X", point("2023-12-29", 1/1.08), point("2024-03-28", 1/1.25))

	in := eurSeries()
	usd, err := ConvertStatements(in, fx, "USD")
	require.NoError(t, err)
	back, err := ConvertStatements(usd, inverse, "EUR")
	require.NoError(t, err)

	for i := range in.Statements {
		for _, field := range models.MonetaryFields {
			want := *field.Ref(&in.Statements[i])
			got := *field.Ref(&back.Statements[i])
			require.Equal(t, want.Valid, got.Valid, field.Name)
			assert.InDelta(t, want.Float64, got.Float64, 1e-9, field.Name)
		}
	}
}

func TestConvertStatementsPropagatesOutOfRange(t *testing.T) {
	fx := series("EURUSD=X", point("2024-01-01", 1.1))

	_, err := ConvertStatements(eurSeries(), fx, "USD")
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestNormalizerFetchesPair(t *testing.T) {
	rates := &fakeRates{series: map[string]*models.PriceSeries{
		"EURUSD=X": series("EURUSD=X", point("2023-01-01", 2)),
	}}
	n := NewNormalizer(rates)

	out, err := n.ConvertCurrencyInStatements(context.Background(), eurSeries(), "USD")
	require.NoError(t, err)
	assert.Equal(t, []string{"EURUSD=X"}, rates.calls)
	assert.Equal(t, 200.0, out.Statements[0].NetIncome.Float64)
}

func TestNormalizerSameCurrencySkipsFetch(t *testing.T) {
	rates := &fakeRates{}
	n := NewNormalizer(rates)

	in := eurSeries()
	out, err := n.ConvertCurrencyInStatements(context.Background(), in, "eur")
	require.NoError(t, err)
	assert.Empty(t, rates.calls)
	assert.Equal(t, in.Statements[0].NetIncome, out.Statements[0].NetIncome)
	assert.NotSame(t, &in.Statements[0], &out.Statements[0])
}

func TestNormalizerFetchError(t *testing.T) {
	n := NewNormalizer(&fakeRates{})
	_, err := n.ConvertCurrencyInStatements(context.Background(), eurSeries(), "JPY")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EURJPY=X")
}

func TestConvertPricesDropsPointsBeforeFX(t *testing.T) {
	prices := &models.PriceSeries{
		Symbol:   "ASML.AS",
		Currency: "EUR",
		Points:   []models.PricePoint{point("2023-12-01", 600), point("2024-01-02", 610), point("2024-01-03", 620)},
	}
	fx := series("EURUSD=X", point("2024-01-02", 1.1), point("2024-01-03", 1.0))

	out := ConvertPrices(prices, fx, "USD")
	assert.Equal(t, "USD", out.Currency)
	require.Len(t, out.Points, 2)
	assert.InDelta(t, 671.0, out.Points[0].Close, 1e-9)
	assert.InDelta(t, 620.0, out.Points[1].Close, 1e-9)
	assert.Equal(t, 600.0, prices.Points[0].Close)
}

func TestConvertCurrencyInPricesSameCurrency(t *testing.T) {
	rates := &fakeRates{}
	prices := &models.PriceSeries{Symbol: "AAPL", Currency: "USD"}

	out, err := NewNormalizer(rates).ConvertCurrencyInPrices(context.Background(), prices, "usd")
	require.NoError(t, err)
	assert.Same(t, prices, out)
	assert.Empty(t, rates.calls)
}
