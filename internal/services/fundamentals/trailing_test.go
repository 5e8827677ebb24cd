package fundamentals

import (
	"errors"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func TestCalculateTrailingStatisticsExample(t *testing.T) {
	statements := quarters(4, 100, 50, 1000)
	prices := series("AAPL", point("2023-12-29", 20))

	m, err := CalculateTrailingStatistics(statements, prices)
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, day("2023-12-31"), m.Date)
	assert.InDelta(t, 400, m.NetIncome.Float64, 1e-9)
	assert.InDelta(t, 200, m.FreeCashFlow.Float64, 1e-9)
	assert.InDelta(t, 0.4, m.EPS.Float64, 1e-9)
	assert.InDelta(t, 20000, m.MarketCap.Float64, 1e-9)
	assert.InDelta(t, 50, m.PE.Float64, 1e-9)
	assert.InDelta(t, 0.01, m.FCFYield.Float64, 1e-9)
	assert.InDelta(t, 0.2, m.FCFPerShare.Float64, 1e-9)
	assert.Equal(t, 1000.0, m.DilutedSharesOutstanding.Float64)
	assert.False(t, m.FCFYieldAdjusted.Valid)
	assert.False(t, m.StockBasedCompensation.Valid)
}

func TestCalculateTrailingStatisticsTooFewPeriods(t *testing.T) {
	for n := 0; n < TrailingWindow; n++ {
		m, err := CalculateTrailingStatistics(quarters(n, 100, 50, 1000), series("X", point("2020-01-01", 1)))
		assert.NoError(t, err)
		assert.Nil(t, m)
	}
}

func TestCalculateTrailingStatisticsUsesLastFourSorted(t *testing.T) {
	statements := quarters(6, 100, 50, 1000)
	statements[5].NetIncome = null.FloatFrom(500)
	statements[0].NetIncome = null.FloatFrom(-10000)
	// shuffle
	statements[0], statements[5] = statements[5], statements[0]

	m, err := CalculateTrailingStatistics(statements, series("X", point("2024-06-28", 10)))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, day("2024-06-30"), m.Date)
	assert.InDelta(t, 800, m.NetIncome.Float64, 1e-9)
}

func TestCalculateTrailingStatisticsMissingShares(t *testing.T) {
	statements := quarters(4, 100, 50, 0)
	statements[3].BasicAverageShares = null.Float{}

	_, err := CalculateTrailingStatistics(statements, series("X", point("2020-01-01", 1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Equal(t, "Shares outstanding not found", err.Error())
}

func TestCalculateTrailingStatisticsSharesFallback(t *testing.T) {
	statements := quarters(4, 100, 50, 0)
	statements[3].BasicAverageShares = null.Float{}
	statements[3].OrdinarySharesNumber = f(500)
	statements[3].DilutedAverageShares = f(520)

	m, err := CalculateTrailingStatistics(statements, series("X", point("2020-01-01", 10)))
	require.NoError(t, err)
	assert.Equal(t, 500.0, m.SharesOutstanding.Float64)
	assert.Equal(t, 520.0, m.DilutedSharesOutstanding.Float64)
	assert.InDelta(t, 5200, m.DilutedMarketCap.Float64, 1e-9)
}

func TestCalculateTrailingStatisticsNullPropagation(t *testing.T) {
	statements := quarters(4, 100, 0, 1000)
	for i := range statements {
		statements[i].FreeCashFlow = null.Float{}
		statements[i].StockBasedCompensation = f(30)
	}
	statements[1].NetIncome = null.Float{}

	m, err := CalculateTrailingStatistics(statements, series("X", point("2020-01-01", 10)))
	require.NoError(t, err)

	assert.False(t, m.NetIncome.Valid)
	assert.False(t, m.EPS.Valid)
	assert.False(t, m.FreeCashFlow.Valid)
	assert.False(t, m.FCFYield.Valid)
	assert.False(t, m.FCFPerShare.Valid)
	assert.InDelta(t, 120, m.StockBasedCompensation.Float64, 1e-9)
	assert.False(t, m.TotalRevenue.Valid)
}

func TestCalculateTrailingStatisticsMissingQuarterNullsTotals(t *testing.T) {
	statements := quarters(4, 100, 50, 1000)
	statements[0].NetIncome = null.Float{}
	statements[0].FreeCashFlow = null.Float{}
	statements[2].StockBasedCompensation = f(30)

	m, err := CalculateTrailingStatistics(statements, series("X", point("2023-12-29", 20)))
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.False(t, m.NetIncome.Valid)
	assert.False(t, m.EPS.Valid)
	assert.False(t, m.PE.Valid)
	assert.False(t, m.FreeCashFlow.Valid)
	assert.False(t, m.FCFYield.Valid)
	assert.False(t, m.StockBasedCompensation.Valid)
	assert.InDelta(t, 20000, m.MarketCap.Float64, 1e-9)
}

func TestCalculateTrailingStatisticsCashAndDebt(t *testing.T) {
	statements := quarters(4, 100, 50, 1000)
	statements[3].CashAndCashEquivalents = f(70)
	statements[3].TotalDebt = f(300)

	m, err := CalculateTrailingStatistics(statements, series("X", point("2020-01-01", 10)))
	require.NoError(t, err)
	assert.Equal(t, 70.0, m.TotalCash.Float64)
	assert.Equal(t, 300.0, m.TotalDebt.Float64)

	statements[3].CashCashEquivalentsAndShortTermInvestments = f(90)
	m, err = CalculateTrailingStatistics(statements, series("X", point("2020-01-01", 10)))
	require.NoError(t, err)
	assert.Equal(t, 90.0, m.TotalCash.Float64)
}

func TestCalculateTrailingStatisticsPriceOutOfRange(t *testing.T) {
	_, err := CalculateTrailingStatistics(quarters(4, 100, 50, 1000), series("X", point("2025-01-01", 10)))
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}

func TestPreviousWindow(t *testing.T) {
	statements := quarters(5, 100, 50, 1000)
	statements[0], statements[4] = statements[4], statements[0]

	prev := PreviousWindow(statements)
	require.Len(t, prev, 4)
	assert.Equal(t, day("2023-12-31"), prev[3].Date)

	m, err := CalculateTrailingStatistics(prev, series("X", point("2020-01-01", 10)))
	require.NoError(t, err)
	assert.Equal(t, day("2023-12-31"), m.Date)

	assert.Nil(t, PreviousWindow(nil))
	assert.Len(t, PreviousWindow(make([]models.Statement, 1)), 0)
}
