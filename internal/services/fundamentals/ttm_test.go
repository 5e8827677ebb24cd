package fundamentals

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func trailingStatement(date string) models.Statement {
	return models.Statement{
		Date:               day(date),
		PeriodType:         models.PeriodTrailing,
		NetIncome:          f(400),
		FreeCashFlow:       f(200),
		BasicAverageShares: f(1000),
		DilutedEPS:         f(0.39),
	}
}

func TestSelectTTMStatisticsLatest(t *testing.T) {
	older := trailingStatement("2023-09-30")
	older.NetIncome = f(1)
	latest := trailingStatement("2023-12-31")
	latest.BasicEPS = f(0.4)

	m, err := SelectTTMStatistics([]models.Statement{latest, older}, series("X", point("2023-12-29", 20)))
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, day("2023-12-31"), m.Date)
	assert.Equal(t, 400.0, m.NetIncome.Float64)
	assert.Equal(t, 0.4, m.EPS.Float64)
	assert.InDelta(t, 50, m.PE.Float64, 1e-9)
	assert.InDelta(t, 20000, m.MarketCap.Float64, 1e-9)
}

func TestSelectTTMStatisticsDilutedEPSFallback(t *testing.T) {
	m, err := SelectTTMStatistics([]models.Statement{trailingStatement("2023-12-31")}, series("X", point("2023-12-29", 39)))
	require.NoError(t, err)
	assert.Equal(t, 0.39, m.EPS.Float64)
	assert.InDelta(t, 100, m.PE.Float64, 1e-9)
}

func TestSelectTTMStatisticsUnusable(t *testing.T) {
	prices := series("X", point("2020-01-01", 10))

	noShares := trailingStatement("2023-12-31")
	noShares.BasicAverageShares = null.Float{}

	noFigures := trailingStatement("2023-12-31")
	noFigures.NetIncome = null.Float{}
	noFigures.FreeCashFlow = null.Float{}

	tests := []struct {
		name       string
		statements []models.Statement
	}{
		{name: "empty", statements: nil},
		{name: "no shares", statements: []models.Statement{noShares}},
		{name: "no income or cash flow", statements: []models.Statement{noFigures}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := SelectTTMStatistics(tt.statements, prices)
			assert.NoError(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestSelectTTMStatisticsOnlyCashFlow(t *testing.T) {
	st := trailingStatement("2023-12-31")
	st.NetIncome = null.Float{}

	m, err := SelectTTMStatistics([]models.Statement{st}, series("X", point("2020-01-01", 10)))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.False(t, m.NetIncome.Valid)
	assert.InDelta(t, 0.02, m.FCFYield.Float64, 1e-9)
}
