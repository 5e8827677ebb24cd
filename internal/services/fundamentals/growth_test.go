package fundamentals

import (
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func annuals(revenues ...null.Float) []models.Statement {
	out := make([]models.Statement, len(revenues))
	for i, r := range revenues {
		out[i] = models.Statement{
			Date:         day(quarterEnds[i]),
			PeriodType:   models.PeriodAnnual,
			TotalRevenue: r,
			NetIncome:    f(100),
		}
	}
	return out
}

func TestCalculateGrowthExample(t *testing.T) {
	statements := annuals(f(1000), f(1100), f(1210), f(1331))
	// reverse order must not matter
	statements[0], statements[3] = statements[3], statements[0]

	g := CalculateGrowth(statements)
	require.NotNil(t, g)
	assert.InDelta(t, 0.10, g.Revenue.Float64, 1e-9)
	assert.InDelta(t, 0, g.Earnings.Float64, 1e-9)
	assert.True(t, g.Earnings.Valid)
}

func TestCalculateGrowthTooFew(t *testing.T) {
	assert.Nil(t, CalculateGrowth(annuals(f(1), f(2), f(3))))
	assert.Nil(t, CalculateGrowth(nil))
}

func TestCalculateGrowthUsesLastFour(t *testing.T) {
	g := CalculateGrowth(annuals(f(1), f(1000), f(1100), f(1210), f(1331)))
	require.NotNil(t, g)
	assert.InDelta(t, 0.10, g.Revenue.Float64, 1e-9)
}

func TestCalculateGrowthNonPositiveEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		revenues []null.Float
	}{
		{name: "negative start", revenues: []null.Float{f(-10), f(1), f(2), f(3)}},
		{name: "zero end", revenues: []null.Float{f(10), f(1), f(2), f(0)}},
		{name: "missing start", revenues: []null.Float{{}, f(1), f(2), f(3)}},
		{name: "missing end", revenues: []null.Float{f(1), f(1), f(2), {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := CalculateGrowth(annuals(tt.revenues...))
			require.NotNil(t, g)
			assert.False(t, g.Revenue.Valid)
			assert.True(t, g.Earnings.Valid)
		})
	}
}
