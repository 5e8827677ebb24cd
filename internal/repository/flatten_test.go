package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func TestFlatten(t *testing.T) {
	flat, err := Flatten(sampleReport("AAPL"))
	require.NoError(t, err)

	assert.Equal(t, "AAPL", flat["symbol"])
	assert.Equal(t, "190.5", flat["price"])
	assert.Equal(t, "2900000000000", flat["marketCap"])
	assert.Equal(t, "164.08", flat["fiftyTwoWeek.low"])
	assert.Equal(t, "2023-12-31", flat["ttm.date"])
	assert.Equal(t, "3000000000000", flat["ttm.marketCap"])
	assert.Equal(t, "0.0000012", flat["ttm.fcfYield"])
	assert.Equal(t, "0.08", flat["estimates.+1y"])
	assert.Equal(t, "0.1", flat["growth.annual.revenue"])

	for _, absent := range []string{"beta", "ttm.pe", "estimates.+5y", "previousTtm", "growth.quarterly", "exchange"} {
		_, ok := flat[absent]
		assert.False(t, ok, absent)
	}
}

func TestFlattenNil(t *testing.T) {
	flat, err := Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, flat)
}

func TestLongRowsOrdering(t *testing.T) {
	rows, err := LongRows([]*models.Report{sampleReport("MSFT"), nil, sampleReport("AAPL")})
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	assert.Equal(t, "AAPL", rows[0].Symbol)
	assert.Equal(t, "MSFT", rows[len(rows)-1].Symbol)
	for i := 1; i < len(rows); i++ {
		if rows[i].Symbol == rows[i-1].Symbol {
			assert.Less(t, rows[i-1].Key, rows[i].Key)
		}
		assert.NotEmpty(t, rows[i].Value)
	}
}
