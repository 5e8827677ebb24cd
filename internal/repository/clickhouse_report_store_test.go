package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
)

func TestBuildInsert(t *testing.T) {
	runAt := time.Date(2024, 6, 1, 8, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	q, args := buildInsert("fundamentals.report_values", runAt, []domrepo.ReportRow{
		{Symbol: "AAPL", Key: "price", Value: "190.5"},
		{Symbol: "", Key: "price", Value: "1"},
		{Symbol: "AAPL", Key: "ttm.pe", Value: "29.6"},
	})

	assert.True(t, strings.HasPrefix(q, "INSERT INTO fundamentals.report_values (run_at, symbol, key, value) VALUES "))
	assert.Equal(t, 2, strings.Count(q, "(?, ?, ?, ?)"))
	assert.Len(t, args, 8)
	assert.Equal(t, runAt.UTC(), args[0])
	assert.Equal(t, "ttm.pe", args[6])
}

func TestBuildInsertEmpty(t *testing.T) {
	q, args := buildInsert("t", time.Now(), []domrepo.ReportRow{{Key: "x"}})
	assert.Empty(t, q)
	assert.Nil(t, args)
}
