package fundamentals

import (
	"math"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// CalculateGrowth returns the compound per-period growth of revenue and net
// income across the four most recent periods, or nil with fewer periods.
func CalculateGrowth(statements []models.Statement) *models.GrowthResult {
	if len(statements) < TrailingWindow {
		return nil
	}
	window := lastN(SortByDate(statements), TrailingWindow)
	first, last := window[0], window[len(window)-1]
	intervals := float64(len(window) - 1)

	return &models.GrowthResult{
		Revenue:  compoundRate(first.TotalRevenue, last.TotalRevenue, intervals),
		Earnings: compoundRate(first.NetIncome, last.NetIncome, intervals),
	}
}

// compoundRate is null when either endpoint is unknown or not positive.
func compoundRate(start, end null.Float, intervals float64) null.Float {
	if !start.Valid || !end.Valid || start.Float64 <= 0 || end.Float64 <= 0 {
		return null.Float{}
	}
	return finite(math.Pow(end.Float64/start.Float64, 1/intervals) - 1)
}
