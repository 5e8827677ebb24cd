package fundamentals

import (
	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// SelectTTMStatistics builds metrics from the latest provider-reported trailing
// statement. It returns nil, nil when there is no usable statement: none at
// all, no share count, or neither net income nor free cash flow.
func SelectTTMStatistics(trailing []models.Statement, prices *models.PriceSeries) (*models.ValuationMetrics, error) {
	if len(trailing) == 0 {
		return nil, nil
	}
	sorted := SortByDate(trailing)
	latest := sorted[len(sorted)-1]

	shares := firstPresent(latest.BasicAverageShares, latest.OrdinarySharesNumber)
	if !shares.Valid {
		return nil, nil
	}
	if !latest.NetIncome.Valid && !latest.FreeCashFlow.Valid {
		return nil, nil
	}

	price, err := PriceOn(latest.Date, prices)
	if err != nil {
		return nil, err
	}

	m := CalculateValuationMetrics(ValuationInput{
		Date:                     latest.Date,
		Close:                    null.FloatFrom(price),
		SharesOutstanding:        shares,
		DilutedSharesOutstanding: firstPresent(latest.DilutedAverageShares, shares),
		NetIncome:                latest.NetIncome,
		FreeCashFlow:             latest.FreeCashFlow,
		StockBasedCompensation:   latest.StockBasedCompensation,
		EPS:                      firstValid(latest.BasicEPS, latest.DilutedEPS),
		TotalCash:                firstPresent(latest.CashCashEquivalentsAndShortTermInvestments, latest.CashAndCashEquivalents),
		TotalDebt:                latest.TotalDebt,
		TotalRevenue:             latest.TotalRevenue,
		OperatingIncome:          latest.OperatingIncome,
	})
	return &m, nil
}
