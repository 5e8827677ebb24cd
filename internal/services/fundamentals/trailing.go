package fundamentals

import (
	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// CalculateTrailingStatistics aggregates the four most recent periods into
// trailing metrics priced at the last period's date. It returns nil, nil when
// fewer than four periods are available.
//
// EPS is the sum of each period's net income over the last period's share
// count, not a per-period weighted figure. A window total is null when any of
// its periods lacks the field.
func CalculateTrailingStatistics(statements []models.Statement, prices *models.PriceSeries) (*models.ValuationMetrics, error) {
	if len(statements) < TrailingWindow {
		return nil, nil
	}
	window := lastN(SortByDate(statements), TrailingWindow)
	last := window[len(window)-1]

	shares := firstPresent(last.BasicAverageShares, last.OrdinarySharesNumber)
	if !shares.Valid {
		return nil, &MissingFieldError{Field: "sharesOutstanding", Message: "Shares outstanding not found"}
	}

	price, err := PriceOn(last.Date, prices)
	if err != nil {
		return nil, err
	}

	total := func(field func(models.Statement) null.Float) null.Float {
		vs := make([]null.Float, len(window))
		for i, st := range window {
			vs[i] = field(st)
		}
		return sum(vs...)
	}
	netIncome := total(func(st models.Statement) null.Float { return st.NetIncome })
	eps := total(func(st models.Statement) null.Float { return div(st.NetIncome, shares) })

	m := CalculateValuationMetrics(ValuationInput{
		Date:                     last.Date,
		Close:                    null.FloatFrom(price),
		SharesOutstanding:        shares,
		DilutedSharesOutstanding: firstPresent(last.DilutedAverageShares, shares),
		NetIncome:                netIncome,
		FreeCashFlow:             total(func(st models.Statement) null.Float { return st.FreeCashFlow }),
		StockBasedCompensation:   total(func(st models.Statement) null.Float { return st.StockBasedCompensation }),
		EPS:                      eps,
		TotalCash:                firstPresent(last.CashCashEquivalentsAndShortTermInvestments, last.CashAndCashEquivalents),
		TotalDebt:                last.TotalDebt,
		TotalRevenue:             total(func(st models.Statement) null.Float { return st.TotalRevenue }),
		OperatingIncome:          total(func(st models.Statement) null.Float { return st.OperatingIncome }),
	})
	return &m, nil
}
