package fundamentals

import (
	"context"
	"fmt"
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

func series(symbol string, points ...models.PricePoint) *models.PriceSeries {
	return &models.PriceSeries{Symbol: symbol, Points: points}
}

func point(date string, price float64) models.PricePoint {
	return models.PricePoint{Date: day(date), Close: price}
}

func f(v float64) null.Float { return null.FloatFrom(v) }

var quarterEnds = []string{"2023-03-31", "2023-06-30", "2023-09-30", "2023-12-31", "2024-03-31", "2024-06-30"}

// quarters builds n quarterly statements with constant figures.
func quarters(n int, netIncome, fcf, shares float64) []models.Statement {
	out := make([]models.Statement, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Statement{
			Date:               day(quarterEnds[i]),
			PeriodType:         models.PeriodQuarterly,
			NetIncome:          f(netIncome),
			FreeCashFlow:       f(fcf),
			BasicAverageShares: f(shares),
		})
	}
	return out
}

type fakeRates struct {
	series map[string]*models.PriceSeries
	calls  []string
}

func (r *fakeRates) FetchPrices(_ context.Context, symbol string) (*models.PriceSeries, error) {
	r.calls = append(r.calls, symbol)
	s, ok := r.series[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown pair %s", symbol)
	}
	return s, nil
}
