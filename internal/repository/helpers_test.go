package repository

import (
	"time"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func sampleReport(symbol string) *models.Report {
	return &models.Report{
		Symbol:    symbol,
		Name:      symbol + " Inc.",
		QuoteType: models.QuoteTypeEquity,
		Currency:  "USD",
		Price:     null.FloatFrom(190.5),
		MarketCap: null.FloatFrom(2.9e12),
		Beta:      null.Float{},
		FiftyTwoWeek: models.Range{
			Low:  null.FloatFrom(164.08),
			High: null.FloatFrom(199.62),
		},
		TTMSource: models.TTMSourceQuarterly,
		TTM: &models.ValuationMetrics{
			Date:      time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
			Close:     null.FloatFrom(192.53),
			MarketCap: null.FloatFrom(3.0e12),
			PE:        null.Float{},
			FCFYield:  null.FloatFrom(0.0000012),
		},
		Growth: models.Growth{
			Annual: &models.GrowthResult{Revenue: null.FloatFrom(0.1)},
		},
		Estimates: map[string]null.Float{
			"+1y": null.FloatFrom(0.08),
			"+5y": null.Float{},
		},
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}
