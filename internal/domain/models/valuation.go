package models

import (
	"encoding/json"
	"time"

	"github.com/guregu/null/v6"
)

// ValuationMetrics is the valuation snapshot for one trailing period.
// Metrics that cannot be derived are null.
type ValuationMetrics struct {
	Date                     time.Time  `json:"-"`
	Close                    null.Float `json:"close"`
	SharesOutstanding        null.Float `json:"sharesOutstanding"`
	DilutedSharesOutstanding null.Float `json:"dilutedSharesOutstanding"`
	MarketCap                null.Float `json:"marketCap"`
	DilutedMarketCap         null.Float `json:"dilutedMarketCap"`
	NetIncome                null.Float `json:"netIncome"`
	FreeCashFlow             null.Float `json:"freeCashFlow"`
	StockBasedCompensation   null.Float `json:"stockBasedCompensation"`
	EPS                      null.Float `json:"eps"`
	PE                       null.Float `json:"pe"`
	FCFYield                 null.Float `json:"fcfYield"`
	FCFYieldAdjusted         null.Float `json:"fcfYieldAdjusted"`
	FCFPerShare              null.Float `json:"fcfPerShare"`
	FCFPerShareAdjusted      null.Float `json:"fcfPerShareAdjusted"`
	TotalCash                null.Float `json:"totalCash"`
	TotalDebt                null.Float `json:"totalDebt"`
	TotalRevenue             null.Float `json:"totalRevenue"`
	OperatingIncome          null.Float `json:"operatingIncome"`
}

// MarshalJSON renders Date as a calendar day.
func (m ValuationMetrics) MarshalJSON() ([]byte, error) {
	type alias ValuationMetrics
	var date string
	if !m.Date.IsZero() {
		date = m.Date.Format(DateLayout)
	}
	return json.Marshal(struct {
		Date string `json:"date"`
		alias
	}{Date: date, alias: alias(m)})
}

// GrowthResult holds per-period compound growth rates.
type GrowthResult struct {
	Revenue  null.Float `json:"revenue"`
	Earnings null.Float `json:"earnings"`
}

// DateLayout is the calendar-day layout used across reports.
const DateLayout = "2006-01-02"
