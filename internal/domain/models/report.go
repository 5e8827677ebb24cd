package models

import (
	"time"

	"github.com/guregu/null/v6"
)

// TTM sources.
const (
	TTMSourceQuarterly = "quarterly"
	TTMSourceTrailing  = "trailing"
)

// Report is the combined per-symbol output record.
type Report struct {
	Symbol            string     `json:"symbol"`
	Name              string     `json:"name"`
	QuoteType         string     `json:"quoteType"`
	Exchange          string     `json:"exchange"`
	Currency          string     `json:"currency"`
	FinancialCurrency string     `json:"financialCurrency"`
	Price             null.Float `json:"price"`
	MarketCap         null.Float `json:"marketCap"`
	Beta              null.Float `json:"beta"`
	TrailingPE        null.Float `json:"trailingPE"`
	ForwardPE         null.Float `json:"forwardPE"`
	DividendYield     null.Float `json:"dividendYield"`
	FiftyTwoWeek      Range      `json:"fiftyTwoWeek"`
	TargetMeanPrice   null.Float `json:"targetMeanPrice"`
	Recommendation    string     `json:"recommendation"`

	TTMSource   string            `json:"ttmSource"`
	TTM         *ValuationMetrics `json:"ttm"`
	PreviousTTM *ValuationMetrics `json:"previousTtm"`
	Growth      Growth            `json:"growth"`

	// Estimates maps an earnings-trend period ("0q", "+1q", "0y", "+1y", "+5y") to analyst growth.
	Estimates map[string]null.Float `json:"estimates"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// Range is a low/high pair.
type Range struct {
	Low  null.Float `json:"low"`
	High null.Float `json:"high"`
}

// Growth groups growth results by statement cadence.
type Growth struct {
	Annual    *GrowthResult `json:"annual"`
	Quarterly *GrowthResult `json:"quarterly"`
}

// SymbolResult is the outcome of one symbol's pipeline.
type SymbolResult struct {
	Symbol string
	Report *Report
	Err    error
}

// OK reports whether the pipeline produced a report.
func (r SymbolResult) OK() bool { return r.Err == nil && r.Report != nil }
