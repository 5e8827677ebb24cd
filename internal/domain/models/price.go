package models

import "time"

// PricePoint is a daily close.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is the close history of one instrument or one FX pair.
// Points carry no ordering guarantee.
type PriceSeries struct {
	Symbol   string       `json:"symbol"`
	Currency string       `json:"currency"`
	Points   []PricePoint `json:"points"`
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// FXPair returns the provider symbol for the from->to conversion rate, e.g. "USDEUR=X".
func FXPair(from, to string) string {
	return from + to + "=X"
}
