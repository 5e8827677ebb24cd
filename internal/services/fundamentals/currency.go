package fundamentals

import (
	"context"
	"fmt"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
)

// Normalizer rewrites statement series into another currency.
type Normalizer struct {
	rates domrepo.PriceSource
}

// NewNormalizer creates a Normalizer that loads FX series from rates.
func NewNormalizer(rates domrepo.PriceSource) *Normalizer {
	return &Normalizer{rates: rates}
}

// ConvertCurrencyInStatements returns a copy of series with every monetary
// field expressed in currency to. The input is never mutated, so a series must
// be converted at most once.
//
// Codes compare case-sensitively: GBp (pence) and GBP (pounds) differ, as do
// ZAc/ZAR and ILA/ILS.
func (n *Normalizer) ConvertCurrencyInStatements(ctx context.Context, series *models.StatementSeries, to string) (*models.StatementSeries, error) {
	if series == nil {
		return nil, nil
	}
	if series.Currency == "" || to == "" {
		return nil, fmt.Errorf("convert %s %s: source and target currency are required", series.Symbol, series.PeriodType)
	}
	if series.Currency == to {
		return series.Clone(), nil
	}

	pair := models.FXPair(series.Currency, to)
	fx, err := n.rates.FetchPrices(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("fetch fx %s: %w", pair, err)
	}
	return ConvertStatements(series, fx, to)
}

// ConvertStatements multiplies every monetary field by the fx close resolved at
// each statement's date.
func ConvertStatements(series *models.StatementSeries, fx *models.PriceSeries, to string) (*models.StatementSeries, error) {
	out := series.Clone()
	for i := range out.Statements {
		st := &out.Statements[i]
		rate, err := PriceOn(st.Date, fx)
		if err != nil {
			return nil, fmt.Errorf("convert %s statement %s: %w",
				series.Symbol, st.Date.Format(models.DateLayout), err)
		}
		for _, f := range models.MonetaryFields {
			if v := f.Ref(st); v.Valid {
				*v = null.FloatFrom(v.Float64 * rate)
			}
		}
	}
	out.Currency = to
	return out, nil
}

// ConvertCurrencyInPrices returns a copy of prices quoted in currency to.
func (n *Normalizer) ConvertCurrencyInPrices(ctx context.Context, prices *models.PriceSeries, to string) (*models.PriceSeries, error) {
	if prices == nil || prices.Currency == "" || prices.Currency == to {
		return prices, nil
	}
	pair := models.FXPair(prices.Currency, to)
	fx, err := n.rates.FetchPrices(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("fetch fx %s: %w", pair, err)
	}
	return ConvertPrices(prices, fx, to), nil
}

// ConvertPrices multiplies every close by the fx close of its day. Points
// dated before the first fx quote are dropped.
func ConvertPrices(prices *models.PriceSeries, fx *models.PriceSeries, to string) *models.PriceSeries {
	out := &models.PriceSeries{Symbol: prices.Symbol, Currency: to}
	out.Points = make([]models.PricePoint, 0, len(prices.Points))
	for _, p := range prices.Points {
		rate, err := PriceOn(p.Date, fx)
		if err != nil {
			continue
		}
		out.Points = append(out.Points, models.PricePoint{Date: p.Date, Close: p.Close * rate})
	}
	return out
}
