package yahoo

import (
	"context"
	"fmt"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	"github.com/fslick/fundamentals-yf/pkg/logger"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

type chartResponse struct {
	Chart struct {
		Result []chartResult      `json:"result"`
		Error  *providerErrorBody `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol    string `json:"symbol"`
		Currency  string `json:"currency"`
		GMTOffset int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// FetchPrices returns daily closes over the configured history window.
// Works for both instruments and FX pair symbols.
func (c *Client) FetchPrices(ctx context.Context, symbol string) (*models.PriceSeries, error) {
	q := c.historyWindow()
	q.Set("interval", "1d")
	q.Set("events", "div,split")

	var resp chartResponse
	if err := c.get(ctx, endpointChart, symbol, "/v8/finance/chart/"+escape(symbol), q, &resp); err != nil {
		return nil, err
	}
	if e := resp.Chart.Error; e != nil {
		return nil, &APIError{Endpoint: endpointChart, Symbol: symbol, StatusCode: 200, Message: e.Description}
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, ErrNoData)
	}

	r := resp.Chart.Result[0]
	series := &models.PriceSeries{Symbol: symbol, Currency: r.Meta.Currency}
	var closes []*float64
	if len(r.Indicators.Quote) > 0 {
		closes = r.Indicators.Quote[0].Close
	}

	skipped := 0
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			skipped++
			continue
		}
		series.Points = append(series.Points, models.PricePoint{
			Date:  util.DayAtOffset(ts, r.Meta.GMTOffset),
			Close: *closes[i],
		})
	}
	if skipped > 0 {
		c.logf("skipped null closes", logger.Symbol(symbol), logger.Int("count", skipped))
	}
	return series, nil
}
