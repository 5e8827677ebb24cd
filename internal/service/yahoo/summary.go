package yahoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// rawValue is the provider's {"raw": 1.5, "fmt": "1.50"} number envelope.
// Empty objects and plain numbers are both accepted.
type rawValue struct {
	Raw *float64
}

func (v *rawValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] != '{' {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return nil
		}
		v.Raw = &f
		return nil
	}
	var env struct {
		Raw *float64 `json:"raw"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	v.Raw = env.Raw
	return nil
}

func (v rawValue) Float() null.Float {
	if v.Raw == nil {
		return null.Float{}
	}
	return null.FloatFrom(*v.Raw)
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []summaryResult    `json:"result"`
		Error  *providerErrorBody `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price struct {
		ShortName          string   `json:"shortName"`
		LongName           string   `json:"longName"`
		Currency           string   `json:"currency"`
		Exchange           string   `json:"exchange"`
		QuoteType          string   `json:"quoteType"`
		RegularMarketPrice rawValue `json:"regularMarketPrice"`
		MarketCap          rawValue `json:"marketCap"`
	} `json:"price"`
	SummaryDetail struct {
		Beta             rawValue `json:"beta"`
		TrailingPE       rawValue `json:"trailingPE"`
		ForwardPE        rawValue `json:"forwardPE"`
		DividendYield    rawValue `json:"dividendYield"`
		FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
		FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
	} `json:"summaryDetail"`
	DefaultKeyStatistics struct {
		SharesOutstanding rawValue `json:"sharesOutstanding"`
		EnterpriseValue   rawValue `json:"enterpriseValue"`
		PegRatio          rawValue `json:"pegRatio"`
		TrailingEps       rawValue `json:"trailingEps"`
		ForwardEps        rawValue `json:"forwardEps"`
		Beta              rawValue `json:"beta"`
	} `json:"defaultKeyStatistics"`
	FinancialData struct {
		FinancialCurrency string   `json:"financialCurrency"`
		TotalCash         rawValue `json:"totalCash"`
		TotalDebt         rawValue `json:"totalDebt"`
		FreeCashflow      rawValue `json:"freeCashflow"`
		RevenueGrowth     rawValue `json:"revenueGrowth"`
		EarningsGrowth    rawValue `json:"earningsGrowth"`
		TargetMeanPrice   rawValue `json:"targetMeanPrice"`
		RecommendationKey string   `json:"recommendationKey"`
	} `json:"financialData"`
	Earnings struct {
		FinancialCurrency string `json:"financialCurrency"`
	} `json:"earnings"`
	EarningsTrend struct {
		Trend []struct {
			Period string   `json:"period"`
			Growth rawValue `json:"growth"`
		} `json:"trend"`
	} `json:"earningsTrend"`
}

// FetchSummary returns the quote snapshot and analyst point estimates.
func (c *Client) FetchSummary(ctx context.Context, symbol string) (*models.Summary, error) {
	q := url.Values{}
	q.Set("modules", strings.Join(summaryModules, ","))
	if c.crumb != "" {
		q.Set("crumb", c.crumb)
	}

	var resp summaryResponse
	if err := c.get(ctx, endpointSummary, symbol, "/v10/finance/quoteSummary/"+escape(symbol), q, &resp); err != nil {
		return nil, err
	}
	if e := resp.QuoteSummary.Error; e != nil {
		return nil, &APIError{Endpoint: endpointSummary, Symbol: symbol, StatusCode: 200, Message: e.Description}
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, ErrNoData)
	}
	return resp.QuoteSummary.Result[0].toModel(), nil
}

func (r *summaryResult) toModel() *models.Summary {
	s := &models.Summary{
		QuoteType: strings.ToUpper(r.Price.QuoteType),
		Price: models.PriceModule{
			ShortName:          r.Price.ShortName,
			LongName:           r.Price.LongName,
			Currency:           r.Price.Currency,
			Exchange:           r.Price.Exchange,
			QuoteType:          r.Price.QuoteType,
			RegularMarketPrice: r.Price.RegularMarketPrice.Float(),
			MarketCap:          r.Price.MarketCap.Float(),
		},
		SummaryDetail: models.SummaryDetail{
			Beta:             r.SummaryDetail.Beta.Float(),
			TrailingPE:       r.SummaryDetail.TrailingPE.Float(),
			ForwardPE:        r.SummaryDetail.ForwardPE.Float(),
			DividendYield:    r.SummaryDetail.DividendYield.Float(),
			FiftyTwoWeekLow:  r.SummaryDetail.FiftyTwoWeekLow.Float(),
			FiftyTwoWeekHigh: r.SummaryDetail.FiftyTwoWeekHigh.Float(),
		},
		DefaultKeyStatistics: models.DefaultKeyStatistics{
			SharesOutstanding: r.DefaultKeyStatistics.SharesOutstanding.Float(),
			EnterpriseValue:   r.DefaultKeyStatistics.EnterpriseValue.Float(),
			PegRatio:          r.DefaultKeyStatistics.PegRatio.Float(),
			TrailingEps:       r.DefaultKeyStatistics.TrailingEps.Float(),
			ForwardEps:        r.DefaultKeyStatistics.ForwardEps.Float(),
			Beta:              r.DefaultKeyStatistics.Beta.Float(),
		},
		FinancialData: models.FinancialData{
			FinancialCurrency: r.FinancialData.FinancialCurrency,
			TotalCash:         r.FinancialData.TotalCash.Float(),
			TotalDebt:         r.FinancialData.TotalDebt.Float(),
			FreeCashflow:      r.FinancialData.FreeCashflow.Float(),
			RevenueGrowth:     r.FinancialData.RevenueGrowth.Float(),
			EarningsGrowth:    r.FinancialData.EarningsGrowth.Float(),
			TargetMeanPrice:   r.FinancialData.TargetMeanPrice.Float(),
			RecommendationKey: r.FinancialData.RecommendationKey,
		},
		Earnings: models.EarningsModule{FinancialCurrency: r.Earnings.FinancialCurrency},
	}
	for _, t := range r.EarningsTrend.Trend {
		s.EarningsTrend = append(s.EarningsTrend, models.EarningsTrend{
			Period: t.Period,
			Growth: t.Growth.Float(),
		})
	}
	return s
}
