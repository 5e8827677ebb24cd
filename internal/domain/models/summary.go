package models

import "github.com/guregu/null/v6"

// QuoteTypeEquity is the only quote type that carries financial statements.
const QuoteTypeEquity = "EQUITY"

// Summary is the quote and point-estimate snapshot supplied by the data provider.
type Summary struct {
	Price                PriceModule          `json:"price"`
	QuoteType            string               `json:"quoteType"`
	SummaryDetail        SummaryDetail        `json:"summaryDetail"`
	DefaultKeyStatistics DefaultKeyStatistics `json:"defaultKeyStatistics"`
	FinancialData        FinancialData        `json:"financialData"`
	Earnings             EarningsModule       `json:"earnings"`
	EarningsTrend        []EarningsTrend      `json:"earningsTrend"`
}

type PriceModule struct {
	ShortName          string     `json:"shortName"`
	LongName           string     `json:"longName"`
	Currency           string     `json:"currency"`
	Exchange           string     `json:"exchange"`
	QuoteType          string     `json:"quoteType"`
	RegularMarketPrice null.Float `json:"regularMarketPrice"`
	MarketCap          null.Float `json:"marketCap"`
}

type SummaryDetail struct {
	Beta             null.Float `json:"beta"`
	TrailingPE       null.Float `json:"trailingPE"`
	ForwardPE        null.Float `json:"forwardPE"`
	DividendYield    null.Float `json:"dividendYield"`
	FiftyTwoWeekLow  null.Float `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh null.Float `json:"fiftyTwoWeekHigh"`
}

type DefaultKeyStatistics struct {
	SharesOutstanding null.Float `json:"sharesOutstanding"`
	EnterpriseValue   null.Float `json:"enterpriseValue"`
	PegRatio          null.Float `json:"pegRatio"`
	TrailingEps       null.Float `json:"trailingEps"`
	ForwardEps        null.Float `json:"forwardEps"`
	Beta              null.Float `json:"beta"`
}

type FinancialData struct {
	FinancialCurrency string     `json:"financialCurrency"`
	TotalCash         null.Float `json:"totalCash"`
	TotalDebt         null.Float `json:"totalDebt"`
	FreeCashflow      null.Float `json:"freeCashflow"`
	RevenueGrowth     null.Float `json:"revenueGrowth"`
	EarningsGrowth    null.Float `json:"earningsGrowth"`
	TargetMeanPrice   null.Float `json:"targetMeanPrice"`
	RecommendationKey string     `json:"recommendationKey"`
}

type EarningsModule struct {
	FinancialCurrency string `json:"financialCurrency"`
}

// EarningsTrend is one analyst estimate period such as "0q", "+1y" or "+5y".
type EarningsTrend struct {
	Period string     `json:"period"`
	Growth null.Float `json:"growth"`
}

// Name returns the long name, falling back to the short name.
func (s *Summary) Name() string {
	if s.Price.LongName != "" {
		return s.Price.LongName
	}
	return s.Price.ShortName
}

// StatementCurrency returns the currency financial statements are reported in.
func (s *Summary) StatementCurrency() string {
	if s.FinancialData.FinancialCurrency != "" {
		return s.FinancialData.FinancialCurrency
	}
	if s.Earnings.FinancialCurrency != "" {
		return s.Earnings.FinancialCurrency
	}
	return s.Price.Currency
}

// IsEquity reports whether the instrument is a stock.
func (s *Summary) IsEquity() bool {
	return s.QuoteType == QuoteTypeEquity
}
