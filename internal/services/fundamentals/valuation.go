package fundamentals

import (
	"time"

	"github.com/guregu/null/v6"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

// ValuationInput carries the raw figures a valuation is derived from.
type ValuationInput struct {
	Date                     time.Time
	Close                    null.Float
	SharesOutstanding        null.Float
	DilutedSharesOutstanding null.Float
	NetIncome                null.Float
	FreeCashFlow             null.Float
	StockBasedCompensation   null.Float
	EPS                      null.Float
	TotalCash                null.Float
	TotalDebt                null.Float
	TotalRevenue             null.Float
	OperatingIncome          null.Float
}

// CalculateValuationMetrics derives market cap, P/E and free-cash-flow ratios.
// A ratio with a zero or unknown operand is null; inputs pass through verbatim.
func CalculateValuationMetrics(in ValuationInput) models.ValuationMetrics {
	m := models.ValuationMetrics{
		Date:                     in.Date,
		Close:                    in.Close,
		SharesOutstanding:        in.SharesOutstanding,
		DilutedSharesOutstanding: in.DilutedSharesOutstanding,
		NetIncome:                in.NetIncome,
		FreeCashFlow:             in.FreeCashFlow,
		StockBasedCompensation:   in.StockBasedCompensation,
		EPS:                      in.EPS,
		TotalCash:                in.TotalCash,
		TotalDebt:                in.TotalDebt,
		TotalRevenue:             in.TotalRevenue,
		OperatingIncome:          in.OperatingIncome,
	}

	m.MarketCap = mul(in.Close, in.SharesOutstanding)
	m.DilutedMarketCap = mul(in.Close, in.DilutedSharesOutstanding)

	if present(in.EPS) {
		m.PE = div(in.Close, in.EPS)
	}
	if present(in.FreeCashFlow) {
		m.FCFYield = div(in.FreeCashFlow, m.MarketCap)
		m.FCFPerShare = div(in.FreeCashFlow, in.SharesOutstanding)
		if present(in.StockBasedCompensation) {
			adjusted := sub(in.FreeCashFlow, in.StockBasedCompensation)
			m.FCFYieldAdjusted = div(adjusted, m.DilutedMarketCap)
			m.FCFPerShareAdjusted = div(adjusted, in.DilutedSharesOutstanding)
		}
	}
	return m
}
