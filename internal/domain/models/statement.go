package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// PeriodType is the reporting cadence of a statement series.
type PeriodType string

const (
	PeriodQuarterly PeriodType = "QUARTERLY"
	PeriodAnnual    PeriodType = "ANNUAL"
	PeriodTrailing  PeriodType = "TRAILING"
)

// Prefix returns the provider type prefix for the period ("quarterly", "annual", "trailing").
func (p PeriodType) Prefix() string {
	return strings.ToLower(string(p))
}

// ParsePeriodType converts a raw string to a PeriodType.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(strings.ToUpper(s)) {
	case PeriodQuarterly:
		return PeriodQuarterly, nil
	case PeriodAnnual:
		return PeriodAnnual, nil
	case PeriodTrailing:
		return PeriodTrailing, nil
	default:
		return "", fmt.Errorf("unknown period type: %q", s)
	}
}

// Statement holds one reported period's line items.
//
// Identifying fields (Date, PeriodType, share counts, tax rate) are never
// currency converted. Every other numeric field is monetary and is listed in
// MonetaryFields.
type Statement struct {
	Date       time.Time  `json:"date"`
	PeriodType PeriodType `json:"periodType"`

	BasicAverageShares   null.Float `json:"basicAverageShares"`
	DilutedAverageShares null.Float `json:"dilutedAverageShares"`
	OrdinarySharesNumber null.Float `json:"ordinarySharesNumber"`
	ShareIssued          null.Float `json:"shareIssued"`
	TaxRateForCalcs      null.Float `json:"taxRateForCalcs"`

	NetIncome                                  null.Float `json:"netIncome"`
	FreeCashFlow                               null.Float `json:"freeCashFlow"`
	TotalRevenue                               null.Float `json:"totalRevenue"`
	OperatingIncome                            null.Float `json:"operatingIncome"`
	StockBasedCompensation                     null.Float `json:"stockBasedCompensation"`
	TotalDebt                                  null.Float `json:"totalDebt"`
	CashAndCashEquivalents                     null.Float `json:"cashAndCashEquivalents"`
	CashCashEquivalentsAndShortTermInvestments null.Float `json:"cashCashEquivalentsAndShortTermInvestments"`
	BasicEPS                                   null.Float `json:"basicEPS"`
	DilutedEPS                                 null.Float `json:"dilutedEPS"`
	GrossProfit                                null.Float `json:"grossProfit"`
	EBITDA                                     null.Float `json:"EBITDA"`
	OperatingCashFlow                          null.Float `json:"operatingCashFlow"`
	CapitalExpenditure                         null.Float `json:"capitalExpenditure"`
}

// StatementField names a numeric line item and resolves it on a Statement.
type StatementField struct {
	Name string
	Ref  func(*Statement) *null.Float
}

// MonetaryFields is the closed list of currency-denominated line items.
var MonetaryFields = []StatementField{
	{"netIncome", func(s *Statement) *null.Float { return &s.NetIncome }},
	{"freeCashFlow", func(s *Statement) *null.Float { return &s.FreeCashFlow }},
	{"totalRevenue", func(s *Statement) *null.Float { return &s.TotalRevenue }},
	{"operatingIncome", func(s *Statement) *null.Float { return &s.OperatingIncome }},
	{"stockBasedCompensation", func(s *Statement) *null.Float { return &s.StockBasedCompensation }},
	{"totalDebt", func(s *Statement) *null.Float { return &s.TotalDebt }},
	{"cashAndCashEquivalents", func(s *Statement) *null.Float { return &s.CashAndCashEquivalents }},
	{"cashCashEquivalentsAndShortTermInvestments", func(s *Statement) *null.Float { return &s.CashCashEquivalentsAndShortTermInvestments }},
	{"basicEPS", func(s *Statement) *null.Float { return &s.BasicEPS }},
	{"dilutedEPS", func(s *Statement) *null.Float { return &s.DilutedEPS }},
	{"grossProfit", func(s *Statement) *null.Float { return &s.GrossProfit }},
	{"EBITDA", func(s *Statement) *null.Float { return &s.EBITDA }},
	{"operatingCashFlow", func(s *Statement) *null.Float { return &s.OperatingCashFlow }},
	{"capitalExpenditure", func(s *Statement) *null.Float { return &s.CapitalExpenditure }},
}

// NonMonetaryFields are numeric line items that are never converted.
var NonMonetaryFields = []StatementField{
	{"basicAverageShares", func(s *Statement) *null.Float { return &s.BasicAverageShares }},
	{"dilutedAverageShares", func(s *Statement) *null.Float { return &s.DilutedAverageShares }},
	{"ordinarySharesNumber", func(s *Statement) *null.Float { return &s.OrdinarySharesNumber }},
	{"shareIssued", func(s *Statement) *null.Float { return &s.ShareIssued }},
	{"taxRateForCalcs", func(s *Statement) *null.Float { return &s.TaxRateForCalcs }},
}

var fieldIndex = func() map[string]StatementField {
	m := make(map[string]StatementField, len(MonetaryFields)+len(NonMonetaryFields))
	for _, f := range MonetaryFields {
		m[f.Name] = f
	}
	for _, f := range NonMonetaryFields {
		m[f.Name] = f
	}
	return m
}()

// LookupStatementField finds a numeric field by its provider name.
func LookupStatementField(name string) (StatementField, bool) {
	f, ok := fieldIndex[name]
	return f, ok
}

// StatementFieldNames returns every numeric field name, monetary first.
func StatementFieldNames() []string {
	out := make([]string, 0, len(MonetaryFields)+len(NonMonetaryFields))
	for _, f := range MonetaryFields {
		out = append(out, f.Name)
	}
	for _, f := range NonMonetaryFields {
		out = append(out, f.Name)
	}
	return out
}

// StatementSeries is the set of statements for one symbol and one period type.
type StatementSeries struct {
	Symbol     string      `json:"symbol"`
	PeriodType PeriodType  `json:"periodType"`
	Currency   string      `json:"currency"`
	Statements []Statement `json:"statements"`
}

// Len returns the number of statements.
func (s *StatementSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Statements)
}

// Clone returns a deep copy of the series.
func (s *StatementSeries) Clone() *StatementSeries {
	if s == nil {
		return nil
	}
	out := *s
	out.Statements = make([]Statement, len(s.Statements))
	copy(out.Statements, s.Statements)
	return &out
}
