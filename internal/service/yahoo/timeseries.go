package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	"github.com/fslick/fundamentals-yf/pkg/logger"
	"github.com/fslick/fundamentals-yf/pkg/util"
)

type timeseriesResponse struct {
	Timeseries struct {
		Result []timeseriesResult `json:"result"`
		Error  *providerErrorBody `json:"error"`
	} `json:"timeseries"`
}

// timeseriesResult carries one requested type. The values live under a key
// equal to the type name, so the object is decoded as a raw map.
type timeseriesResult map[string]json.RawMessage

type timeseriesMeta struct {
	Type []string `json:"type"`
}

type timeseriesEntry struct {
	AsOfDate      string   `json:"asOfDate"`
	PeriodType    string   `json:"periodType"`
	CurrencyCode  string   `json:"currencyCode"`
	ReportedValue rawValue `json:"reportedValue"`
}

// typeName builds the provider type for a field, e.g. "quarterlyNetIncome".
func typeName(period models.PeriodType, field string) string {
	if field == "" {
		return ""
	}
	return period.Prefix() + strings.ToUpper(field[:1]) + field[1:]
}

// fieldName maps a provider type back to a statement field name.
func fieldName(period models.PeriodType, typ string) (string, bool) {
	rest, ok := strings.CutPrefix(typ, period.Prefix())
	if !ok || rest == "" {
		return "", false
	}
	if _, found := models.LookupStatementField(rest); found {
		return rest, true
	}
	name := strings.ToLower(rest[:1]) + rest[1:]
	if _, found := models.LookupStatementField(name); found {
		return name, true
	}
	return "", false
}

// FetchStatements returns the statements of one cadence, one per reported date.
func (c *Client) FetchStatements(ctx context.Context, symbol string, period models.PeriodType) (*models.StatementSeries, error) {
	names := models.StatementFieldNames()
	types := make([]string, 0, len(names))
	for _, n := range names {
		types = append(types, typeName(period, n))
	}

	q := c.historyWindow()
	q.Set("type", strings.Join(types, ","))
	q.Set("merge", "false")
	q.Set("padTimeSeries", "true")
	q.Set("lang", "en-US")

	var resp timeseriesResponse
	path := "/ws/fundamentals-timeseries/v1/finance/timeseries/" + escape(symbol)
	if err := c.get(ctx, endpointTimeseries, symbol, path, q, &resp); err != nil {
		return nil, err
	}
	if e := resp.Timeseries.Error; e != nil {
		return nil, &APIError{Endpoint: endpointTimeseries, Symbol: symbol, StatusCode: 200, Message: e.Description}
	}
	return c.decodeStatements(symbol, period, resp.Timeseries.Result)
}

func (c *Client) decodeStatements(symbol string, period models.PeriodType, results []timeseriesResult) (*models.StatementSeries, error) {
	series := &models.StatementSeries{Symbol: symbol, PeriodType: period}
	byDate := make(map[time.Time]*models.Statement)

	for _, res := range results {
		var meta timeseriesMeta
		if raw, ok := res["meta"]; ok {
			if err := json.Unmarshal(raw, &meta); err != nil {
				return nil, fmt.Errorf("decode timeseries meta: %w", err)
			}
		}
		for _, typ := range meta.Type {
			raw, ok := res[typ]
			if !ok {
				continue
			}
			name, ok := fieldName(period, typ)
			if !ok {
				c.logf("unknown timeseries type", logger.Symbol(symbol), logger.String("type", typ))
				continue
			}
			field, _ := models.LookupStatementField(name)

			var entries []*timeseriesEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, fmt.Errorf("decode timeseries %s: %w", typ, err)
			}
			for _, e := range entries {
				if e == nil || e.AsOfDate == "" {
					continue
				}
				date, err := util.ParseDate(e.AsOfDate)
				if err != nil {
					return nil, fmt.Errorf("timeseries %s asOfDate %q: %w", typ, e.AsOfDate, err)
				}
				st, ok := byDate[date]
				if !ok {
					st = &models.Statement{Date: date, PeriodType: period}
					byDate[date] = st
				}
				*field.Ref(st) = e.ReportedValue.Float()
				if series.Currency == "" && e.CurrencyCode != "" {
					series.Currency = e.CurrencyCode
				}
			}
		}
	}

	series.Statements = make([]models.Statement, 0, len(byDate))
	for _, st := range byDate {
		series.Statements = append(series.Statements, *st)
	}
	sort.Slice(series.Statements, func(i, j int) bool {
		return series.Statements[i].Date.Before(series.Statements[j].Date)
	})
	return series, nil
}
