package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
)

// Flatten renders a report as dotted-path keys ("ttm.marketCap",
// "estimates.+1y") to display strings. Null, empty string and empty object
// values are dropped. Numbers never use exponent notation.
func Flatten(r *models.Report) (map[string]string, error) {
	if r == nil {
		return map[string]string{}, nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report %s: %w", r.Symbol, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", r.Symbol, err)
	}

	out := make(map[string]string, 64)
	walk("", tree, out)
	return out, nil
}

func walk(prefix string, v any, out map[string]string) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		for k, child := range t {
			walk(join(prefix, k), child, out)
		}
	case []any:
		for i, child := range t {
			walk(join(prefix, strconv.Itoa(i)), child, out)
		}
	case json.Number:
		out[prefix] = formatNumber(t)
	case string:
		if t != "" {
			out[prefix] = t
		}
	case bool:
		out[prefix] = strconv.FormatBool(t)
	default:
		out[prefix] = fmt.Sprint(t)
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func formatNumber(n json.Number) string {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return n.String()
	}
	return d.String()
}

// LongRows flattens reports into (symbol, key, value) rows ordered by symbol
// and then key. Reports sharing a symbol keep their input order.
func LongRows(reports []*models.Report) ([]domrepo.ReportRow, error) {
	var rows []domrepo.ReportRow
	for _, r := range reports {
		if r == nil {
			continue
		}
		flat, err := Flatten(r)
		if err != nil {
			return nil, err
		}
		keys := sortedKeys(flat)
		for _, k := range keys {
			rows = append(rows, domrepo.ReportRow{Symbol: r.Symbol, Key: k, Value: flat[k]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	return rows, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
