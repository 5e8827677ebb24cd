package repository

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
	domrepo "github.com/fslick/fundamentals-yf/internal/domain/repository"
	"github.com/fslick/fundamentals-yf/pkg/logger"
)

const (
	columnSymbol = "symbol"
	columnError  = "error"
)

// CSVReportWriter writes a wide table (one row per symbol) and a long table
// (symbol,key,value). An empty path disables that output.
type CSVReportWriter struct {
	widePath string
	longPath string
	log      *logger.Logger
}

var _ domrepo.ReportWriter = (*CSVReportWriter)(nil)

func NewCSVReportWriter(widePath, longPath string, log *logger.Logger) *CSVReportWriter {
	if log == nil {
		log = logger.Nop()
	}
	return &CSVReportWriter{widePath: widePath, longPath: longPath, log: log}
}

// Write renders every result. Failed symbols get an error cell instead of data.
func (w *CSVReportWriter) Write(results []models.SymbolResult) error {
	flats := make([]map[string]string, len(results))
	for i, res := range results {
		flat := map[string]string{}
		if res.OK() {
			f, err := Flatten(res.Report)
			if err != nil {
				return err
			}
			flat = f
		} else if res.Err != nil {
			flat[columnError] = res.Err.Error()
		}
		flat[columnSymbol] = res.Symbol
		flats[i] = flat
	}

	if w.widePath != "" {
		if err := writeCSV(w.widePath, wideRecords(flats)); err != nil {
			return fmt.Errorf("write wide csv: %w", err)
		}
		w.log.Info("wide csv written", logger.String("path", w.widePath), logger.Int("rows", len(flats)))
	}
	if w.longPath != "" {
		records := longRecords(flats)
		if err := writeCSV(w.longPath, records); err != nil {
			return fmt.Errorf("write long csv: %w", err)
		}
		w.log.Info("long csv written", logger.String("path", w.longPath), logger.Int("rows", len(records)-1))
	}
	return nil
}

// wideRecords builds a header of the union of keys with symbol first.
func wideRecords(flats []map[string]string) [][]string {
	union := map[string]struct{}{}
	for _, f := range flats {
		for k := range f {
			if k != columnSymbol {
				union[k] = struct{}{}
			}
		}
	}
	header := make([]string, 0, len(union)+1)
	for k := range union {
		header = append(header, k)
	}
	sort.Strings(header)
	header = append([]string{columnSymbol}, header...)

	records := make([][]string, 0, len(flats)+1)
	records = append(records, header)
	for _, f := range flats {
		row := make([]string, len(header))
		for i, col := range header {
			row[i] = f[col]
		}
		records = append(records, row)
	}
	return records
}

func longRecords(flats []map[string]string) [][]string {
	sorted := make([]map[string]string, len(flats))
	copy(sorted, flats)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i][columnSymbol] < sorted[j][columnSymbol] })

	records := [][]string{{columnSymbol, "key", "value"}}
	for _, f := range sorted {
		sym := f[columnSymbol]
		for _, k := range sortedKeys(f) {
			if k == columnSymbol {
				continue
			}
			records = append(records, []string{sym, k, f[k]})
		}
	}
	return records
}

func writeCSV(path string, records [][]string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}
