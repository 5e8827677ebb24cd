package repository

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fslick/fundamentals-yf/internal/domain/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVReportWriter(t *testing.T) {
	dir := t.TempDir()
	wide := filepath.Join(dir, "out", "wide.csv")
	long := filepath.Join(dir, "out", "long.csv")

	w := NewCSVReportWriter(wide, long, nil)
	err := w.Write([]models.SymbolResult{
		{Symbol: "MSFT", Report: sampleReport("MSFT")},
		{Symbol: "BAD", Err: errors.New("quote not found")},
	})
	require.NoError(t, err)

	wr := readCSV(t, wide)
	require.Len(t, wr, 3)
	header := wr[0]
	assert.Equal(t, "symbol", header[0])
	assert.Contains(t, header, "ttm.marketCap")
	assert.Contains(t, header, "error")

	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("column %s missing", name)
		return -1
	}
	assert.Equal(t, "MSFT", wr[1][0])
	assert.Equal(t, "190.5", wr[1][col("price")])
	assert.Empty(t, wr[1][col("error")])
	assert.Equal(t, "BAD", wr[2][0])
	assert.Equal(t, "quote not found", wr[2][col("error")])
	assert.Empty(t, wr[2][col("price")])

	lr := readCSV(t, long)
	assert.Equal(t, []string{"symbol", "key", "value"}, lr[0])
	assert.Equal(t, []string{"BAD", "error", "quote not found"}, lr[1])
	for _, rec := range lr[2:] {
		assert.Equal(t, "MSFT", rec[0])
	}
}

func TestCSVReportWriterDisabledOutputs(t *testing.T) {
	w := NewCSVReportWriter("", "", nil)
	assert.NoError(t, w.Write([]models.SymbolResult{{Symbol: "AAPL", Report: sampleReport("AAPL")}}))
}
