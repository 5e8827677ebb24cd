package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordReport("ok")
	r.RecordReport("ok")
	r.RecordReport("error")
	r.RecordError("date_out_of_range")
	r.RecordLastPrice("AAPL", 190.5)
	r.RecordProviderRequest("chart", "ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reports.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reports.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("date_out_of_range")))
	assert.Equal(t, 190.5, testutil.ToFloat64(r.lastPrice.WithLabelValues("AAPL")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("chart", "ok")))
}
