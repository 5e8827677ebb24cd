package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements repository.Metrics using Prometheus.
type Recorder struct {
	reports   *prometheus.CounterVec
	errors    *prometheus.CounterVec
	lastPrice *prometheus.GaugeVec
	latency   *prometheus.HistogramVec
	requests  *prometheus.CounterVec
}

// New creates a recorder registered on reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		reports: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundamentals_reports_total",
				Help: "Symbol reports by outcome",
			},
			[]string{"result"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundamentals_errors_total",
				Help: "Errors by kind",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fundamentals_last_price",
				Help: "Latest close seen for a symbol",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fundamentals_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"operation"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fundamentals_provider_requests_total",
				Help: "Data provider requests by endpoint and outcome",
			},
			[]string{"endpoint", "result"},
		),
	}
}

// RecordReport counts a finished symbol pipeline ("ok" or "error").
func (r *Recorder) RecordReport(result string) {
	r.reports.WithLabelValues(result).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errors.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordProviderRequest counts one provider call.
func (r *Recorder) RecordProviderRequest(endpoint, result string) {
	r.requests.WithLabelValues(endpoint, result).Inc()
}
