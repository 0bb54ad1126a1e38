package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simon666Z/quantforge/internal/types"
)

const outcomeError = "error"

// Metrics holds the Prometheus collectors of the API. Each server owns its own registry.
type Metrics struct {
	registry         *prometheus.Registry
	BacktestsTotal   *prometheus.CounterVec
	BacktestDuration prometheus.Histogram
	RequestsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the API collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BacktestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantforge_backtests_total",
				Help: "Backtests run through the API by strategy and outcome",
			},
			[]string{"strategy", "outcome"},
		),
		BacktestDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantforge_backtest_duration_seconds",
				Help:    "Wall time of a single backtest including data fetch",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantforge_http_requests_total",
				Help: "HTTP requests by route and status code",
			},
			[]string{"route", "code"},
		),
	}

	m.registry.MustRegister(m.BacktestsTotal, m.BacktestDuration, m.RequestsTotal)

	return m
}

// RecordBacktest counts one backtest. Unknown strategy ids share one label value.
func (m *Metrics) RecordBacktest(strategyType types.StrategyType, outcome string, elapsed time.Duration) {
	label := string(strategyType)
	if !strategyType.IsKnown() {
		label = "unknown"
	}

	m.BacktestsTotal.WithLabelValues(label, outcome).Inc()
	m.BacktestDuration.Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
