// Package metrics exposes Prometheus metrics for queries executed through
// the explorer and for the reachability of the SPARQL endpoint.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hello-sparql/explorer/pkg/client"
	"github.com/hello-sparql/explorer/pkg/models"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
	upstreamUp    prometheus.Gauge

	registry *prometheus.Registry
}

func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		queriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "explorer_queries_total",
				Help: "Total number of queries executed against the SPARQL endpoint",
			},
			[]string{"format", "outcome"},
		),
		queryDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "explorer_query_duration_seconds",
				Help:    "Client-measured duration of queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "explorer_query_errors_total",
				Help: "Total number of failed queries by status code",
			},
			[]string{"status_code"},
		),
		upstreamUp: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "explorer_upstream_up",
				Help: "Whether the last health probe of the SPARQL endpoint succeeded",
			},
		),
		registry: registry,
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordSuccess counts a settled query and observes its duration.
func (m *Metrics) RecordSuccess(format models.Format, duration float64) {
	if m == nil {
		return
	}

	m.queriesTotal.WithLabelValues(format.String(), OutcomeSuccess).Inc()
	m.queryDuration.WithLabelValues(format.String()).Observe(duration)
}

// RecordError counts a failed query. Errors without a status code are
// labelled "none".
func (m *Metrics) RecordError(format models.Format, err *client.Error) {
	if m == nil {
		return
	}

	code := "none"
	if err != nil && err.StatusCode != 0 {
		code = strconv.Itoa(err.StatusCode)
	}

	m.queriesTotal.WithLabelValues(format.String(), OutcomeError).Inc()
	m.errorsTotal.WithLabelValues(code).Inc()
}

func (m *Metrics) RecordUpstream(healthy bool) {
	if m == nil {
		return
	}

	if healthy {
		m.upstreamUp.Set(1)
	} else {
		m.upstreamUp.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format. A nil
// *Metrics serves 404.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
