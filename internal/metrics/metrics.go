// README: Prometheus instruments for the planning pipeline and HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's instruments on a private registry. A nil
// *Metrics is valid and records nothing, which keeps tests free of wiring.
type Metrics struct {
	registry         *prometheus.Registry
	pipelineResults  *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	generation       prometheus.Histogram
	httpRequests     *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		pipelineResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyage_pipeline_results_total",
			Help: "Itineraries produced, by normalization stage.",
		}, []string{"stage"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyage_upstream_failures_total",
			Help: "Absorbed failures of external services, by component.",
		}, []string{"component"}),
		generation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voyage_generation_seconds",
			Help:    "Latency of itinerary generation calls.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voyage_http_requests_total",
			Help: "HTTP requests completed.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.pipelineResults,
		m.upstreamFailures,
		m.generation,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) PipelineResult(stage string) {
	if m == nil {
		return
	}
	m.pipelineResults.WithLabelValues(stage).Inc()
}

func (m *Metrics) UpstreamFailure(component string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(component).Inc()
}

func (m *Metrics) ObserveGeneration(d time.Duration) {
	if m == nil {
		return
	}
	m.generation.Observe(d.Seconds())
}

func (m *Metrics) HTTPRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
