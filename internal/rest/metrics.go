package rest

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus collectors for the REST API. Each
// Server owns its own registry so parallel test servers don't collide
// on registration.
type metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	compilesTotal   *prometheus.CounterVec
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "comptext_http_requests_total",
			Help: "HTTP requests by route, method, and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "comptext_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		compilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "comptext_compiles_total",
			Help: "Compilations by outcome (compiled or clarification).",
		}, []string{"outcome"}),
	}
}

// observe records one finished request.
func (m *metrics) observe(route, method string, code int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// observeCompile records one compilation outcome.
func (m *metrics) observeCompile(clarified bool) {
	outcome := "compiled"
	if clarified {
		outcome = "clarification"
	}
	m.compilesTotal.WithLabelValues(outcome).Inc()
}
