package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge
	rateLimited         prometheus.Counter

	domainEventsTotal *prometheus.CounterVec
	mealsCookedTotal  *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry together with the
// Go and process collectors
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "HTTP requests currently being served",
			},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "http_requests_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
		),

		domainEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_domain_events_total",
				Help: "Domain events published, by event name",
			},
			[]string{"event"},
		),
		mealsCookedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kitchen_meals_cooked_total",
				Help: "Meals marked as cooked, by meal slot and whether cooking was skipped",
			},
			[]string{"meal_slot", "skipped"},
		),
	}
}

// Registry exposes the registry so other exporters can share it
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one finished request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement
func (m *Metrics) TrackInFlight() func() {
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}

// RecordRateLimited counts a rejected request
func (m *Metrics) RecordRateLimited() {
	m.rateLimited.Inc()
}

// RecordDomainEvent counts a published domain event
func (m *Metrics) RecordDomainEvent(name string) {
	m.domainEventsTotal.WithLabelValues(name).Inc()
}

// RecordMealCooked counts a cooked or skipped meal
func (m *Metrics) RecordMealCooked(slot string, skipped bool) {
	m.mealsCookedTotal.WithLabelValues(slot, strconv.FormatBool(skipped)).Inc()
}
