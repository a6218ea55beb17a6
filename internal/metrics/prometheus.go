package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zapponejosh/ordo-lectionary/internal/match"
)

// Manager owns the service's metrics. A disabled Manager accepts every call
// and records nothing.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Mapping
	matches        *prometheus.CounterVec
	runs           prometheus.Counter
	runDuration    prometheus.Histogram
	coverage       prometheus.Gauge
	lectionarySize prometheus.Gauge

	// Calendar
	daysGenerated     prometheus.Counter
	sundaySolemnities prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a metrics manager. Unless a registry is supplied, it
// registers on a fresh one so the process-wide default stays untouched.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ordo",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.matches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "mapping",
		Name:      "matches_total",
		Help:      "Days matched, by match type and method",
	}, []string{"type", "method"})

	m.runs = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "mapping",
		Name:      "runs_total",
		Help:      "Completed mapping runs",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "mapping",
		Name:      "run_duration_seconds",
		Help:      "Wall time of mapping runs",
		Buckets:   m.histogramBuckets,
	})

	m.coverage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "mapping",
		Name:      "coverage_ratio",
		Help:      "Share of days with a Lectionary entry in the latest run",
	})

	m.lectionarySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "lectionary",
		Name:      "entries",
		Help:      "Entries in the loaded Lectionary",
	})

	m.daysGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "calendar",
		Name:      "days_generated_total",
		Help:      "Calendar days generated",
	})

	m.sundaySolemnities = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "calendar",
		Name:      "sunday_solemnities_total",
		Help:      "Fixed solemnities that fell on a Sunday in generated calendars",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   m.histogramBuckets,
	}, []string{"route", "method"})
}

// Enabled reports whether metrics are being recorded.
func (m *Manager) Enabled() bool {
	return m != nil && m.enabled
}

// Registry returns the registry the metrics live on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveMatch counts one matched day.
func (m *Manager) ObserveMatch(t match.Type, method match.Method) {
	if !m.Enabled() {
		return
	}
	m.matches.WithLabelValues(string(t), string(method)).Inc()
}

// ObserveRun records a finished mapping run.
func (m *Manager) ObserveRun(duration time.Duration, total, matched int) {
	if !m.Enabled() {
		return
	}
	m.runs.Inc()
	m.runDuration.Observe(duration.Seconds())
	if total > 0 {
		m.coverage.Set(float64(matched) / float64(total))
	}
}

// SetLectionarySize records the number of loaded Lectionary entries.
func (m *Manager) SetLectionarySize(n int) {
	if !m.Enabled() {
		return
	}
	m.lectionarySize.Set(float64(n))
}

// ObserveCalendar records a generated calendar.
func (m *Manager) ObserveCalendar(days, sundaySolemnities int) {
	if !m.Enabled() {
		return
	}
	m.daysGenerated.Add(float64(days))
	m.sundaySolemnities.Add(float64(sundaySolemnities))
}

// ObserveHTTP records one served request.
func (m *Manager) ObserveHTTP(route, method string, status int, duration time.Duration) {
	if !m.Enabled() {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}
