package suppression_controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects the controller's Prometheus instruments. All observer
// methods are safe on a nil receiver so tests can pass nil.
type Metrics struct {
	heatGauge         *prometheus.GaugeVec
	pressureGauge     *prometheus.GaugeVec
	transitionsTotal  *prometheus.CounterVec
	sprayDispatches   *prometheus.CounterVec
	sprayResults      *prometheus.CounterVec
	evalDuration      prometheus.Histogram
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		heatGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "suppression_heat_fahrenheit",
			Help: "Last heat input fed to the fuzzy engine, per head.",
		}, []string{"zone", "head"}),
		pressureGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "suppression_line_pressure_pct",
			Help: "Defuzzified line pressure per head, percent of maximum.",
		}, []string{"zone", "head"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suppression_state_transitions_total",
			Help: "Total state machine transitions by destination state.",
		}, []string{"zone", "head", "to"}),
		sprayDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suppression_spray_dispatch_total",
			Help: "StartSpray dispatch attempts by outcome (ok, busy, unrouted, rejected, error).",
		}, []string{"zone", "head", "outcome"}),
		sprayResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "suppression_spray_results_total",
			Help: "Spray result reports by status.",
		}, []string{"zone", "status"}),
		evalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "suppression_evaluation_duration_seconds",
			Help:    "Histogram of fuzzy evaluation durations per aggregated reading.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	prometheus.MustRegister(
		m.heatGauge,
		m.pressureGauge,
		m.transitionsTotal,
		m.sprayDispatches,
		m.sprayResults,
		m.evalDuration,
		m.httpRequestsTotal,
		m.httpDuration,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		duration := time.Since(start).Seconds()
		if m != nil {
			m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
			m.httpDuration.WithLabelValues(route).Observe(duration)
		}
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

func (m *Metrics) ObserveReading(zone, head string, heatF, pressurePct float64) {
	if m == nil {
		return
	}
	m.heatGauge.WithLabelValues(zone, head).Set(heatF)
	m.pressureGauge.WithLabelValues(zone, head).Set(pressurePct)
}

func (m *Metrics) CountTransition(zone, head, to string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(zone, head, to).Inc()
}

func (m *Metrics) CountDispatch(zone, head, outcome string) {
	if m == nil {
		return
	}
	m.sprayDispatches.WithLabelValues(zone, head, outcome).Inc()
}

func (m *Metrics) CountSprayResult(zone, status string) {
	if m == nil {
		return
	}
	m.sprayResults.WithLabelValues(zone, status).Inc()
}

func (m *Metrics) ObserveEvaluation(d time.Duration) {
	if m == nil {
		return
	}
	m.evalDuration.Observe(d.Seconds())
}
