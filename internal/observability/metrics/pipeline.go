package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics observes query resolution, completion calls and breaker state.
// It satisfies ports.ResolveObserver and groq.CallObserver.
type PipelineMetrics struct {
	service string

	fetchAttempts      *prometheus.CounterVec
	fetchDuration      *prometheus.HistogramVec
	resolutions        *prometheus.CounterVec
	completionCalls    *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	breakerState       *prometheus.GaugeVec
}

func NewPipelineMetrics(registerer prometheus.Registerer, service string) *PipelineMetrics {
	m := &PipelineMetrics{
		service: service,
		fetchAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolve",
				Name:      "fetch_attempts_total",
				Help:      "Fetch attempts by strategy and whether rows were returned.",
			},
			[]string{"service", "strategy", "result"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "resolve",
				Name:      "fetch_duration_seconds",
				Help:      "Fetch attempt duration in seconds by strategy.",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
			},
			[]string{"service", "strategy"},
		),
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "resolve",
				Name:      "outcomes_total",
				Help:      "Resolution outcomes by final strategy.",
			},
			[]string{"service", "strategy", "success"},
		),
		completionCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "completion",
				Name:      "calls_total",
				Help:      "Completion service calls by operation and status.",
			},
			[]string{"service", "operation", "status"},
		),
		completionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "completion",
				Name:      "duration_seconds",
				Help:      "Completion service call duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service", "operation"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "resilience",
				Name:      "breaker_open",
				Help:      "1 when the breaker for an operation is open or half-open.",
			},
			[]string{"service", "operation"},
		),
	}
	registerer.MustRegister(
		m.fetchAttempts,
		m.fetchDuration,
		m.resolutions,
		m.completionCalls,
		m.completionDuration,
		m.breakerState,
	)
	return m
}

func (m *PipelineMetrics) ObserveFetchAttempt(strategy string, rows int, duration time.Duration) {
	result := "empty"
	if rows > 0 {
		result = "rows"
	}
	m.fetchAttempts.WithLabelValues(m.service, strategy, result).Inc()
	m.fetchDuration.WithLabelValues(m.service, strategy).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveResolution(strategy string, success bool) {
	m.resolutions.WithLabelValues(m.service, strategy, strconv.FormatBool(success)).Inc()
}

func (m *PipelineMetrics) ObserveCompletion(operation, status string, duration time.Duration) {
	m.completionCalls.WithLabelValues(m.service, operation, status).Inc()
	m.completionDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

// BreakerStateChanged matches resilience.Config.OnStateChange.
func (m *PipelineMetrics) BreakerStateChanged(operation, _, to string) {
	value := 0.0
	if to != "closed" {
		value = 1
	}
	m.breakerState.WithLabelValues(m.service, operation).Set(value)
}
