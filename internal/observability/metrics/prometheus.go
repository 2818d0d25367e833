package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements Metrics on top of a prometheus registry.
type PrometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec

	submissionRejections *prometheus.CounterVec
	positionShifts       prometheus.Counter
	scoreRecomputations  prometheus.Counter
}

// NewPrometheusMetrics creates and registers the demonlist metric collectors.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "demonlist_operation_attempts_total",
			Help: "Number of service operations started.",
		}, []string{"module", "operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "demonlist_operation_successes_total",
			Help: "Number of service operations that produced a success payload.",
		}, []string{"module", "operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "demonlist_operation_failures_total",
			Help: "Number of service operations that errored or panicked.",
		}, []string{"module", "operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "demonlist_operation_duration_seconds",
			Help:    "Duration of service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"module", "operation"}),
		submissionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "demonlist_submission_rejections_total",
			Help: "Record submissions rejected by the validation pipeline, by reason.",
		}, []string{"reason"}),
		positionShifts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "demonlist_position_shifts_total",
			Help: "Number of position shift operations on the demon list.",
		}),
		scoreRecomputations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "demonlist_score_recomputations_total",
			Help: "Player aggregate score recomputations.",
		}),
	}

	reg.MustRegister(
		m.operationAttempts,
		m.operationSuccesses,
		m.operationFailures,
		m.operationDuration,
		m.submissionRejections,
		m.positionShifts,
		m.scoreRecomputations,
	)

	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, module, operation string) {
	m.operationAttempts.WithLabelValues(module, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, module, operation string) {
	m.operationSuccesses.WithLabelValues(module, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, module, operation string) {
	m.operationFailures.WithLabelValues(module, operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, module, operation string, d time.Duration) {
	m.operationDuration.WithLabelValues(module, operation).Observe(d.Seconds())
}

func (m *PrometheusMetrics) RecordSubmissionRejected(_ context.Context, reason string) {
	m.submissionRejections.WithLabelValues(reason).Inc()
}

func (m *PrometheusMetrics) RecordPositionShift(_ context.Context, _ int) {
	m.positionShifts.Inc()
}

func (m *PrometheusMetrics) RecordScoreRecomputation(_ context.Context, _ int64) {
	m.scoreRecomputations.Inc()
}

var _ Metrics = (*PrometheusMetrics)(nil)
