package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain service.Metrics using Prometheus.
type Recorder struct {
	assessmentsTotal *prometheus.CounterVec
	diagnostics      *prometheus.CounterVec
	purpleLatency    *prometheus.HistogramVec
	rejectedTotal    prometheus.Counter
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		assessmentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "greenagent_assessments_total",
				Help: "Total number of graded assessments by verdict status",
			},
			[]string{"status", "dataset"},
		),
		diagnostics: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "greenagent_diagnostics_total",
				Help: "Total number of validation diagnostics by check kind",
			},
			[]string{"check"},
		),
		purpleLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "greenagent_purple_request_duration_seconds",
				Help:    "Duration of purple agent calls in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"task"},
		),
		rejectedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "greenagent_rejected_requests_total",
				Help: "Total number of assessment requests rejected before grading",
			},
		),
	}
}

// RecordAssessment records a finished assessment verdict.
func (r *Recorder) RecordAssessment(status, dataset string) {
	r.assessmentsTotal.WithLabelValues(status, dataset).Inc()
}

// RecordDiagnostic records one emitted validation diagnostic.
func (r *Recorder) RecordDiagnostic(check string) {
	r.diagnostics.WithLabelValues(check).Inc()
}

// RecordPurpleLatency records the duration of one purple agent exchange.
func (r *Recorder) RecordPurpleLatency(task string, seconds float64) {
	r.purpleLatency.WithLabelValues(task).Observe(seconds)
}

// RecordRejected records a request rejected as invalid input.
func (r *Recorder) RecordRejected() {
	r.rejectedTotal.Inc()
}
