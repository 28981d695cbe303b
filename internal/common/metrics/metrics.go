// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_transitions_total",
			Help: "Total number of wizard state transitions",
		},
		[]string{"transition"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_validation_failures_total",
			Help: "Total number of intake validation failures by error code",
		},
		[]string{"error_code"},
	)

	GradesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_grades_issued_total",
			Help: "Total number of eligibility grades issued",
		},
		[]string{"grade"},
	)

	SinkAppends = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_sink_appends_total",
			Help: "Total number of submission records appended by sink backend",
		},
		[]string{"backend"},
	)

	SinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "submission_sink_failures_total",
			Help: "Total number of failed sink appends by backend and error code",
		},
		[]string{"backend", "error_code"},
	)

	SubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "wizard_submit_duration_seconds",
			Help: "Duration of submit handling in seconds",
		},
		[]string{"outcome"},
	)
)
