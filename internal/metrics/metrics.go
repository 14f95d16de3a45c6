// Package metrics exposes Prometheus counters for inspection submissions and reviews.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Validation outcomes used as label values.
const (
	OutcomeValidated       = "validated"
	OutcomeRejected        = "rejected"
	OutcomeConflict        = "conflict"
	OutcomeDownstreamError = "downstream_error"
)

// Metrics groups the service collectors on a dedicated registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry             *prometheus.Registry
	inspectionsSubmitted *prometheus.CounterVec
	healthScore          prometheus.Histogram
	validations          *prometheus.CounterVec
	interventionsCreated prometheus.Counter
	odometerAnomalies    *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		inspectionsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_inspections_submitted_total",
			Help: "Inspections submitted, by initial status.",
		}, []string{"status"}),
		healthScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_inspection_health_score",
			Help:    "Health score of submitted inspections.",
			Buckets: []float64{10, 25, 50, 65, 80, 90, 100},
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_inspection_validations_total",
			Help: "Inspection validation attempts, by outcome.",
		}, []string{"outcome"}),
		interventionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_interventions_created_total",
			Help: "Maintenance interventions created by inspection reviews.",
		}),
		odometerAnomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_odometer_anomalies_total",
			Help: "Odometer anomalies detected at submission, by reason.",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(
		m.inspectionsSubmitted,
		m.healthScore,
		m.validations,
		m.interventionsCreated,
		m.odometerAnomalies,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSubmission records a newly submitted inspection.
func (m *Metrics) ObserveSubmission(status string, score int) {
	if m == nil {
		return
	}
	m.inspectionsSubmitted.WithLabelValues(status).Inc()
	m.healthScore.Observe(float64(score))
}

// ObserveValidation records the outcome of a validation attempt.
func (m *Metrics) ObserveValidation(outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(outcome).Inc()
}

// ObserveIntervention records a created intervention.
func (m *Metrics) ObserveIntervention() {
	if m == nil {
		return
	}
	m.interventionsCreated.Inc()
}

// ObserveOdometerAnomaly records an odometer anomaly.
func (m *Metrics) ObserveOdometerAnomaly(reason string) {
	if m == nil {
		return
	}
	m.odometerAnomalies.WithLabelValues(reason).Inc()
}
