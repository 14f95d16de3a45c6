package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveSubmission("requires_action", 40)
	m.ObserveSubmission("requires_action", 70)
	m.ObserveValidation(OutcomeValidated)
	m.ObserveValidation(OutcomeConflict)
	m.ObserveIntervention()
	m.ObserveOdometerAnomaly("stagnation")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.inspectionsSubmitted.WithLabelValues("requires_action")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues(OutcomeValidated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validations.WithLabelValues(OutcomeConflict)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.interventionsCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.odometerAnomalies.WithLabelValues("stagnation")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSubmission("pending_review", 100)
		m.ObserveValidation(OutcomeRejected)
		m.ObserveIntervention()
		m.ObserveOdometerAnomaly("stagnation")
	})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveIntervention()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "fleet_interventions_created_total 1"))
}
