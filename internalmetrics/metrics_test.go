package internalmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetRequestTimerCountsRequests(t *testing.T) {
	before := testutil.ToFloat64(requestsTotal.WithLabelValues("Health"))

	timer := GetRequestTimer("Health")
	timer.ObserveDuration()

	after := testutil.ToFloat64(requestsTotal.WithLabelValues("Health"))
	assert.Equal(t, before+1, after)
}

func TestObservePlanOutcomeCountsSuccess(t *testing.T) {
	before := testutil.ToFloat64(plansTotal.WithLabelValues("success"))

	ObservePlanOutcome("success", 4)

	after := testutil.ToFloat64(plansTotal.WithLabelValues("success"))
	assert.Equal(t, before+1, after)
}

func TestObservePlanOutcomeCountsErrorStatus(t *testing.T) {
	before := testutil.ToFloat64(plansTotal.WithLabelValues("Validation"))
	ObservePlanOutcome("Validation", 0)
	after := testutil.ToFloat64(plansTotal.WithLabelValues("Validation"))
	assert.Equal(t, before+1, after)
}
