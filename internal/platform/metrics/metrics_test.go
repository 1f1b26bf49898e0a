package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveReport(t *testing.T) {
	before := testutil.ToFloat64(reportsGenerated.WithLabelValues("true"))
	ObserveReport(true, 150*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(reportsGenerated.WithLabelValues("true")))
}

func TestObserveInsight(t *testing.T) {
	before := testutil.ToFloat64(insightRequests.WithLabelValues("rate_limited"))
	ObserveInsight("rate_limited")
	ObserveInsight("rate_limited")
	assert.Equal(t, before+2, testutil.ToFloat64(insightRequests.WithLabelValues("rate_limited")))
}
