package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Se registran en el registry default; /metrics los expone vía promhttp.
var (
	reportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adherence",
			Name:      "reports_generated_total",
			Help:      "Adherence reports generated, by whether insights were requested.",
		},
		[]string{"insights"},
	)

	insightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "adherence",
			Name:      "insight_requests_total",
			Help:      "Narrative insight requests, by resulting status.",
		},
		[]string{"status"},
	)

	reportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "adherence",
			Name:      "report_duration_seconds",
			Help:      "End-to-end latency of report generation, insights included.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// ObserveReport registra un reporte generado y su duración.
func ObserveReport(withInsights bool, d time.Duration) {
	reportsGenerated.WithLabelValues(strconv.FormatBool(withInsights)).Inc()
	reportDuration.Observe(d.Seconds())
}

// ObserveInsight registra el status de un pedido de insights.
func ObserveInsight(status string) {
	insightRequests.WithLabelValues(status).Inc()
}
