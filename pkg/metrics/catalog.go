package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sirene"

// QueryMetrics tracks catalog read queries: how long they take and how many
// rows they return.
type QueryMetrics struct {
	duration *prometheus.HistogramVec
	results  *prometheus.HistogramVec
	failure  *prometheus.CounterVec
}

// NewQueryMetrics registers the catalog query metrics on the provided registerer.
func NewQueryMetrics(reg prometheus.Registerer) *QueryMetrics {
	if reg == nil {
		return &QueryMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_query_duration_seconds",
		Help:      "Duration of catalog queries in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})
	results := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_query_results",
		Help:      "Rows returned by catalog queries.",
		Buckets:   []float64{0, 1, 5, 10, 20, 50},
	}, []string{"query"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_query_failures_total",
		Help:      "Failed catalog queries.",
	}, []string{"query"})
	reg.MustRegister(duration, results, failure)
	return &QueryMetrics{
		duration: duration,
		results:  results,
		failure:  failure,
	}
}

// Observe records the outcome of one query.
func (q *QueryMetrics) Observe(query string, elapsed time.Duration, rows int, err error) {
	if q == nil || q.duration == nil {
		return
	}
	query = normalizeLabel(query)
	q.duration.WithLabelValues(query).Observe(elapsed.Seconds())
	if err != nil {
		q.failure.WithLabelValues(query).Inc()
		return
	}
	q.results.WithLabelValues(query).Observe(float64(rows))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
