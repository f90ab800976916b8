package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TasksCompleted counts task completion transitions.
	TasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neuroflow_tasks_completed_total",
		Help: "Total number of tasks marked complete",
	})

	// HabitEntriesUpserted counts habit entry writes by entry point and outcome.
	HabitEntriesUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neuroflow_habit_entries_upserted_total",
		Help: "Total number of habit entry upserts",
	}, []string{"source", "outcome"})

	// AnalyticsQueryDuration records analytics computation latency by query.
	AnalyticsQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neuroflow_analytics_query_duration_seconds",
		Help:    "Analytics query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
)

// TrackAnalytics returns a function that records the query latency when called (e.g. defer).
func TrackAnalytics(query string) func() {
	start := time.Now()
	return func() {
		AnalyticsQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
	}
}
