package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Counters
	ClaimsGranted *prometheus.CounterVec
	ClaimsEmpty   *prometheus.CounterVec
	TasksEnqueued *prometheus.CounterVec
	TasksFinished *prometheus.CounterVec
	TasksRequeued *prometheus.CounterVec
	TasksOrphaned *prometheus.CounterVec

	// Gauges
	WorkersActive prometheus.Gauge

	// Histograms
	GenerationDuration *prometheus.HistogramVec
)

func init() {
	ClaimsGranted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_claims_granted_total",
			Help: "Total number of tasks handed to a worker",
		},
		[]string{"caller_class"},
	)
	ClaimsEmpty = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_claims_empty_total",
			Help: "Total number of claim calls that found no eligible task",
		},
		[]string{"caller_class"},
	)
	TasksEnqueued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_enqueued_total",
			Help: "Total number of tasks enqueued",
		},
		[]string{"task_type"},
	)
	TasksFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_finished_total",
			Help: "Total number of tasks reaching a terminal state",
		},
		[]string{"task_type", "status"},
	)
	TasksRequeued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_requeued_total",
			Help: "Total number of orphaned tasks returned to the queue",
		},
		[]string{"task_type"},
	)
	TasksOrphaned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tasks_orphan_failed_total",
			Help: "Total number of orphaned tasks failed after exhausting attempts",
		},
		[]string{"task_type"},
	)
	WorkersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "workers_active",
			Help: "Number of workers with a fresh heartbeat at the last sweep",
		},
	)
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Active-processing duration of completed tasks",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"task_type"},
	)

	prometheus.MustRegister(
		ClaimsGranted,
		ClaimsEmpty,
		TasksEnqueued,
		TasksFinished,
		TasksRequeued,
		TasksOrphaned,
		WorkersActive,
		GenerationDuration,
	)
}
