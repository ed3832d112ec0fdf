// internal/common/metrics/metrics.go

// Package metrics holds the fleet's Prometheus collectors. The worker_*
// vectors are incremented by every handler around Execute; the estimate_*
// and report_* vectors are incremented by the services that own the event,
// labelled by engine or channel rather than task type.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// Domain counters below; service-layer, not handler-layer.

	EstimatesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimates_computed_total",
			Help: "Total number of estimates computed per engine",
		},
		[]string{"engine", "scenario"},
	)

	EstimateInvalidInput = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimate_invalid_input_total",
			Help: "Total number of estimate requests rejected during validation",
		},
		[]string{"engine", "field"},
	)

	EstimateCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimate_cache_hits_total",
			Help: "Total number of estimate result cache hits",
		},
		[]string{"engine"},
	)

	EstimateCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estimate_cache_misses_total",
			Help: "Total number of estimate result cache misses",
		},
		[]string{"engine"},
	)

	ReportDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_deliveries_total",
			Help: "Total number of estimate report deliveries per channel",
		},
		[]string{"channel", "status"},
	)
)
