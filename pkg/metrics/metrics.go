// Package metrics registers the portal's Prometheus collectors. Services
// update them directly; the HTTP server exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncip_sweep_runs_total",
			Help: "Scheduled and manual job runs, by job",
		},
		[]string{"job"},
	)

	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ncip_sweep_duration_seconds",
			Help:    "Job run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"job"},
	)

	ApplicationsCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ncip_applications_cancelled_total",
			Help: "Applications cancelled by the deadline sweep",
		},
	)

	DeadlineWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncip_deadline_warnings_total",
			Help: "Deadline warnings enqueued, by lead-time bucket",
		},
		[]string{"bucket"},
	)

	DocumentsUploadedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ncip_documents_uploaded_total",
			Help: "Requirement documents accepted by intake",
		},
	)

	NotificationsDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ncip_notifications_dispatched_total",
			Help: "Outbox entries processed by the dispatcher, by result",
		},
		[]string{"result"},
	)
)
