package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nconnect",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nconnect",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route template and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	OccupancyOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nconnect",
		Name:      "occupancy_operations_total",
		Help:      "Occupancy assign/revoke operations by outcome.",
	}, []string{"operation", "role", "result"})

	ScheduledJobRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nconnect",
		Name:      "scheduled_job_rows_total",
		Help:      "Rows changed by scheduled maintenance jobs.",
	}, []string{"job"})

	NotificationDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nconnect",
		Name:      "notification_deliveries_total",
		Help:      "Email and SMS notification deliveries by channel and outcome.",
	}, []string{"channel", "result"})
)
