package pkg

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campus_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	WorkflowOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_club_workflow_ops_total",
		Help: "Club workflow operations by operation and result code.",
	}, []string{"op", "result"})

	OutboxRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_outbox_relayed_total",
		Help: "Outbox rows handed to the sender, by result.",
	}, []string{"result"})
)
