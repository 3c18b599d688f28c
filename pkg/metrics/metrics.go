package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records authentication attempts by result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhive_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// PermissionChecks counts permission evaluations and their outcome (allow|deny).
	PermissionChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhive_permission_checks_total",
			Help: "Total number of permission checks",
		},
		[]string{"action", "result"},
	)

	// InviteAccepts counts invite acceptance outcomes (joined|already_member|rejected).
	InviteAccepts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhive_invite_accepts_total",
			Help: "Total number of invite acceptance attempts",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskhive_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
