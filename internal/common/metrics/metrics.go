// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zzik_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "zzik_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"method", "route"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zzik_checkins_total",
			Help: "Total number of accepted check-ins",
		},
		[]string{"experience_id"},
	)

	PledgesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zzik_pledges_total",
			Help: "Total number of accepted funding pledges",
		},
		[]string{"experience_id"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zzik_notifications_sent_total",
			Help: "Total number of notifications dispatched",
		},
		[]string{"channel", "status"},
	)

	WalletEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zzik_wallet_entries_total",
			Help: "Total number of wallet ledger entries written",
		},
		[]string{"kind"},
	)
)
