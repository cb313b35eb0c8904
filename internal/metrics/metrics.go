package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_api_requests_total",
			Help: "Backend REST requests by operation and status code.",
		},
		[]string{"op", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_api_request_duration_seconds",
			Help:    "Backend REST request duration by operation.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	UploadsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "folio_uploads_rejected_total",
			Help: "Uploads rejected locally before any network call.",
		},
	)
)
