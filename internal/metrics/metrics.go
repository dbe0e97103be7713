package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permissionlink_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "permissionlink_http_request_duration_seconds",
			Help: "HTTP request latency in seconds",
		},
		[]string{"method", "route"},
	)

	RequestsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permissionlink_requests_fetched_total",
			Help: "Permission request fetches by outcome",
		},
		[]string{"outcome"},
	)

	ResponsesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permissionlink_responses_recorded_total",
			Help: "Landowner responses recorded by resulting status",
		},
		[]string{"status"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "permissionlink_cache_lookups_total",
			Help: "Fetch cache lookups by result",
		},
		[]string{"result"},
	)
)
