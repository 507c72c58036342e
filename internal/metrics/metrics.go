// Package metrics defines the Prometheus collectors exported on /metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Upstream calls
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamexplorer_upstream_requests_total",
		Help: "Total number of Steam API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"}) // outcome: ok, not_found, error, retry

	UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "steamexplorer_upstream_request_duration_seconds",
		Help:    "Duration of Steam API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// Catalog cache
	CatalogLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamexplorer_catalog_lookups_total",
		Help: "Catalog cache lookups by result.",
	}, []string{"result"}) // result: hit, refresh, error

	// Search pipeline
	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "steamexplorer_search_duration_seconds",
		Help:    "Duration of game searches in seconds.",
		Buckets: prometheus.DefBuckets,
	})

	DetailLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamexplorer_detail_lookups_total",
		Help: "Detail lookups issued by the search fan-out by outcome.",
	}, []string{"outcome"}) // outcome: ok, dropped

	// HTTP
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "steamexplorer_http_requests_total",
		Help: "Inbound HTTP requests by route and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "steamexplorer_http_request_duration_seconds",
		Help:    "Inbound HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

// ObserveSince records the time elapsed since start on h
func ObserveSince(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}
