package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ScrapesTotal          *prometheus.CounterVec
	ScrapeDuration        *prometheus.HistogramVec
	ListingPagesCollected prometheus.Counter
	SheetWritesTotal      *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Total number of detail-page scrape attempts.",
		},
		[]string{"status", "error_type"}, // status: success, failure, skipped
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Duration of whole scrape runs.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"category"},
	)

	ListingPagesCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listing_pages_collected_total",
			Help: "Listing pages visited during URL collection.",
		},
	)

	SheetWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_writes_total",
			Help: "Sheet replacement attempts by outcome.",
		},
		[]string{"status"}, // created, updated, failed
	)
}
