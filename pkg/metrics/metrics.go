package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets cover page renders (milliseconds) up to slow attachment uploads (tens of seconds)
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database Client Metrics (quote store)
	DBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Database client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	DBRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of database client operations",
		},
		[]string{"operation", "status"},
	)

	// Storage Client Metrics (S3-compatible attachment bucket)
	StorageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_client_operation_duration_seconds",
			Help:    "Storage client operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	StorageRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_client_operation_total",
			Help: "Total number of storage client operations",
		},
		[]string{"operation", "status"},
	)

	// Mail Client Metrics
	MailSendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_client_send_total",
			Help: "Total number of notification e-mails sent",
		},
		[]string{"status"},
	)

	// Business Metrics
	PageViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sourcegroup_page_views_total",
			Help: "Total number of landing page renders",
		},
	)

	QuoteSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcegroup_quote_submissions_total",
			Help: "Total number of quote request submissions",
		},
		[]string{"status"},
	)

	QuoteValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcegroup_quote_validation_failures_total",
			Help: "Quote request fields rejected by validation",
		},
		[]string{"field"},
	)

	AttachmentRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sourcegroup_attachment_rejections_total",
			Help: "Attachments rejected on selection",
		},
		[]string{"reason"},
	)

	AttachmentBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sourcegroup_attachment_size_bytes",
			Help:    "Size of accepted quote attachments",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 7),
		},
	)

	// Cache Metrics
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sourcegroup_cache_size",
			Help: "Number of entries held by in-memory caches",
		},
		[]string{"cache_name"},
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
