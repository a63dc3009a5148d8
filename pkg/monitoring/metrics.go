package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts total requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// RequestDuration measures request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	// AuditPublishFailures counts audit events that could not be published.
	// Audit emission is best-effort; this counter is the only place those
	// failures surface.
	AuditPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_publish_failures_total",
			Help: "Total number of audit events that failed to publish",
		},
		[]string{"action"},
	)

	// StoreErrors counts unexpected shard/collection store failures that
	// were converted to generic 500 responses.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of unexpected store errors",
		},
		[]string{"operation"},
	)

	// MemberResolutionDrops counts documents silently omitted from
	// collection membership responses, by cause.
	MemberResolutionDrops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "member_resolution_drops_total",
			Help: "Documents dropped during membership resolution",
		},
		[]string{"cause"}, // not_found, no_permission, fetch_error
	)
)
