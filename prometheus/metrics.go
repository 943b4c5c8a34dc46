package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter metrics
var (
	// Tenant operation counter
	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtector_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"}, // operation can be "create", "access", "update", etc.
	)

	// Provisioning counters
	ProvisionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fixtector_tenant_provision_total",
			Help: "Total number of tenant store provisioning attempts",
		},
	)

	ProvisionFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtector_tenant_provision_failures_total",
			Help: "Total number of failed tenant store provisioning attempts",
		},
		[]string{"reason"}, // reason can be "timeout", "schema", "open"
	)

	// Scatter-gather scan counters
	ScatterScanCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtector_scatter_scans_total",
			Help: "Total number of cross-tenant token scans",
		},
		[]string{"outcome"}, // outcome can be "hit", "miss", "partial"
	)

	// Bulk operation counter
	BulkOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtector_bulk_operations_total",
			Help: "Total number of bulk administrative operations",
		},
		[]string{"operation"}, // operation can be "backup", "wipe"
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtector_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)

	TenantErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fixtector_tenant_errors_total",
			Help: "Total number of tenant-related errors",
		},
		[]string{"tenant_id", "error_type"},
	)
)

// Histogram metrics
var (
	// Provisioning duration
	ProvisionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fixtector_tenant_provision_duration_seconds",
			Help:    "Duration of tenant store provisioning in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Scatter scan depth: how many tenant stores were probed before returning
	ScatterScanDepth = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fixtector_scatter_scan_depth",
			Help:    "Number of tenant stores probed per token scan",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fixtector_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Open tenant handles held by the process-wide cache
	OpenTenantHandlesGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fixtector_open_tenant_handles",
			Help: "Number of open tenant store handles in the cache",
		},
	)

	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fixtector_info",
			Help: "Information about the fixtector service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(ProvisionCounter)
	prometheus.MustRegister(ProvisionFailureCounter)
	prometheus.MustRegister(ScatterScanCounter)
	prometheus.MustRegister(BulkOperationCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(TenantErrorCounter)

	// Register histograms
	prometheus.MustRegister(ProvisionDuration)
	prometheus.MustRegister(ScatterScanDepth)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(OpenTenantHandlesGauge)
	prometheus.MustRegister(InfoGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordTenantOperation records a tenant operation by type
func RecordTenantOperation(operation string) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordTenantError records a tenant-related error
func RecordTenantError(tenantID string, errorType string) {
	TenantErrorCounter.With(prometheus.Labels{
		"tenant_id":  tenantID,
		"error_type": errorType,
	}).Inc()
}

// RecordProvisionFailure records a failed provisioning attempt by reason
func RecordProvisionFailure(reason string) {
	ProvisionFailureCounter.With(prometheus.Labels{"reason": reason}).Inc()
}

// RecordScatterScan records the outcome and probe depth of a token scan
func RecordScatterScan(outcome string, depth int) {
	ScatterScanCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
	ScatterScanDepth.Observe(float64(depth))
}

// RecordBulkOperation records a bulk administrative operation
func RecordBulkOperation(operation string) {
	BulkOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}
