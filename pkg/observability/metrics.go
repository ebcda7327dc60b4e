package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Authorization metrics
	AuthzDecisionsTotal  *prometheus.CounterVec
	AuthzDecisionLatency *prometheus.HistogramVec

	// Bulk mutation metrics
	BulkOperationsTotal    *prometheus.CounterVec
	BulkItemsTotal         *prometheus.CounterVec
	BulkOperationDuration  *prometheus.HistogramVec

	// Audit metrics
	AuditEntriesTotal      *prometheus.CounterVec
	AuditSinkFailuresTotal *prometheus.CounterVec

	// Catalog metrics
	CatalogRolesTotal   prometheus.Gauge
	CatalogReloadsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ams_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ams_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 8),
			},
			[]string{"method", "path"},
		),

		AuthzDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_authz_decisions_total",
				Help: "Total number of authorization decisions",
			},
			[]string{"resource", "action", "outcome"},
		),
		AuthzDecisionLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ams_authz_decision_duration_seconds",
				Help:    "Authorization decision latency in seconds",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
			},
			[]string{"resource", "action"},
		),

		BulkOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_bulk_operations_total",
				Help: "Total number of bulk mutation operations",
			},
			[]string{"operation", "status"},
		),
		BulkItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_bulk_items_total",
				Help: "Total number of items processed by bulk operations",
			},
			[]string{"operation", "result"},
		),
		BulkOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ams_bulk_operation_duration_seconds",
				Help:    "Bulk operation duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),

		AuditEntriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_audit_entries_total",
				Help: "Total number of audit entries written",
			},
			[]string{"action"},
		),
		AuditSinkFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_audit_sink_failures_total",
				Help: "Total number of audit sink write failures",
			},
			[]string{"sink"},
		),

		CatalogRolesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ams_catalog_roles_total",
				Help: "Number of roles currently loaded in the catalog",
			},
		),
		CatalogReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ams_catalog_reloads_total",
				Help: "Total number of catalog reload attempts",
			},
			[]string{"status"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.AuthzDecisionsTotal,
		m.AuthzDecisionLatency,
		m.BulkOperationsTotal,
		m.BulkItemsTotal,
		m.BulkOperationDuration,
		m.AuditEntriesTotal,
		m.AuditSinkFailuresTotal,
		m.CatalogRolesTotal,
		m.CatalogReloadsTotal,
	)

	return m
}

// ObserveDecision records one authorization decision
func (m *Metrics) ObserveDecision(resource, action string, granted bool, elapsed time.Duration) {
	outcome := "denied"
	if granted {
		outcome = "granted"
	}
	m.AuthzDecisionsTotal.WithLabelValues(resource, action, outcome).Inc()
	m.AuthzDecisionLatency.WithLabelValues(resource, action).Observe(elapsed.Seconds())
}

// ObserveBulkOperation records one completed bulk operation
func (m *Metrics) ObserveBulkOperation(operation, status string, elapsed time.Duration) {
	m.BulkOperationsTotal.WithLabelValues(operation, status).Inc()
	m.BulkOperationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveBulkItems records per-item outcomes of a bulk operation
func (m *Metrics) ObserveBulkItems(operation string, succeeded, failed int) {
	m.BulkItemsTotal.WithLabelValues(operation, "success").Add(float64(succeeded))
	m.BulkItemsTotal.WithLabelValues(operation, "failure").Add(float64(failed))
}

// ObserveAuditEntry records one audit entry accepted for append
func (m *Metrics) ObserveAuditEntry(action string) {
	m.AuditEntriesTotal.WithLabelValues(action).Inc()
}

// ObserveAuditSinkFailure records one audit sink write failure
func (m *Metrics) ObserveAuditSinkFailure(sink string) {
	m.AuditSinkFailuresTotal.WithLabelValues(sink).Inc()
}

// ObserveCatalogReload records a catalog reload attempt. On success the
// role gauge tracks the new catalog size.
func (m *Metrics) ObserveCatalogReload(ok bool, roles int) {
	status := "error"
	if ok {
		status = "ok"
		m.CatalogRolesTotal.Set(float64(roles))
	}
	m.CatalogReloadsTotal.WithLabelValues(status).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics
func HTTPMetricsMiddleware(metrics *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
			metrics.HTTPResponseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(rw.bytesWritten))
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(mux *http.ServeMux, registry *prometheus.Registry) {
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
}
