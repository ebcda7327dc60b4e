package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDecision(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.ObserveDecision("chapter", "edit", true, time.Millisecond)
	metrics.ObserveDecision("chapter", "edit", false, time.Millisecond)
	metrics.ObserveDecision("chapter", "edit", false, time.Millisecond)

	granted := testutil.ToFloat64(metrics.AuthzDecisionsTotal.WithLabelValues("chapter", "edit", "granted"))
	denied := testutil.ToFloat64(metrics.AuthzDecisionsTotal.WithLabelValues("chapter", "edit", "denied"))
	assert.Equal(t, float64(1), granted)
	assert.Equal(t, float64(2), denied)
}

func TestAssignmentCacheCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	stats := CacheStats{Hits: 7, Misses: 3, Invalidations: 2, Entries: 4}
	registry.MustRegister(NewAssignmentCacheCollector(func() CacheStats { return stats }))

	expected := strings.NewReader(`
# HELP ams_assignment_cache_entries Number of actors currently cached
# TYPE ams_assignment_cache_entries gauge
ams_assignment_cache_entries 4
# HELP ams_assignment_cache_hits_total Total number of role assignment cache hits
# TYPE ams_assignment_cache_hits_total counter
ams_assignment_cache_hits_total 7
# HELP ams_assignment_cache_invalidations_total Total number of role assignment cache invalidations
# TYPE ams_assignment_cache_invalidations_total counter
ams_assignment_cache_invalidations_total 2
# HELP ams_assignment_cache_misses_total Total number of role assignment cache misses
# TYPE ams_assignment_cache_misses_total counter
ams_assignment_cache_misses_total 3
`)
	require.NoError(t, testutil.GatherAndCompare(registry, expected))
}

func TestBulkAndAuditObservers(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.ObserveBulkOperation("bulk_edit", "completed", 50*time.Millisecond)
	metrics.ObserveBulkItems("bulk_edit", 48, 2)
	metrics.ObserveAuditEntry("bulk_edit")
	metrics.ObserveAuditSinkFailure("postgres")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.BulkOperationsTotal.WithLabelValues("bulk_edit", "completed")))
	assert.Equal(t, float64(48), testutil.ToFloat64(metrics.BulkItemsTotal.WithLabelValues("bulk_edit", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.BulkItemsTotal.WithLabelValues("bulk_edit", "failure")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AuditEntriesTotal.WithLabelValues("bulk_edit")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.AuditSinkFailuresTotal.WithLabelValues("postgres")))
}

func TestObserveCatalogReload(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	metrics.ObserveCatalogReload(true, 7)
	metrics.ObserveCatalogReload(false, 7)

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CatalogReloadsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CatalogReloadsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(7), testutil.ToFloat64(metrics.CatalogRolesTotal))
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	handler := HTTPMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"granted":false}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/authorize", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	count := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/v1/authorize", "403"))
	assert.Equal(t, float64(1), count)
}

func TestRegisterMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	metrics.CatalogRolesTotal.Set(5)

	mux := http.NewServeMux()
	RegisterMetricsEndpoint(mux, registry)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ams_catalog_roles_total 5")
}
