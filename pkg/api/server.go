package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chapterhq/ams/pkg/audit"
	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/bulk"
	"github.com/chapterhq/ams/pkg/catalog"
	"github.com/chapterhq/ams/pkg/httputil"
	"github.com/chapterhq/ams/pkg/middleware"
	"github.com/chapterhq/ams/pkg/org"
)

// maxBodyBytes bounds request bodies; bulk requests list IDs, not payloads
const maxBodyBytes = 1 << 20

// Server wires the engine, executor, catalog, and audit trail into routes
type Server struct {
	router      *mux.Router
	engine      *authz.Engine
	executor    *bulk.Executor
	catalog     *catalog.Catalog
	dir         org.Directory
	auditQ      audit.Querier
	assignments *authz.MemoryStore
}

// NewServer creates the API server. auditQ may be nil when no queryable
// audit sink is configured; the audit routes then return 404. assignments
// may be nil when assignment management is handled elsewhere; those
// routes then return 404.
func NewServer(engine *authz.Engine, executor *bulk.Executor, cat *catalog.Catalog, dir org.Directory, auditQ audit.Querier, assignments *authz.MemoryStore) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		engine:      engine,
		executor:    executor,
		catalog:     cat,
		dir:         dir,
		auditQ:      auditQ,
		assignments: assignments,
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	actor := middleware.NewActorMiddleware(false)
	guard := httputil.Chain(
		middleware.RequestID,
		httputil.RecoveryMiddleware,
		httputil.ContentTypeMiddleware,
		httputil.MaxBytesMiddleware(maxBodyBytes),
	)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.Use(guard)

	// Decision routes
	v1.HandleFunc("/authorize", s.authorize).Methods("POST")
	v1.Handle("/check", actor.Handler(http.HandlerFunc(s.check))).Methods("GET")

	// Catalog routes
	v1.HandleFunc("/roles", s.listRoles).Methods("GET")
	v1.HandleFunc("/roles/{name}", s.getRole).Methods("GET")

	// Chapter routes
	v1.HandleFunc("/chapters", s.listChapters).Methods("GET")
	v1.HandleFunc("/chapters/{id}", s.getChapter).Methods("GET")

	// Bulk mutation routes; per-target permission checks happen in the
	// handlers because each chapter in the request is its own target
	v1.Handle("/chapters/bulk-edit", actor.Handler(http.HandlerFunc(s.bulkEdit))).Methods("POST")
	v1.Handle("/chapters/bulk-delete", actor.Handler(http.HandlerFunc(s.bulkDelete))).Methods("POST")
	v1.Handle("/chapters/bulk-delete/analyze", actor.Handler(http.HandlerFunc(s.analyzeDelete))).Methods("POST")

	// Assignment management routes
	if s.assignments != nil {
		assignView := middleware.RequirePermission(s.engine, catalog.ResourceRole, catalog.ActionAssign, nil)
		v1.Handle("/assignments", actor.Handler(http.HandlerFunc(s.createAssignment))).Methods("POST")
		v1.Handle("/assignments/{id}", actor.Handler(http.HandlerFunc(s.revokeAssignment))).Methods("DELETE")
		v1.Handle("/members/{id}/assignments", actor.Handler(assignView(http.HandlerFunc(s.listMemberAssignments)))).Methods("GET")
	}

	// Audit routes
	if s.auditQ != nil {
		auditView := middleware.RequirePermission(s.engine, catalog.ResourceAudit, catalog.ActionView, nil)
		auditExport := middleware.RequirePermission(s.engine, catalog.ResourceAudit, catalog.ActionExport, nil)
		v1.Handle("/audit", actor.Handler(auditView(http.HandlerFunc(s.queryAudit)))).Methods("GET")
		v1.Handle("/audit/export", actor.Handler(auditExport(http.HandlerFunc(s.exportAudit)))).Methods("GET")
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router so the binary can attach
// service-wide middleware
func (s *Server) Router() *mux.Router {
	return s.router
}
