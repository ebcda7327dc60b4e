package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/catalog"
	"github.com/chapterhq/ams/pkg/httputil"
	"github.com/chapterhq/ams/pkg/middleware"
)

// AssignRequest creates a role assignment
type AssignRequest struct {
	MemberID       string     `json:"member_id"`
	RoleName       string     `json:"role_name"`
	ScopeType      string     `json:"scope_type"`
	ScopeChapterID string     `json:"scope_chapter_id,omitempty"`
	ScopeState     string     `json:"scope_state,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// assignmentTarget maps an assignment's scope onto an authorization target
func (s *Server) assignmentTarget(r *http.Request, a authz.RoleAssignment) (authz.TargetScope, error) {
	switch a.ScopeType {
	case authz.ScopeTypeChapter:
		return s.target(r.Context(), TargetRef{ChapterID: a.ScopeChapterID})
	case authz.ScopeTypeState:
		return authz.ByState(a.ScopeState), nil
	default:
		return authz.NoTarget(), nil
	}
}

// authorizeAssignment checks both the scope and the privilege level: the
// actor needs role.assign covering the assignment's scope, and their
// highest role must outrank the role being granted or revoked.
func (s *Server) authorizeAssignment(w http.ResponseWriter, r *http.Request, a authz.RoleAssignment) bool {
	actorID := middleware.ActorID(r)

	role, ok := s.catalog.Role(a.RoleName)
	if !ok {
		httputil.WriteBadRequest(w, "unknown role: "+a.RoleName)
		return false
	}

	scope, err := s.assignmentTarget(r, a)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return false
	}
	decision, err := s.engine.Check(r.Context(), actorID, catalog.ResourceRole, catalog.ActionAssign, scope)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return false
	}
	if !decision.Granted {
		httputil.WriteForbidden(w, decision.Reason)
		return false
	}

	actorAssignments, err := s.assignments.ForMember(r.Context(), actorID)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return false
	}
	highest := authz.HighestRole(s.catalog, actorAssignments, time.Now())
	if highest == nil {
		httputil.WriteForbidden(w, "no active roles")
		return false
	}
	actorLevel, _ := s.catalog.Level(highest.RoleName)
	if !catalog.CanManage(actorLevel, role.Level) {
		httputil.WriteForbidden(w, "cannot manage a role at or above your own level")
		return false
	}
	return true
}

// createAssignment handles POST /v1/assignments
func (s *Server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var req AssignRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	assignment := authz.RoleAssignment{
		MemberID:       req.MemberID,
		RoleName:       req.RoleName,
		ScopeType:      authz.ScopeType(req.ScopeType),
		ScopeChapterID: req.ScopeChapterID,
		ScopeState:     req.ScopeState,
		ExpiresAt:      req.ExpiresAt,
	}

	if !s.authorizeAssignment(w, r, assignment) {
		return
	}

	created, err := s.assignments.Assign(r.Context(), assignment)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

// revokeAssignment handles DELETE /v1/assignments/{id}
func (s *Server) revokeAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	assignment, err := s.assignments.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, authz.ErrAssignmentNotFound) {
			httputil.WriteNotFoundError(w, "assignment not found: "+id)
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	if !s.authorizeAssignment(w, r, assignment) {
		return
	}

	if err := s.assignments.Revoke(r.Context(), id); err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	revoked, err := s.assignments.Get(r.Context(), id)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, revoked)
}

// listMemberAssignments handles GET /v1/members/{id}/assignments
func (s *Server) listMemberAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	assignments, err := s.assignments.ForMember(r.Context(), id)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, assignments)
}
