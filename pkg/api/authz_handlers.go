package api

import (
	"context"
	"net/http"

	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/catalog"
	"github.com/chapterhq/ams/pkg/httputil"
	"github.com/chapterhq/ams/pkg/middleware"
	"github.com/chapterhq/ams/pkg/org"
)

// target converts a TargetRef into a TargetScope, resolving a chapter
// target's state so state-scoped assignments can cover it
func (s *Server) target(ctx context.Context, ref TargetRef) (authz.TargetScope, error) {
	switch {
	case ref.ChapterID != "":
		chapters, err := s.dir.Chapters(ctx)
		if err != nil {
			return authz.TargetScope{}, err
		}
		byID := make(map[string]*org.Chapter, len(chapters))
		for _, c := range chapters {
			byID[c.ID] = c
		}
		if c, ok := byID[ref.ChapterID]; ok {
			return authz.ByChapterInState(ref.ChapterID, org.StateOf(c, byID)), nil
		}
		// Unknown chapters still evaluate; only chapter-scoped
		// assignments on exactly that ID can cover them.
		return authz.ByChapter(ref.ChapterID), nil
	case ref.State != "":
		return authz.ByState(ref.State), nil
	default:
		return authz.NoTarget(), nil
	}
}

// authorize handles POST /v1/authorize
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) {
	var req AuthorizeRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if req.MemberID == "" {
		httputil.WriteBadRequest(w, "member_id is required")
		return
	}
	resource := catalog.Resource(req.Resource)
	action := catalog.Action(req.Action)
	if !resource.Valid() {
		httputil.WriteBadRequest(w, "unknown resource: "+req.Resource)
		return
	}
	if !action.Valid() {
		httputil.WriteBadRequest(w, "unknown action: "+req.Action)
		return
	}

	scope, err := s.target(r.Context(), req.Target)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	decision, err := s.engine.Check(r.Context(), req.MemberID, resource, action, scope)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, decisionResponse(decision))
}

// check handles GET /v1/check for the acting member
func (s *Server) check(w http.ResponseWriter, r *http.Request) {
	resource := catalog.Resource(httputil.ParseQueryString(r, "resource", ""))
	action := catalog.Action(httputil.ParseQueryString(r, "action", ""))
	if !resource.Valid() || !action.Valid() {
		httputil.WriteBadRequest(w, "resource and action query parameters are required")
		return
	}

	scope, err := s.target(r.Context(), TargetRef{
		ChapterID: httputil.ParseQueryString(r, "chapter_id", ""),
		State:     httputil.ParseQueryString(r, "state", ""),
	})
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	decision, err := s.engine.Check(r.Context(), middleware.ActorID(r), resource, action, scope)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteSuccess(w, CheckResponse{Granted: decision.Granted})
}

// listRoles handles GET /v1/roles
func (s *Server) listRoles(w http.ResponseWriter, r *http.Request) {
	names := s.catalog.Names()
	roles := make([]*catalog.Role, 0, len(names))
	for _, name := range names {
		if role, ok := s.catalog.Role(name); ok {
			roles = append(roles, role)
		}
	}
	httputil.WriteSuccess(w, roles)
}

// getRole handles GET /v1/roles/{name}
func (s *Server) getRole(w http.ResponseWriter, r *http.Request) {
	name, ok := httputil.ParsePathStringOrError(w, r, "name")
	if !ok {
		return
	}

	role, found := s.catalog.Role(name)
	if !found {
		httputil.WriteNotFoundError(w, "role not found: "+name)
		return
	}
	httputil.WriteSuccess(w, role)
}
