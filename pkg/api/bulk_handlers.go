package api

import (
	"errors"
	"net/http"

	"github.com/chapterhq/ams/pkg/bulk"
	"github.com/chapterhq/ams/pkg/catalog"
	"github.com/chapterhq/ams/pkg/httputil"
	"github.com/chapterhq/ams/pkg/middleware"
	"github.com/chapterhq/ams/pkg/org"
)

// authorizeTargets checks the action against every target chapter. The
// whole request is refused on the first denial so a partially authorized
// bulk operation never starts.
func (s *Server) authorizeTargets(w http.ResponseWriter, r *http.Request, action catalog.Action, targetIDs []string) bool {
	actorID := middleware.ActorID(r)

	for _, id := range targetIDs {
		scope, err := s.target(r.Context(), TargetRef{ChapterID: id})
		if err != nil {
			httputil.WriteInternalError(w, err)
			return false
		}
		decision, err := s.engine.Check(r.Context(), actorID, catalog.ResourceChapter, action, scope)
		if err != nil {
			httputil.WriteInternalError(w, err)
			return false
		}
		if !decision.Granted {
			httputil.WriteForbidden(w, decision.Reason+" (chapter "+id+")")
			return false
		}
	}
	return true
}

// bulkEdit handles POST /v1/chapters/bulk-edit
func (s *Server) bulkEdit(w http.ResponseWriter, r *http.Request) {
	var req BulkEditRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if len(req.ChapterIDs) == 0 {
		httputil.WriteBadRequest(w, "chapter_ids is required")
		return
	}
	if !s.authorizeTargets(w, r, catalog.ActionEdit, req.ChapterIDs) {
		return
	}

	strategy := bulk.Strategy(req.Strategy)
	if req.Strategy == "" {
		strategy = bulk.StrategyReplace
	}

	result, err := s.executor.Edit(r.Context(), middleware.ActorID(r), req.ChapterIDs, req.Changes, bulk.EditOptions{
		Strategy:      strategy,
		ValidateFirst: req.ValidateFirst,
	}, nil)
	if err != nil {
		if errors.Is(err, bulk.ErrValidation) {
			httputil.WriteErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteJSON(w, resultStatus(result), result)
}

// bulkDelete handles POST /v1/chapters/bulk-delete
func (s *Server) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if len(req.ChapterIDs) == 0 {
		httputil.WriteBadRequest(w, "chapter_ids is required")
		return
	}
	if !s.authorizeTargets(w, r, catalog.ActionDelete, req.ChapterIDs) {
		return
	}

	result, err := s.executor.Delete(r.Context(), middleware.ActorID(r), req.ChapterIDs, bulk.DeleteOptions{
		Cascade:          req.Cascade,
		ConfirmationText: req.ConfirmationText,
	}, nil)
	if err != nil {
		if errors.Is(err, bulk.ErrValidation) {
			httputil.WriteErrorMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}

	httputil.WriteJSON(w, resultStatus(result), result)
}

// analyzeDelete handles POST /v1/chapters/bulk-delete/analyze
func (s *Server) analyzeDelete(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if len(req.ChapterIDs) == 0 {
		httputil.WriteBadRequest(w, "chapter_ids is required")
		return
	}
	if !s.authorizeTargets(w, r, catalog.ActionDelete, req.ChapterIDs) {
		return
	}

	impact, err := s.executor.AnalyzeDelete(r.Context(), req.ChapterIDs)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, impact)
}

// listChapters handles GET /v1/chapters
func (s *Server) listChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.dir.Chapters(r.Context())
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, chapters)
}

// getChapter handles GET /v1/chapters/{id}
func (s *Server) getChapter(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	chapter, err := s.dir.Chapter(r.Context(), id)
	if err != nil {
		if errors.Is(err, org.ErrNotFound) {
			httputil.WriteNotFoundError(w, "chapter not found: "+id)
			return
		}
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, chapter)
}
