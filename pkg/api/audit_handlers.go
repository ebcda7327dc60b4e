package api

import (
	"net/http"
	"time"

	"github.com/chapterhq/ams/pkg/audit"
	"github.com/chapterhq/ams/pkg/httputil"
)

func auditFilter(r *http.Request) (audit.Filter, error) {
	limit, err := httputil.ParseQueryInt(r, "limit", 100)
	if err != nil {
		return audit.Filter{}, err
	}
	offset, err := httputil.ParseQueryInt(r, "offset", 0)
	if err != nil {
		return audit.Filter{}, err
	}

	filter := audit.Filter{
		ActorID:  httputil.ParseQueryString(r, "actor_id", ""),
		Resource: httputil.ParseQueryString(r, "resource", ""),
		Action:   httputil.ParseQueryString(r, "action", ""),
		Limit:    limit,
		Offset:   offset,
	}

	if raw := r.URL.Query().Get("success"); raw != "" {
		success, err := httputil.ParseQueryBool(r, "success", false)
		if err != nil {
			return audit.Filter{}, err
		}
		filter.Success = &success
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, err
		}
		filter.Start = &start
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return audit.Filter{}, err
		}
		filter.End = &end
	}

	return filter, nil
}

// queryAudit handles GET /v1/audit, newest entries first
func (s *Server) queryAudit(w http.ResponseWriter, r *http.Request) {
	filter, err := auditFilter(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	entries, err := s.auditQ.Query(r.Context(), filter)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}
	httputil.WriteSuccess(w, entries)
}

// exportAudit handles GET /v1/audit/export
func (s *Server) exportAudit(w http.ResponseWriter, r *http.Request) {
	filter, err := auditFilter(r)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	// Exports default to the whole matching range
	if r.URL.Query().Get("limit") == "" {
		filter.Limit = 0
	}

	entries, err := s.auditQ.Query(r.Context(), filter)
	if err != nil {
		httputil.WriteInternalError(w, err)
		return
	}

	format := audit.ExportFormat(httputil.ParseQueryString(r, "format", "json"))
	data, err := audit.Export(entries, format)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	switch format {
	case audit.ExportFormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	case audit.ExportFormatNDJSON:
		w.Header().Set("Content-Type", "application/x-ndjson")
	default:
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
