package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/chapterhq/ams/pkg/observability"
)

// MemberIDHeader carries the authenticated member's ID. Upstream
// authentication (the API gateway) sets it; this service trusts it.
const MemberIDHeader = "X-Member-ID"

// RequestIDHeader carries the request ID, generated when absent.
const RequestIDHeader = "X-Request-ID"

// ActorMiddleware extracts the acting member from request headers
type ActorMiddleware struct {
	optional bool
}

// NewActorMiddleware creates actor extraction middleware. When optional is
// true, requests without a member header pass through unidentified.
func NewActorMiddleware(optional bool) *ActorMiddleware {
	return &ActorMiddleware{optional: optional}
}

// Handler wraps an HTTP handler with actor extraction
func (m *ActorMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := r.Header.Get(MemberIDHeader)
		if memberID == "" {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			unauthorizedResponse(w, "missing member identity")
			return
		}

		ctx := observability.WithActorID(r.Context(), memberID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorID returns the acting member's ID from the request, or "" when the
// request is unidentified.
func ActorID(r *http.Request) string {
	return observability.GetActorID(r.Context())
}

// RequestID middleware assigns a request ID when the client did not send one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := observability.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
