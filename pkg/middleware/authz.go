package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/chapterhq/ams/pkg/authz"
	"github.com/chapterhq/ams/pkg/catalog"
	"github.com/chapterhq/ams/pkg/observability"
)

// TargetFunc derives the authorization target from the request, typically
// from route variables. Nil means no target.
type TargetFunc func(r *http.Request) authz.TargetScope

// RequirePermission enforces a permission on every request that passes
// through it. Denials return 403 with the decision reason; requests without
// an identified actor return 401.
func RequirePermission(engine *authz.Engine, resource catalog.Resource, action catalog.Action, target TargetFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actorID := ActorID(r)
			if actorID == "" {
				unauthorizedResponse(w, "missing member identity")
				return
			}

			scope := authz.NoTarget()
			if target != nil {
				scope = target(r)
			}

			decision, err := engine.Check(r.Context(), actorID, resource, action, scope)
			if err != nil {
				observability.FromContext(r.Context()).WithError(err).Error("permission check failed")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "authorization unavailable"})
				return
			}

			if !decision.Granted {
				forbiddenResponse(w, decision.Reason)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func forbiddenResponse(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{"error": "forbidden", "reason": reason})
}
