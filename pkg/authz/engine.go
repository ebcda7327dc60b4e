package authz

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/chapterhq/ams/pkg/audit"
	"github.com/chapterhq/ams/pkg/catalog"
)

// Engine evaluates authorization requests against the role catalog.
// Evaluation is pure computation; the engine performs no I/O beyond
// best-effort audit appends.
type Engine struct {
	catalog  *catalog.Catalog
	resolver *Resolver
	audit    audit.Logger
	observe  DecisionObserver
	now      func() time.Time
}

// DecisionObserver receives the outcome and latency of every decision,
// for metrics export
type DecisionObserver func(resource, action string, granted bool, elapsed time.Duration)

// Option configures an Engine
type Option func(*Engine)

// WithAuditLogger records every decision to the given logger. Append
// failures never block the decision.
func WithAuditLogger(l audit.Logger) Option {
	return func(e *Engine) { e.audit = l }
}

// WithResolver enables Check, which resolves the actor's assignments
// through the cache-backed resolver before evaluating.
func WithResolver(r *Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithDecisionObserver reports every decision to the given observer
func WithDecisionObserver(fn DecisionObserver) Option {
	return func(e *Engine) { e.observe = fn }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an authorization engine over the given catalog
func NewEngine(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog: cat,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Authorize evaluates the actor's assignments, in their original order,
// against (resource, action) and the target scope. The first assignment
// whose role grants a matching permission covering the target wins.
func (e *Engine) Authorize(ctx context.Context, actorID string, assignments []RoleAssignment, resource catalog.Resource, action catalog.Action, target TargetScope) Decision {
	start := time.Now()
	now := e.now()

	effective := assignments[:0:0]
	for _, a := range assignments {
		if a.EffectiveAt(now) {
			effective = append(effective, a)
		}
	}

	var decision Decision
	if len(effective) == 0 {
		decision = Decision{Granted: false, Reason: ReasonNoActiveRoles}
		return e.finish(ctx, actorID, resource, action, target, decision, start)
	}

	for i := range effective {
		a := &effective[i]
		perm, ok := e.catalog.Find(a.RoleName, resource, action)
		if !ok {
			continue
		}
		if !scopeCovers(perm.Scope, a, target) {
			continue
		}
		matched := *a
		matchedPerm := perm
		decision = Decision{
			Granted:           true,
			MatchedRole:       a.RoleName,
			MatchedPermission: &matchedPerm,
			MatchedAssignment: &matched,
		}
		return e.finish(ctx, actorID, resource, action, target, decision, start)
	}

	decision = Decision{
		Granted: false,
		Reason:  fmt.Sprintf("no matching permission: %s.%s", resource, action),
	}
	return e.finish(ctx, actorID, resource, action, target, decision, start)
}

// finish reports the decision to the observer and audit log
func (e *Engine) finish(ctx context.Context, actorID string, resource catalog.Resource, action catalog.Action, target TargetScope, d Decision, start time.Time) Decision {
	if e.observe != nil {
		e.observe(string(resource), string(action), d.Granted, time.Since(start))
	}
	e.record(ctx, actorID, resource, action, target, d)
	return d
}

// HasPermission is Authorize with the justification discarded
func (e *Engine) HasPermission(ctx context.Context, actorID string, assignments []RoleAssignment, resource catalog.Resource, action catalog.Action, target TargetScope) bool {
	return e.Authorize(ctx, actorID, assignments, resource, action, target).Granted
}

// Check resolves the actor's assignments through the configured
// resolver, then authorizes. It requires WithResolver.
func (e *Engine) Check(ctx context.Context, actorID string, resource catalog.Resource, action catalog.Action, target TargetScope) (Decision, error) {
	if e.resolver == nil {
		return Decision{}, fmt.Errorf("authz: engine has no resolver configured")
	}
	assignments, err := e.resolver.Assignments(ctx, actorID)
	if err != nil {
		return Decision{}, fmt.Errorf("authz: resolve assignments for %s: %w", actorID, err)
	}
	return e.Authorize(ctx, actorID, assignments, resource, action, target), nil
}

// record appends the decision to the audit log. Best effort: audit
// availability must never gate authorization.
func (e *Engine) record(ctx context.Context, actorID string, resource catalog.Resource, action catalog.Action, target TargetScope, d Decision) {
	if e.audit == nil {
		return
	}
	resourceID, _ := target.ChapterID()
	if resourceID == "" {
		resourceID, _ = target.State()
	}
	entry := &audit.Entry{
		ActorID:    actorID,
		Action:     string(action),
		Resource:   string(resource),
		ResourceID: resourceID,
		Success:    d.Granted,
		Reason:     d.Reason,
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		log.Printf("authz: audit append failed: %v", err)
	}
}
