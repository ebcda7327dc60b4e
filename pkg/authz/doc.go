// Package authz implements the scope-aware authorization engine.
//
// # Overview
//
// An actor's access is derived from role assignments: grants of a
// catalog role bounded to a scope (global, a single chapter, or a
// state) with optional expiry. Authorize evaluates an actor's effective
// assignments in order against the requested (resource, action) and the
// target's organizational position, and returns a Decision carrying
// either the matched role and permission or a denial reason.
//
// Denial is a normal outcome, never an error: callers branch on
// Decision.Granted. The evaluation itself is pure; the only I/O on the
// hot path is the read-through assignment cache.
//
// # Evaluation order
//
// Assignments are checked in their original order and the first match
// wins. This keeps decisions deterministic and explainable: the matched
// assignment in the Decision is always the first one that could have
// granted access, not the most privileged one.
//
// # Scope containment
//
// Containment is decided by scope breadth alone, in O(1), without
// walking the chapter tree. Callers resolve a target chapter's state up
// front (org.StateOf) and pass it in the TargetScope.
//
// # Related Packages
//
//   - pkg/catalog: role and permission definitions
//   - pkg/authz/cache: per-actor assignment memoization
//   - pkg/audit: decision logging
package authz
