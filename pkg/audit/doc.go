// Package audit records authorization decisions and mutations for
// compliance review.
//
// # Overview
//
// Entries are append-only: the application never mutates or deletes
// them. Retention is an external policy; the Cleanup helpers exist for
// an operator-run sweeper, not for the engine itself.
//
// # Sinks
//
// Memory (tests, small deployments), File (JSON lines with rotation),
// DB (database/sql), and Multi (fan-out). Appends are best-effort by
// contract: a failing sink must never block the operation being
// audited, so Multi records sink failures locally and carries on.
//
// # Querying
//
// Query filters by actor, resource, action, success, and time range,
// returning entries newest-first with offset/limit pagination.
package audit
