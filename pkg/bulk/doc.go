// Package bulk applies edits and deletions across many chapters in
// bounded batches with partial-failure tolerance.
//
// # Overview
//
// Targets are processed in batches of 50. Between batches the executor
// checks for cancellation and yields the scheduler, so a long operation
// never monopolizes a cooperatively-scheduled caller. Per-item failures
// (target not found, children without cascade) are collected into the
// result and never abort sibling items; there is no transaction and no
// rollback, so mutations applied before a later failure stay applied.
// Callers retry by re-invoking with only the failed IDs.
//
// The one all-or-nothing path is validate-first editing: when enabled,
// every field value is checked before any mutation, and a validation
// failure aborts with zero chapters touched.
//
// # Impact analysis
//
// AnalyzeDelete is a pure pre-flight computation of what a destructive
// bulk delete would touch: direct children, members, and events of the
// target chapters. It is advisory; the executor proceeds regardless, so
// the calling workflow is responsible for gating on the warnings.
package bulk
