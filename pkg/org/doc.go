// Package org holds the organizational read models: chapters, members,
// and events, plus hierarchy helpers.
//
// Chapters form a tree of depth at most three: one national root, state
// chapters under it, and local chapters under states. The engine never
// walks this tree during authorization; callers resolve a chapter's
// state up front (StateOf) and pass it as the target scope.
//
// The Directory interface is the engine's generic data-access contract.
// Persistence lives behind it; the in-memory implementation here backs
// tests and single-process deployments.
package org
