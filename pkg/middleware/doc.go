// Package middleware provides HTTP middleware for actor identification,
// request IDs, and permission enforcement in front of the API handlers.
package middleware
