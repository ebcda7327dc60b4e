// Package observability provides structured logging, Prometheus metrics,
// health checks, graceful shutdown, and panic recovery for the AMS services.
package observability
