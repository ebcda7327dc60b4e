package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger is the append side of the audit log
type Logger interface {
	// Append records an entry. Implementations assign ID and Timestamp
	// when unset.
	Append(ctx context.Context, entry *Entry) error

	// Close flushes and releases the sink
	Close() error
}

// Querier is the read side, for audit review
type Querier interface {
	// Query returns matching entries, newest first
	Query(ctx context.Context, filter Filter) ([]*Entry, error)
}

// stamp fills in ID and Timestamp when the caller left them unset
func stamp(e *Entry) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

// Nop is a Logger that discards everything
type Nop struct{}

// Append discards the entry
func (Nop) Append(ctx context.Context, entry *Entry) error { return nil }

// Close is a no-op
func (Nop) Close() error { return nil }

type contextKey string

const loggerKey contextKey = "audit_logger"

// WithLogger attaches a logger to the context
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the context's logger, or Nop when none is set
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Nop{}
}
