package audit

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
)

// MultiLogger fans an append out to several sinks. Appends are best
// effort: a failing sink is noted locally and skipped, because audit
// availability must never become an availability risk for the operation
// being audited. Append only errors when every sink failed.
type MultiLogger struct {
	sinks    []Logger
	failures atomic.Int64

	onEntry   func(action string)
	onFailure func(sink string)
}

// NewMultiLogger creates a fan-out over the given sinks
func NewMultiLogger(sinks ...Logger) *MultiLogger {
	return &MultiLogger{sinks: sinks}
}

// Instrument registers callbacks invoked once per appended entry and
// once per individual sink failure, for metrics export. Call before
// the logger is in use.
func (l *MultiLogger) Instrument(onEntry func(action string), onFailure func(sink string)) {
	l.onEntry = onEntry
	l.onFailure = onFailure
}

// Append records the entry to every sink that will take it
func (l *MultiLogger) Append(ctx context.Context, entry *Entry) error {
	stamp(entry)
	if l.onEntry != nil {
		l.onEntry(entry.Action)
	}

	var lastErr error
	failed := 0
	for _, sink := range l.sinks {
		if err := sink.Append(ctx, entry); err != nil {
			l.failures.Add(1)
			failed++
			lastErr = err
			log.Printf("audit: sink append failed: %v", err)
			if l.onFailure != nil {
				l.onFailure(sinkName(sink))
			}
		}
	}
	if failed == len(l.sinks) && lastErr != nil {
		return lastErr
	}
	return nil
}

// sinkName identifies a sink for failure reporting
func sinkName(l Logger) string {
	if n, ok := l.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", l)
}

// Failures returns the count of individual sink append failures
func (l *MultiLogger) Failures() int64 {
	return l.failures.Load()
}

// Close closes every sink, returning the first error
func (l *MultiLogger) Close() error {
	var first error
	for _, sink := range l.sinks {
		if err := sink.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
