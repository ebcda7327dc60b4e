package audit

import (
	"context"
	"sync"
)

// MemoryLogger keeps entries in memory. It backs tests and
// single-process deployments, and is the reference implementation of
// the newest-first Query ordering.
type MemoryLogger struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewMemoryLogger creates an empty in-memory audit log
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

// Append records an entry
func (l *MemoryLogger) Append(ctx context.Context, entry *Entry) error {
	stamp(entry)
	dup := *entry

	l.mu.Lock()
	l.entries = append(l.entries, &dup)
	l.mu.Unlock()
	return nil
}

// Query returns matching entries, newest first
func (l *MemoryLogger) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// Entries append in time order; walk backwards for newest-first.
	var out []*Entry
	skipped := 0
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if !filter.Matches(e) {
			continue
		}
		if skipped < filter.Offset {
			skipped++
			continue
		}
		dup := *e
		out = append(out, &dup)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

// Len returns the number of entries recorded
func (l *MemoryLogger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Close is a no-op
func (l *MemoryLogger) Close() error { return nil }

// Name identifies this sink in failure metrics
func (l *MemoryLogger) Name() string { return "memory" }
