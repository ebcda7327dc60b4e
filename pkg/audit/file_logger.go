package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// FileLogger appends entries as JSON lines to a log file, rotating by
// size. It is append-only; querying file logs is an offline concern.
type FileLogger struct {
	basePath string
	maxSize  int64
	maxFiles int

	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
	written int64
}

// FileLoggerConfig configures the file sink
type FileLoggerConfig struct {
	BasePath string // directory for audit log files
	MaxSize  int64  // bytes before rotation (default 100MB)
	MaxFiles int    // rotated files to keep (default 10)
}

// DefaultFileLoggerConfig returns the default file sink configuration
func DefaultFileLoggerConfig() FileLoggerConfig {
	return FileLoggerConfig{
		BasePath: "/var/log/ams/audit",
		MaxSize:  100 * 1024 * 1024,
		MaxFiles: 10,
	}
}

// NewFileLogger creates a file-backed audit sink
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("audit: create log directory: %w", err)
	}

	l := &FileLogger{
		basePath: config.BasePath,
		maxSize:  config.MaxSize,
		maxFiles: config.MaxFiles,
	}
	if l.maxSize <= 0 {
		l.maxSize = 100 * 1024 * 1024
	}
	if l.maxFiles <= 0 {
		l.maxFiles = 10
	}

	if err := l.open(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *FileLogger) currentPath() string {
	return filepath.Join(l.basePath, "audit.log")
}

func (l *FileLogger) open() error {
	path := l.currentPath()
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("audit: open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("audit: stat log file: %w", err)
	}
	l.file = file
	l.encoder = json.NewEncoder(file)
	l.written = info.Size()
	return nil
}

// Append records an entry as one JSON line
func (l *FileLogger) Append(ctx context.Context, entry *Entry) error {
	stamp(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.written >= l.maxSize {
		if err := l.rotate(); err != nil {
			return err
		}
	}

	if err := l.encoder.Encode(entry); err != nil {
		return fmt.Errorf("audit: write entry: %w", err)
	}
	// Approximate: a JSON line is at least the marshaled size.
	if data, err := json.Marshal(entry); err == nil {
		l.written += int64(len(data)) + 1
	}
	return nil
}

func (l *FileLogger) rotate() error {
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("audit: close before rotate: %w", err)
	}

	rotated := filepath.Join(l.basePath, fmt.Sprintf("audit-%s.log", time.Now().UTC().Format("20060102-150405")))
	if err := os.Rename(l.currentPath(), rotated); err != nil {
		return fmt.Errorf("audit: rotate log file: %w", err)
	}

	if err := l.pruneRotated(); err != nil {
		return err
	}
	return l.open()
}

func (l *FileLogger) pruneRotated() error {
	matches, err := filepath.Glob(filepath.Join(l.basePath, "audit-*.log"))
	if err != nil {
		return err
	}
	if len(matches) <= l.maxFiles {
		return nil
	}
	sort.Strings(matches) // timestamped names sort oldest first
	for _, path := range matches[:len(matches)-l.maxFiles] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("audit: prune rotated log: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the current log file
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Name identifies this sink in failure metrics
func (l *FileLogger) Name() string { return "file" }
