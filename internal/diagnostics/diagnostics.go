// Package diagnostics records the decisions made while processing one file.
package diagnostics

import (
	"context"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/Veraticus/tally/internal/model"
)

// Clock returns the current time.
type Clock func() time.Time

// Log is an append-only, ordered processing log for a single run. Each entry
// is also written to the structured logger.
type Log struct {
	clock   Clock
	logger  *slog.Logger
	entries []model.ProcessingLogEntry
	mu      sync.Mutex
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the timestamp source.
func WithClock(clock Clock) Option {
	return func(l *Log) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithLogger mirrors entries to logger instead of slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty log.
func New(opts ...Option) *Log {
	l := &Log{
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Info records an informational entry.
func (l *Log) Info(msg string, details map[string]any) {
	l.add(model.LevelInfo, msg, details)
}

// Warning records a recoverable problem.
func (l *Log) Warning(msg string, details map[string]any) {
	l.add(model.LevelWarning, msg, details)
}

// Error records a failure.
func (l *Log) Error(msg string, details map[string]any) {
	l.add(model.LevelError, msg, details)
}

func (l *Log) add(level model.LogLevel, msg string, details map[string]any) {
	entry := model.ProcessingLogEntry{
		Timestamp: l.clock(),
		Level:     level,
		Message:   msg,
	}
	if len(details) > 0 {
		entry.Details = maps.Clone(details)
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	attrs := make([]slog.Attr, 0, len(details))
	for k, v := range details {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.LogAttrs(context.Background(), slogLevel(level), msg, attrs...)
}

// Entries returns a copy of the entries in insertion order.
func (l *Log) Entries() []model.ProcessingLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]model.ProcessingLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Count returns how many entries have the given level.
func (l *Log) Count(level model.LogLevel) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

func slogLevel(level model.LogLevel) slog.Level {
	switch level {
	case model.LevelWarning:
		return slog.LevelWarn
	case model.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
