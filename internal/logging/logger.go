// Package logging provides leveled logging and diagnostic tracing for
// simdec. It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A DiagnosticLogger for structured JSONL diagnostics
//     (.simdec/diagnostics.jsonl): dangling references, persistence
//     failures, upstream service fallbacks
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LevelTrace is a custom slog level below Debug for full content logging.
// At this level, LLM prompts/responses and other verbose content are included.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// DiagnosticLogger writes structured diagnostic events to a JSONL file.
// It is safe for concurrent use. A nil DiagnosticLogger is safe to use;
// all methods are no-ops on nil receiver.
type DiagnosticLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewDiagnosticLogger creates a diagnostic logger writing to
// dir/diagnostics.jsonl. Returns nil if the file cannot be opened.
// All methods are nil-safe.
func NewDiagnosticLogger(dir string) *DiagnosticLogger {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	path := filepath.Join(dir, "diagnostics.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}

	return &DiagnosticLogger{file: f}
}

// Log writes a diagnostic event as a single JSONL line.
// A "time" field is added automatically. The caller's map is not mutated.
// Safe to call on nil receiver.
func (dl *DiagnosticLogger) Log(event map[string]any) {
	if dl == nil || dl.file == nil {
		return
	}

	// Copy to avoid mutating caller's map
	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	dl.mu.Lock()
	defer dl.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = dl.file.Write(data)
}

// DanglingReference records an influence endpoint that failed to resolve.
// Safe to call on nil receiver.
func (dl *DiagnosticLogger) DanglingReference(component, from string) {
	dl.Log(map[string]any{
		"event":     "dangling_reference",
		"component": component,
		"from":      from,
	})
}

// Close closes the underlying file. Safe to call on nil receiver.
func (dl *DiagnosticLogger) Close() {
	if dl == nil || dl.file == nil {
		return
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()

	dl.file.Close()
	dl.file = nil
}
