package logging

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"Debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message leaked at info level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("info message missing")
	}
}

func TestLoggerTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(context.Background(), LevelTrace, "prompt content")

	out := buf.String()
	if !strings.Contains(out, "TRACE") {
		t.Errorf("trace level not labeled: %s", out)
	}
	if !strings.Contains(out, "prompt content") {
		t.Errorf("trace message missing: %s", out)
	}
}

func TestDiagnosticLoggerWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	dl := NewDiagnosticLogger(dir)
	if dl == nil {
		t.Fatal("NewDiagnosticLogger returned nil")
	}
	defer dl.Close()

	dl.DanglingReference("Tank.level", "Ghost.var")
	dl.Log(map[string]any{"event": "persistence_failure", "error": "disk full"})

	data, err := os.ReadFile(filepath.Join(dir, "diagnostics.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	var lines []map[string]any
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		lines = append(lines, entry)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 JSONL lines, got %d", len(lines))
	}
	if lines[0]["event"] != "dangling_reference" || lines[0]["from"] != "Ghost.var" {
		t.Errorf("dangling reference entry wrong: %+v", lines[0])
	}
	if lines[1]["event"] != "persistence_failure" {
		t.Errorf("second entry wrong: %+v", lines[1])
	}
	for _, entry := range lines {
		if _, ok := entry["time"]; !ok {
			t.Errorf("entry missing time field: %+v", entry)
		}
	}
}

func TestDiagnosticLoggerDoesNotMutateCaller(t *testing.T) {
	dl := NewDiagnosticLogger(t.TempDir())
	defer dl.Close()

	event := map[string]any{"event": "test"}
	dl.Log(event)
	if _, ok := event["time"]; ok {
		t.Error("Log mutated the caller's map")
	}
}

func TestDiagnosticLoggerNilSafe(t *testing.T) {
	var dl *DiagnosticLogger
	dl.Log(map[string]any{"event": "ignored"})
	dl.DanglingReference("a", "b")
	dl.Close()
}

func TestDiagnosticLoggerAppends(t *testing.T) {
	dir := t.TempDir()

	first := NewDiagnosticLogger(dir)
	first.DanglingReference("A.x", "B.y")
	first.Close()

	second := NewDiagnosticLogger(dir)
	second.DanglingReference("C.z", "D.w")
	second.Close()

	data, err := os.ReadFile(filepath.Join(dir, "diagnostics.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(data, []byte("\n")); n != 2 {
		t.Errorf("expected 2 appended lines, got %d", n)
	}
}
