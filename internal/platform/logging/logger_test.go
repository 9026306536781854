package logging

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf})

	logger.Warn("snapshot rejected", "file", "a.parquet", "error", errors.New("missing columns"))
	logger.Debug("dropped below level")
	_ = logger.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got=%d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := sonic.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Fatalf("unexpected level: %v", entry["level"])
	}
	if entry["file"] != "a.parquet" {
		t.Fatalf("unexpected file field: %v", entry["file"])
	}
	if entry["error"] != "missing columns" {
		t.Fatalf("unexpected error field: %v", entry["error"])
	}
}

func TestLogger_WithAndContextWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf}).With("run_id", "r-1")

	logger.InfoContext(context.Background(), "stage done", "stage", "fetch")
	_ = logger.Sync()

	out := buf.String()
	if !strings.Contains(out, `"run_id":"r-1"`) || !strings.Contains(out, `"stage":"fetch"`) {
		t.Fatalf("expected inherited and call fields, got %s", out)
	}
	if strings.Contains(out, "trace_id") {
		t.Fatalf("did not expect trace fields without an active span: %s", out)
	}
}

func TestLogger_FileSink(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "pipeline.log")
	logger := New(Options{Level: LevelInfo, Output: &buf, FilePath: path})

	logger.Info("hello")
	if err := logger.Sync(); err != nil && !strings.Contains(err.Error(), "sync") {
		t.Fatalf("sync logger: %v", err)
	}
	if err := logger.Sync(); err != nil {
		t.Fatalf("second sync should be a no-op, got %v", err)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Info("ignored")
	logger.ErrorContext(context.Background(), "ignored")
	if OrNop(nil) == nil {
		t.Fatalf("expected nop logger")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARNING": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", raw, got, want)
		}
	}
}
