package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"verbatim/internal/services"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("corpus saved", String(FieldRunID, "run-1"), Int("quotes", 7))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "corpus saved" {
		t.Fatalf("msg = %v, want corpus saved", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("level = %v, want info", entry["level"])
	}
	if entry[FieldRunID] != "run-1" {
		t.Fatalf("run_id = %v, want run-1", entry[FieldRunID])
	}
}

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = NewComponentLogger(logger, "extraction")
	logger.Warn("batch extraction failed, continuing with partial yield", String("provider_error", "quota"))

	line := buf.String()
	for _, fragment := range []string{"WARN", "[extraction]", "provider_error=quota"} {
		if !strings.Contains(line, fragment) {
			t.Errorf("console line missing %q: %s", fragment, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("should be suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info line leaked past warn level: %s", buf.String())
	}
	logger.Error("should appear")
	if buf.Len() == 0 {
		t.Fatal("error line missing")
	}
}

func TestWithContextAddsStandardFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-9")
	ctx = services.WithSessionID(ctx, "s1")
	ctx = services.WithPass(ctx, 2)
	ctx = services.WithBatch(ctx, 3)

	WithContext(ctx, logger).Info("batch dispatched")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry[FieldRunID] != "run-9" || entry[FieldSessionID] != "s1" {
		t.Fatalf("missing context fields: %v", entry)
	}
	if entry[FieldPass] != float64(2) || entry[FieldBatch] != float64(3) {
		t.Fatalf("missing pass/batch fields: %v", entry)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing happens")
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("noop handler should never be enabled")
	}
}
