package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gabeoland-surg/video-library-metadata/internal/logging"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("fetched cases", "count", 12, "range", "2025-01-01..2025-01-08")

	line := buf.String()
	if !strings.Contains(line, "INFO fetched cases") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "count=12") {
		t.Fatalf("missing count attr: %q", line)
	}
	if !strings.Contains(line, `range=2025-01-01..2025-01-08`) {
		t.Fatalf("missing range attr: %q", line)
	}
}

func TestNewConsoleQuotesSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("download failed", "file", "case A.mp4")
	if !strings.Contains(buf.String(), `file="case A.mp4"`) {
		t.Fatalf("expected quoted attr, got %q", buf.String())
	}
}

func TestNewConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("scan complete", "indexed", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "scan complete" {
		t.Fatalf("msg = %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts key")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
