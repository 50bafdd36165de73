package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"grabbot/internal/logging"
)

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logging.NewComponentLogger(logger, "fetch").Info("download started", logging.String("url", "https://example"))

	line := buf.String()
	if !strings.Contains(line, "INFO fetch: download started") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "url=https://example") {
		t.Fatalf("expected url attribute in line: %q", line)
	}
}

func TestJSONHandlerFieldNames(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("job finished", logging.Int64("size_bytes", 1024))

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("expected key %q in %v", key, decoded)
		}
	}
	if decoded["msg"] != "job finished" {
		t.Fatalf("unexpected msg: %v", decoded["msg"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestDebugFilteredAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("noisy progress edit failure")
	if buf.Len() != 0 {
		t.Fatalf("expected debug output suppressed, got %q", buf.String())
	}
}
