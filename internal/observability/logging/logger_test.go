package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONIncludesServiceAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "api", "warn", "json")
	logger.Info("hidden")
	logger.Warn("fetch_attempt_failed", "strategy", "primary")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "api" || entry["msg"] != "fetch_attempt_failed" || entry["strategy"] != "primary" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "cli", "debug", "TEXT").Debug("resolve_started")
	if !strings.Contains(buf.String(), "msg=resolve_started") || !strings.Contains(buf.String(), "service=cli") {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}

func TestPickFormatPrefersFirstSet(t *testing.T) {
	tests := []struct {
		formats []string
		want    string
	}{
		{formats: []string{"json", "text"}, want: "json"},
		{formats: []string{"", "json"}, want: "json"},
		{formats: []string{" ", ""}, want: "text"},
		{formats: nil, want: "text"},
	}
	for _, tt := range tests {
		if got := PickFormat("text", tt.formats...); got != tt.want {
			t.Fatalf("PickFormat(%q) = %q, want %q", tt.formats, got, tt.want)
		}
	}
}
