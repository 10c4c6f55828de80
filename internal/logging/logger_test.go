package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNew_JSONCarriesRunFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := ForRun(New(&buf, "info", "json"), "retail-etl", "run-123")
	logger.Debug("hidden")
	logger.Info("extract.done", "table", "purchases", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["msg"] != "extract.done" || entry["run_id"] != "run-123" || entry["job"] != "retail-etl" || entry["table"] != "purchases" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestNew_TextDefault(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, "debug", "").Debug("load.start", "table", "dim_clients")
	if !strings.Contains(buf.String(), "msg=load.start") || !strings.Contains(buf.String(), "table=dim_clients") {
		t.Fatalf("text output = %q", buf.String())
	}
}
