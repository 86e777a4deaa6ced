package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeLatestLog(t *testing.T, dir, content string) {
	t.Helper()
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(logsDir, "latest.log"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLogsMissingFile(t *testing.T) {
	h := NewLogsHandler(t.TempDir())
	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLogsFiltersBySeverity(t *testing.T) {
	dir := t.TempDir()
	writeLatestLog(t, dir, "[INFO] Server started\nDEBUG: skip me\nWARN: low memory\nERROR: chunk save failed\njust chat\n")
	h := NewLogsHandler(dir)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var lines []logLine
	if err := json.NewDecoder(rec.Body).Decode(&lines); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Noise lines are dropped even without a level filter.
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %v", len(lines), lines)
	}

	rec = httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/logs?level=warning", nil))
	lines = nil
	if err := json.NewDecoder(rec.Body).Decode(&lines); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("filtered lines = %v, want warn and error only", lines)
	}
	if lines[0].Severity != "warning" || lines[1].Severity != "error" {
		t.Errorf("severities = %s, %s", lines[0].Severity, lines[1].Severity)
	}
}

func TestLogsRejectsUnknownLevel(t *testing.T) {
	dir := t.TempDir()
	writeLatestLog(t, dir, "hello\n")
	h := NewLogsHandler(dir)

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/logs?level=shouting", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
