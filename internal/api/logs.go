package api

import (
	"bufio"
	"net/http"
	"os"
	"path/filepath"

	"github.com/craftdeck/craftdeck/internal/console"
)

// LogsHandler serves the server's own log file with optional severity
// filtering.
type LogsHandler struct {
	serverDir string
}

func NewLogsHandler(serverDir string) *LogsHandler {
	return &LogsHandler{serverDir: serverDir}
}

type logLine struct {
	Text     string `json:"text"`
	Severity string `json:"severity"`
}

func (h *LogsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(h.serverDir, "logs", "latest.log")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "no log file yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "open log: "+err.Error())
		return
	}
	defer f.Close()

	minLevel := console.SeverityPlain
	if level := r.URL.Query().Get("level"); level != "" {
		sev, ok := console.ParseSeverity(level)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown level: "+level)
			return
		}
		minLevel = sev
	}

	lines := []logLine{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		cl, ok := console.Classify(scanner.Text())
		if !ok || cl.Severity < minLevel {
			continue
		}
		lines = append(lines, logLine{Text: cl.Text, Severity: cl.Severity.String()})
	}
	if err := scanner.Err(); err != nil {
		writeError(w, http.StatusInternalServerError, "read log: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
