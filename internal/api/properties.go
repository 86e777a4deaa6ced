package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/craftdeck/craftdeck/internal/props"
)

// PropertiesHandler edits server.properties in the server directory.
type PropertiesHandler struct {
	serverDir string
}

func NewPropertiesHandler(serverDir string) *PropertiesHandler {
	return &PropertiesHandler{serverDir: serverDir}
}

func (h *PropertiesHandler) path() string {
	return filepath.Join(h.serverDir, "server.properties")
}

func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	entries, err := props.Load(h.path())
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []props.Entry{})
			return
		}
		writeError(w, http.StatusInternalServerError, "load properties: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *PropertiesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var entries []props.Entry
	if err := decodeJSON(r, &entries); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := props.Save(h.path(), entries); err != nil {
		writeError(w, http.StatusBadRequest, "save properties: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
