package api

import (
	"net/http"

	"github.com/craftdeck/craftdeck/internal/settings"
)

// SettingsHandler reads and writes the launch settings.
type SettingsHandler struct {
	store *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.Get()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	var req settings.Settings
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.JavaPath == "" || req.ServerJar == "" {
		writeError(w, http.StatusBadRequest, "java_path and server_jar are required")
		return
	}
	if err := h.store.Put(req); err != nil {
		writeError(w, http.StatusInternalServerError, "save settings: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, req)
}
