package api

import (
	"net/http"

	"github.com/craftdeck/craftdeck/internal/java"
	"github.com/craftdeck/craftdeck/internal/settings"
)

// JavaHandler probes the configured Java runtime.
type JavaHandler struct {
	store *settings.Store
}

func NewJavaHandler(store *settings.Store) *JavaHandler {
	return &JavaHandler{store: store}
}

func (h *JavaHandler) Detect(w http.ResponseWriter, r *http.Request) {
	current, err := h.store.Get()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load settings: "+err.Error())
		return
	}
	info, err := java.Detect(r.Context(), current.JavaPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, "java not usable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}
