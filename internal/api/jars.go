package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/craftdeck/craftdeck/internal/jars"
)

// JarsHandler lists downloadable server jars per flavor.
type JarsHandler struct {
	client *http.Client
}

func NewJarsHandler() *JarsHandler {
	return &JarsHandler{client: &http.Client{Timeout: 30 * time.Second}}
}

func (h *JarsHandler) Flavors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, jars.Flavors())
}

func (h *JarsHandler) Versions(w http.ResponseWriter, r *http.Request) {
	flavor := chi.URLParam(r, "flavor")
	src := jars.Get(flavor)
	if src == nil {
		writeError(w, http.StatusNotFound, "unknown flavor: "+flavor)
		return
	}
	versions, err := src.Fetch(r.Context(), h.client)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch versions: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, versions)
}
