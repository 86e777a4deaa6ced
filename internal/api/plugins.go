package api

import (
	"net/http"
	"time"

	"github.com/craftdeck/craftdeck/internal/plugins"
)

// PluginsHandler lists plugins from the Spigot resources listing.
type PluginsHandler struct {
	source *plugins.SpigotSource
	client *http.Client
}

func NewPluginsHandler() *PluginsHandler {
	return &PluginsHandler{
		source: plugins.NewSpigotSource(),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *PluginsHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.source.Fetch(r.Context(), h.client)
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch plugins: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}
