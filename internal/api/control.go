package api

import (
	"net/http"

	"github.com/craftdeck/craftdeck/internal/console"
	"github.com/craftdeck/craftdeck/internal/settings"
)

// ControlHandler drives the server lifecycle over HTTP.
type ControlHandler struct {
	sup      *console.Supervisor
	settings *settings.Store
	hub      *console.Hub
}

func NewControlHandler(sup *console.Supervisor, store *settings.Store, hub *console.Hub) *ControlHandler {
	return &ControlHandler{sup: sup, settings: store, hub: hub}
}

type stateResponse struct {
	State          string  `json:"state"`
	Pid            int     `json:"pid,omitempty"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	RestartPending bool    `json:"restart_pending"`
}

func (h *ControlHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, stateResponse{
		State:          h.sup.State().String(),
		Pid:            h.sup.Pid(),
		UptimeSeconds:  h.sup.Uptime().Seconds(),
		RestartPending: h.sup.RestartPending(),
	})
}

func (h *ControlHandler) Start(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.settings.LaunchConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load launch settings: "+err.Error())
		return
	}
	h.hub.Reset()
	if err := h.sup.Start(cfg); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": h.sup.State().String()})
}

func (h *ControlHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.sup.Stop()
	writeJSON(w, http.StatusOK, map[string]string{"state": h.sup.State().String()})
}

func (h *ControlHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.sup.Restart()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":           h.sup.State().String(),
		"restart_pending": h.sup.RestartPending(),
	})
}

func (h *ControlHandler) Command(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Command string `json:"command"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}
	h.sup.SendCommand(req.Command)
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
