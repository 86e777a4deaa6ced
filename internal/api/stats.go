package api

import (
	"log"
	"net/http"
	"time"

	"github.com/craftdeck/craftdeck/internal/stats"
)

type StatsHandler struct {
	collector *stats.Collector
}

func NewStatsHandler(collector *stats.Collector) *StatsHandler {
	return &StatsHandler{collector: collector}
}

// Latest returns the most recent reading.
func (h *StatsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	latest := h.collector.Latest()
	if latest == nil {
		writeError(w, http.StatusNotFound, "no stats available")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// History returns readings for a time range.
func (h *StatsHandler) History(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1h"
	}
	duration, err := time.ParseDuration(period)
	if err != nil || duration <= 0 {
		writeError(w, http.StatusBadRequest, "invalid period: use format like 30m, 1h, 24h")
		return
	}

	samples, err := h.collector.History(time.Now().Add(-duration))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to query stats")
		return
	}
	writeJSON(w, http.StatusOK, samples)
}

// Live pushes readings via WebSocket as the collector produces them.
func (h *StatsHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stats websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ch := h.collector.Subscribe()
	defer h.collector.Unsubscribe(ch)

	// Send latest immediately if available
	if latest := h.collector.Latest(); latest != nil {
		if err := conn.WriteJSON(latest); err != nil {
			return
		}
	}

	// Read from client to detect disconnect
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case s, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(s); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
