package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/craftdeck/craftdeck/internal/download"
)

// DownloadsHandler manages jar download jobs.
type DownloadsHandler struct {
	svc *download.Service
}

func NewDownloadsHandler(svc *download.Service) *DownloadsHandler {
	return &DownloadsHandler{svc: svc}
}

func (h *DownloadsHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.svc.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list downloads: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *DownloadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.svc.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "download not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get download: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *DownloadsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	job, err := h.svc.Enqueue(req.URL, req.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, job)
}
