package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/craftdeck/craftdeck/internal/backup"
	"github.com/craftdeck/craftdeck/internal/console"
)

// BackupHandler manages server directory snapshots.
type BackupHandler struct {
	svc *backup.Service
	sup *console.Supervisor
}

func NewBackupHandler(svc *backup.Service, sup *console.Supervisor) *BackupHandler {
	return &BackupHandler{svc: svc, sup: sup}
}

func (h *BackupHandler) List(w http.ResponseWriter, r *http.Request) {
	backups, err := h.svc.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list backups: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, backups)
}

func (h *BackupHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Create()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create backup: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BackupHandler) Download(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.FilePath(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	w.Header().Set("Content-Type", "application/gzip")
	http.ServeFile(w, r, path)
}

func (h *BackupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, "backup not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *BackupHandler) Restore(w http.ResponseWriter, r *http.Request) {
	// Restoring over a live server corrupts the world.
	switch h.sup.State() {
	case console.Running, console.Starting, console.Stopping:
		writeError(w, http.StatusConflict, "stop the server before restoring a backup")
		return
	}
	if err := h.svc.Restore(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "restore backup: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}
