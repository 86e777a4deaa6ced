package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FilesHandler lists files under the server directory.
type FilesHandler struct {
	serverDir string
}

func NewFilesHandler(serverDir string) *FilesHandler {
	return &FilesHandler{serverDir: serverDir}
}

type fileInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
	IsDir     bool   `json:"is_dir"`
	Modified  string `json:"modified"`
}

// resolve maps a request path onto the server directory, rejecting
// anything that escapes it.
func (h *FilesHandler) resolve(reqPath string) (string, bool) {
	clean := filepath.Clean("/" + reqPath)
	full := filepath.Join(h.serverDir, clean)
	root := filepath.Clean(h.serverDir)
	if full != root && !strings.HasPrefix(full, root+string(os.PathSeparator)) {
		return "", false
	}
	return full, true
}

func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	reqPath := r.URL.Query().Get("path")
	full, ok := h.resolve(reqPath)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid path")
		return
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		if os.IsNotExist(err) {
			writeError(w, http.StatusNotFound, "directory not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "read directory: "+err.Error())
		return
	}

	files := []fileInfo{}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(filepath.Clean(h.serverDir), filepath.Join(full, entry.Name()))
		if err != nil {
			continue
		}
		files = append(files, fileInfo{
			Name:      entry.Name(),
			Path:      filepath.ToSlash(rel),
			SizeBytes: info.Size(),
			IsDir:     entry.IsDir(),
			Modified:  info.ModTime().UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	writeJSON(w, http.StatusOK, files)
}
