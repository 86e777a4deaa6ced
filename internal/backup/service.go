// Package backup archives the server directory as tar.gz snapshots.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Backup struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
	CreatedAt string `json:"created_at"`
}

type Service struct {
	db        *sql.DB
	serverDir string
	dataDir   string
}

func NewService(db *sql.DB, serverDir, dataDir string) *Service {
	return &Service{db: db, serverDir: serverDir, dataDir: dataDir}
}

func (s *Service) backupsDir() string {
	return filepath.Join(s.dataDir, "backups")
}

// Create archives the server directory into a new tar.gz snapshot.
func (s *Service) Create() (*Backup, error) {
	if _, err := os.Stat(s.serverDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("server directory not found: %s", s.serverDir)
	}

	if err := os.MkdirAll(s.backupsDir(), 0755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	id := uuid.New().String()[:8]
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-%s.tar.gz", timestamp, id)
	backupPath := filepath.Join(s.backupsDir(), filename)

	if err := createTarGz(backupPath, s.serverDir); err != nil {
		os.Remove(backupPath)
		return nil, fmt.Errorf("create archive: %w", err)
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	b := &Backup{
		ID:        id,
		Filename:  filename,
		SizeBytes: info.Size(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	_, err = s.db.Exec(
		`INSERT INTO backups (id, filename, size_bytes, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Filename, b.SizeBytes, b.CreatedAt,
	)
	if err != nil {
		os.Remove(backupPath)
		return nil, fmt.Errorf("save backup record: %w", err)
	}

	return b, nil
}

// List returns all backups, newest first.
func (s *Service) List() ([]Backup, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, size_bytes, created_at FROM backups ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	backups := []Backup{}
	for rows.Next() {
		var b Backup
		if err := rows.Scan(&b.ID, &b.Filename, &b.SizeBytes, &b.CreatedAt); err != nil {
			continue
		}
		backups = append(backups, b)
	}
	return backups, nil
}

// FilePath returns the full path to a backup file.
func (s *Service) FilePath(id string) (string, error) {
	var filename string
	err := s.db.QueryRow(`SELECT filename FROM backups WHERE id = ?`, id).Scan(&filename)
	if err != nil {
		return "", fmt.Errorf("backup not found: %w", err)
	}
	return filepath.Join(s.backupsDir(), filename), nil
}

// Delete removes a backup file and its database record.
func (s *Service) Delete(id string) error {
	path, err := s.FilePath(id)
	if err != nil {
		return err
	}

	os.Remove(path)
	_, err = s.db.Exec(`DELETE FROM backups WHERE id = ?`, id)
	return err
}

// Restore extracts a backup archive over the server directory. The
// server must be stopped before calling this.
func (s *Service) Restore(id string) error {
	path, err := s.FilePath(id)
	if err != nil {
		return err
	}

	// Clear existing data
	if err := os.RemoveAll(s.serverDir); err != nil {
		return fmt.Errorf("clear server directory: %w", err)
	}
	if err := os.MkdirAll(s.serverDir, 0755); err != nil {
		return fmt.Errorf("recreate server directory: %w", err)
	}

	return extractTarGz(path, s.serverDir)
}

func createTarGz(dest, srcDir string) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()

	gw := gzip.NewWriter(file)
	defer gw.Close()

	tw := tar.NewWriter(gw)
	defer tw.Close()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = relPath

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(tw, f)
		return err
	})
}

func extractTarGz(src, destDir string) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		target := filepath.Join(destDir, header.Name)

		// Prevent path traversal
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("invalid path in archive: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(header.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
	return nil
}
