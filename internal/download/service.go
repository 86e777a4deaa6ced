// Package download fetches server jars into the server directory and
// tracks job progress in the database.
package download

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Job states.
const (
	StatusQueued      = "queued"
	StatusDownloading = "downloading"
	StatusDone        = "done"
	StatusFailed      = "failed"
)

// Job is one tracked download.
type Job struct {
	ID         string `json:"id"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	BytesDone  int64  `json:"bytes_done"`
	TotalBytes int64  `json:"total_bytes"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// Service downloads files into destDir, one worker goroutine per job.
type Service struct {
	db      *sql.DB
	destDir string
	client  *http.Client

	mu sync.Mutex
	wg sync.WaitGroup
}

func New(db *sql.DB, destDir string) *Service {
	return &Service{
		db:      db,
		destDir: destDir,
		client:  &http.Client{Timeout: 30 * time.Minute},
	}
}

// Enqueue records a new job and starts fetching in the background.
// The filename is derived from the URL when not given.
func (s *Service) Enqueue(rawURL, filename string) (*Job, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("url is required")
	}
	if filename == "" {
		u, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid url: %w", err)
		}
		filename = path.Base(u.Path)
	}
	filename = filepath.Base(filename)
	if filename == "." || filename == "/" || filename == "" {
		return nil, fmt.Errorf("cannot derive filename from %q", rawURL)
	}

	job := &Job{
		ID:        uuid.New().String()[:8],
		URL:       rawURL,
		Filename:  filename,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	_, err := s.db.Exec(
		`INSERT INTO downloads (id, url, filename, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.URL, job.Filename, job.Status, job.CreatedAt, job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert download: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job)
	}()
	return job, nil
}

// Get returns one job by id.
func (s *Service) Get(id string) (*Job, error) {
	row := s.db.QueryRow(
		`SELECT id, url, filename, status, bytes_done, total_bytes, error, created_at FROM downloads WHERE id = ?`,
		id,
	)
	return scanJob(row)
}

// List returns all jobs, newest first.
func (s *Service) List() ([]*Job, error) {
	rows, err := s.db.Query(
		`SELECT id, url, filename, status, bytes_done, total_bytes, error, created_at FROM downloads ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// Wait blocks until all in-flight downloads finish. Used on shutdown
// and by tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(job *Job) {
	resp, err := s.client.Get(job.URL)
	if err != nil {
		s.fail(job.ID, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.fail(job.ID, fmt.Errorf("unexpected status %d", resp.StatusCode))
		return
	}
	s.update(job.ID, StatusDownloading, 0, resp.ContentLength, "")

	tmp := filepath.Join(s.destDir, job.Filename+".part")
	f, err := os.Create(tmp)
	if err != nil {
		s.fail(job.ID, err)
		return
	}

	cw := &countingWriter{svc: s, id: job.ID, total: resp.ContentLength}
	_, err = io.Copy(io.MultiWriter(f, cw), resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		s.fail(job.ID, err)
		return
	}
	if err := os.Rename(tmp, filepath.Join(s.destDir, job.Filename)); err != nil {
		os.Remove(tmp)
		s.fail(job.ID, err)
		return
	}
	s.update(job.ID, StatusDone, cw.n, cw.n, "")
}

func (s *Service) fail(id string, err error) {
	log.Printf("download %s failed: %v", id, err)
	s.update(id, StatusFailed, -1, -1, err.Error())
}

// update writes job progress. Negative byte counts leave the stored
// values untouched.
func (s *Service) update(id, status string, done, total int64, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC().Format(time.RFC3339)
	var err error
	if done < 0 {
		_, err = s.db.Exec(
			`UPDATE downloads SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
			status, errMsg, now, id,
		)
	} else {
		_, err = s.db.Exec(
			`UPDATE downloads SET status = ?, bytes_done = ?, total_bytes = ?, error = ?, updated_at = ? WHERE id = ?`,
			status, done, total, errMsg, now, id,
		)
	}
	if err != nil {
		log.Printf("download %s: update: %v", id, err)
	}
}

type countingWriter struct {
	svc   *Service
	id    string
	total int64
	n     int64
	last  time.Time
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	// Throttle progress writes to one per second.
	if now := time.Now(); now.Sub(w.last) >= time.Second {
		w.last = now
		w.svc.update(w.id, StatusDownloading, w.n, w.total, "")
	}
	return len(p), nil
}

func scanJob(row interface{ Scan(...any) error }) (*Job, error) {
	var job Job
	var errMsg sql.NullString
	err := row.Scan(&job.ID, &job.URL, &job.Filename, &job.Status, &job.BytesDone, &job.TotalBytes, &errMsg, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	job.Error = errMsg.String
	return &job, nil
}
