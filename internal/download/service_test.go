package download

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/craftdeck/craftdeck/internal/db"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	database, err := db.Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.Migrate(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	dest := filepath.Join(dir, "server")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return New(database, dest), dest
}

func TestEnqueueDownloadsFile(t *testing.T) {
	payload := strings.Repeat("jar bytes ", 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	svc, dest := newTestService(t)
	job, err := svc.Enqueue(srv.URL+"/server.jar?version=1.20.1", "")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if job.Filename != "server.jar" {
		t.Errorf("filename = %q, want server.jar", job.Filename)
	}
	svc.Wait()

	got, err := svc.Get(job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusDone {
		t.Fatalf("status = %q (error %q), want done", got.Status, got.Error)
	}
	if got.BytesDone != int64(len(payload)) {
		t.Errorf("bytes_done = %d, want %d", got.BytesDone, len(payload))
	}

	data, err := os.ReadFile(filepath.Join(dest, "server.jar"))
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != payload {
		t.Errorf("file content mismatch")
	}
	if _, err := os.Stat(filepath.Join(dest, "server.jar.part")); !os.IsNotExist(err) {
		t.Errorf("partial file left behind")
	}
}

func TestEnqueueRecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	svc, _ := newTestService(t)
	job, err := svc.Enqueue(srv.URL+"/missing.jar", "missing.jar")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	svc.Wait()

	got, err := svc.Get(job.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != StatusFailed {
		t.Fatalf("status = %q, want failed", got.Status)
	}
	if !strings.Contains(got.Error, "404") {
		t.Errorf("error = %q, want status mention", got.Error)
	}
}

func TestEnqueueRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Enqueue("", ""); err == nil {
		t.Errorf("empty url accepted")
	}
	if _, err := svc.Enqueue("https://example.com/", ""); err == nil {
		t.Errorf("url without filename accepted")
	}
}

func TestListNewestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	svc, _ := newTestService(t)
	first, err := svc.Enqueue(srv.URL+"/a.jar", "")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	svc.Wait()
	time.Sleep(1100 * time.Millisecond) // created_at has second resolution
	second, err := svc.Enqueue(srv.URL+"/b.jar", "")
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	svc.Wait()

	jobs, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].ID != second.ID || jobs[1].ID != first.ID {
		t.Errorf("order = %s, %s; want %s, %s", jobs[0].ID, jobs[1].ID, second.ID, first.ID)
	}
}
