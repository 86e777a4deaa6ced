package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/craftdeck/craftdeck/internal/console"
)

func TestStateWithoutProcess(t *testing.T) {
	hub := console.NewHub(16)
	sup := console.New(hub.Publish)
	h := NewControlHandler(sup, nil, hub)

	rec := httptest.NewRecorder()
	h.State(rec, httptest.NewRequest(http.MethodGet, "/server/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var st stateResponse
	if err := json.NewDecoder(rec.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.State != "no_process" {
		t.Errorf("state = %q, want no_process", st.State)
	}
	if st.Pid != 0 || st.RestartPending {
		t.Errorf("unexpected pid/restart fields: %+v", st)
	}
}

func TestCommandRequiresBody(t *testing.T) {
	hub := console.NewHub(16)
	sup := console.New(hub.Publish)
	h := NewControlHandler(sup, nil, hub)

	rec := httptest.NewRecorder()
	h.Command(rec, httptest.NewRequest(http.MethodPost, "/server/command", strings.NewReader(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty command status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Command(rec, httptest.NewRequest(http.MethodPost, "/server/command", strings.NewReader(`{"bogus":1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", rec.Code)
	}
}
