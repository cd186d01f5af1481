package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/speakoai/availability/services/availability-service/internal/dispatch"
	"github.com/speakoai/availability/services/availability-service/internal/horizon"
)

type fakeQueue struct {
	reqs []horizon.Request
	err  error
}

func (f *fakeQueue) Submit(_ context.Context, req horizon.Request) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.reqs = append(f.reqs, req)
	return "run-123", nil
}

type fakeStore map[string][]byte

func (f fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := f[key]
	return v, ok, nil
}

func (f fakeStore) GetRun(_ context.Context, runID string) ([]byte, bool, error) {
	v, ok := f["run:"+runID]
	return v, ok, nil
}

func newTestHandler(queue *fakeQueue, store fakeStore) *AvailabilityHandler {
	return NewAvailabilityHandler(queue, store, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestGenerateVenueAccepted(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue, fakeStore{})

	body := `{"tenant_id":"2","location_id":35,"location_tz":"Australia/Sydney","affected_date":"2025-08-04"}`
	rec := httptest.NewRecorder()
	h.GenerateVenue(rec, httptest.NewRequest(http.MethodPost, "/v1/availability/generate-venue", strings.NewReader(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.RunID != "run-123" || resp.Status != "pending" || !resp.IsRegeneration || resp.TenantID != 2 || resp.LocationID != 35 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(queue.reqs) != 1 || queue.reqs[0].Kind != horizon.KindVenue || queue.reqs[0].AffectedDate != "2025-08-04" {
		t.Fatalf("unexpected submission %+v", queue.reqs)
	}
}

func TestGenerateFullRefresh(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue, fakeStore{})

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/v1/availability/generate",
		strings.NewReader(`{"tenant_id":1,"location_id":2,"location_tz":"America/New_York"}`)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if queue.reqs[0].Kind != horizon.KindStaff || queue.reqs[0].Regen() {
		t.Fatalf("expected full staff run, got %+v", queue.reqs[0])
	}
	if !strings.Contains(rec.Body.String(), `"is_regeneration":false`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestGenerateMissingFields(t *testing.T) {
	queue := &fakeQueue{}
	h := newTestHandler(queue, fakeStore{})

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/v1/availability/generate", strings.NewReader(`{"location_id":2}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(resp.MissingFields, ",") != "tenant_id,location_tz" {
		t.Fatalf("unexpected missing fields %v", resp.MissingFields)
	}
	if len(queue.reqs) != 0 {
		t.Fatalf("nothing should be queued")
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad json":     `{`,
		"bad timezone": `{"tenant_id":1,"location_id":2,"location_tz":"Mars/Olympus"}`,
		"bad date":     `{"tenant_id":1,"location_id":2,"location_tz":"UTC","affected_date":"tomorrow"}`,
		"blank date":   `{"tenant_id":1,"location_id":2,"location_tz":"UTC","affected_date":"  "}`,
		"empty date":   `{"tenant_id":1,"location_id":2,"location_tz":"UTC","affected_date":""}`,
	}
	for name, body := range cases {
		rec := httptest.NewRecorder()
		newTestHandler(&fakeQueue{}, fakeStore{}).Generate(rec, httptest.NewRequest(http.MethodPost, "/v1/availability/generate", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestGenerateQueueFull(t *testing.T) {
	h := newTestHandler(&fakeQueue{err: dispatch.ErrQueueFull}, fakeStore{})

	rec := httptest.NewRecorder()
	h.Generate(rec, httptest.NewRequest(http.MethodPost, "/v1/availability/generate",
		strings.NewReader(`{"tenant_id":1,"location_id":2,"location_tz":"UTC"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestGenerateMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&fakeQueue{}, fakeStore{}).Generate(rec, httptest.NewRequest(http.MethodGet, "/v1/availability/generate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestChunkLookup(t *testing.T) {
	store := fakeStore{
		"availability:tenant_2:location_35:start_date_2025-08-04": []byte(`{"tenant_id":2}`),
	}
	h := newTestHandler(&fakeQueue{}, store)

	rec := httptest.NewRecorder()
	h.Chunk(rec, httptest.NewRequest(http.MethodGet, "/v1/availability/chunk?tenant_id=2&location_id=35&start_date=2025-08-04", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != `{"tenant_id":2}` {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Chunk(rec, httptest.NewRequest(http.MethodGet, "/v1/availability/chunk?tenant_id=2&location_id=35&start_date=2025-08-05", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Chunk(rec, httptest.NewRequest(http.MethodGet, "/v1/availability/chunk?tenant_id=2", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRunLookup(t *testing.T) {
	store := fakeStore{"run:run-123": []byte(`{"run_id":"run-123","status":"success","ready":true}`)}
	h := newTestHandler(&fakeQueue{}, store)

	rec := httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodGet, "/v1/availability/runs?run_id=run-123", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"success"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.Run(rec, httptest.NewRequest(http.MethodGet, "/v1/availability/runs?run_id=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
