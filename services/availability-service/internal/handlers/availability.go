package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/speakoai/availability/services/availability-service/internal/availability"
	"github.com/speakoai/availability/services/availability-service/internal/dispatch"
	"github.com/speakoai/availability/services/availability-service/internal/horizon"
)

type Enqueuer interface {
	Submit(ctx context.Context, req horizon.Request) (string, error)
}

type ChunkReader interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

type RunReader interface {
	GetRun(ctx context.Context, runID string) ([]byte, bool, error)
}

type AvailabilityHandler struct {
	queue  Enqueuer
	chunks ChunkReader
	runs   RunReader
	logger *slog.Logger
}

func NewAvailabilityHandler(queue Enqueuer, chunks ChunkReader, runs RunReader, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{queue: queue, chunks: chunks, runs: runs, logger: logger}
}

// numericID accepts both 35 and "35".
type numericID struct {
	value int64
	set   bool
}

func (n *numericID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	n.value, n.set = v, true
	return nil
}

type generateRequest struct {
	TenantID     numericID `json:"tenant_id"`
	LocationID   numericID `json:"location_id"`
	LocationTZ   string    `json:"location_tz"`
	AffectedDate *string   `json:"affected_date"`
}

type generateResponse struct {
	RunID          string `json:"run_id"`
	Status         string `json:"status"`
	Message        string `json:"message"`
	TenantID       int64  `json:"tenant_id"`
	LocationID     int64  `json:"location_id"`
	IsRegeneration bool   `json:"is_regeneration"`
}

type errorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

func (h *AvailabilityHandler) Generate(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, horizon.KindStaff, "Availability generation task started")
}

func (h *AvailabilityHandler) GenerateVenue(w http.ResponseWriter, r *http.Request) {
	h.generate(w, r, horizon.KindVenue, "Venue availability generation task started")
}

func (h *AvailabilityHandler) generate(w http.ResponseWriter, r *http.Request, kind, message string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON payload required"})
		return
	}
	req.LocationTZ = strings.TrimSpace(req.LocationTZ)

	var missing []string
	if !req.TenantID.set {
		missing = append(missing, "tenant_id")
	}
	if !req.LocationID.set {
		missing = append(missing, "location_id")
	}
	if req.LocationTZ == "" {
		missing = append(missing, "location_tz")
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Missing required fields", MissingFields: missing})
		return
	}
	if _, err := time.LoadLocation(req.LocationTZ); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid location_tz"})
		return
	}

	var affected string
	if req.AffectedDate != nil {
		affected = strings.TrimSpace(*req.AffectedDate)
		if _, err := availability.ParseAffectedDate(affected, time.UTC); affected == "" || err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid affected_date"})
			return
		}
	}

	runReq := horizon.Request{
		Kind:         kind,
		TenantID:     req.TenantID.value,
		LocationID:   req.LocationID.value,
		Timezone:     req.LocationTZ,
		AffectedDate: affected,
	}
	runID, err := h.queue.Submit(r.Context(), runReq)
	if err != nil {
		if errors.Is(err, dispatch.ErrQueueFull) {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "too many pending runs, retry later"})
			return
		}
		h.logger.Error("submit run failed", "err", err, "tenant_id", runReq.TenantID, "location_id", runReq.LocationID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusAccepted, generateResponse{
		RunID:          runID,
		Status:         dispatch.RunPending,
		Message:        message,
		TenantID:       runReq.TenantID,
		LocationID:     runReq.LocationID,
		IsRegeneration: runReq.Regen(),
	})
}

// Chunk returns a published chunk exactly as stored.
func (h *AvailabilityHandler) Chunk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	q := r.URL.Query()
	tenantID, err1 := strconv.ParseInt(q.Get("tenant_id"), 10, 64)
	locationID, err2 := strconv.ParseInt(q.Get("location_id"), 10, 64)
	start, err3 := time.Parse(time.DateOnly, q.Get("start_date"))
	if err1 != nil || err2 != nil || err3 != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tenant_id, location_id and start_date (YYYY-MM-DD) are required"})
		return
	}

	key := availability.ChunkKey(tenantID, locationID, start)
	raw, found, err := h.chunks.Get(r.Context(), key)
	if err != nil {
		h.logger.Error("chunk read failed", "err", err, "key", key)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "cache unavailable"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "chunk not found"})
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

// Run reports the state of a submitted run.
func (h *AvailabilityHandler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
	if runID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "run_id is required"})
		return
	}
	raw, found, err := h.runs.GetRun(r.Context(), runID)
	if err != nil {
		h.logger.Error("run read failed", "err", err, "run_id", runID)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "cache unavailable"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
		return
	}
	writeRaw(w, http.StatusOK, raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, status int, raw []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}
