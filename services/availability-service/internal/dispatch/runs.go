package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/speakoai/availability/services/availability-service/internal/horizon"
)

const (
	RunPending = "pending"
	RunRunning = "running"
)

// RunRecord is the externally visible state of a submitted run.
type RunRecord struct {
	RunID        string `json:"run_id"`
	Status       string `json:"status"`
	Ready        bool   `json:"ready"`
	Reason       string `json:"reason,omitempty"`
	Error        string `json:"error,omitempty"`
	Chunks       int    `json:"chunks"`
	Kind         string `json:"kind"`
	TenantID     int64  `json:"tenant_id"`
	LocationID   int64  `json:"location_id"`
	AffectedDate string `json:"affected_date,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

// RunStore persists run records by id.
type RunStore interface {
	PutRun(ctx context.Context, runID string, raw []byte) error
}

func newRunRecord(req horizon.Request, status string, now time.Time) RunRecord {
	return RunRecord{
		RunID:        req.RunID,
		Status:       status,
		Kind:         req.Kind,
		TenantID:     req.TenantID,
		LocationID:   req.LocationID,
		AffectedDate: req.AffectedDate,
		UpdatedAt:    now.UTC().Format(time.RFC3339),
	}
}

func finishedRunRecord(req horizon.Request, res horizon.Result, now time.Time) RunRecord {
	rec := newRunRecord(req, string(res.Status), now)
	rec.Ready = true
	rec.Reason = string(res.Reason)
	rec.Chunks = res.Chunks
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	return rec
}

func (p *Pool) track(ctx context.Context, rec RunRecord) {
	if p.runs == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		p.logger.Error("encode run record failed", "err", err, "run_id", rec.RunID)
		return
	}
	if err := p.runs.PutRun(ctx, rec.RunID, raw); err != nil {
		p.logger.Warn("run record not saved", "err", err, "run_id", rec.RunID, "status", rec.Status)
	}
}
