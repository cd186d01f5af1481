package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/speakoai/availability/services/availability-service/internal/horizon"
)

// Submitter accepts runs for asynchronous execution.
type Submitter interface {
	Submit(ctx context.Context, req horizon.Request) (string, error)
}

type NightlyConfig struct {
	// Schedule is a standard five-field cron expression. Defaults to hourly.
	Schedule string
	Now      func() time.Time
}

// Nightly submits a full refresh for every roster location that has just
// reached local midnight. It should tick once an hour so every zone is
// visited at its own midnight.
type Nightly struct {
	roster    Roster
	submitter Submitter
	logger    *slog.Logger
	schedule  string
	now       func() time.Time
}

func NewNightly(roster Roster, submitter Submitter, logger *slog.Logger, cfg NightlyConfig) (*Nightly, error) {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 * * * *"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("nightly schedule %q: %w", cfg.Schedule, err)
	}
	return &Nightly{
		roster:    roster,
		submitter: submitter,
		logger:    logger,
		schedule:  cfg.Schedule,
		now:       cfg.Now,
	}, nil
}

// Run schedules the sweep and blocks until ctx is done.
func (n *Nightly) Run(ctx context.Context) {
	c := cron.New()
	if _, err := c.AddFunc(n.schedule, func() { n.Sweep(ctx) }); err != nil {
		n.logger.Error("nightly schedule rejected", "err", err, "schedule", n.schedule)
		return
	}
	c.Start()
	n.logger.Info("nightly sweep scheduled", "schedule", n.schedule)

	<-ctx.Done()
	<-c.Stop().Done()
}

// Sweep submits full runs for the locations currently in their midnight hour
// and returns how many were queued.
func (n *Nightly) Sweep(ctx context.Context) int {
	entries, err := n.roster.Locations(ctx)
	if err != nil {
		n.logger.Error("roster lookup failed", "err", err)
		return 0
	}

	now := n.now()
	queued := 0
	for _, e := range entries {
		loc, err := time.LoadLocation(e.Timezone)
		if err != nil {
			n.logger.Warn("roster timezone invalid", "tenant_id", e.TenantID, "location_id", e.LocationID, "timezone", e.Timezone)
			continue
		}
		if now.In(loc).Hour() != 0 {
			continue
		}
		runID, err := n.submitter.Submit(ctx, horizon.Request{
			Kind:       e.Kind,
			TenantID:   e.TenantID,
			LocationID: e.LocationID,
			Timezone:   e.Timezone,
		})
		if err != nil {
			n.logger.Error("nightly submit failed", "err", err, "tenant_id", e.TenantID, "location_id", e.LocationID)
			continue
		}
		n.logger.Info("nightly run queued", "run_id", runID, "tenant_id", e.TenantID, "location_id", e.LocationID, "kind", e.Kind)
		queued++
	}
	return queued
}
