package horizon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Request asks for one location's availability to be recomputed.
type Request struct {
	RunID      string
	Kind       string
	TenantID   int64
	LocationID int64
	Timezone   string
	// AffectedDate selects regen mode when set (YYYY-MM-DD or RFC 3339).
	AffectedDate string
}

func (r Request) Regen() bool {
	return strings.TrimSpace(r.AffectedDate) != ""
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

type Reason string

const (
	ReasonNone                Reason = ""
	ReasonPastDate            Reason = "past_date"
	ReasonUnknownKind         Reason = "unknown_kind"
	ReasonInvalidTimezone     Reason = "invalid_timezone"
	ReasonInvalidAffectedDate Reason = "invalid_affected_date"
	ReasonSource              Reason = "source_error"
	ReasonCache               Reason = "cache_error"
	ReasonPanic               Reason = "panic"
)

// Result is the outcome of a run. Runs never return errors to the caller; a
// failure is reported here and logged.
type Result struct {
	RunID    string
	Status   Status
	Reason   Reason
	Chunks   int
	Duration time.Duration
	Err      error
}

type DriverConfig struct {
	// Now is the wall clock used to find "today". Defaults to time.Now.
	Now func() time.Time
}

type Driver struct {
	kinds     map[string]Kind
	loc       LocationSource
	publisher *Publisher
	logger    *slog.Logger
	now       func() time.Time
	tracer    trace.Tracer
}

func NewDriver(loc LocationSource, publisher *Publisher, logger *slog.Logger, cfg DriverConfig, kinds ...Kind) *Driver {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	d := &Driver{
		kinds:     make(map[string]Kind, len(kinds)),
		loc:       loc,
		publisher: publisher,
		logger:    logger,
		now:       cfg.Now,
		tracer:    otel.Tracer("availability"),
	}
	for _, k := range kinds {
		d.kinds[k.Name] = k
	}
	return d
}

// Run computes and publishes the requested window. Chunks already published
// stay in place when a later chunk fails.
func (d *Driver) Run(ctx context.Context, req Request) (res Result) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	started := time.Now()
	logger := d.logger.With(
		"run_id", req.RunID,
		"kind", req.Kind,
		"tenant_id", req.TenantID,
		"location_id", req.LocationID,
		"regen", req.Regen(),
	)
	ctx, span := d.tracer.Start(ctx, "availability.run", trace.WithAttributes(
		attribute.String("availability.kind", req.Kind),
		attribute.Int64("availability.tenant_id", req.TenantID),
		attribute.Int64("availability.location_id", req.LocationID),
		attribute.Bool("availability.regen", req.Regen()),
	))

	var published int
	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: StatusFailed, Reason: ReasonPanic, Chunks: published, Err: fmt.Errorf("panic: %v", r)}
			logger.Error("availability run panicked", "panic", r, "stack", string(debug.Stack()))
		}
		res.RunID = req.RunID
		res.Duration = time.Since(started)

		span.SetAttributes(
			attribute.String("availability.status", string(res.Status)),
			attribute.Int("availability.chunks", res.Chunks),
		)
		switch res.Status {
		case StatusFailed:
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, string(res.Reason))
			logger.Error("availability run failed", "reason", res.Reason, "err", res.Err, "chunks", res.Chunks, "duration_ms", res.Duration.Milliseconds())
		case StatusSkipped:
			logger.Info("availability run skipped", "reason", res.Reason, "affected_date", req.AffectedDate)
		default:
			logger.Info("availability run finished", "chunks", res.Chunks, "duration_ms", res.Duration.Milliseconds())
		}
		span.End()
	}()

	return d.run(ctx, req, logger, &published)
}

// run counts each published chunk in published so a recovered panic can
// still report it.
func (d *Driver) run(ctx context.Context, req Request, logger *slog.Logger, published *int) Result {
	kind, ok := d.kinds[req.Kind]
	if !ok {
		return failed(ReasonUnknownKind, fmt.Errorf("unknown resource kind %q", req.Kind))
	}
	if strings.TrimSpace(req.Timezone) == "" {
		return failed(ReasonInvalidTimezone, errors.New("timezone is required"))
	}
	loc, err := time.LoadLocation(req.Timezone)
	if err != nil {
		return failed(ReasonInvalidTimezone, err)
	}

	today := availability.Midnight(d.now(), loc)
	var affected *time.Time
	if req.Regen() {
		a, err := availability.ParseAffectedDate(req.AffectedDate, loc)
		if err != nil {
			return failed(ReasonInvalidAffectedDate, err)
		}
		affected = &a
	}
	window, ok := availability.PlanWindow(today, affected)
	if !ok {
		return Result{Status: StatusSkipped, Reason: ReasonPastDate}
	}
	if window.Regen {
		logger.Info("regenerating chunk", "chunk_start", availability.DateString(window.Start), "affected_date", req.AffectedDate)
	} else {
		logger.Info("generating full horizon", "start", availability.DateString(window.Start), "days", window.Days)
	}

	cat, err := loadCatalog(ctx, kind, d.loc, req.TenantID, req.LocationID)
	if err != nil {
		return failed(ReasonSource, err)
	}
	builder := dayBuilder{
		kind:       kind,
		loc:        d.loc,
		catalog:    cat,
		tenantID:   req.TenantID,
		locationID: req.LocationID,
	}

	for _, chunk := range window.Chunks() {
		reason, err := d.runChunk(ctx, builder, req, chunk, !window.Regen)
		if err != nil {
			out := failed(reason, err)
			out.Chunks = *published
			return out
		}
		*published++
	}
	return Result{Status: StatusSuccess, Chunks: *published}
}

func (d *Driver) runChunk(ctx context.Context, b dayBuilder, req Request, chunk availability.Chunk, rolling bool) (Reason, error) {
	ctx, span := d.tracer.Start(ctx, "availability.chunk", trace.WithAttributes(
		attribute.String("availability.chunk_start", availability.DateString(chunk.Start)),
	))
	defer span.End()

	payload := availability.ChunkPayload{
		TenantID:       req.TenantID,
		LocationID:     req.LocationID,
		Services:       b.catalog.services,
		ZoneTags:       b.catalog.zoneTags,
		Availabilities: make([]availability.DayRecord, 0, len(chunk.Dates)),
	}
	if payload.Services == nil {
		payload.Services = []availability.Service{}
	}
	for _, date := range chunk.Dates {
		rec, err := b.build(ctx, date)
		if err != nil {
			span.RecordError(err)
			return ReasonSource, fmt.Errorf("build %s: %w", availability.DateString(date), err)
		}
		payload.Availabilities = append(payload.Availabilities, rec)
	}
	if err := d.publisher.Publish(ctx, chunk.Start, payload, rolling); err != nil {
		span.RecordError(err)
		return ReasonCache, err
	}
	return ReasonNone, nil
}

func failed(reason Reason, err error) Result {
	return Result{Status: StatusFailed, Reason: reason, Err: err}
}
