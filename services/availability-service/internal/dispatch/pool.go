package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/speakoai/availability/services/availability-service/internal/horizon"
)

var ErrQueueFull = errors.New("dispatch queue is full")

// Runner executes one availability run.
type Runner interface {
	Run(ctx context.Context, req horizon.Request) horizon.Result
}

type PoolConfig struct {
	Workers   int
	QueueSize int
	// Runs receives run state changes when set.
	Runs RunStore
	Now  func() time.Time
}

// Pool runs submitted requests on a fixed number of workers. Runs share no
// state, so any number of them may execute at once.
type Pool struct {
	runner  Runner
	logger  *slog.Logger
	queue   chan horizon.Request
	workers int
	runs    RunStore
	now     func() time.Time
}

func NewPool(runner Runner, logger *slog.Logger, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pool{
		runner:  runner,
		logger:  logger,
		queue:   make(chan horizon.Request, cfg.QueueSize),
		workers: cfg.Workers,
		runs:    cfg.Runs,
		now:     cfg.Now,
	}
}

// Submit queues req without blocking and returns its run id.
func (p *Pool) Submit(ctx context.Context, req horizon.Request) (string, error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	// Recorded before enqueueing so a fast worker never gets overwritten.
	p.track(ctx, newRunRecord(req, RunPending, p.now()))
	select {
	case p.queue <- req:
		return req.RunID, nil
	default:
		p.logger.Warn("dispatch queue full", "run_id", req.RunID, "tenant_id", req.TenantID, "location_id", req.LocationID)
		rec := newRunRecord(req, string(horizon.StatusFailed), p.now())
		rec.Ready = true
		rec.Reason = "queue_full"
		p.track(ctx, rec)
		return "", ErrQueueFull
	}
}

// Run blocks until ctx is done and every worker has returned. Requests still
// queued at shutdown are dropped.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx)
		}()
	}
	wg.Wait()
	if n := len(p.queue); n > 0 {
		p.logger.Warn("dispatch stopped with queued runs", "dropped", n)
	}
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.queue:
			if ctx.Err() != nil {
				return
			}
			p.track(ctx, newRunRecord(req, RunRunning, p.now()))
			res := p.runner.Run(ctx, req)
			p.track(ctx, finishedRunRecord(req, res, p.now()))
		}
	}
}
