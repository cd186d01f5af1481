package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Runs keeps run status records for a limited time.
type Runs struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRuns(rdb *redis.Client, ttl time.Duration) *Runs {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Runs{rdb: rdb, ttl: ttl}
}

func runKey(runID string) string {
	return "availability:run:" + runID
}

func (r *Runs) PutRun(ctx context.Context, runID string, raw []byte) error {
	return r.rdb.Set(ctx, runKey(runID), raw, r.ttl).Err()
}

func (r *Runs) GetRun(ctx context.Context, runID string) ([]byte, bool, error) {
	raw, err := r.rdb.Get(ctx, runKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}
