package horizon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/speakoai/availability/services/availability-service/internal/availability"
)

// Cache is the key-value store chunks are published to.
type Cache interface {
	Set(ctx context.Context, key string, value []byte) error
	// Delete reports whether the key existed.
	Delete(ctx context.Context, key string) (bool, error)
}

type Publisher struct {
	cache  Cache
	logger *slog.Logger
}

func NewPublisher(cache Cache, logger *slog.Logger) *Publisher {
	return &Publisher{cache: cache, logger: logger}
}

// Publish writes payload under the chunk key of start. With rolling set it then
// retires the chunk that started one day earlier, which is what yesterday's
// full run wrote for the same position.
func (p *Publisher) Publish(ctx context.Context, start time.Time, payload availability.ChunkPayload, rolling bool) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode chunk: %w", err)
	}
	key := availability.ChunkKey(payload.TenantID, payload.LocationID, start)
	if err := p.cache.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	p.logger.Debug("chunk written", "key", key, "bytes", len(raw))

	if !rolling {
		return nil
	}
	prev := availability.ChunkKey(payload.TenantID, payload.LocationID, availability.AddDays(start, -1))
	deleted, err := p.cache.Delete(ctx, prev)
	if err != nil {
		return fmt.Errorf("delete %s: %w", prev, err)
	}
	p.logger.Debug("previous chunk retired", "key", prev, "existed", deleted)
	return nil
}
