package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Inbox remembers consumed event ids for a while so redelivered events are
// processed once.
type Inbox struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

func NewInbox(rdb *redis.Client, ttl time.Duration) *Inbox {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Inbox{rdb: rdb, ttl: ttl, prefix: "availability:inbox"}
}

// Record reports true the first time eventID is seen within the TTL.
func (i *Inbox) Record(ctx context.Context, eventID string, eventType string) (bool, error) {
	return i.rdb.SetNX(ctx, i.prefix+":"+eventID, eventType, i.ttl).Result()
}
