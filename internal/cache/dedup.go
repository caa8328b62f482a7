package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper remembers inbound provider message ids for a window so webhook
// redeliveries do not double-fire customer actions.
type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(addr, password string, db int, ttl time.Duration) *Deduper {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Deduper{rdb: rdb, ttl: ttl}
}

func (d *Deduper) Close() error {
	return d.rdb.Close()
}

// Seen marks id as processed and reports whether it had been seen before.
func (d *Deduper) Seen(ctx context.Context, id string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, "wamid:"+id, 1, d.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
