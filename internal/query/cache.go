package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vinayn0707/showtime-reservations/internal/model"
)

// Cache is a thin read-through wrapper over redis for GetBooking, mirroring
// the teacher's own "return nil and degrade gracefully" contract in
// internal/config/redis.go: a nil *redis.Client makes every method here a
// no-op rather than an error.
type Cache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewCache(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	if prefix == "" {
		prefix = "booking:"
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{Client: client, Prefix: prefix, TTL: ttl}
}

func (c *Cache) key(bookingID uint64) string {
	return fmt.Sprintf("%s%d", c.Prefix, bookingID)
}

func (c *Cache) Get(ctx context.Context, bookingID uint64) (model.Booking, bool) {
	if c == nil || c.Client == nil {
		return model.Booking{}, false
	}
	raw, err := c.Client.Get(ctx, c.key(bookingID)).Bytes()
	if err != nil {
		return model.Booking{}, false
	}
	var b model.Booking
	if err := json.Unmarshal(raw, &b); err != nil {
		return model.Booking{}, false
	}
	return b, true
}

func (c *Cache) Set(ctx context.Context, b model.Booking) {
	if c == nil || c.Client == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	_ = c.Client.SetEx(ctx, c.key(b.ID), raw, c.TTL).Err()
}

func (c *Cache) Invalidate(ctx context.Context, bookingID uint64) {
	if c == nil || c.Client == nil {
		return
	}
	_ = c.Client.Del(ctx, c.key(bookingID)).Err()
}
