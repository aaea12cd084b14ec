package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatusEntry is the cached view of an order's status. UserID is kept so
// readers can enforce ownership without a database round trip.
type StatusEntry struct {
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusCache keeps the last known status of each order.
type StatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStatusCache(rdb *redis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = TTLStatusCache
	}
	return &StatusCache{rdb: rdb, ttl: ttl}
}

// Get returns ok=false on a cache miss.
func (c *StatusCache) Get(ctx context.Context, orderID int64) (StatusEntry, bool, error) {
	var e StatusEntry
	b, err := c.rdb.Get(ctx, fmt.Sprintf(KeyOrderStatus, orderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return e, false, fmt.Errorf("decode status entry: %w", err)
	}
	return e, true, nil
}

// Set overwrites the entry. Writers call it after committing a status change.
func (c *StatusCache) Set(ctx context.Context, orderID int64, e StatusEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, fmt.Sprintf(KeyOrderStatus, orderID), b, c.ttl).Err()
}

// Fill stores the entry only if the key is absent. Readers filling a miss use
// it so a value read before a concurrent write cannot replace that write.
func (c *StatusCache) Fill(ctx context.Context, orderID int64, e StatusEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return c.rdb.SetNX(ctx, fmt.Sprintf(KeyOrderStatus, orderID), b, c.ttl).Err()
}
