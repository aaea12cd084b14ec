package redisx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const pending = "pending"

// ErrInFlight is returned when another request with the same key has
// claimed it and not finished yet.
var ErrInFlight = errors.New("idempotency key in flight")

// Idempotency records which order a client-supplied key produced.
type Idempotency struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotency(rdb *redis.Client, ttl time.Duration) *Idempotency {
	if ttl <= 0 {
		ttl = TTLIdempotency
	}
	return &Idempotency{rdb: rdb, ttl: ttl}
}

// Claim reserves key for userID. When the key already produced an order its
// id is returned with claimed=false.
func (i *Idempotency) Claim(ctx context.Context, userID int64, key string) (orderID int64, claimed bool, err error) {
	k := fmt.Sprintf(KeyIdemOrderCreate, userID, key)
	ok, err := i.rdb.SetNX(ctx, k, pending, i.ttl).Result()
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, true, nil
	}
	v, err := i.rdb.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat as in flight and let the client retry
		return 0, false, ErrInFlight
	}
	if err != nil {
		return 0, false, err
	}
	if v == pending {
		return 0, false, ErrInFlight
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("idempotency value %q: %w", v, err)
	}
	return id, false, nil
}

// Complete stores the order produced by a claimed key.
func (i *Idempotency) Complete(ctx context.Context, userID int64, key string, orderID int64) error {
	k := fmt.Sprintf(KeyIdemOrderCreate, userID, key)
	return i.rdb.Set(ctx, k, strconv.FormatInt(orderID, 10), i.ttl).Err()
}

// Release drops a claim whose request failed so the key can be retried.
func (i *Idempotency) Release(ctx context.Context, userID int64, key string) error {
	return i.rdb.Del(ctx, fmt.Sprintf(KeyIdemOrderCreate, userID, key)).Err()
}
