package redisx

import "time"

const (
	// idem:order:create:{user_id}:{key} -> order_id, or "pending" while in flight
	KeyIdemOrderCreate = "idem:order:create:%d:%s"

	// order_status:{order_id} -> status
	KeyOrderStatus = "order_status:%d"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
)
