package order

import (
	"context"
	"time"

	"github.com/MikeMC777/cardstore/internal/inventory"
)

// TxTimeout bounds one unit of work, lock waits included.
const TxTimeout = 5 * time.Second

// Store persists order aggregates. InTx runs fn as one all-or-nothing unit:
// if fn returns an error nothing it did through Tx remains applied. fn must
// use the ctx it is given; it expires after TxTimeout.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Get(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Order, error)
}

// Tx is the view of the store inside a unit of work.
type Tx interface {
	// Reserve atomically decrements a listing if enough stock is available.
	Reserve(ctx context.Context, listingID int64, qty int) (*inventory.Listing, error)
	// Release increments a listing unconditionally.
	Release(ctx context.Context, listingID int64, qty int) error
	// InsertOrder writes the aggregate and sets o.ID.
	InsertOrder(ctx context.Context, o *Order) error
	// LockOrder loads an order and holds it exclusively until the unit of work ends.
	LockOrder(ctx context.Context, id int64) (*Order, error)
	// UpdateStatus moves an order from one status to another, failing with
	// ErrStatusMismatch if the current status is not from.
	UpdateStatus(ctx context.Context, id int64, from, to Status) error
}

// ClampPage applies the default page size of 20 to missing or out of range limits.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
