package order

import (
	"errors"

	"github.com/MikeMC777/cardstore/internal/inventory"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("order does not belong to caller")
	ErrInvalidState = errors.New("invalid order state")
	// ErrInvalidRequest covers empty, non-positive or duplicated lines.
	ErrInvalidRequest = errors.New("invalid order request")

	// ErrInsufficientStock is shared with inventory so *inventory.StockError
	// matches it directly.
	ErrInsufficientStock = inventory.ErrInsufficientStock

	// ErrStatusMismatch is returned by stores when a conditional status
	// update finds a different prior status than expected.
	ErrStatusMismatch = errors.New("order status changed concurrently")
)
