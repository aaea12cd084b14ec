package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("listing not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)

// Listing is a priced, quantity-tracked print of either a catalog product or
// a card. Exactly one of ProductID and CardID is set.
type Listing struct {
	ID        int64           `json:"id"`
	ProductID *int64          `json:"product_id,omitempty"`
	CardID    *int64          `json:"card_id,omitempty"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	Condition *string         `json:"condition,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// StockError reports a reservation that asked for more than is available.
type StockError struct {
	ListingID int64
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for listing %d: requested %d, available %d",
		e.ListingID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }

type Query struct {
	Q      string
	Limit  int
	Offset int
}

// Normalized applies the default page size and a non-negative offset.
func (q Query) Normalized() Query {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error code
	// example: not_found
	Error string `json:"error"`
	Msg   string `json:"msg,omitempty"`
}

// ListResponse represents the paginated response of listings.
// swagger:model
type ListResponse struct {
	Q      string    `json:"q,omitempty"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Items  []Listing `json:"items"`
}

// UpdatePriceRequest payload of an admin price change.
// swagger:model UpdatePriceRequest
type UpdatePriceRequest struct {
	Price string `json:"price" validate:"required,money" example:"31.50"`
}
