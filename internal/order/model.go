package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Status    Status          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	Lines     []Line          `json:"lines,omitempty"` // not loaded on list pages
	Billing   Address         `json:"billing_address"`
	Delivery  Address         `json:"delivery_address"`
}

// Line is a reserved quantity of one listing. UnitPrice is a snapshot taken
// at creation and never follows later listing price changes.
type Line struct {
	ListingID int64           `json:"listing_id"`
	Name      string          `json:"name"`
	Version   string          `json:"version"`
	Condition *string         `json:"condition,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums unit price times quantity over lines.
func Total(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

type Address struct {
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Complement   *string `json:"complement,omitempty"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Country      string  `json:"country"`
	ZipCode      string  `json:"zip_code"`
	IsBilling    bool    `json:"is_billing_address"`
	IsDelivery   bool    `json:"is_delivery_address"`
}

// Result is what create and cancel hand back to the caller.
type Result struct {
	OrderID int64  `json:"order_id"`
	Status  Status `json:"status"`
}

func (o *Order) Result() Result { return Result{OrderID: o.ID, Status: o.Status} }

func (o *Order) clone() *Order {
	cp := *o
	cp.Lines = append([]Line(nil), o.Lines...)
	return &cp
}
