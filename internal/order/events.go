package order

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
	EventOrderCanceled  = "OrderCanceled"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type LineQty struct {
	ListingID int64 `json:"listing_id"`
	Quantity  int   `json:"quantity"`
}

type OrderEventPayload struct {
	OrderID int64     `json:"order_id"`
	UserID  int64     `json:"user_id"`
	Status  Status    `json:"status"`
	Total   string    `json:"total"`
	Lines   []LineQty `json:"lines"`
}

func (o *Order) EventPayload() OrderEventPayload {
	lines := make([]LineQty, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, LineQty{ListingID: l.ListingID, Quantity: l.Quantity})
	}
	return OrderEventPayload{
		OrderID: o.ID,
		UserID:  o.UserID,
		Status:  o.Status,
		Total:   o.Total.StringFixed(2),
		Lines:   lines,
	}
}

// PartitionKey keeps every event of one order on the same partition.
func PartitionKey(orderID int64) []byte { return []byte(strconv.FormatInt(orderID, 10)) }
