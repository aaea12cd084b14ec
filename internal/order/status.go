package order

type Status string

const (
	StatusPendingPayment   Status = "PENDING_PAYMENT"
	StatusPaymentConfirmed Status = "PAYMENT_CONFIRMED"
	StatusConfirmed        Status = "CONFIRMED"
	StatusProcessing       Status = "PROCESSING"
	StatusShipped          Status = "SHIPPED"
	StatusDelivered        Status = "DELIVERED"
	StatusCanceled         Status = "CANCELED"
)

// validNext lists the transitions this package is allowed to perform.
// Everything but CANCELED may be canceled; CANCELED is terminal.
var validNext = map[Status]map[Status]bool{
	StatusPendingPayment:   {StatusCanceled: true},
	StatusPaymentConfirmed: {StatusCanceled: true},
	StatusConfirmed:        {StatusCanceled: true},
	StatusProcessing:       {StatusCanceled: true},
	StatusShipped:          {StatusCanceled: true},
	StatusDelivered:        {StatusCanceled: true},
	StatusCanceled:         {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}
