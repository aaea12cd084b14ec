package order

// CreateOrderItem payload of one requested line.
// swagger:model CreateOrderItem
type CreateOrderItem struct {
	ListingID int64 `json:"listing_id" validate:"required,gt=0" example:"4"`
	Quantity  int   `json:"quantity"   validate:"required,gt=0" example:"2"`
}

// AddressInput is caller-supplied address data. The billing/delivery role is
// assigned by the service, not by the caller.
// swagger:model AddressInput
type AddressInput struct {
	Street       string  `json:"street"       validate:"required,max=120" example:"Rua das Flores"`
	Number       string  `json:"number"       validate:"required,max=20" example:"42"`
	Complement   *string `json:"complement,omitempty" validate:"omitempty,max=120"`
	Neighborhood string  `json:"neighborhood" validate:"required,max=80" example:"Centro"`
	City         string  `json:"city"         validate:"required,max=80" example:"Curitiba"`
	State        string  `json:"state"        validate:"required,max=80" example:"PR"`
	Country      string  `json:"country"      validate:"required,max=80" example:"Brasil"`
	ZipCode      string  `json:"zip_code"     validate:"required,max=20" example:"80010-000"`
}

// CreateOrderRequest payload of order creation.
// swagger:model CreateOrderRequest
type CreateOrderRequest struct {
	Items           []CreateOrderItem `json:"items" validate:"required,min=1,unique=ListingID,dive"`
	BillingAddress  AddressInput      `json:"billing_address"`
	DeliveryAddress AddressInput      `json:"delivery_address"`
}

func (a AddressInput) toAddress(billing bool) Address {
	return Address{
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		ZipCode:      a.ZipCode,
		IsBilling:    billing,
		IsDelivery:   !billing,
	}
}

// ListResponse is the page returned by the list endpoint.
// swagger:model OrderListResponse
type ListResponse struct {
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Items  []Order `json:"items"`
}
