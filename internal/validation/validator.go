package validation

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// New returns a validator with the custom rules used by request payloads.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// money: a non-negative decimal string with at most two fraction digits.
	_ = v.RegisterValidation("money", validateMoney)
	return v
}

func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Equal(d.Round(2))
}
