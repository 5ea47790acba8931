package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with struct-level checks registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})
	return v
}

// checkoutStructValidation holds checkout totals to their arithmetic
// identity; a mismatch fails closed before anything is written.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)
	if req.TotalCents != req.SubtotalCents+req.ShippingCents+req.TaxCents {
		sl.ReportError(req.TotalCents, "totalCents", "TotalCents", "totals_consistent", "")
	}
}
