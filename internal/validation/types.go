package validation

import "communityshop/internal/domain"

type Address struct {
	FullName   string `json:"fullName"`
	StreetName string `json:"streetName" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country" validate:"required"`
	Phone      string `json:"phone"`
}

func (a Address) ToDomain() domain.Address {
	return domain.Address{
		FullName:   a.FullName,
		StreetName: a.StreetName,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

type CheckoutLine struct {
	ProductID      string `json:"productId" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents int64  `json:"unitPriceCents" validate:"gte=0"`
	Size           string `json:"size"`
	Color          string `json:"color"`
}

// CheckoutRequest is a direct cart checkout: the caller supplies line prices
// and totals, and the struct-level validation holds them to
// total = subtotal + shipping + tax.
type CheckoutRequest struct {
	Lines           []CheckoutLine `json:"lines" validate:"required,min=1,dive"`
	ShippingAddress Address        `json:"shippingAddress" validate:"required"`
	BillingAddress  Address        `json:"billingAddress" validate:"required"`
	SubtotalCents   int64          `json:"subtotalCents" validate:"gte=0"`
	ShippingCents   int64          `json:"shippingCents" validate:"gte=0"`
	TaxCents        int64          `json:"taxCents" validate:"gte=0"`
	TotalCents      int64          `json:"totalCents" validate:"gte=0"`
}

// VerifySessionRequest carries the card-processor session reference a
// returning shopper presents.
type VerifySessionRequest struct {
	SessionRef string `json:"sessionRef" validate:"required"`
}

// CaptureRequest is the alternative-processor callback payload. Line prices,
// if present, are ignored downstream; the catalog is authoritative.
type CaptureRequest struct {
	ProcessorOrderID string         `json:"processorOrderId" validate:"required"`
	Lines            []CheckoutLine `json:"lines" validate:"required,min=1,dive"`
	ShippingAddress  Address        `json:"shippingAddress" validate:"required"`
	BillingAddress   Address        `json:"billingAddress" validate:"required"`
	ShippingCents    int64          `json:"shippingCents" validate:"gte=0"`
	TaxCents         int64          `json:"taxCents" validate:"gte=0"`
}
