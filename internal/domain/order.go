package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the known fulfillment states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Address is carried verbatim on the order; the core does not interpret it.
type Address struct {
	FullName   string `json:"fullName,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Order is the durable record of a completed purchase and the system of
// record for fulfillment. PaymentReference is unique across all orders; it is
// the sole idempotency key guarding against duplicate processor callbacks.
type Order struct {
	ID               string      `json:"id"`
	OrderNumber      string      `json:"orderNumber"`
	OwnerID          string      `json:"ownerId"`
	Status           OrderStatus `json:"status"`
	SubtotalCents    int64       `json:"subtotalCents"`
	ShippingCents    int64       `json:"shippingCents"`
	TaxCents         int64       `json:"taxCents"`
	TotalCents       int64       `json:"totalCents"`
	ShippingAddress  Address     `json:"shippingAddress"`
	BillingAddress   Address     `json:"billingAddress"`
	PaymentMethod    string      `json:"paymentMethod,omitempty"`
	PaymentReference string      `json:"paymentReference,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	Lines            []OrderLine `json:"lines,omitempty"`
}

// OrderLine snapshots the unit price at order-creation time so historical
// orders are immune to later catalog price changes.
type OrderLine struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	ProductID      string    `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Size           string    `json:"size,omitempty"`
	Color          string    `json:"color,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
