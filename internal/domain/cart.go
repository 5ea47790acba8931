package domain

import "time"

// Cart is the server-held pending selection for one owner. For signed-in
// shoppers the owner key is the identity provider's user id; anonymous
// devices keep their cart locally and only mint an owner token here.
type Cart struct {
	OwnerKey   string     `json:"ownerKey"`
	TotalCents int64      `json:"totalCents"`
	Lines      []CartLine `json:"lineItems"`
}

// CartLine holds one product variant in a cart. At most one line exists per
// (owner, product, size, color) tuple; adds onto an existing tuple merge by
// incrementing quantity. Size and color default to "" for variant-free lines.
type CartLine struct {
	ID             string    `json:"id"`
	OwnerKey       string    `json:"-"`
	ProductID      string    `json:"productId"`
	Size           string    `json:"size,omitempty"`
	Color          string    `json:"color,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
