package domain

import "time"

type Product struct {
	ID          string                 `json:"id"`
	Key         string                 `json:"key"`
	SKU         string                 `json:"sku"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	PriceCents  int64                  `json:"priceCents"`
	Currency    string                 `json:"currency"`
	InStock     bool                   `json:"inStock"`
	StockCount  *int                   `json:"stockCount,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// StockTracked reports whether the catalog tracks a finite stock count for
// this product. An absent count means unlimited availability.
func (p Product) StockTracked() bool {
	return p.StockCount != nil
}
