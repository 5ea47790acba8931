package order

import (
	"context"

	"communityshop/internal/domain"
)

type CreateOrderInput struct {
	OrderNumber      string
	OwnerID          string
	SubtotalCents    int64
	ShippingCents    int64
	TaxCents         int64
	TotalCents       int64
	ShippingAddress  domain.Address
	BillingAddress   domain.Address
	PaymentMethod    string
	PaymentReference string
	Lines            []CreateOrderLine
}

type CreateOrderLine struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	Size           string
	Color          string
	// StockTracked marks lines whose product stock must be decremented
	// inside the creating transaction.
	StockTracked bool
}

type Repository interface {
	// Create persists the order, its lines, and the stock decrement for every
	// tracked line as a single transaction. Returns domain.ErrConflict when
	// the payment reference is already recorded and domain.ErrStockExceeded
	// when any tracked decrement cannot be satisfied.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByPaymentReference(ctx context.Context, ref string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
