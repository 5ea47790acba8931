package order

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"communityshop/internal/domain"
	orderrepo "communityshop/internal/repository/order"
	"github.com/google/uuid"
)

type Service struct {
	repo     orderRepo
	products productRepo
	carts    cartClearer
	logger   *log.Logger
	now      func() time.Time
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	GetByPaymentReference(ctx context.Context, ref string) (*domain.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type cartClearer interface {
	Clear(ctx context.Context, ownerKey string) error
}

func New(repo orderrepo.Repository, products productRepo, carts cartClearer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, products: products, carts: carts, logger: logger, now: time.Now}
}

type LineInput struct {
	ProductID      string `json:"productId"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Size           string `json:"size,omitempty"`
	Color          string `json:"color,omitempty"`
}

type CreateInput struct {
	OwnerID          string
	Lines            []LineInput
	ShippingAddress  domain.Address
	BillingAddress   domain.Address
	SubtotalCents    int64
	ShippingCents    int64
	TaxCents         int64
	TotalCents       int64
	PaymentMethod    string
	PaymentReference string
}

// Create persists the order and its lines as one unit, decrementing tracked
// stock inside the same transaction, then clears the owner's cart. The clear
// is best-effort: a created order always outranks a failed cart clear.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	repoLines := make([]orderrepo.CreateOrderLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		repoLines = append(repoLines, orderrepo.CreateOrderLine{
			ProductID:      product.ID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Size:           strings.TrimSpace(line.Size),
			Color:          strings.TrimSpace(line.Color),
			StockTracked:   product.StockTracked(),
		})
	}

	ord, err := s.repo.Create(ctx, orderrepo.CreateOrderInput{
		OrderNumber:      s.newOrderNumber(),
		OwnerID:          in.OwnerID,
		SubtotalCents:    in.SubtotalCents,
		ShippingCents:    in.ShippingCents,
		TaxCents:         in.TaxCents,
		TotalCents:       in.TotalCents,
		ShippingAddress:  in.ShippingAddress,
		BillingAddress:   in.BillingAddress,
		PaymentMethod:    in.PaymentMethod,
		PaymentReference: in.PaymentReference,
		Lines:            repoLines,
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, in.OwnerID); err != nil {
		s.logger.Printf("order service: cart clear failed owner=%s order=%s error=%v", in.OwnerID, ord.ID, err)
	}
	return ord, nil
}

func (s *Service) validate(in CreateInput) error {
	if strings.TrimSpace(in.OwnerID) == "" {
		return fmt.Errorf("%w: owner required", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: at least one line required", domain.ErrInvalidInput)
	}
	for _, line := range in.Lines {
		if strings.TrimSpace(line.ProductID) == "" {
			return fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		if line.UnitPriceCents < 0 {
			return fmt.Errorf("%w: unit price must not be negative", domain.ErrInvalidInput)
		}
	}
	if in.ShippingAddress == (domain.Address{}) || in.BillingAddress == (domain.Address{}) {
		return fmt.Errorf("%w: shipping and billing addresses required", domain.ErrInvalidInput)
	}
	if in.SubtotalCents < 0 || in.ShippingCents < 0 || in.TaxCents < 0 || in.TotalCents < 0 {
		return fmt.Errorf("%w: totals must not be negative", domain.ErrInvalidInput)
	}
	if in.TotalCents != in.SubtotalCents+in.ShippingCents+in.TaxCents {
		return fmt.Errorf("%w: total must equal subtotal + shipping + tax", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (*domain.Order, error) {
	ord, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ord.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return ord, nil
}

func (s *Service) GetByPaymentReference(ctx context.Context, ref string) (*domain.Order, error) {
	return s.repo.GetByPaymentReference(ctx, ref)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) newOrderNumber() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CS-%s-%s", s.now().UTC().Format("20060102"), short)
}
