package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"communityshop/internal/domain"
	cartrepo "communityshop/internal/repository/cart"
)

type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	AddLine(ctx context.Context, key cartrepo.LineKey, quantity int) (*domain.CartLine, error)
	SetQuantity(ctx context.Context, key cartrepo.LineKey, quantity int) (*domain.CartLine, error)
	RemoveLine(ctx context.Context, key cartrepo.LineKey) error
	GetLine(ctx context.Context, key cartrepo.LineKey) (*domain.CartLine, error)
	GetByOwner(ctx context.Context, ownerKey string) (*domain.Cart, error)
	Clear(ctx context.Context, ownerKey string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartrepo.Repository, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

type LineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

func (in LineInput) key(ownerKey string) cartrepo.LineKey {
	return cartrepo.LineKey{
		OwnerKey:  ownerKey,
		ProductID: strings.TrimSpace(in.ProductID),
		Size:      strings.TrimSpace(in.Size),
		Color:     strings.TrimSpace(in.Color),
	}
}

// Add merges the requested quantity onto the owner's line for the same
// variant tuple, guarding against the catalog's availability and tracked
// stock. Stock is only checked here, never reserved; checkout re-checks it
// inside the order transaction.
func (s *Service) Add(ctx context.Context, ownerKey string, in LineInput) (*domain.CartLine, error) {
	if strings.TrimSpace(ownerKey) == "" {
		return nil, fmt.Errorf("%w: owner required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	key := in.key(ownerKey)
	existing := 0
	if line, err := s.repo.GetLine(ctx, key); err == nil {
		existing = line.Quantity
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := checkStock(product, existing+in.Quantity); err != nil {
		return nil, err
	}

	return s.repo.AddLine(ctx, key, in.Quantity)
}

// SetQuantity replaces the line's quantity; zero or less is defined as
// remove. Positive quantities are re-validated against stock exactly as Add.
func (s *Service) SetQuantity(ctx context.Context, ownerKey string, in LineInput) (*domain.CartLine, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	key := in.key(ownerKey)
	if in.Quantity <= 0 {
		if err := s.repo.RemoveLine(ctx, key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	product, err := s.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if err := checkStock(product, in.Quantity); err != nil {
		return nil, err
	}

	return s.repo.SetQuantity(ctx, key, in.Quantity)
}

func (s *Service) Remove(ctx context.Context, ownerKey string, in LineInput) error {
	if strings.TrimSpace(in.ProductID) == "" {
		return fmt.Errorf("%w: productId required", domain.ErrInvalidInput)
	}
	return s.repo.RemoveLine(ctx, in.key(ownerKey))
}

func (s *Service) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	return s.repo.GetByOwner(ctx, ownerKey)
}

func (s *Service) Clear(ctx context.Context, ownerKey string) error {
	return s.repo.Clear(ctx, ownerKey)
}

func checkStock(product *domain.Product, desired int) error {
	if !product.InStock {
		return domain.ErrOutOfStock
	}
	if product.StockTracked() && desired > *product.StockCount {
		return domain.ErrStockExceeded
	}
	return nil
}
