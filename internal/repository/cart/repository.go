package cart

import (
	"context"

	"communityshop/internal/domain"
)

// LineKey identifies one cart line: the full variant tuple. Size and color
// are "" for variant-free lines so they merge with each other only.
type LineKey struct {
	OwnerKey  string
	ProductID string
	Size      string
	Color     string
}

type Repository interface {
	// AddLine merges quantity onto an existing line for the same key or
	// inserts a new one. The store itself enforces at most one line per key.
	AddLine(ctx context.Context, key LineKey, quantity int) (*domain.CartLine, error)
	// SetQuantity replaces the line's quantity. Returns domain.ErrNotFound
	// when no line matches the key.
	SetQuantity(ctx context.Context, key LineKey, quantity int) (*domain.CartLine, error)
	// RemoveLine deletes the line. Returns domain.ErrNotFound when nothing
	// matched; callers may ignore that to stay idempotent.
	RemoveLine(ctx context.Context, key LineKey) error
	GetLine(ctx context.Context, key LineKey) (*domain.CartLine, error)
	GetByOwner(ctx context.Context, ownerKey string) (*domain.Cart, error)
	// Clear removes every line held for the owner.
	Clear(ctx context.Context, ownerKey string) error
}
