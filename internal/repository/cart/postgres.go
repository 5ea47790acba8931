package cart

import (
	"context"
	"errors"

	"communityshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const lineColumns = `id::text, owner_key, product_id::text, size, color, quantity, created_at, updated_at`

func (r *postgresRepo) AddLine(ctx context.Context, key LineKey, quantity int) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (owner_key, product_id, size, color, quantity)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (owner_key, product_id, size, color) DO UPDATE SET
    quantity = cart_lines.quantity + EXCLUDED.quantity,
    updated_at = now()
RETURNING ` + lineColumns + `
`
	return r.scanLine(r.pool.QueryRow(ctx, q, key.OwnerKey, key.ProductID, key.Size, key.Color, quantity))
}

func (r *postgresRepo) SetQuantity(ctx context.Context, key LineKey, quantity int) (*domain.CartLine, error) {
	const q = `
UPDATE cart_lines
SET quantity = $5, updated_at = now()
WHERE owner_key = $1 AND product_id = $2 AND size = $3 AND color = $4
RETURNING ` + lineColumns + `
`
	line, err := r.scanLine(r.pool.QueryRow(ctx, q, key.OwnerKey, key.ProductID, key.Size, key.Color, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, key LineKey) error {
	const q = `
DELETE FROM cart_lines
WHERE owner_key = $1 AND product_id = $2 AND size = $3 AND color = $4
`
	cmd, err := r.pool.Exec(ctx, q, key.OwnerKey, key.ProductID, key.Size, key.Color)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) GetLine(ctx context.Context, key LineKey) (*domain.CartLine, error) {
	const q = `
SELECT ` + lineColumns + `
FROM cart_lines
WHERE owner_key = $1 AND product_id = $2 AND size = $3 AND color = $4
`
	line, err := r.scanLine(r.pool.QueryRow(ctx, q, key.OwnerKey, key.ProductID, key.Size, key.Color))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) GetByOwner(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	const q = `
SELECT l.id::text, l.owner_key, l.product_id::text, l.size, l.color, l.quantity,
       p.price_cents, l.created_at, l.updated_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.owner_key = $1
ORDER BY l.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, ownerKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &domain.Cart{OwnerKey: ownerKey, Lines: []domain.CartLine{}}
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.OwnerKey,
			&line.ProductID,
			&line.Size,
			&line.Color,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.CreatedAt,
			&line.UpdatedAt,
		); err != nil {
			return nil, err
		}
		line.TotalCents = line.UnitPriceCents * int64(line.Quantity)
		cart.TotalCents += line.TotalCents
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) Clear(ctx context.Context, ownerKey string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE owner_key = $1`, ownerKey)
	return err
}

func (r *postgresRepo) scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	if err := row.Scan(
		&line.ID,
		&line.OwnerKey,
		&line.ProductID,
		&line.Size,
		&line.Color,
		&line.Quantity,
		&line.CreatedAt,
		&line.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &line, nil
}
