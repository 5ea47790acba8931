package order

import (
	"context"
	"errors"
	"io"
	"log"

	"communityshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const orderColumns = `id::text, order_number, owner_id, status, subtotal_cents, shipping_cents, tax_cents, total_cents, shipping_address, billing_address, COALESCE(payment_method, ''), COALESCE(payment_reference, ''), created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (order_number, owner_id, status, subtotal_cents, shipping_cents, tax_cents, total_cents,
                    shipping_address, billing_address, payment_method, payment_reference)
VALUES ($1, $2, 'PENDING', $3, $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
RETURNING ` + orderColumns + `
`
	ord, err := scanOrder(tx.QueryRow(ctx, insertOrder,
		in.OrderNumber,
		in.OwnerID,
		in.SubtotalCents,
		in.ShippingCents,
		in.TaxCents,
		in.TotalCents,
		in.ShippingAddress,
		in.BillingAddress,
		in.PaymentMethod,
		in.PaymentReference,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Printf("order repo: payment_reference=%s already recorded", in.PaymentReference)
			return nil, domain.ErrConflict
		}
		return nil, err
	}

	for _, line := range in.Lines {
		const insertLine = `
INSERT INTO order_lines (order_id, product_id, quantity, unit_price_cents, size, color)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text, created_at
`
		out := domain.OrderLine{
			OrderID:        ord.ID,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Size:           line.Size,
			Color:          line.Color,
		}
		if err := tx.QueryRow(ctx, insertLine,
			ord.ID, line.ProductID, line.Quantity, line.UnitPriceCents, line.Size, line.Color,
		).Scan(&out.ID, &out.CreatedAt); err != nil {
			return nil, err
		}
		ord.Lines = append(ord.Lines, out)

		if !line.StockTracked {
			continue
		}
		// The stock re-check and decrement happen atomically with the order
		// insert; two checkouts racing over the last units cannot both land.
		const decrement = `
UPDATE products
SET stock_count = stock_count - $2,
    in_stock = (stock_count - $2) > 0
WHERE id = $1 AND stock_count >= $2
`
		cmd, err := tx.Exec(ctx, decrement, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			r.logger.Printf("order repo: stock exceeded product_id=%s qty=%d", line.ProductID, line.Quantity)
			return nil, domain.ErrStockExceeded
		}
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s number=%s lines=%d", ord.ID, ord.OrderNumber, len(ord.Lines))
	return ord, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *postgresRepo) GetByPaymentReference(ctx context.Context, ref string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_reference = $1`, ref)
}

func (r *postgresRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE owner_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $2
WHERE id = $1
RETURNING ` + orderColumns + `
`
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return ord, nil
}

func (r *postgresRepo) fetchOrder(ctx context.Context, q string, arg string) (*domain.Order, error) {
	ord, err := scanOrder(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQuery = `
SELECT id::text, order_id::text, product_id::text, quantity, unit_price_cents, size, color, created_at
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, ord.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.Quantity,
			&line.UnitPriceCents,
			&line.Size,
			&line.Color,
			&line.CreatedAt,
		); err != nil {
			return nil, err
		}
		ord.Lines = append(ord.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ord, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var ord domain.Order
	if err := row.Scan(
		&ord.ID,
		&ord.OrderNumber,
		&ord.OwnerID,
		&ord.Status,
		&ord.SubtotalCents,
		&ord.ShippingCents,
		&ord.TaxCents,
		&ord.TotalCents,
		&ord.ShippingAddress,
		&ord.BillingAddress,
		&ord.PaymentMethod,
		&ord.PaymentReference,
		&ord.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ord, nil
}
