package order

import (
	"context"
	"errors"
	"os"
	"testing"

	"communityshop/internal/domain"
	"communityshop/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_CreateDecrementsTrackedStock(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	stock := 5
	productID := insertProduct(ctx, t, pool, "shirt", 1000, &stock)
	repo := NewPostgres(pool, nil)

	ord, err := repo.Create(ctx, createInput("ord-1", "u1", "ref-1", CreateOrderLine{
		ProductID: productID, Quantity: 3, UnitPriceCents: 1000, StockTracked: true,
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ord.Status != domain.OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", ord.Status)
	}
	if len(ord.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(ord.Lines))
	}

	var stockCount int
	var inStock bool
	if err := pool.QueryRow(ctx, `SELECT stock_count, in_stock FROM products WHERE id = $1`, productID).Scan(&stockCount, &inStock); err != nil {
		t.Fatalf("read product: %v", err)
	}
	if stockCount != 2 || !inStock {
		t.Fatalf("expected stock 2 in_stock=true, got %d %v", stockCount, inStock)
	}
}

func TestPostgres_CreateDrainsStockToZero(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	stock := 2
	productID := insertProduct(ctx, t, pool, "poster", 500, &stock)
	repo := NewPostgres(pool, nil)

	if _, err := repo.Create(ctx, createInput("ord-1", "u1", "ref-1", CreateOrderLine{
		ProductID: productID, Quantity: 2, UnitPriceCents: 500, StockTracked: true,
	})); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var stockCount int
	var inStock bool
	if err := pool.QueryRow(ctx, `SELECT stock_count, in_stock FROM products WHERE id = $1`, productID).Scan(&stockCount, &inStock); err != nil {
		t.Fatalf("read product: %v", err)
	}
	if stockCount != 0 || inStock {
		t.Fatalf("expected stock 0 in_stock=false, got %d %v", stockCount, inStock)
	}
}

func TestPostgres_CreateRefusesOversell(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	stock := 1
	productID := insertProduct(ctx, t, pool, "poster", 500, &stock)
	repo := NewPostgres(pool, nil)

	_, err := repo.Create(ctx, createInput("ord-1", "u1", "ref-1", CreateOrderLine{
		ProductID: productID, Quantity: 2, UnitPriceCents: 500, StockTracked: true,
	}))
	if !errors.Is(err, domain.ErrStockExceeded) {
		t.Fatalf("expected stock exceeded, got %v", err)
	}

	// The whole transaction must roll back: no order, stock untouched.
	var orderCount int
	if err := pool.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&orderCount); err != nil {
		t.Fatalf("count orders: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no orders after rollback, got %d", orderCount)
	}
	var stockCount int
	if err := pool.QueryRow(ctx, `SELECT stock_count FROM products WHERE id = $1`, productID).Scan(&stockCount); err != nil {
		t.Fatalf("read product: %v", err)
	}
	if stockCount != 1 {
		t.Fatalf("expected stock untouched at 1, got %d", stockCount)
	}
}

func TestPostgres_CreateDuplicatePaymentReference(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "shirt", 1000, nil)
	repo := NewPostgres(pool, nil)
	line := CreateOrderLine{ProductID: productID, Quantity: 1, UnitPriceCents: 1000}

	first, err := repo.Create(ctx, createInput("ord-1", "u1", "ref-dup", line))
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err = repo.Create(ctx, createInput("ord-2", "u1", "ref-dup", line))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate reference, got %v", err)
	}

	winner, err := repo.GetByPaymentReference(ctx, "ref-dup")
	if err != nil {
		t.Fatalf("GetByPaymentReference: %v", err)
	}
	if winner.ID != first.ID {
		t.Fatalf("expected first order to hold the reference")
	}
}

func TestPostgres_EmptyReferenceNotUnique(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "shirt", 1000, nil)
	repo := NewPostgres(pool, nil)
	line := CreateOrderLine{ProductID: productID, Quantity: 1, UnitPriceCents: 1000}

	// Orders without a payment reference never collide with each other.
	if _, err := repo.Create(ctx, createInput("ord-1", "u1", "", line)); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := repo.Create(ctx, createInput("ord-2", "u1", "", line)); err != nil {
		t.Fatalf("second Create: %v", err)
	}
}

func TestPostgres_GetByIDLoadsLinesAndAddresses(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "shirt", 1000, nil)
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, createInput("ord-1", "u1", "ref-1", CreateOrderLine{
		ProductID: productID, Quantity: 2, UnitPriceCents: 1000, Size: "M",
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	fetched, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Lines) != 1 || fetched.Lines[0].Size != "M" {
		t.Fatalf("unexpected lines %+v", fetched.Lines)
	}
	if fetched.ShippingAddress.City != "Townsville" {
		t.Fatalf("address round trip failed: %+v", fetched.ShippingAddress)
	}
	if fetched.PaymentReference != "ref-1" {
		t.Fatalf("unexpected reference %q", fetched.PaymentReference)
	}
}

func TestPostgres_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "shirt", 1000, nil)
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, createInput("ord-1", "u1", "ref-1", CreateOrderLine{
		ProductID: productID, Quantity: 1, UnitPriceCents: 1000,
	}))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := repo.UpdateStatus(ctx, created.ID, domain.OrderStatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.OrderStatusShipped {
		t.Fatalf("expected SHIPPED, got %s", updated.Status)
	}
	if _, err := repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", domain.OrderStatusShipped); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func createInput(number, owner, ref string, lines ...CreateOrderLine) CreateOrderInput {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.UnitPriceCents * int64(line.Quantity)
	}
	addr := domain.Address{FullName: "A B", StreetName: "1 Main St", City: "Townsville", PostalCode: "12345", Country: "US"}
	return CreateOrderInput{
		OrderNumber:      number,
		OwnerID:          owner,
		SubtotalCents:    subtotal,
		TotalCents:       subtotal,
		ShippingAddress:  addr,
		BillingAddress:   addr,
		PaymentMethod:    "card",
		PaymentReference: ref,
		Lines:            lines,
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE cart_lines, order_lines, orders, donations, campaigns, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, key string, priceCents int64, stock *int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (key, sku, name, price_cents, stock_count)
VALUES ($1, $1 || '-sku', $1, $2, $3)
RETURNING id::text
`, key, priceCents, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}
