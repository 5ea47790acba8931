package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Key         string
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	InStock     bool
	StockCount  *int
}

type campaignSeed struct {
	Title       string
	Description string
	GoalCents   int64
}

func intPtr(v int) *int { return &v }

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Key:         "club-shirt",
			SKU:         "SKU-CLUB-SHIRT",
			Name:        "Club T-Shirt",
			Description: "Soft cotton tee with the club crest",
			PriceCents:  1999,
			Currency:    "USD",
			InStock:     true,
			StockCount:  intPtr(25),
		},
		{
			Key:         "club-mug",
			SKU:         "SKU-CLUB-MUG",
			Name:        "Club Mug",
			Description: "Ceramic mug, untracked stock",
			PriceCents:  1299,
			Currency:    "USD",
			InStock:     true,
		},
		{
			Key:         "event-poster",
			SKU:         "SKU-EVENT-POSTER",
			Name:        "Event Poster",
			Description: "Limited print run",
			PriceCents:  2499,
			Currency:    "USD",
			InStock:     true,
			StockCount:  intPtr(5),
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	campaigns := []campaignSeed{
		{
			Title:       "Community Kitchen",
			Description: "Warm meals for the neighbourhood",
			GoalCents:   500000,
		},
		{
			Title:       "Youth Sports Fund",
			Description: "Equipment and travel for the juniors",
			GoalCents:   250000,
		},
	}

	for _, c := range campaigns {
		if err := ensureCampaign(ctx, pool, c); err != nil {
			return fmt.Errorf("ensure campaign %s: %w", c.Title, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (key, sku, name, description, price_cents, currency, in_stock, stock_count)
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)
ON CONFLICT (key) DO UPDATE SET
    sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    currency = EXCLUDED.currency,
    in_stock = EXCLUDED.in_stock,
    stock_count = EXCLUDED.stock_count
`
	_, err := pool.Exec(ctx, q, p.Key, p.SKU, p.Name, p.Description, p.PriceCents, p.Currency, p.InStock, p.StockCount)
	return err
}

func ensureCampaign(ctx context.Context, pool *pgxpool.Pool, c campaignSeed) error {
	const exists = `SELECT count(*) FROM campaigns WHERE title = $1`
	var n int
	if err := pool.QueryRow(ctx, exists, c.Title).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	const insert = `
INSERT INTO campaigns (title, description, goal_cents)
VALUES ($1, NULLIF($2, ''), $3)
`
	_, err := pool.Exec(ctx, insert, c.Title, c.Description, c.GoalCents)
	return err
}
