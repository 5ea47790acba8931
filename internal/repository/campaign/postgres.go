package campaign

import (
	"context"
	"errors"

	"communityshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignColumns = `id::text, title, COALESCE(description, ''), goal_cents, raised_cents, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error) {
	const q = `
INSERT INTO campaigns (title, description, goal_cents)
VALUES ($1, NULLIF($2, ''), $3)
RETURNING ` + campaignColumns + `
`
	return scanCampaign(r.pool.QueryRow(ctx, q, in.Title, in.Description, in.GoalCents))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	const q = `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	c, err := scanCampaign(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Campaign, error) {
	const q = `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.GoalCents, &c.RaisedCents, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
