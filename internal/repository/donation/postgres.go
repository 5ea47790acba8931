package donation

import (
	"context"
	"errors"

	"communityshop/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationColumns = `id::text, campaign_id::text, user_id, amount_cents, currency, anonymous, COALESCE(message, ''), created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateDonationInput) (*domain.Donation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insert = `
INSERT INTO donations (campaign_id, user_id, amount_cents, currency, anonymous, message)
VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
RETURNING ` + donationColumns + `
`
	d, err := scanDonation(tx.QueryRow(ctx, insert,
		in.CampaignID, in.UserID, in.AmountCents, in.Currency, in.Anonymous, in.Message))
	if err != nil {
		return nil, err
	}

	// Relative increment: concurrent donations to the same campaign both
	// land instead of one losing the read-modify-write.
	if err := adjustRaised(ctx, tx, in.CampaignID, in.AmountCents); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateDonationInput) (*domain.Donation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the row so the deltas are computed against the state this
	// transaction will replace, never against a stale read.
	const lock = `
SELECT ` + donationColumns + `
FROM donations
WHERE id = $1
FOR UPDATE
`
	current, err := scanDonation(tx.QueryRow(ctx, lock, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	next := *current
	if in.CampaignID != nil {
		next.CampaignID = *in.CampaignID
	}
	if in.AmountCents != nil {
		next.AmountCents = *in.AmountCents
	}
	if in.Anonymous != nil {
		next.Anonymous = *in.Anonymous
	}
	if in.Message != nil {
		next.Message = *in.Message
	}

	const update = `
UPDATE donations
SET campaign_id = $2, amount_cents = $3, anonymous = $4, message = NULLIF($5, '')
WHERE id = $1
RETURNING ` + donationColumns + `
`
	updated, err := scanDonation(tx.QueryRow(ctx, update,
		id, next.CampaignID, next.AmountCents, next.Anonymous, next.Message))
	if err != nil {
		return nil, err
	}

	if next.CampaignID == current.CampaignID {
		if delta := next.AmountCents - current.AmountCents; delta != 0 {
			if err := adjustRaised(ctx, tx, current.CampaignID, delta); err != nil {
				return nil, err
			}
		}
	} else {
		if err := adjustRaised(ctx, tx, current.CampaignID, -current.AmountCents); err != nil {
			return nil, err
		}
		if err := adjustRaised(ctx, tx, next.CampaignID, next.AmountCents); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const del = `
DELETE FROM donations
WHERE id = $1
RETURNING campaign_id::text, amount_cents
`
	var campaignID string
	var amount int64
	if err := tx.QueryRow(ctx, del, id).Scan(&campaignID, &amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if err := adjustRaised(ctx, tx, campaignID, -amount); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	const q = `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	d, err := scanDonation(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *postgresRepo) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	const q = `
SELECT ` + donationColumns + `
FROM donations
WHERE campaign_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func adjustRaised(ctx context.Context, tx pgx.Tx, campaignID string, delta int64) error {
	cmd, err := tx.Exec(ctx, `
UPDATE campaigns
SET raised_cents = raised_cents + $2
WHERE id = $1
`, campaignID, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	if err := row.Scan(
		&d.ID,
		&d.CampaignID,
		&d.UserID,
		&d.AmountCents,
		&d.Currency,
		&d.Anonymous,
		&d.Message,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
