package donation

import (
	"context"

	"communityshop/internal/domain"
)

type CreateDonationInput struct {
	CampaignID  string
	UserID      *string
	AmountCents int64
	Currency    string
	Anonymous   bool
	Message     string
}

// UpdateDonationInput carries optional changes; nil fields are left as-is.
type UpdateDonationInput struct {
	CampaignID  *string
	AmountCents *int64
	Anonymous   *bool
	Message     *string
}

type Repository interface {
	// Create inserts the donation and applies +amount to the campaign's
	// raised total in the same transaction.
	Create(ctx context.Context, in CreateDonationInput) (*domain.Donation, error)
	// Update locks the donation row, then applies the compensating deltas to
	// the old and (possibly different) new campaign alongside the row update.
	Update(ctx context.Context, id string, in UpdateDonationInput) (*domain.Donation, error)
	// Delete applies -amount to the owning campaign and removes the row,
	// atomically.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error)
}
