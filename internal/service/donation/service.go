package donation

import (
	"context"
	"fmt"
	"strings"

	"communityshop/internal/domain"
	campaignrepo "communityshop/internal/repository/campaign"
	donationrepo "communityshop/internal/repository/donation"
)

type Service struct {
	repo      donationRepo
	campaigns campaignRepo
}

type donationRepo interface {
	Create(ctx context.Context, in donationrepo.CreateDonationInput) (*domain.Donation, error)
	Update(ctx context.Context, id string, in donationrepo.UpdateDonationInput) (*domain.Donation, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Donation, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error)
}

type campaignRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
}

func New(repo donationrepo.Repository, campaigns campaignrepo.Repository) *Service {
	return &Service{repo: repo, campaigns: campaigns}
}

type RecordInput struct {
	UserID      *string `json:"userId,omitempty"`
	AmountCents int64   `json:"amountCents"`
	Currency    string  `json:"currency,omitempty"`
	Anonymous   bool    `json:"anonymous"`
	Message     string  `json:"message,omitempty"`
}

// Record validates the campaign and amount, then persists the donation and
// the campaign's raised delta as one logical step.
func (s *Service) Record(ctx context.Context, campaignID string, in RecordInput) (*domain.Donation, error) {
	if strings.TrimSpace(campaignID) == "" {
		return nil, fmt.Errorf("%w: campaign required", domain.ErrInvalidInput)
	}
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}

	return s.repo.Create(ctx, donationrepo.CreateDonationInput{
		CampaignID:  campaignID,
		UserID:      in.UserID,
		AmountCents: in.AmountCents,
		Currency:    currency,
		Anonymous:   in.Anonymous,
		Message:     strings.TrimSpace(in.Message),
	})
}

type UpdateInput struct {
	CampaignID  *string `json:"campaignId,omitempty"`
	AmountCents *int64  `json:"amountCents,omitempty"`
	Anonymous   *bool   `json:"anonymous,omitempty"`
	Message     *string `json:"message,omitempty"`
}

// Update edits a donation; amount and campaign changes carry their
// compensating deltas into the store within one transaction.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Donation, error) {
	if in.AmountCents != nil && *in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}
	if in.CampaignID != nil {
		if strings.TrimSpace(*in.CampaignID) == "" {
			return nil, fmt.Errorf("%w: campaign required", domain.ErrInvalidInput)
		}
		if _, err := s.campaigns.GetByID(ctx, *in.CampaignID); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, donationrepo.UpdateDonationInput{
		CampaignID:  in.CampaignID,
		AmountCents: in.AmountCents,
		Anonymous:   in.Anonymous,
		Message:     in.Message,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Donation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListByCampaign(ctx, campaignID)
}

func (s *Service) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.List(ctx)
}
