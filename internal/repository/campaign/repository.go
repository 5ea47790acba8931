package campaign

import (
	"context"

	"communityshop/internal/domain"
)

type CreateCampaignInput struct {
	Title       string
	Description string
	GoalCents   int64
}

type Repository interface {
	Create(ctx context.Context, in CreateCampaignInput) (*domain.Campaign, error)
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
}
