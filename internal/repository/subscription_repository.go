package repository

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

type SubscriptionRepository interface {
	GetByUser(ctx context.Context, cred session.Credential) (*models.Subscription, error)
}

type subscriptionRepository struct {
	api *remote.Client
}

func NewSubscriptionRepository(api *remote.Client) SubscriptionRepository {
	return &subscriptionRepository{api: api}
}

func (r *subscriptionRepository) GetByUser(ctx context.Context, cred session.Credential) (*models.Subscription, error) {
	status, err := r.api.Subscription(ctx, cred)
	if err != nil {
		return nil, err
	}
	return &models.Subscription{Active: status.Active, Capabilities: status.Capabilities}, nil
}
