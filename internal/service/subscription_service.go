package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

// SubscriptionService answers yes or no per capability; billing itself lives elsewhere.
type SubscriptionService interface {
	Status(ctx context.Context, cred session.Credential) (*models.Subscription, error)
	Require(ctx context.Context, cred session.Credential, capability string) error
}

type subscriptionService struct {
	s repository.SubscriptionRepository
}

func NewSubscriptionService(s repository.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{s: s}
}

func (s *subscriptionService) Status(ctx context.Context, cred session.Credential) (*models.Subscription, error) {
	sub, err := s.s.GetByUser(ctx, cred)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return sub, nil
}

func (s *subscriptionService) Require(ctx context.Context, cred session.Credential, capability string) error {
	sub, err := s.Status(ctx, cred)
	if err != nil {
		return err
	}
	if !sub.Allows(capability) {
		return fmt.Errorf("%w: %s", models.ErrCapabilityDenied, capability)
	}
	return nil
}
