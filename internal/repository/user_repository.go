package repository

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
)

// UserRepository resolves the remote user for an identity-provider token.
type UserRepository interface {
	GetByToken(ctx context.Context, accessToken string) (*models.User, error)
}

type userRepository struct {
	api *remote.Client
}

func NewUserRepository(api *remote.Client) UserRepository {
	return &userRepository{api: api}
}

func (r *userRepository) GetByToken(ctx context.Context, accessToken string) (*models.User, error) {
	info, err := r.api.Me(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &models.User{
		ID:             info.ID,
		Email:          info.Email,
		Name:           info.Name,
		ProfilePicture: info.ProfilePicture,
	}, nil
}
