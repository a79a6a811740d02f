package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

type UserService interface {
	GetUserInfo(ctx context.Context, cred session.Credential) (*models.User, error)
	Collections(ctx context.Context, cred session.Credential) ([]*models.Collection, error)
}

type userService struct {
	u repository.UserRepository
	c repository.CollectionRepository
}

func NewUserService(u repository.UserRepository, c repository.CollectionRepository) UserService {
	return &userService{
		u: u,
		c: c,
	}
}

func (s *userService) GetUserInfo(ctx context.Context, cred session.Credential) (*models.User, error) {
	tok, err := cred.Token()
	if err != nil {
		return nil, err
	}
	user, err := s.u.GetByToken(ctx, tok.AccessToken)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *userService) Collections(ctx context.Context, cred session.Credential) ([]*models.Collection, error) {
	collections, err := s.c.List(ctx, cred)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return collections, nil
}
