package service

import (
	"context"
	"errors"
	"log/slog"

	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthService interface {
	LoginURL(state string) (string, error)
	LoginCallback(ctx context.Context, code string) (*models.User, *oauth2.Token, error)
}

type authService struct {
	oauth2Config *oauth2.Config
	u            repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	endpoint := google.Endpoint
	if cfg.Identity.AuthURL != "" && cfg.Identity.TokenURL != "" {
		endpoint = oauth2.Endpoint{AuthURL: cfg.Identity.AuthURL, TokenURL: cfg.Identity.TokenURL}
	}
	return &authService{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.Identity.ClientID,
			ClientSecret: cfg.Identity.ClientSecret,
			RedirectURL:  cfg.Identity.RedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoint,
		},
		u: u,
	}
}

func (s *authService) configured() error {
	c := s.oauth2Config
	if c.ClientID == "" || c.ClientSecret == "" || c.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *authService) LoginURL(state string) (string, error) {
	if err := s.configured(); err != nil {
		return "", err
	}
	return s.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (s *authService) LoginCallback(ctx context.Context, code string) (*models.User, *oauth2.Token, error) {
	if code == "" {
		err := models.NewValidationError("code", "code or state is empty")
		slog.Info(err.Error())
		return nil, nil, err
	}
	if err := s.configured(); err != nil {
		return nil, nil, err
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, err
	}

	user, err := s.u.GetByToken(ctx, token.AccessToken)
	if err != nil {
		slog.Info(err.Error())
		return nil, nil, err
	}
	if user.ID == "" {
		return nil, nil, errors.New("identity provider returned no user id")
	}
	return user, token, nil
}
