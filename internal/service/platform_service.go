package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

type ReauthMode string

const (
	ReauthTokenRefresh ReauthMode = "token_refresh"
	ReauthRedirect     ReauthMode = "redirect"
)

var reauthModes = map[models.Platform]ReauthMode{
	models.PlatformTwitter:   ReauthTokenRefresh,
	models.PlatformYoutube:   ReauthTokenRefresh,
	models.PlatformTiktok:    ReauthTokenRefresh,
	models.PlatformThreads:   ReauthRedirect,
	models.PlatformLinkedIn:  ReauthRedirect,
	models.PlatformInstagram: ReauthRedirect,
}

// ReauthModeFor reports how an account on platform gets back to active.
// A platform outside the table is an error, never a silent no-op.
func ReauthModeFor(platform models.Platform) (ReauthMode, error) {
	mode, ok := reauthModes[platform]
	if !ok {
		return "", fmt.Errorf("%w: no reauthorization flow for %s", models.ErrUnsupportedPlatform, platform)
	}
	return mode, nil
}

// ReauthResult holds either the refreshed account or the redirect the
// browser has to follow.
type ReauthResult struct {
	Mode        ReauthMode            `json:"mode"`
	Account     *models.SocialAccount `json:"account,omitempty"`
	RedirectURL string                `json:"redirect_url,omitempty"`
}

type PlatformService interface {
	List(ctx context.Context, cred session.Credential) ([]*models.SocialAccount, error)
	Find(ctx context.Context, cred session.Credential, accountID string) (*models.SocialAccount, error)
	Connect(ctx context.Context, cred session.Credential, platform models.Platform) (string, error)
	Reauthorize(ctx context.Context, cred session.Credential, acc *models.SocialAccount) (*ReauthResult, error)
	RequestDisconnect(ctx context.Context, cred session.Credential, accountID string) (*PendingAction, error)
	ConfirmDisconnect(ctx context.Context, cred session.Credential, token string) error
	CancelDisconnect(ctx context.Context, cred session.Credential, token string) error
}

type platformService struct {
	sa   repository.SocialAccountRepository
	gate *ConfirmGate
}

func NewPlatformService(sa repository.SocialAccountRepository, gate *ConfirmGate) PlatformService {
	return &platformService{
		sa:   sa,
		gate: gate,
	}
}

func (s *platformService) List(ctx context.Context, cred session.Credential) ([]*models.SocialAccount, error) {
	accounts, err := s.sa.ListByUserID(ctx, cred)
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *platformService) Find(ctx context.Context, cred session.Credential, accountID string) (*models.SocialAccount, error) {
	if accountID == "" {
		return nil, models.NewValidationError("account_id", "AccountID is not valid")
	}

	accounts, err := s.sa.ListByUserID(ctx, cred)
	if err != nil {
		return nil, err
	}

	acc := models.FindAccount(accounts, accountID)
	if acc == nil {
		slog.Info("social account not found", "account_id", accountID)
		return nil, models.ErrAccountNotFound
	}
	return acc, nil
}

func (s *platformService) Connect(ctx context.Context, cred session.Credential, platform models.Platform) (string, error) {
	if _, err := models.ParsePlatform(platform.String()); err != nil {
		return "", err
	}

	authURL, err := s.sa.ConnectURL(ctx, cred, platform)
	if err != nil {
		return "", err
	}
	if authURL == "" {
		return "", &models.RemoteError{Op: "connect account", Message: "Failed to connect account"}
	}
	return authURL, nil
}

func (s *platformService) Reauthorize(ctx context.Context, cred session.Credential, acc *models.SocialAccount) (*ReauthResult, error) {
	if acc == nil {
		return nil, models.ErrAccountNotFound
	}

	mode, err := ReauthModeFor(acc.Platform)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	switch mode {
	case ReauthTokenRefresh:
		updated, err := s.sa.RefreshToken(ctx, cred, acc)
		if err != nil {
			return nil, err
		}
		return &ReauthResult{Mode: mode, Account: updated}, nil

	case ReauthRedirect:
		authURL, err := s.Connect(ctx, cred, acc.Platform)
		if err != nil {
			return nil, err
		}
		return &ReauthResult{Mode: mode, RedirectURL: authURL}, nil
	}
	return nil, errors.New("unreachable reauthorization mode")
}

func (s *platformService) RequestDisconnect(ctx context.Context, cred session.Credential, accountID string) (*PendingAction, error) {
	if !cred.Valid() {
		return nil, models.ErrNoSession
	}
	if accountID == "" {
		return nil, models.NewValidationError("account_id", "AccountID is not valid")
	}
	return s.gate.Request(cred.UserID, ActionDisconnectAccount, accountID)
}

func (s *platformService) CancelDisconnect(ctx context.Context, cred session.Credential, token string) error {
	if !cred.Valid() {
		return models.ErrNoSession
	}
	s.gate.Cancel(cred.UserID, token)
	return nil
}

func (s *platformService) ConfirmDisconnect(ctx context.Context, cred session.Credential, token string) error {
	if !cred.Valid() {
		return models.ErrNoSession
	}
	return s.gate.Confirm(cred.UserID, ActionDisconnectAccount, token, func(accountID string) error {
		return s.sa.Remove(ctx, cred, accountID)
	})
}
