package repository

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

// SocialAccountRepository reads and mutates connected accounts on the remote
// API. Nothing is cached: every List is a fresh fetch, and a mutation is only
// visible locally after the next List (read-after-write on next fetch).
type SocialAccountRepository interface {
	ListByUserID(ctx context.Context, cred session.Credential) ([]*models.SocialAccount, error)
	ConnectURL(ctx context.Context, cred session.Credential, platform models.Platform) (string, error)
	RefreshToken(ctx context.Context, cred session.Credential, acc *models.SocialAccount) (*models.SocialAccount, error)
	Remove(ctx context.Context, cred session.Credential, id string) error
}

type socialAccountRepository struct {
	api *remote.Client
}

func NewSocialAccountRepository(api *remote.Client) SocialAccountRepository {
	return &socialAccountRepository{api: api}
}

func (r *socialAccountRepository) ListByUserID(ctx context.Context, cred session.Credential) ([]*models.SocialAccount, error) {
	rows, err := r.api.ListAccounts(ctx, cred)
	if err != nil {
		return nil, err
	}

	accounts := make([]*models.SocialAccount, 0, len(rows))
	for _, row := range rows {
		acc, err := toSocialAccount(row)
		if err != nil {
			slog.Info("skipping account with unknown platform", "id", row.ID, "platform", row.Platform)
			continue
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (r *socialAccountRepository) ConnectURL(ctx context.Context, cred session.Credential, platform models.Platform) (string, error) {
	return r.api.ConnectURL(ctx, cred, platform.String())
}

func (r *socialAccountRepository) RefreshToken(ctx context.Context, cred session.Credential, acc *models.SocialAccount) (*models.SocialAccount, error) {
	row, err := r.api.RefreshToken(ctx, cred, acc.Platform.String(), acc.ID)
	if err != nil {
		return nil, err
	}
	// Some platforms answer the refresh with only the new status.
	if row.ID == "" {
		row.ID = acc.ID
		row.Platform = acc.Platform.String()
		row.AccountID = acc.AccountID
		row.AccountName = acc.AccountName
		row.AccountUsername = acc.AccountUsername
		row.ProfilePicture = acc.ProfilePicture
	}
	return toSocialAccount(*row)
}

func (r *socialAccountRepository) Remove(ctx context.Context, cred session.Credential, id string) error {
	return r.api.DeleteAccount(ctx, cred, id)
}

func toSocialAccount(row transfer.SocialAccount) (*models.SocialAccount, error) {
	platform, err := models.ParsePlatform(row.Platform)
	if err != nil {
		return nil, err
	}
	return &models.SocialAccount{
		ID:              row.ID,
		UserID:          row.UserID,
		Platform:        platform,
		AccountID:       row.AccountID,
		AccountName:     row.AccountName,
		AccountUsername: row.AccountUsername,
		ProfilePicture:  row.ProfilePicture,
		Status:          models.ParseAccountStatus(row.Status),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
