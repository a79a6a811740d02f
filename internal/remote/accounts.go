package remote

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

func (c *Client) ListAccounts(ctx context.Context, cred session.Credential) ([]transfer.SocialAccount, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out []transfer.SocialAccount
	resp, err := req.SetQueryParam("user_id", cred.UserID).SetResult(&out).Get("/accounts")
	if err := check("list accounts", "Failed to load accounts", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// ConnectURL asks the API for the platform's authorization redirect.
func (c *Client) ConnectURL(ctx context.Context, cred session.Credential, platform string) (string, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return "", err
	}
	var out transfer.ConnectURL
	resp, err := req.SetPathParam("platform", platform).SetResult(&out).Get("/accounts/{platform}/connect")
	if err := check("connect account", "Failed to connect account", resp, err); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) RefreshToken(ctx context.Context, cred session.Credential, platform, accountID string) (*transfer.SocialAccount, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out transfer.SocialAccount
	resp, err := req.SetPathParam("platform", platform).
		SetBody(transfer.TokenRefresh{AccountID: accountID}).
		SetResult(&out).
		Post("/accounts/{platform}/refresh")
	if err := check("reauthorize account", "Failed to reauthorize account", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAccount(ctx context.Context, cred session.Credential, id string) error {
	req, err := c.request(ctx, cred)
	if err != nil {
		return err
	}
	resp, err := req.SetPathParam("id", id).Delete("/accounts/{id}")
	return check("disconnect account", "Failed to disconnect account", resp, err)
}
