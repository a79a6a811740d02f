package remote

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

func (c *Client) ListCollections(ctx context.Context, cred session.Credential) ([]transfer.Collection, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out []transfer.Collection
	resp, err := req.SetResult(&out).Get("/collections")
	if err := check("list collections", "Failed to load collections", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Subscription(ctx context.Context, cred session.Credential) (*transfer.SubscriptionStatus, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out transfer.SubscriptionStatus
	resp, err := req.SetResult(&out).Get("/subscription")
	if err := check("subscription status", "Failed to load subscription", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me resolves the user behind an identity-provider token. It runs before a
// session exists, so it takes the raw token.
func (c *Client) Me(ctx context.Context, accessToken string) (*transfer.UserInfo, error) {
	var out transfer.UserInfo
	resp, err := c.api.R().SetContext(ctx).SetAuthToken(accessToken).SetResult(&out).Get("/me")
	if err := check("user info", "Failed to load user", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
