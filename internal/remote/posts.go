package remote

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

// PublishPost posts body to the platform-specific publish endpoint.
func (c *Client) PublishPost(ctx context.Context, cred session.Credential, platform string, body any) (*transfer.PublishResult, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out transfer.PublishResult
	resp, err := req.SetPathParam("platform", platform).
		SetBody(body).
		SetResult(&out).
		Post("/{platform}/post")
	if err := check("publish "+platform, "Failed to publish post", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}
