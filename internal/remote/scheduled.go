package remote

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

func (c *Client) CreateScheduledPost(ctx context.Context, cred session.Credential, body *transfer.ScheduledPostCreation) (*transfer.ScheduledPost, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out transfer.ScheduledPost
	resp, err := req.SetBody(body).SetResult(&out).Post("/scheduled-posts")
	if err := check("schedule post", "Failed to schedule post", resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListScheduledPosts(ctx context.Context, cred session.Credential) ([]transfer.ScheduledPost, error) {
	req, err := c.request(ctx, cred)
	if err != nil {
		return nil, err
	}
	var out []transfer.ScheduledPost
	resp, err := req.SetResult(&out).Get("/scheduled-posts")
	if err := check("list scheduled posts", "Failed to load scheduled posts", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateScheduledPostStatus(ctx context.Context, cred session.Credential, id, status string) error {
	req, err := c.request(ctx, cred)
	if err != nil {
		return err
	}
	resp, err := req.SetPathParam("id", id).
		SetBody(transfer.StatusUpdate{Status: status}).
		Patch("/scheduled-posts/{id}")
	return check("update post status", "Failed to update post status", resp, err)
}

func (c *Client) DeleteScheduledPost(ctx context.Context, cred session.Credential, id string) error {
	req, err := c.request(ctx, cred)
	if err != nil {
		return err
	}
	resp, err := req.SetPathParam("id", id).Delete("/scheduled-posts/{id}")
	return check("delete post", "Failed to delete post", resp, err)
}
