package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

// ScheduledPostRepository is the remote collection of scheduled posts. Like
// the account repository it never merges partial updates: callers re-fetch
// after UpdateStatus or Remove.
type ScheduledPostRepository interface {
	Create(ctx context.Context, cred session.Credential, post *models.ScheduledPost) (*models.ScheduledPost, error)
	List(ctx context.Context, cred session.Credential) ([]*models.ScheduledPost, error)
	UpdatePostStatus(ctx context.Context, cred session.Credential, id string, status models.PostStatus) error
	Remove(ctx context.Context, cred session.Credential, id string) error
}

type postRepository struct {
	api *remote.Client
}

func NewPostRepository(api *remote.Client) ScheduledPostRepository {
	return &postRepository{api: api}
}

func (r *postRepository) Create(ctx context.Context, cred session.Credential, post *models.ScheduledPost) (*models.ScheduledPost, error) {
	body := &transfer.ScheduledPostCreation{
		Content:       post.Content,
		ScheduledTime: post.ScheduledTime.UTC(),
		TimeZone:      post.TimeZone,
		MediaType:     post.MediaType,
		Media:         post.Media,
		CollectionID:  post.CollectionID,
	}
	for _, t := range post.Targets {
		body.Platforms = append(body.Platforms, transfer.PlatformTarget{
			Platform:    t.Platform.String(),
			AccountID:   t.AccountID,
			AccountName: t.AccountName,
		})
	}

	row, err := r.api.CreateScheduledPost(ctx, cred, body)
	if err != nil {
		return nil, err
	}
	created := toScheduledPost(*row)
	// Fill what an empty response body leaves out.
	if len(created.Targets) == 0 {
		created.Targets = post.Targets
	}
	if created.ScheduledTime.IsZero() {
		created.ScheduledTime = post.ScheduledTime
		created.TimeZone = post.TimeZone
	}
	if created.Content == "" {
		created.Content = post.Content
	}
	return created, nil
}

func (r *postRepository) List(ctx context.Context, cred session.Credential) ([]*models.ScheduledPost, error) {
	rows, err := r.api.ListScheduledPosts(ctx, cred)
	if err != nil {
		return nil, err
	}
	posts := make([]*models.ScheduledPost, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, toScheduledPost(row))
	}
	return posts, nil
}

func (r *postRepository) UpdatePostStatus(ctx context.Context, cred session.Credential, id string, status models.PostStatus) error {
	return r.api.UpdateScheduledPostStatus(ctx, cred, id, string(status))
}

func (r *postRepository) Remove(ctx context.Context, cred session.Credential, id string) error {
	return r.api.DeleteScheduledPost(ctx, cred, id)
}

// toScheduledPost keeps status per target. A target without its own status
// inherits the post-level one, which is how older rows were written.
func toScheduledPost(row transfer.ScheduledPost) *models.ScheduledPost {
	fallback, ok := models.ParsePostStatus(row.Status)
	if !ok {
		fallback = models.PostStatusScheduled
	}

	post := &models.ScheduledPost{
		ID:            row.ID,
		Content:       row.Content,
		ScheduledTime: row.ScheduledTime,
		TimeZone:      row.TimeZone,
		MediaType:     row.MediaType,
		Media:         row.Media,
		CollectionID:  row.CollectionID,
		CreatedAt:     row.CreatedAt,
	}
	if post.TimeZone != "" {
		if _, err := time.LoadLocation(post.TimeZone); err != nil {
			slog.Info("scheduled post has unknown time zone", "id", row.ID, "timezone", row.TimeZone)
		}
	}

	for _, t := range row.Platforms {
		platform, err := models.ParsePlatform(t.Platform)
		if err != nil {
			slog.Info("scheduled post target has unknown platform", "id", row.ID, "platform", t.Platform)
			continue
		}
		status, ok := models.ParsePostStatus(t.Status)
		if !ok {
			status = fallback
		}
		post.Targets = append(post.Targets, models.PlatformTarget{
			Platform:    platform,
			AccountID:   t.AccountID,
			AccountName: t.AccountName,
			Status:      status,
		})
	}
	return post
}
