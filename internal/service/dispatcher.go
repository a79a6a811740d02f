package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

// PublishAPI is the remote publish endpoint family, POST /{platform}/post.
type PublishAPI interface {
	PublishPost(ctx context.Context, cred session.Credential, platform string, body any) (*transfer.PublishResult, error)
}

type PublishRequest struct {
	Account      *models.SocialAccount
	Content      string
	Media        []*models.UploadedMediaAsset
	CollectionID string
}

// Publisher is one platform adapter. Each adapter owns its payload shape.
type Publisher interface {
	Platform() models.Platform
	Publish(ctx context.Context, cred session.Credential, req PublishRequest) (remoteID string, err error)
}

type PublishDispatcher interface {
	Publish(ctx context.Context, cred session.Credential, account *models.SocialAccount, content string, media []*models.UploadedMediaAsset, collectionID string) *models.PublishOutcome
	Supports(platform models.Platform) bool
}

type publishDispatcher struct {
	adapters map[models.Platform]Publisher
}

// NewPublishDispatcher builds the adapter table. Platforms without an adapter
// resolve to an unsupported outcome.
func NewPublishDispatcher(adapters ...Publisher) PublishDispatcher {
	table := make(map[models.Platform]Publisher, len(adapters))
	for _, a := range adapters {
		table[a.Platform()] = a
	}
	return &publishDispatcher{adapters: table}
}

// DefaultPublishers returns the adapters with a remote endpoint.
func DefaultPublishers(api PublishAPI) []Publisher {
	return []Publisher{
		NewTwitterPublisher(api),
		NewThreadsPublisher(api),
		NewLinkedInPublisher(api),
		NewInstagramPublisher(api),
	}
}

func (d *publishDispatcher) Supports(platform models.Platform) bool {
	_, ok := d.adapters[platform]
	return ok
}

func (d *publishDispatcher) Publish(ctx context.Context, cred session.Credential, account *models.SocialAccount, content string, media []*models.UploadedMediaAsset, collectionID string) *models.PublishOutcome {
	if account == nil {
		return failedOutcome("", models.ErrAccountNotFound)
	}

	adapter, ok := d.adapters[account.Platform]
	if !ok {
		slog.Info("no publish adapter", "platform", account.Platform)
		n := models.ErrorNotification("Not supported", fmt.Sprintf("Posting to %s is not supported yet", account.Platform.DisplayName()))
		n.Platform = account.Platform
		return &models.PublishOutcome{
			Kind:         models.OutcomeUnsupported,
			Platform:     account.Platform,
			Err:          fmt.Errorf("%w: %s", models.ErrUnsupportedPlatform, account.Platform),
			Notification: n,
		}
	}

	id, err := safePublish(ctx, adapter, cred, PublishRequest{
		Account:      account,
		Content:      content,
		Media:        media,
		CollectionID: collectionID,
	})
	if err != nil {
		slog.Info(err.Error(), "platform", account.Platform)
		return failedOutcome(account.Platform, err)
	}

	n := models.SuccessNotification("Post published", "Posted to "+account.Platform.DisplayName())
	n.Platform = account.Platform
	return &models.PublishOutcome{
		Kind:         models.OutcomeSuccess,
		Platform:     account.Platform,
		RemoteID:     id,
		Notification: n,
	}
}

// safePublish turns an adapter panic into an error so it never reaches the composer.
func safePublish(ctx context.Context, p Publisher, cred session.Credential, req PublishRequest) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s adapter panicked: %v", p.Platform(), r)
		}
	}()
	return p.Publish(ctx, cred, req)
}

func failedOutcome(platform models.Platform, err error) *models.PublishOutcome {
	title := "Publish failed"
	msg := models.UserMessage(err, "Failed to publish post")
	if platform != "" {
		msg = fmt.Sprintf("Failed to post to %s: %s", platform.DisplayName(), msg)
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		title = "Cannot publish"
	}
	n := models.ErrorNotification(title, msg)
	n.Platform = platform
	return &models.PublishOutcome{
		Kind:         models.OutcomeFailed,
		Platform:     platform,
		Err:          err,
		Notification: n,
	}
}

func remoteID(res *transfer.PublishResult) string {
	if res == nil {
		return ""
	}
	if res.PostID != "" {
		return res.PostID
	}
	return res.ID
}
