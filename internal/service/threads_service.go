package service

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type threadsPublisher struct {
	api PublishAPI
}

func NewThreadsPublisher(api PublishAPI) Publisher {
	return &threadsPublisher{api: api}
}

func (p *threadsPublisher) Platform() models.Platform {
	return models.PlatformThreads
}

func (p *threadsPublisher) Publish(ctx context.Context, cred session.Credential, req PublishRequest) (string, error) {
	if len([]rune(req.Content)) > 500 {
		return "", models.NewValidationError("content", "Threads posts are limited to 500 characters")
	}

	body := transfer.TextPost{
		AccountID:    req.Account.ID,
		Content:      req.Content,
		CollectionID: req.CollectionID,
	}
	if len(req.Media) > 0 {
		body.Media = models.MediaURLs(req.Media)
	}

	res, err := p.api.PublishPost(ctx, cred, p.Platform().String(), body)
	if err != nil {
		return "", err
	}
	return remoteID(res), nil
}
