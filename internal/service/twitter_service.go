package service

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type twitterPublisher struct {
	api PublishAPI
}

func NewTwitterPublisher(api PublishAPI) Publisher {
	return &twitterPublisher{api: api}
}

func (p *twitterPublisher) Platform() models.Platform {
	return models.PlatformTwitter
}

// Publish sends the text with optional media links.
func (p *twitterPublisher) Publish(ctx context.Context, cred session.Credential, req PublishRequest) (string, error) {
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
