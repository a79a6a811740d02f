package service

import (
	"context"
	"log/slog"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type linkedInPublisher struct {
	api PublishAPI
}

func NewLinkedInPublisher(api PublishAPI) Publisher {
	return &linkedInPublisher{api: api}
}

func (p *linkedInPublisher) Platform() models.Platform {
	return models.PlatformLinkedIn
}

// Publish posts plain text. Attached media is not forwarded.
func (p *linkedInPublisher) Publish(ctx context.Context, cred session.Credential, req PublishRequest) (string, error) {
	if len(req.Media) > 0 {
		slog.Info("linkedin post sent without media", "account_id", req.Account.ID, "media", len(req.Media))
	}

	res, err := p.api.PublishPost(ctx, cred, p.Platform().String(), transfer.LinkedInPost{
		AccountID:    req.Account.ID,
		Content:      req.Content,
		CollectionID: req.CollectionID,
	})
	if err != nil {
		return "", err
	}
	return remoteID(res), nil
}
