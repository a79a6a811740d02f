package service

import (
	"context"
	"fmt"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

// Instagram takes at most ten items per carousel.
const instagramMaxMedia = 10

type instagramPublisher struct {
	api PublishAPI
}

func NewInstagramPublisher(api PublishAPI) Publisher {
	return &instagramPublisher{api: api}
}

func (p *instagramPublisher) Platform() models.Platform {
	return models.PlatformInstagram
}

// Publish needs at least one uploaded asset; one item is a single post, more
// become a carousel on the remote side.
func (p *instagramPublisher) Publish(ctx context.Context, cred session.Credential, req PublishRequest) (string, error) {
	if len(req.Media) == 0 {
		return "", models.NewValidationError("media", "Instagram posts need at least one image or video")
	}
	if len(req.Media) > instagramMaxMedia {
		return "", models.NewValidationError("media", fmt.Sprintf("Instagram allows at most %d media items", instagramMaxMedia))
	}

	media := make([]transfer.InstagramMedia, 0, len(req.Media))
	for _, m := range req.Media {
		if !m.IsComplete() {
			return "", models.NewValidationError("media", fmt.Sprintf("%s has not finished uploading", m.FileName))
		}
		media = append(media, transfer.InstagramMedia{URL: m.URL, Type: string(m.Kind)})
	}

	res, err := p.api.PublishPost(ctx, cred, p.Platform().String(), transfer.InstagramPost{
		AccountID:    req.Account.ID,
		Caption:      req.Content,
		Media:        media,
		CollectionID: req.CollectionID,
	})
	if err != nil {
		return "", err
	}
	return remoteID(res), nil
}
