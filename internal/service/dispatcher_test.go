package service

import (
	"context"
	"strings"
	"testing"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeAsset(id string, kind models.MediaKind) *models.UploadedMediaAsset {
	return &models.UploadedMediaAsset{
		ID:       id,
		FileName: id + ".bin",
		URL:      "https://cdn.example.com/" + id,
		Kind:     kind,
		State:    models.MediaStateComplete,
		Progress: 100,
	}
}

func TestDispatcher_TwitterSuccess(t *testing.T) {
	api := &fakePublishAPI{id: "tw-123"}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformTwitter), "Hello world",
		[]*models.UploadedMediaAsset{completeAsset("m1", models.MediaKindImage)}, "col-1")

	require.True(t, out.OK())
	assert.Equal(t, models.PlatformTwitter, out.Platform)
	assert.Equal(t, "tw-123", out.RemoteID)
	assert.Equal(t, "Posted to Twitter", out.Notification.Message)

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "twitter", calls[0].platform)
	assert.Equal(t, transfer.TextPost{
		AccountID:    "acc-1",
		Content:      "Hello world",
		Media:        []string{"https://cdn.example.com/m1"},
		CollectionID: "col-1",
	}, calls[0].body)
}

func TestDispatcher_UnsupportedPlatforms(t *testing.T) {
	api := &fakePublishAPI{}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	for _, p := range []models.Platform{models.PlatformFacebook, models.PlatformTiktok, models.PlatformYoutube} {
		t.Run(p.String(), func(t *testing.T) {
			assert.False(t, d.Supports(p))

			out := d.Publish(context.Background(), testCred, activeAccount("acc-1", p), "Hello", nil, "")
			assert.Equal(t, models.OutcomeUnsupported, out.Kind)
			assert.ErrorIs(t, out.Err, models.ErrUnsupportedPlatform)
			assert.Equal(t, models.NotificationError, out.Notification.Kind)
			assert.Contains(t, out.Notification.Message, p.DisplayName())
		})
	}
	assert.Empty(t, api.Calls())
}

func TestDispatcher_InstagramNeedsMedia(t *testing.T) {
	api := &fakePublishAPI{}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformInstagram), "caption", nil, "")
	assert.Equal(t, models.OutcomeFailed, out.Kind)
	assert.Equal(t, "Cannot publish", out.Notification.Title)
	var ve *models.ValidationError
	assert.ErrorAs(t, out.Err, &ve)
	assert.Empty(t, api.Calls())
}

func TestDispatcher_InstagramCarousel(t *testing.T) {
	api := &fakePublishAPI{id: "ig-1"}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	media := []*models.UploadedMediaAsset{
		completeAsset("m1", models.MediaKindImage),
		completeAsset("m2", models.MediaKindVideo),
	}
	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformInstagram), "caption", media, "")
	require.True(t, out.OK())

	calls := api.Calls()
	require.Len(t, calls, 1)
	body, ok := calls[0].body.(transfer.InstagramPost)
	require.True(t, ok)
	assert.Equal(t, "caption", body.Caption)
	assert.Equal(t, []transfer.InstagramMedia{
		{URL: "https://cdn.example.com/m1", Type: "image"},
		{URL: "https://cdn.example.com/m2", Type: "video"},
	}, body.Media)
}

func TestDispatcher_LinkedInDropsMedia(t *testing.T) {
	api := &fakePublishAPI{}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformLinkedIn), "Update",
		[]*models.UploadedMediaAsset{completeAsset("m1", models.MediaKindImage)}, "")
	require.True(t, out.OK())

	calls := api.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, transfer.LinkedInPost{AccountID: "acc-1", Content: "Update"}, calls[0].body)
}

func TestDispatcher_ThreadsLengthLimit(t *testing.T) {
	api := &fakePublishAPI{}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformThreads), strings.Repeat("é", 501), nil, "")
	assert.Equal(t, models.OutcomeFailed, out.Kind)
	assert.Empty(t, api.Calls())

	out = d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformThreads), strings.Repeat("é", 500), nil, "")
	assert.True(t, out.OK())
}

func TestDispatcher_RemoteFailureMessage(t *testing.T) {
	api := &fakePublishAPI{err: &models.RemoteError{Op: "publish twitter post", Status: 429, Message: "Rate limit exceeded"}}
	d := NewPublishDispatcher(DefaultPublishers(api)...)

	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformTwitter), "Hello", nil, "")
	assert.Equal(t, models.OutcomeFailed, out.Kind)
	assert.Equal(t, "Publish failed", out.Notification.Title)
	assert.Equal(t, "Failed to post to Twitter: Rate limit exceeded", out.Notification.Message)
}

type panickingPublisher struct{}

func (panickingPublisher) Platform() models.Platform { return models.PlatformTwitter }

func (panickingPublisher) Publish(context.Context, session.Credential, PublishRequest) (string, error) {
	panic("nil map")
}

func TestDispatcher_RecoversAdapterPanic(t *testing.T) {
	d := NewPublishDispatcher(panickingPublisher{})

	out := d.Publish(context.Background(), testCred, activeAccount("acc-1", models.PlatformTwitter), "Hello", nil, "")
	assert.Equal(t, models.OutcomeFailed, out.Kind)
	assert.Contains(t, out.Err.Error(), "panicked")
}
