package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func mediaFile(name, mime string, body []byte) MediaFile {
	return MediaFile{Name: name, MIMEType: mime, Size: int64(len(body)), Body: bytes.NewReader(body)}
}

type progressLog struct {
	mu   sync.Mutex
	seen map[string][]int
}

func (p *progressLog) record(id string, pct int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seen == nil {
		p.seen = make(map[string][]int)
	}
	p.seen[id] = append(p.seen[id], pct)
}

func TestMediaService_UploadAllKeepsSuccessfulSiblings(t *testing.T) {
	api := &fakeUploadAPI{failFor: map[string]bool{"broken.png": true}}
	repo := repository.NewMediaAssetRepository()
	svc := NewMediaService(api, repo, "posts", 2)
	ctx := context.Background()

	files := []MediaFile{
		mediaFile("first.png", "image/png", bytes.Repeat([]byte("a"), 32)),
		mediaFile("broken.png", "image/png", bytes.Repeat([]byte("b"), 32)),
		mediaFile("clip.mp4", "video/mp4", bytes.Repeat([]byte("c"), 32)),
	}

	var progress progressLog
	res := svc.UploadAll(ctx, testCred, files, progress.record)

	require.Len(t, res.Assets, 2)
	assert.Equal(t, "first.png", res.Assets[0].FileName)
	assert.Equal(t, "clip.mp4", res.Assets[1].FileName)
	assert.Equal(t, models.MediaKindVideo, res.Assets[1].Kind)
	for _, a := range res.Assets {
		assert.True(t, a.IsComplete())
		assert.True(t, strings.HasPrefix(a.URL, "https://cdn.example.com/"))
	}

	require.NotNil(t, res.Failed)
	assert.Equal(t, []string{"broken.png"}, res.Failed.Order)
	require.NotNil(t, res.Notification)
	assert.Equal(t, models.NotificationError, res.Notification.Kind)
	assert.Equal(t, "1 of 3 files failed to upload: broken.png", res.Notification.Message)

	active, err := svc.List(ctx, testCred.UserID)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	progress.mu.Lock()
	defer progress.mu.Unlock()
	for id, seq := range progress.seen {
		for i := 1; i < len(seq); i++ {
			assert.Greater(t, seq[i], seq[i-1], "progress for %s went backwards: %v", id, seq)
		}
	}
	for _, a := range res.Assets {
		seq := progress.seen[a.ID]
		require.NotEmpty(t, seq)
		assert.Equal(t, 0, seq[0])
		assert.Equal(t, 100, seq[len(seq)-1])
	}
}

func TestMediaService_UploadAllSameStemGetsDistinctIDs(t *testing.T) {
	api := &fakeUploadAPI{failFor: map[string]bool{"photo.jpg": true}}
	repo := repository.NewMediaAssetRepository()
	svc := NewMediaService(api, repo, "posts", 4).(*mediaService)
	at := time.UnixMilli(1700000000000)
	svc.now = func() time.Time { return at }
	ctx := context.Background()

	files := []MediaFile{
		mediaFile("image.png", "image/png", bytes.Repeat([]byte("a"), 32)),
		mediaFile("image.png", "image/png", bytes.Repeat([]byte("b"), 32)),
		mediaFile("photo.png", "image/png", bytes.Repeat([]byte("c"), 32)),
		mediaFile("photo.jpg", "image/jpeg", bytes.Repeat([]byte("d"), 32)),
	}
	res := svc.UploadAll(ctx, testCred, files, nil)

	require.Len(t, res.Assets, 3)
	ids := map[string]bool{}
	for _, a := range res.Assets {
		assert.True(t, strings.HasPrefix(a.ID, correlationID(a.FileName, at)+"_"), a.ID)
		ids[a.ID] = true
	}
	assert.Len(t, ids, 3)

	active, err := svc.List(ctx, testCred.UserID)
	require.NoError(t, err)
	require.Len(t, active, 3)
	names := []string{}
	for _, a := range active {
		names = append(names, a.FileName)
	}
	assert.ElementsMatch(t, []string{"image.png", "image.png", "photo.png"}, names)
}

func TestMediaService_AllSucceedHasNoNotification(t *testing.T) {
	svc := NewMediaService(&fakeUploadAPI{}, repository.NewMediaAssetRepository(), "posts", 0)

	res := svc.UploadAll(context.Background(), testCred, []MediaFile{
		mediaFile("a.jpg", "image/jpeg", []byte("12345678")),
	}, nil)
	assert.Len(t, res.Assets, 1)
	assert.Nil(t, res.Failed)
	assert.Nil(t, res.Notification)
}

func TestMediaService_SniffsMissingType(t *testing.T) {
	api := &fakeUploadAPI{}
	svc := NewMediaService(api, repository.NewMediaAssetRepository(), "posts", 1)
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)

	asset, err := svc.Upload(context.Background(), testCred, mediaFile("photo", "application/octet-stream", body), nil)
	require.NoError(t, err)
	assert.Equal(t, "image/png", asset.MIMEType)
	assert.Equal(t, models.MediaKindImage, asset.Kind)
}

func TestMediaService_RejectsNonMedia(t *testing.T) {
	api := &fakeUploadAPI{}
	svc := NewMediaService(api, repository.NewMediaAssetRepository(), "posts", 1)

	_, err := svc.Upload(context.Background(), testCred, mediaFile("notes.txt", "text/plain", []byte("just some words")), nil)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Zero(t, api.Signed(), "no signature is requested for a rejected file")
}

func TestMediaService_SignFailureRemovesAsset(t *testing.T) {
	api := &fakeUploadAPI{signErr: &models.RemoteError{Op: "sign upload", Status: 500, Message: "Failed to get upload signature"}}
	svc := NewMediaService(api, repository.NewMediaAssetRepository(), "posts", 1)
	ctx := context.Background()

	_, err := svc.Upload(ctx, testCred, mediaFile("a.png", "image/png", []byte("12345678")), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload a.png")

	active, err := svc.List(ctx, testCred.UserID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestMediaService_RequiresFile(t *testing.T) {
	svc := NewMediaService(&fakeUploadAPI{}, repository.NewMediaAssetRepository(), "posts", 1)

	_, err := svc.Upload(context.Background(), testCred, MediaFile{Name: "a.png"}, nil)
	var ve *models.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCorrelationID(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "my-photo--1_1700000000000", correlationID("My Photo (1).JPG", at))
	assert.Equal(t, "file_1700000000000", correlationID("...", at))
	assert.Equal(t, strings.Repeat("a", 40)+"_1700000000000", correlationID(strings.Repeat("a", 60)+".png", at))
}

func TestProgressTracker(t *testing.T) {
	var got []int
	p := newProgressTracker("a", 200, func(_ string, pct int) { got = append(got, pct) })

	p.report(0)
	p.fromBytes(50)
	p.fromBytes(20)
	p.fromBytes(200)
	p.fromBytes(200)
	p.complete()

	assert.Equal(t, []int{0, 25, 99, 100}, got)
}
