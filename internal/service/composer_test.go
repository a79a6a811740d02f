package service

import (
	"bytes"
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type composerFixture struct {
	api      *fakePublishAPI
	schedule *fakeScheduleRepo
	subs     *fakeSubscriptionRepo
	media    MediaService
	deps     ComposerDeps
	now      time.Time
}

func newComposerFixture() *composerFixture {
	f := &composerFixture{
		api:      &fakePublishAPI{id: "remote-1"},
		schedule: &fakeScheduleRepo{},
		subs:     &fakeSubscriptionRepo{sub: &models.Subscription{Active: true}},
		now:      time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC),
	}
	f.media = NewMediaService(&fakeUploadAPI{}, repository.NewMediaAssetRepository(), "posts", 2)
	f.deps = ComposerDeps{
		Media:       f.media,
		Dispatcher:  NewPublishDispatcher(DefaultPublishers(f.api)...),
		Schedule:    NewPostService(f.schedule, NewConfirmGate(time.Minute)),
		Billing:     NewSubscriptionService(f.subs),
		DefaultZone: time.UTC,
		Now:         func() time.Time { return f.now },
	}
	return f
}

func (f *composerFixture) composer(t *testing.T, content string, acc *models.SocialAccount) *Composer {
	t.Helper()
	c := NewComposer(testCred.UserID, f.deps)
	require.NoError(t, c.SetContent(content))
	if acc != nil {
		require.NoError(t, c.SelectAccount(acc))
	}
	return c
}

func (f *composerFixture) upload(t *testing.T, name string) *models.UploadedMediaAsset {
	t.Helper()
	body := bytes.Repeat([]byte("x"), 16)
	asset, err := f.media.Upload(context.Background(), testCred, MediaFile{Name: name, MIMEType: "image/png", Size: 16, Body: bytes.NewReader(body)}, nil)
	require.NoError(t, err)
	return asset
}

func TestComposer_ImmediateSubmit(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Hello world", activeAccount("acc-1", models.PlatformTwitter))
	ctx := context.Background()

	before, err := c.View()
	require.NoError(t, err)
	assert.True(t, before.CanSubmit)

	res, err := c.Submit(ctx, testCred, "")
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, res.State)
	require.NotNil(t, res.Outcome)
	assert.Equal(t, models.PlatformTwitter, res.Outcome.Platform)
	assert.Equal(t, "Posted to Twitter", res.Notification.Message)
	assert.Len(t, f.api.Calls(), 1)

	view, err := c.View()
	require.NoError(t, err)
	assert.Equal(t, before.Draft.ID, view.Draft.ID)
	assert.Empty(t, view.Draft.Content)
	assert.Nil(t, view.Account)
	assert.False(t, view.CanSubmit)

	_, err = c.Submit(ctx, testCred, "")
	assert.ErrorIs(t, err, models.ErrDraftConsumed)
	assert.ErrorIs(t, c.SetContent("again"), models.ErrDraftConsumed)
	assert.Len(t, f.api.Calls(), 1)

	require.NoError(t, c.Reset(ctx))
	assert.Equal(t, StateComposing, c.State())
	view, err = c.View()
	require.NoError(t, err)
	assert.NotEqual(t, before.Draft.ID, view.Draft.ID)
}

func TestComposer_EmptyContentIsLocal(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "   ", activeAccount("acc-1", models.PlatformTwitter))

	_, err := c.Submit(context.Background(), testCred, "")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "content", ve.Field)
	assert.Empty(t, f.api.Calls())
	assert.Equal(t, StateComposing, c.State())
}

func TestComposer_NoAccountIsLocal(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Hello", nil)

	_, err := c.Submit(context.Background(), testCred, "")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "account_id", ve.Field)
	assert.Empty(t, f.api.Calls())
}

func TestComposer_InactiveAccountIsRejectedLocally(t *testing.T) {
	for _, d := range []models.Disposition{models.DispositionPublished, models.DispositionScheduled} {
		t.Run(string(d), func(t *testing.T) {
			f := newComposerFixture()
			acc := activeAccount("acc-1", models.PlatformLinkedIn)
			acc.Status = models.AccountStatusNeedsReauth

			c := f.composer(t, "Hello", acc)
			require.NoError(t, c.SetDisposition(d))
			require.NoError(t, c.SetSchedule("2025-03-01T09:00"))

			_, err := c.Submit(context.Background(), testCred, "")
			assert.ErrorIs(t, err, models.ErrAccountNotActive)
			assert.Empty(t, f.api.Calls())
			assert.Empty(t, f.schedule.Created())
			assert.Zero(t, f.subs.calls)
		})
	}
}

func TestComposer_ScheduledWithoutTimeIsLocal(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Later", activeAccount("acc-1", models.PlatformTwitter))
	require.NoError(t, c.SetDisposition(models.DispositionScheduled))

	_, err := c.Submit(context.Background(), testCred, "")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "schedule_at", ve.Field)
	assert.Empty(t, f.schedule.Created())
	assert.Empty(t, f.api.Calls())
	assert.Zero(t, f.subs.calls)
}

func TestComposer_ScheduledInSubmitZone(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Morning update", activeAccount("acc-1", models.PlatformTwitter))
	require.NoError(t, c.SetDisposition(models.DispositionScheduled))
	require.NoError(t, c.SetSchedule("2025-03-01T09:00"))

	res, err := c.Submit(context.Background(), testCred, "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, res.State)
	assert.Equal(t, "Scheduled for Mar 1, 2025 09:00 (America/New_York)", res.Notification.Message)

	created := f.schedule.Created()
	require.Len(t, created, 1)
	post := created[0]
	assert.True(t, post.ScheduledTime.Equal(time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC)), post.ScheduledTime)
	assert.Equal(t, "America/New_York", post.TimeZone)
	assert.Equal(t, "text", post.MediaType)
	require.Len(t, post.Targets, 1)
	assert.Equal(t, models.PlatformTwitter, post.Targets[0].Platform)
	assert.Equal(t, "acc-1", post.Targets[0].AccountID)
	assert.Empty(t, f.api.Calls(), "scheduling never publishes directly")
}

func TestComposer_UnknownZone(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Hello", activeAccount("acc-1", models.PlatformTwitter))

	_, err := c.Submit(context.Background(), testCred, "Mars/Olympus")
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "timezone", ve.Field)
	assert.Empty(t, f.api.Calls())
}

func TestComposer_ScheduleNeedsCapability(t *testing.T) {
	f := newComposerFixture()
	f.subs.sub = &models.Subscription{Active: false}
	c := f.composer(t, "Later", activeAccount("acc-1", models.PlatformTwitter))
	require.NoError(t, c.SetDisposition(models.DispositionScheduled))
	require.NoError(t, c.SetSchedule("2025-03-01T09:00"))

	_, err := c.Submit(context.Background(), testCred, "")
	assert.ErrorIs(t, err, models.ErrCapabilityDenied)
	assert.Empty(t, f.schedule.Created())
	assert.Equal(t, StateComposing, c.State())
}

func TestComposer_ScheduleRemoteFailureKeepsDraft(t *testing.T) {
	f := newComposerFixture()
	f.schedule.err = &models.RemoteError{Op: "create scheduled post", Status: 500, Message: "Scheduler unavailable"}
	c := f.composer(t, "Later", activeAccount("acc-1", models.PlatformTwitter))
	require.NoError(t, c.SetDisposition(models.DispositionScheduled))
	require.NoError(t, c.SetSchedule("2025-03-01T09:00"))

	res, err := c.Submit(context.Background(), testCred, "")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, "Scheduling failed", res.Notification.Title)
	assert.Equal(t, "Scheduler unavailable", res.Notification.Message)

	view, err := c.View()
	require.NoError(t, err)
	assert.Equal(t, "Later", view.Draft.Content)
	assert.Equal(t, "2025-03-01T09:00", view.Draft.ScheduleAt)
}

func TestComposer_FailurePreservesDraftForRetry(t *testing.T) {
	f := newComposerFixture()
	f.api.SetErr(&models.RemoteError{Op: "publish twitter post", Status: 502, Message: "Twitter is down"})
	c := f.composer(t, "Hello world", activeAccount("acc-1", models.PlatformTwitter))
	asset := f.upload(t, "photo.png")
	require.NoError(t, c.AttachMedia(asset))
	ctx := context.Background()

	res, err := c.Submit(ctx, testCred, "")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, models.OutcomeFailed, res.Outcome.Kind)

	view, err := c.View()
	require.NoError(t, err)
	assert.Equal(t, "Hello world", view.Draft.Content)
	assert.Len(t, view.Draft.Media, 1)
	assert.Equal(t, "Failed to post to Twitter: Twitter is down", view.LastError)

	active, err := f.media.List(ctx, testCred.UserID)
	require.NoError(t, err)
	assert.Len(t, active, 1, "media survives a failed submit")

	f.api.SetErr(nil)
	res, err = c.Submit(ctx, testCred, "")
	require.NoError(t, err)
	assert.Equal(t, StateSubmitted, res.State)
	assert.Len(t, f.api.Calls(), 2)
}

func TestComposer_UnsupportedPlatformFails(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Hello", activeAccount("acc-1", models.PlatformFacebook))

	res, err := c.Submit(context.Background(), testCred, "")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, res.State)
	assert.Equal(t, models.OutcomeUnsupported, res.Outcome.Kind)
	assert.Empty(t, f.api.Calls())
}

func TestComposer_SubmitInFlightGuard(t *testing.T) {
	f := newComposerFixture()
	f.api.block = make(chan struct{})
	f.api.entered = make(chan struct{}, 1)
	c := f.composer(t, "Hello", activeAccount("acc-1", models.PlatformTwitter))
	ctx := context.Background()

	type submitted struct {
		res *SubmitResult
		err error
	}
	done := make(chan submitted, 1)
	go func() {
		res, err := c.Submit(ctx, testCred, "")
		done <- submitted{res, err}
	}()

	<-f.api.entered
	assert.Equal(t, StateSubmittingImmediate, c.State())

	_, err := c.Submit(ctx, testCred, "")
	assert.ErrorIs(t, err, models.ErrSubmitInFlight)
	assert.ErrorIs(t, c.SetContent("changed"), models.ErrSubmitInFlight)
	assert.ErrorIs(t, c.Reset(ctx), models.ErrSubmitInFlight)

	close(f.api.block)
	first := <-done
	require.NoError(t, first.err)
	assert.Equal(t, StateSubmitted, first.res.State)
	assert.Len(t, f.api.Calls(), 1)
}

func TestComposer_SuccessReleasesMedia(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "With a photo", activeAccount("acc-1", models.PlatformTwitter))
	used := f.upload(t, "used.png")
	f.upload(t, "leftover.png")
	require.NoError(t, c.AttachMedia(used))
	ctx := context.Background()

	_, err := c.Submit(ctx, testCred, "")
	require.NoError(t, err)

	body, ok := f.api.Calls()[0].body.(transfer.TextPost)
	require.True(t, ok)
	assert.Equal(t, []string{used.URL}, body.Media)

	active, err := f.media.List(ctx, testCred.UserID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestComposer_AttachAndDetachMedia(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Media", activeAccount("acc-1", models.PlatformTwitter))
	ctx := context.Background()

	pending := &models.UploadedMediaAsset{ID: "p1", FileName: "slow.png", State: models.MediaStatePending}
	var ve *models.ValidationError
	require.ErrorAs(t, c.AttachMedia(pending), &ve)

	asset := f.upload(t, "photo.png")
	require.NoError(t, c.AttachMedia(asset, asset))
	view, err := c.View()
	require.NoError(t, err)
	require.Len(t, view.Draft.Media, 1)

	// The view is a copy.
	view.Draft.Media[0].URL = "changed"
	again, err := c.View()
	require.NoError(t, err)
	assert.NotEqual(t, "changed", again.Draft.Media[0].URL)

	require.NoError(t, c.DetachMedia(ctx, asset.ID))
	view, err = c.View()
	require.NoError(t, err)
	assert.Empty(t, view.Draft.Media)

	_, err = f.media.Get(ctx, testCred.UserID, asset.ID)
	assert.ErrorIs(t, err, repository.ErrAssetNotFound)
}

func TestComposer_SetScheduleValidatesFormat(t *testing.T) {
	f := newComposerFixture()
	c := f.composer(t, "Hello", nil)

	var ve *models.ValidationError
	require.ErrorAs(t, c.SetSchedule("tomorrow morning"), &ve)
	require.NoError(t, c.SetSchedule("2025-03-01T09:00:00"))
	require.NoError(t, c.SetSchedule(""))
	require.ErrorAs(t, c.SetDisposition("sometime"), &ve)
}

func TestDraftRegistry_Sweep(t *testing.T) {
	f := newComposerFixture()
	reg := NewDraftRegistry(f.deps, time.Hour)
	ctx := context.Background()

	first := reg.Get("user-1")
	assert.Same(t, first, reg.Get("user-1"))
	require.NoError(t, first.AttachMedia(f.upload(t, "idle.png")))

	f.now = f.now.Add(2 * time.Hour)
	fresh := reg.Get("user-2")

	assert.Equal(t, 1, reg.Sweep(ctx))
	assert.NotSame(t, first, reg.Get("user-1"))
	assert.Same(t, fresh, reg.Get("user-2"))

	active, err := f.media.List(ctx, testCred.UserID)
	require.NoError(t, err)
	assert.Empty(t, active)
}
