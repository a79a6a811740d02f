package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

type ComposerState string

const (
	StateComposing           ComposerState = "composing"
	StateSubmittingImmediate ComposerState = "submitting_immediate"
	StateSubmittingScheduled ComposerState = "submitting_scheduled"
	StateSubmitted           ComposerState = "submitted"
	StateFailed              ComposerState = "failed"
)

func (s ComposerState) Submitting() bool {
	return s == StateSubmittingImmediate || s == StateSubmittingScheduled
}

// ComposerDeps are the collaborators a composer submits through.
type ComposerDeps struct {
	Media       MediaService
	Dispatcher  PublishDispatcher
	Schedule    PostService
	Billing     SubscriptionService
	DefaultZone *time.Location
	Now         func() time.Time
}

type DraftView struct {
	Draft     models.DraftPost      `json:"draft"`
	Account   *models.SocialAccount `json:"account,omitempty"`
	State     ComposerState         `json:"state"`
	LastError string                `json:"last_error,omitempty"`
	CanSubmit bool                  `json:"can_submit"`
}

type SubmitResult struct {
	State        ComposerState          `json:"state"`
	Disposition  models.Disposition     `json:"disposition"`
	Outcome      *models.PublishOutcome `json:"outcome,omitempty"`
	Scheduled    *models.ScheduledPost  `json:"scheduled,omitempty"`
	Notification *models.Notification   `json:"notification"`
}

// Composer holds one draft and its submission state. All methods are safe for
// concurrent use; a submit in flight blocks every other mutation.
type Composer struct {
	mu        sync.Mutex
	userID    string
	deps      ComposerDeps
	state     ComposerState
	draft     models.DraftPost
	account   *models.SocialAccount
	lastErr   string
	touchedAt time.Time
}

func NewComposer(userID string, deps ComposerDeps) *Composer {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.DefaultZone == nil {
		deps.DefaultZone = time.UTC
	}
	c := &Composer{userID: userID, deps: deps}
	c.reset()
	return c
}

func (c *Composer) reset() {
	c.state = StateComposing
	c.draft = models.DraftPost{ID: uuid.NewString(), Disposition: models.DispositionPublished}
	c.account = nil
	c.lastErr = ""
	c.touchedAt = c.deps.Now()
}

func (c *Composer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns a deep copy of the draft together with its state.
func (c *Composer) View() (*DraftView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	view := &DraftView{State: c.state, LastError: c.lastErr}
	if err := copier.CopyWithOption(&view.Draft, &c.draft, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	if c.account != nil {
		acc := *c.account
		view.Account = &acc
	}
	view.CanSubmit = c.validate(c.deps.DefaultZone) == nil && !c.state.Submitting() && c.state != StateSubmitted
	return view, nil
}

// edit runs fn under the lock when the draft is editable. Editing a failed
// draft puts it back into composing.
func (c *Composer) edit(fn func()) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state.Submitting():
		return models.ErrSubmitInFlight
	case c.state == StateSubmitted:
		return models.ErrDraftConsumed
	}
	fn()
	if c.state == StateFailed {
		c.state = StateComposing
	}
	c.touchedAt = c.deps.Now()
	return nil
}

func (c *Composer) SetContent(content string) error {
	return c.edit(func() { c.draft.Content = content })
}

// SelectAccount stores a snapshot of the target. A non-active account can be
// selected, so the client can offer reauthorization, but never submitted.
func (c *Composer) SelectAccount(acc *models.SocialAccount) error {
	if acc == nil || acc.ID == "" {
		return models.NewValidationError("account_id", "AccountID is not valid")
	}
	snapshot := *acc
	return c.edit(func() {
		c.draft.AccountID = snapshot.ID
		c.account = &snapshot
	})
}

func (c *Composer) SelectCollection(collectionID string) error {
	return c.edit(func() { c.draft.CollectionID = collectionID })
}

func (c *Composer) SetDisposition(d models.Disposition) error {
	switch d {
	case models.DispositionPublished, models.DispositionScheduled:
	default:
		return models.NewValidationError("disposition", fmt.Sprintf("unknown disposition %q", d))
	}
	return c.edit(func() { c.draft.Disposition = d })
}

// SetSchedule takes a local wall-clock time (2006-01-02T15:04). Its zone is
// resolved at submit. An empty value clears the schedule.
func (c *Composer) SetSchedule(wallClock string) error {
	wallClock = strings.TrimSpace(wallClock)
	if wallClock != "" {
		if _, err := parseWallClock(wallClock, time.UTC); err != nil {
			return err
		}
	}
	return c.edit(func() { c.draft.ScheduleAt = wallClock })
}

// AttachMedia adds complete assets. Pending or failed ones are refused.
func (c *Composer) AttachMedia(assets ...*models.UploadedMediaAsset) error {
	for _, a := range assets {
		if !a.IsComplete() {
			name := ""
			if a != nil {
				name = a.FileName
			}
			return models.NewValidationError("media", fmt.Sprintf("%s has not finished uploading", name))
		}
	}
	return c.edit(func() {
		for _, a := range assets {
			if hasAsset(c.draft.Media, a.ID) {
				continue
			}
			cp := *a
			c.draft.Media = append(c.draft.Media, &cp)
		}
	})
}

func (c *Composer) DetachMedia(ctx context.Context, ids ...string) error {
	var removed []string
	err := c.edit(func() {
		kept := c.draft.Media[:0]
		for _, m := range c.draft.Media {
			if slices.Contains(ids, m.ID) {
				removed = append(removed, m.ID)
				continue
			}
			kept = append(kept, m)
		}
		c.draft.Media = kept
	})
	if err != nil {
		return err
	}
	if c.deps.Media != nil && len(removed) > 0 {
		return c.deps.Media.Release(ctx, c.userID, removed...)
	}
	return nil
}

// Reset starts a new draft. It is refused while a submit is in flight.
func (c *Composer) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Submitting() {
		c.mu.Unlock()
		return models.ErrSubmitInFlight
	}
	ids := assetIDs(c.draft.Media)
	c.reset()
	c.mu.Unlock()

	if c.deps.Media != nil && len(ids) > 0 {
		return c.deps.Media.Release(ctx, c.userID, ids...)
	}
	return nil
}

// Submit validates the draft locally and hands it off. Validation errors and
// ErrSubmitInFlight or ErrDraftConsumed come back as errors with no network
// call made; remote failures come back as a failed result with a notification
// and leave the draft untouched for a retry.
func (c *Composer) Submit(ctx context.Context, cred session.Credential, zone string) (*SubmitResult, error) {
	c.mu.Lock()
	switch {
	case c.state.Submitting():
		c.mu.Unlock()
		return nil, models.ErrSubmitInFlight
	case c.state == StateSubmitted:
		c.mu.Unlock()
		return nil, models.ErrDraftConsumed
	}

	loc, err := c.resolveZone(zone)
	if err == nil {
		err = c.validate(loc)
	}
	if err != nil {
		c.state = StateComposing
		id := c.draft.ID
		c.mu.Unlock()
		slog.Info(err.Error(), "draft_id", id)
		return nil, err
	}

	c.draft.TimeZone = loc.String()
	var draft models.DraftPost
	if err := copier.CopyWithOption(&draft, &c.draft, copier.Option{DeepCopy: true}); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	account := *c.account
	if draft.Disposition == models.DispositionScheduled {
		c.state = StateSubmittingScheduled
	} else {
		c.state = StateSubmittingImmediate
	}
	c.touchedAt = c.deps.Now()
	c.mu.Unlock()

	var result *SubmitResult
	if draft.Disposition == models.DispositionScheduled {
		result, err = c.submitScheduled(ctx, cred, &draft, &account, loc)
	} else {
		result = c.submitImmediate(ctx, cred, &draft, &account)
	}
	return c.settle(ctx, draft, result, err)
}

func (c *Composer) submitImmediate(ctx context.Context, cred session.Credential, draft *models.DraftPost, account *models.SocialAccount) *SubmitResult {
	outcome := c.deps.Dispatcher.Publish(ctx, cred, account, draft.Content, draft.Media, draft.CollectionID)
	return &SubmitResult{
		Disposition:  models.DispositionPublished,
		Outcome:      outcome,
		Notification: outcome.Notification,
	}
}

func (c *Composer) submitScheduled(ctx context.Context, cred session.Credential, draft *models.DraftPost, account *models.SocialAccount, loc *time.Location) (*SubmitResult, error) {
	if c.deps.Billing != nil {
		if err := c.deps.Billing.Require(ctx, cred, models.CapabilitySchedule); err != nil {
			return nil, err
		}
	}

	at, _ := parseWallClock(draft.ScheduleAt, loc)
	post := &models.ScheduledPost{
		Content: draft.Content,
		Targets: []models.PlatformTarget{{
			Platform:    account.Platform,
			AccountID:   account.ID,
			AccountName: account.AccountName,
			Status:      models.PostStatusScheduled,
		}},
		ScheduledTime: at,
		TimeZone:      loc.String(),
		MediaType:     models.MediaTypeTag(draft.Media),
		Media:         models.MediaURLs(draft.Media),
		CollectionID:  draft.CollectionID,
	}

	created, err := c.deps.Schedule.Create(ctx, cred, post)
	if err != nil {
		n := models.ErrorNotification("Scheduling failed", models.UserMessage(err, "Failed to schedule post"))
		n.Platform = account.Platform
		return &SubmitResult{Disposition: models.DispositionScheduled, Notification: n}, nil
	}

	n := models.SuccessNotification("Post scheduled", fmt.Sprintf("Scheduled for %s (%s)", at.In(loc).Format("Jan 2, 2006 15:04"), loc.String()))
	n.Platform = account.Platform
	return &SubmitResult{Disposition: models.DispositionScheduled, Scheduled: created, Notification: n}, nil
}

// settle moves the composer out of its submitting state.
func (c *Composer) settle(ctx context.Context, draft models.DraftPost, result *SubmitResult, err error) (*SubmitResult, error) {
	c.mu.Lock()
	c.touchedAt = c.deps.Now()

	if err != nil {
		// Nothing was sent: a capability refusal leaves the draft composing.
		c.state = StateComposing
		c.lastErr = models.UserMessage(err, "")
		c.mu.Unlock()
		return nil, err
	}

	succeeded := (result.Outcome != nil && result.Outcome.OK()) || result.Scheduled != nil
	if !succeeded {
		c.state = StateFailed
		if result.Notification != nil {
			c.lastErr = result.Notification.Message
		}
		result.State = c.state
		c.mu.Unlock()
		return result, nil
	}

	c.state = StateSubmitted
	c.lastErr = ""
	c.draft = models.DraftPost{ID: draft.ID, Disposition: draft.Disposition}
	c.account = nil
	result.State = c.state
	c.mu.Unlock()

	c.releaseMedia(ctx, draft.Media)
	return result, nil
}

// releaseMedia drops the submitted assets plus every finished upload that was
// never attached.
func (c *Composer) releaseMedia(ctx context.Context, used []*models.UploadedMediaAsset) {
	if c.deps.Media == nil {
		return
	}
	ids := assetIDs(used)
	active, err := c.deps.Media.List(ctx, c.userID)
	if err != nil {
		slog.Info(err.Error())
	}
	for _, a := range active {
		if a.State != models.MediaStatePending && !slices.Contains(ids, a.ID) {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := c.deps.Media.Release(ctx, c.userID, ids...); err != nil {
		slog.Info(err.Error())
	}
}

func (c *Composer) resolveZone(zone string) (*time.Location, error) {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		return c.deps.DefaultZone, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, models.NewValidationError("timezone", fmt.Sprintf("unknown time zone %q", zone))
	}
	return loc, nil
}

// validate runs the submit preconditions. It must be called with c.mu held.
func (c *Composer) validate(loc *time.Location) error {
	if strings.TrimSpace(c.draft.Content) == "" {
		return models.NewValidationError("content", "Content cannot be empty")
	}
	if c.draft.AccountID == "" || c.account == nil {
		return models.NewValidationError("account_id", "Select an account to post to")
	}
	if !c.account.CanPublish() {
		return fmt.Errorf("%w: %s account %s is %s", models.ErrAccountNotActive, c.account.Platform, c.account.AccountName, c.account.Status)
	}
	if c.draft.Disposition == models.DispositionScheduled {
		if c.draft.ScheduleAt == "" {
			return models.NewValidationError("schedule_at", "Pick a date and time to schedule the post")
		}
		if _, err := parseWallClock(c.draft.ScheduleAt, loc); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composer) idleSince(now time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Submitting() {
		return 0
	}
	return now.Sub(c.touchedAt)
}

func (c *Composer) mediaIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return assetIDs(c.draft.Media)
}

func parseWallClock(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{models.ScheduleLayout, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, models.NewValidationError("schedule_at", "Schedule time must be formatted as YYYY-MM-DDTHH:MM")
}

// DraftRegistry keeps one composer per user.
type DraftRegistry struct {
	mu        sync.Mutex
	deps      ComposerDeps
	idle      time.Duration
	composers map[string]*Composer
}

func NewDraftRegistry(deps ComposerDeps, idle time.Duration) *DraftRegistry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &DraftRegistry{
		deps:      deps,
		idle:      idle,
		composers: make(map[string]*Composer),
	}
}

func (r *DraftRegistry) Get(userID string) *Composer {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.composers[userID]
	if !ok {
		c = NewComposer(userID, r.deps)
		r.composers[userID] = c
	}
	return c
}

// Sweep drops composers idle for longer than the registry's idle TTL and
// releases their media. Submitting composers are never swept.
func (r *DraftRegistry) Sweep(ctx context.Context) int {
	if r.idle <= 0 {
		return 0
	}
	now := r.deps.Now()

	r.mu.Lock()
	var stale []*Composer
	for userID, c := range r.composers {
		if c.idleSince(now) > r.idle {
			stale = append(stale, c)
			delete(r.composers, userID)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		ids := c.mediaIDs()
		if r.deps.Media == nil || len(ids) == 0 {
			continue
		}
		if err := r.deps.Media.Release(ctx, c.userID, ids...); err != nil {
			slog.Info(err.Error(), "user_id", c.userID)
		}
	}
	return len(stale)
}
