package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

var testCred = session.Static("user-1", "token-1")

type publishCall struct {
	platform string
	body     any
}

type fakePublishAPI struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
	id    string
	// block, when set, holds every call until it is closed.
	block chan struct{}
	// entered receives one value per call before it blocks.
	entered chan struct{}
}

func (f *fakePublishAPI) PublishPost(ctx context.Context, cred session.Credential, platform string, body any) (*transfer.PublishResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, publishCall{platform: platform, body: body})
	block, entered, err, id := f.block, f.entered, f.err, f.id
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return &transfer.PublishResult{PostID: id}, nil
}

func (f *fakePublishAPI) Calls() []publishCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishCall(nil), f.calls...)
}

func (f *fakePublishAPI) SetErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeAccountRepo struct {
	accounts     []*models.SocialAccount
	connectURL   string
	err          error
	listCalls    int
	connectCalls int
	refreshCalls int
	removed      []string
}

func (r *fakeAccountRepo) ListByUserID(ctx context.Context, cred session.Credential) ([]*models.SocialAccount, error) {
	r.listCalls++
	if r.err != nil {
		return nil, r.err
	}
	return r.accounts, nil
}

func (r *fakeAccountRepo) ConnectURL(ctx context.Context, cred session.Credential, platform models.Platform) (string, error) {
	r.connectCalls++
	if r.err != nil {
		return "", r.err
	}
	return r.connectURL, nil
}

func (r *fakeAccountRepo) RefreshToken(ctx context.Context, cred session.Credential, acc *models.SocialAccount) (*models.SocialAccount, error) {
	r.refreshCalls++
	if r.err != nil {
		return nil, r.err
	}
	updated := *acc
	updated.Status = models.AccountStatusActive
	return &updated, nil
}

func (r *fakeAccountRepo) Remove(ctx context.Context, cred session.Credential, id string) error {
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, id)
	return nil
}

type fakeScheduleRepo struct {
	mu      sync.Mutex
	posts   []*models.ScheduledPost
	created []*models.ScheduledPost
	removed []string
	updates map[string]models.PostStatus
	err     error
}

func (r *fakeScheduleRepo) Create(ctx context.Context, cred session.Credential, post *models.ScheduledPost) (*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	cp := *post
	cp.ID = "post-" + string(rune('a'+len(r.created)))
	r.created = append(r.created, &cp)
	return &cp, nil
}

func (r *fakeScheduleRepo) List(ctx context.Context, cred session.Credential) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.posts, nil
}

func (r *fakeScheduleRepo) UpdatePostStatus(ctx context.Context, cred session.Credential, id string, status models.PostStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.updates == nil {
		r.updates = make(map[string]models.PostStatus)
	}
	r.updates[id] = status
	return nil
}

func (r *fakeScheduleRepo) Remove(ctx context.Context, cred session.Credential, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, id)
	return nil
}

func (r *fakeScheduleRepo) Created() []*models.ScheduledPost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.ScheduledPost(nil), r.created...)
}

type fakeSubscriptionRepo struct {
	sub   *models.Subscription
	err   error
	calls int
}

func (r *fakeSubscriptionRepo) GetByUser(ctx context.Context, cred session.Credential) (*models.Subscription, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.sub, nil
}

// fakeUploadAPI reads the body in small chunks so progress is reported more
// than once per file. Files named in failFor are rejected by storage.
type fakeUploadAPI struct {
	mu       sync.Mutex
	failFor  map[string]bool
	signErr  error
	signed   []string
	uploaded []string
}

func (f *fakeUploadAPI) SignUpload(ctx context.Context, cred session.Credential, publicID, folder string) (*transfer.UploadSignature, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signErr != nil {
		return nil, f.signErr
	}
	f.signed = append(f.signed, publicID)
	return &transfer.UploadSignature{
		Signature: "sig",
		Timestamp: 1700000000,
		APIKey:    "key",
		CloudName: "demo",
		PublicID:  publicID,
		Folder:    folder,
	}, nil
}

func (f *fakeUploadAPI) UploadToStorage(ctx context.Context, sig *transfer.UploadSignature, file remote.UploadFile, sent func(n int64)) (*transfer.StorageUpload, error) {
	buf := make([]byte, 4)
	var total int64
	for {
		n, err := file.Body.Read(buf)
		total += int64(n)
		if n > 0 && sent != nil {
			sent(total)
		}
		if f.shouldFail(file.Name) && total >= file.Size/2 {
			return nil, &models.RemoteError{Op: "upload to storage", Status: 400, Message: "Invalid image file"}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	f.mu.Lock()
	f.uploaded = append(f.uploaded, file.Name)
	f.mu.Unlock()
	return &transfer.StorageUpload{
		PublicID:  sig.PublicID,
		SecureURL: "https://cdn.example.com/" + sig.PublicID,
	}, nil
}

func (f *fakeUploadAPI) shouldFail(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failFor[name]
}

func (f *fakeUploadAPI) Signed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.signed)
}

func activeAccount(id string, platform models.Platform) *models.SocialAccount {
	return &models.SocialAccount{
		ID:          id,
		UserID:      testCred.UserID,
		Platform:    platform,
		AccountName: "Jane " + platform.DisplayName(),
		Status:      models.AccountStatusActive,
	}
}
