package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"
)

const publicIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// UploadAPI is the two-phase signed upload protocol.
type UploadAPI interface {
	SignUpload(ctx context.Context, cred session.Credential, publicID, folder string) (*transfer.UploadSignature, error)
	UploadToStorage(ctx context.Context, sig *transfer.UploadSignature, f remote.UploadFile, sent func(n int64)) (*transfer.StorageUpload, error)
}

type MediaFile struct {
	Name     string
	MIMEType string
	Size     int64
	Body     io.Reader
}

// ProgressFunc receives per-file percentages. During UploadAll it is called
// from several goroutines.
type ProgressFunc func(assetID string, percent int)

type BatchResult struct {
	Assets       []*models.UploadedMediaAsset `json:"assets"`
	Failed       *models.BatchError           `json:"-"`
	Notification *models.Notification         `json:"notification,omitempty"`
}

type MediaService interface {
	Upload(ctx context.Context, cred session.Credential, file MediaFile, onProgress ProgressFunc) (*models.UploadedMediaAsset, error)
	UploadAll(ctx context.Context, cred session.Credential, files []MediaFile, onProgress ProgressFunc) *BatchResult
	Get(ctx context.Context, userID, id string) (*models.UploadedMediaAsset, error)
	List(ctx context.Context, userID string) ([]*models.UploadedMediaAsset, error)
	Release(ctx context.Context, userID string, ids ...string) error
}

type mediaService struct {
	api         UploadAPI
	ma          repository.MediaAssetRepository
	folder      string
	concurrency int
	now         func() time.Time
}

func NewMediaService(api UploadAPI, ma repository.MediaAssetRepository, folder string, concurrency int) MediaService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &mediaService{
		api:         api,
		ma:          ma,
		folder:      folder,
		concurrency: concurrency,
		now:         time.Now,
	}
}

func (s *mediaService) Upload(ctx context.Context, cred session.Credential, file MediaFile, onProgress ProgressFunc) (*models.UploadedMediaAsset, error) {
	if !cred.Valid() {
		return nil, models.ErrNoSession
	}
	if file.Body == nil {
		return nil, models.NewValidationError("file", "No file selected")
	}

	body, mime, err := resolveMIME(file)
	if err != nil {
		slog.Info(err.Error(), "file", file.Name)
		return nil, err
	}

	// Pasted images all arrive as image.png, so name and time alone collide.
	suffix, err := gonanoid.Generate(publicIDAlphabet, 6)
	if err != nil {
		return nil, fmt.Errorf("generate public id: %w", err)
	}
	id := correlationID(file.Name, s.now()) + "_" + suffix

	asset := &models.UploadedMediaAsset{
		ID:       id,
		PublicID: id,
		FileName: file.Name,
		MIMEType: mime,
		Size:     file.Size,
		Kind:     models.MediaKindFromMIME(mime),
		State:    models.MediaStatePending,
	}
	if err := s.ma.Create(ctx, cred.UserID, asset); err != nil {
		return nil, err
	}

	progress := newProgressTracker(asset.ID, file.Size, onProgress)
	progress.report(0)

	sig, err := s.api.SignUpload(ctx, cred, asset.PublicID, s.folder)
	if err != nil {
		return nil, s.fail(ctx, cred.UserID, asset, err)
	}

	res, err := s.api.UploadToStorage(ctx, sig, remote.UploadFile{
		Name:     file.Name,
		MIMEType: mime,
		Size:     file.Size,
		Body:     body,
	}, func(sent int64) {
		if pct, ok := progress.fromBytes(sent); ok {
			asset.Progress = pct
			_ = s.ma.Update(ctx, cred.UserID, asset)
		}
	})
	if err != nil {
		return nil, s.fail(ctx, cred.UserID, asset, err)
	}

	asset.URL = res.SecureURL
	if asset.URL == "" {
		asset.URL = res.URL
	}
	if res.PublicID != "" {
		asset.PublicID = res.PublicID
	}
	asset.State = models.MediaStateComplete
	asset.Progress = 100
	if err := s.ma.Update(ctx, cred.UserID, asset); err != nil {
		return nil, err
	}
	progress.complete()

	return asset, nil
}

// fail drops the asset from the active set. Failed uploads are not retried.
func (s *mediaService) fail(ctx context.Context, userID string, asset *models.UploadedMediaAsset, err error) error {
	asset.State = models.MediaStateFailed
	if rmErr := s.ma.Remove(ctx, userID, asset.ID); rmErr != nil {
		slog.Info(rmErr.Error())
	}
	slog.Info("media upload failed", "file", asset.FileName, "error", err)
	return fmt.Errorf("upload %s: %w", asset.FileName, err)
}

// UploadAll uploads every file concurrently. A failure never cancels or rolls
// back its siblings; the succeeded subset comes back in input order with one
// aggregated notification for the failures.
func (s *mediaService) UploadAll(ctx context.Context, cred session.Credential, files []MediaFile, onProgress ProgressFunc) *BatchResult {
	assets := make([]*models.UploadedMediaAsset, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, f := range files {
		g.Go(func() error {
			assets[i], errs[i] = s.Upload(ctx, cred, f, onProgress)
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{Assets: make([]*models.UploadedMediaAsset, 0, len(files))}
	failed := &models.BatchError{}
	var names []string
	for i, f := range files {
		if errs[i] != nil {
			name := f.Name
			if name == "" {
				name = "file " + strconv.Itoa(i+1)
			}
			failed.Add(name, errs[i])
			names = append(names, name)
			continue
		}
		result.Assets = append(result.Assets, assets[i])
	}

	if failed.Len() > 0 {
		result.Failed = failed
		result.Notification = models.ErrorNotification(
			"Upload failed",
			fmt.Sprintf("%d of %d files failed to upload: %s", failed.Len(), len(files), strings.Join(names, ", ")),
		)
	}
	return result
}

func (s *mediaService) Get(ctx context.Context, userID, id string) (*models.UploadedMediaAsset, error) {
	return s.ma.GetByID(ctx, userID, id)
}

func (s *mediaService) List(ctx context.Context, userID string) ([]*models.UploadedMediaAsset, error) {
	return s.ma.ListByUserID(ctx, userID)
}

func (s *mediaService) Release(ctx context.Context, userID string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.ma.Remove(ctx, userID, ids...)
}

// resolveMIME trusts an image/* or video/* type from the browser and sniffs
// the content otherwise.
func resolveMIME(file MediaFile) (io.Reader, string, error) {
	mime := strings.ToLower(strings.TrimSpace(file.MIMEType))
	if strings.HasPrefix(mime, "image/") || strings.HasPrefix(mime, "video/") {
		return file.Body, mime, nil
	}

	br := bufio.NewReaderSize(file.Body, 512)
	head, err := br.Peek(262)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("error reading file content: %w", err)
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == types.Unknown {
		return nil, "", models.NewValidationError("file", fmt.Sprintf("Unsupported file type for %s", file.Name))
	}
	if !filetype.IsImage(head) && !filetype.IsVideo(head) {
		return nil, "", models.NewValidationError("file", fmt.Sprintf("File type %s is not allowed", kind.Extension))
	}
	return br, kind.MIME.Value, nil
}

// correlationID derives the readable part of the local id from the file name
// and the time of selection.
func correlationID(name string, at time.Time) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	clean := strings.Trim(b.String(), "-_")
	if len(clean) > 40 {
		clean = clean[:40]
	}
	if clean == "" || clean == "." {
		clean = "file"
	}
	return clean + "_" + strconv.FormatInt(at.UnixMilli(), 10)
}

// progressTracker keeps a file's percentage monotonic. Byte progress tops
// out at 99; only complete reports 100.
type progressTracker struct {
	mu   sync.Mutex
	id   string
	size int64
	last int
	fn   ProgressFunc
}

func newProgressTracker(id string, size int64, fn ProgressFunc) *progressTracker {
	return &progressTracker{id: id, size: size, last: -1, fn: fn}
}

func (p *progressTracker) fromBytes(sent int64) (int, bool) {
	if p.size <= 0 {
		return 0, false
	}
	pct := int(sent * 100 / p.size)
	if pct > 99 {
		pct = 99
	}
	return pct, p.report(pct)
}

func (p *progressTracker) complete() {
	p.report(100)
}

func (p *progressTracker) report(pct int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pct <= p.last {
		return false
	}
	p.last = pct
	if p.fn != nil {
		p.fn(p.id, pct)
	}
	return true
}
