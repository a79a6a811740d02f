package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/jinzhu/copier"
	"github.com/maheshrc27/postflow-studio/internal/models"
)

var ErrAssetNotFound = errors.New("media asset not found")

// MediaAssetRepository is the active asset set of each user: pending and
// complete uploads. Failed and released assets are removed from it.
type MediaAssetRepository interface {
	Create(ctx context.Context, userID string, ma *models.UploadedMediaAsset) error
	Update(ctx context.Context, userID string, ma *models.UploadedMediaAsset) error
	GetByID(ctx context.Context, userID, id string) (*models.UploadedMediaAsset, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.UploadedMediaAsset, error)
	Remove(ctx context.Context, userID string, ids ...string) error
}

type mediaAssetRepository struct {
	mu     sync.RWMutex
	assets map[string]map[string]*models.UploadedMediaAsset
	order  map[string][]string
}

func NewMediaAssetRepository() MediaAssetRepository {
	return &mediaAssetRepository{
		assets: make(map[string]map[string]*models.UploadedMediaAsset),
		order:  make(map[string][]string),
	}
}

func (r *mediaAssetRepository) Create(ctx context.Context, userID string, ma *models.UploadedMediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.assets[userID] == nil {
		r.assets[userID] = make(map[string]*models.UploadedMediaAsset)
	}
	if _, ok := r.assets[userID][ma.ID]; !ok {
		r.order[userID] = append(r.order[userID], ma.ID)
	}
	r.assets[userID][ma.ID] = clone(ma)
	return nil
}

func (r *mediaAssetRepository) Update(ctx context.Context, userID string, ma *models.UploadedMediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[userID][ma.ID]; !ok {
		return ErrAssetNotFound
	}
	r.assets[userID][ma.ID] = clone(ma)
	return nil
}

func (r *mediaAssetRepository) GetByID(ctx context.Context, userID, id string) (*models.UploadedMediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ma, ok := r.assets[userID][id]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return clone(ma), nil
}

func (r *mediaAssetRepository) ListByUserID(ctx context.Context, userID string) ([]*models.UploadedMediaAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.UploadedMediaAsset, 0, len(r.order[userID]))
	for _, id := range r.order[userID] {
		if ma, ok := r.assets[userID][id]; ok {
			out = append(out, clone(ma))
		}
	}
	return out, nil
}

func (r *mediaAssetRepository) Remove(ctx context.Context, userID string, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.assets[userID], id)
	}
	kept := r.order[userID][:0]
	for _, id := range r.order[userID] {
		if _, ok := r.assets[userID][id]; ok {
			kept = append(kept, id)
		}
	}
	r.order[userID] = kept
	if len(kept) == 0 {
		delete(r.order, userID)
		delete(r.assets, userID)
	}
	return nil
}

func clone(ma *models.UploadedMediaAsset) *models.UploadedMediaAsset {
	var out models.UploadedMediaAsset
	if err := copier.Copy(&out, ma); err != nil {
		c := *ma
		return &c
	}
	return &out
}
