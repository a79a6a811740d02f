package repository

import (
	"context"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/remote"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

// CollectionRepository only lists collections; their lifecycle is owned elsewhere.
type CollectionRepository interface {
	List(ctx context.Context, cred session.Credential) ([]*models.Collection, error)
}

type collectionRepository struct {
	api *remote.Client
}

func NewCollectionRepository(api *remote.Client) CollectionRepository {
	return &collectionRepository{api: api}
}

func (r *collectionRepository) List(ctx context.Context, cred session.Credential) ([]*models.Collection, error) {
	rows, err := r.api.ListCollections(ctx, cred)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Collection, 0, len(rows))
	for _, row := range rows {
		out = append(out, &models.Collection{ID: row.ID, Name: row.Name})
	}
	return out, nil
}
