package service

import "github.com/maheshrc27/postflow-studio/internal/models"

func assetIDs(media []*models.UploadedMediaAsset) []string {
	ids := make([]string, 0, len(media))
	for _, m := range media {
		ids = append(ids, m.ID)
	}
	return ids
}

func hasAsset(media []*models.UploadedMediaAsset, id string) bool {
	for _, m := range media {
		if m.ID == id {
			return true
		}
	}
	return false
}
