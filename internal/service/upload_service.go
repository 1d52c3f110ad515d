package service

import (
	"context"

	"lostfound/internal/storage"
)

type UploadService interface {
	UploadPostImage(ctx context.Context, upload Upload) (string, error)
}

type uploadService struct {
	storage storage.Storage
}

func NewUploadService(store storage.Storage) UploadService {
	return &uploadService{storage: store}
}

// UploadPostImage stores an image ahead of post creation and returns its URL.
func (u *uploadService) UploadPostImage(ctx context.Context, upload Upload) (string, error) {
	_, url, err := u.storage.UploadImage(ctx, "posts", upload.FileName, upload.File, upload.Size, upload.ContentType)
	if err != nil {
		return "", err
	}
	return url, nil
}
