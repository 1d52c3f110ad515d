package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"lostfound/internal/models"
)

type ImageRepositoryImpl struct {
	db *sqlx.DB
}

func NewImageRepository(db *sqlx.DB) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

// insertImages stores image references in the order given; the slice index
// becomes image_order.
func insertImages(ctx context.Context, tx *sqlx.Tx, postID string, imageURLs []string, createdAt time.Time) error {
	query := `
		INSERT INTO post_images (image_id, post_id, image_url, image_order, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for order, imageURL := range imageURLs {
		_, err := tx.ExecContext(ctx, query, uuid.New().String(), postID, imageURL, order, createdAt)
		if err != nil {
			return fmt.Errorf("create post image %d: %w", order, err)
		}
	}

	return nil
}

func (r *ImageRepositoryImpl) GetByPostID(ctx context.Context, postID string) ([]models.PostImage, error) {
	query := `
		SELECT image_id, post_id, image_url, image_order, created_at
		FROM post_images
		WHERE post_id = $1
		ORDER BY image_order, created_at, image_id
	`

	images := []models.PostImage{}
	if err := r.db.SelectContext(ctx, &images, query, postID); err != nil {
		return nil, fmt.Errorf("get post images: %w", err)
	}

	return images, nil
}

// GetURLsByPostIDs loads the ordered image URLs of many posts in one query.
func (r *ImageRepositoryImpl) GetURLsByPostIDs(ctx context.Context, postIDs []string) (map[string][]string, error) {
	result := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, image_url
		FROM post_images
		WHERE post_id = ANY($1)
		ORDER BY post_id, image_order, created_at, image_id
	`

	var rows []struct {
		PostID   string `db:"post_id"`
		ImageURL string `db:"image_url"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("get images for posts: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.ImageURL)
	}

	return result, nil
}
