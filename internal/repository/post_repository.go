package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lostfound/internal/lifecycle"
	"lostfound/internal/models"
)

const postWithOwnerColumns = `
	p.post_id, p.user_id, p.item_name, p.description, p.place, p.status,
	p.created_at, p.updated_at, p.expires_at,
	u.full_name, u.faculty, u.phone, u.email, u.profile_photo_url`

// activeCondition selects rows whose effective status is still lost/found at $1.
const activeCondition = `p.status IN ('lost', 'found') AND p.expires_at > $1`

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

// Create inserts the post and its images in one transaction.
// CreatedAt and ExpiresAt must already be set by the caller.
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, imageURLs []string) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = post.CreatedAt
	}

	query := `
		INSERT INTO posts
		(post_id, user_id, item_name, description, place, status, created_at, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			post.PostID,
			post.UserID,
			post.ItemName,
			post.Description,
			post.Place,
			string(post.Status),
			post.CreatedAt,
			post.UpdatedAt,
			post.ExpiresAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("user %s: %w", post.UserID, models.ErrNotFound)
			}
			return fmt.Errorf("create post: %w", err)
		}

		return insertImages(ctx, tx, post.PostID, imageURLs, post.CreatedAt)
	})
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.PostWithOwner, error) {
	if _, err := uuid.Parse(postID); err != nil {
		return nil, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	query := `SELECT` + postWithOwnerColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.user_id
		WHERE p.post_id = $1
	`

	var post models.PostWithOwner
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// ListActive returns posts that are lost/found and not past their deadline at now,
// newest first.
func (r *PostRepositoryImpl) ListActive(ctx context.Context, filter ListFilter, now time.Time) ([]models.PostWithOwner, error) {
	var b strings.Builder
	b.WriteString(`SELECT` + postWithOwnerColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.user_id
		WHERE ` + activeCondition)

	args := []any{now}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&b, " AND p.status = $%d", len(args))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		fmt.Fprintf(&b, " AND (p.item_name ILIKE $%d OR p.description ILIKE $%d OR u.full_name ILIKE $%d)", n, n, n)
	}

	b.WriteString(" ORDER BY p.created_at DESC")

	posts := []models.PostWithOwner{}
	if err := r.db.SelectContext(ctx, &posts, b.String(), args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// ListByUser returns every post of the user: active ones first, then the rest,
// each group newest first. A malformed id is ErrNotFound, like every other
// lookup by id; a well-formed id without posts is an empty list.
func (r *PostRepositoryImpl) ListByUser(ctx context.Context, userID string, now time.Time) ([]models.PostWithOwner, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	query := `SELECT` + postWithOwnerColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.user_id
		WHERE p.user_id = $2
		ORDER BY
			CASE WHEN ` + activeCondition + ` THEN 1 ELSE 2 END,
			p.created_at DESC
	`

	posts := []models.PostWithOwner{}
	if err := r.db.SelectContext(ctx, &posts, query, now, userID); err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}

	return posts, nil
}

// Update applies the non-nil fields and bumps updated_at. created_at and
// expires_at are never written here.
func (r *PostRepositoryImpl) Update(ctx context.Context, postID string, fields UpdatePostFields, now time.Time) error {
	if fields.Empty() {
		return models.ErrNoFieldsToUpdate
	}
	if _, err := uuid.Parse(postID); err != nil {
		return fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	var set setBuilder
	if fields.ItemName != nil {
		set.add("item_name", *fields.ItemName)
	}
	if fields.Description != nil {
		set.add("description", *fields.Description)
	}
	if fields.Status != nil {
		set.add("status", string(*fields.Status))
	}
	if fields.Place != nil {
		set.add("place", *fields.Place)
	}
	set.add("updated_at", now)

	args := append(set.args, postID)
	query := fmt.Sprintf("UPDATE posts SET %s WHERE post_id = $%d", set.String(), len(args))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	return nil
}

// Delete removes the post; its images go with it through ON DELETE CASCADE.
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	if _, err := uuid.Parse(postID); err != nil {
		return fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("post %s: %w", postID, models.ErrNotFound)
	}

	return nil
}

// MarkExpired moves every lost/found post whose deadline is at or before now
// to expired in a single statement.
func (r *PostRepositoryImpl) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE posts SET
			status = 'expired',
			updated_at = $1
		WHERE status IN ('lost', 'found') AND expires_at <= $1
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("mark expired posts: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark expired rows affected: %w", err)
	}

	return n, nil
}

// PurgeExpired hard-deletes expired posts whose deadline is at or before cutoff.
func (r *PostRepositoryImpl) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM posts WHERE status = $1 AND expires_at <= $2`

	result, err := r.db.ExecContext(ctx, query, string(lifecycle.Expired), cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge expired posts: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge expired rows affected: %w", err)
	}

	return n, nil
}
