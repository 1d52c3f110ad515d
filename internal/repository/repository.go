package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"lostfound/internal/lifecycle"
	"lostfound/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetSocialProfiles(ctx context.Context, userID string) ([]models.SocialProfile, error)
	UpdateUser(ctx context.Context, userID string, fields UpdateUserFields, now time.Time) error
	DeleteUser(ctx context.Context, userID string) error
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, imageURLs []string) error
	GetByID(ctx context.Context, postID string) (*models.PostWithOwner, error)
	ListActive(ctx context.Context, filter ListFilter, now time.Time) ([]models.PostWithOwner, error)
	ListByUser(ctx context.Context, userID string, now time.Time) ([]models.PostWithOwner, error)
	Update(ctx context.Context, postID string, fields UpdatePostFields, now time.Time) error
	Delete(ctx context.Context, postID string) error
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type ImageRepository interface {
	GetByPostID(ctx context.Context, postID string) ([]models.PostImage, error)
	GetURLsByPostIDs(ctx context.Context, postIDs []string) (map[string][]string, error)
}

type StatsRepository interface {
	CountByEffectiveStatus(ctx context.Context, now time.Time) (map[lifecycle.Status]int, error)
}

// ListFilter narrows the public listing. Zero values mean no filter.
type ListFilter struct {
	Status lifecycle.Status
	Search string
}

// UpdatePostFields is a partial update; nil fields are left untouched.
type UpdatePostFields struct {
	ItemName    *string
	Description *string
	Status      *lifecycle.Status
	Place       *string
}

func (f UpdatePostFields) Empty() bool {
	return f.ItemName == nil && f.Description == nil && f.Status == nil && f.Place == nil
}

// UpdateUserFields is a partial profile update. A non-nil SocialProfiles
// replaces the user's links.
type UpdateUserFields struct {
	FullName        *string
	Faculty         *string
	ClassYear       *string
	Phone           *string
	Email           *string
	ProfilePhotoURL *string
	SocialProfiles  *[]models.SocialProfile
}

func (f UpdateUserFields) Empty() bool {
	return f.FullName == nil && f.Faculty == nil && f.ClassYear == nil && f.Phone == nil &&
		f.Email == nil && f.ProfilePhotoURL == nil && f.SocialProfiles == nil
}

type Repository struct {
	User  UserRepository
	Post  PostRepository
	Image ImageRepository
	Stats StatsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:  NewUserRepository(db),
		Post:  NewPostRepository(db),
		Image: NewImageRepository(db),
		Stats: NewStatsRepository(db),
	}
}
