package models

import (
	"time"

	"lostfound/internal/lifecycle"
)

type User struct {
	UserID          string    `json:"userId" db:"user_id"`
	FullName        string    `json:"fullName" db:"full_name"`
	Faculty         string    `json:"faculty" db:"faculty"`
	ClassYear       string    `json:"classYear" db:"class_year"`
	Phone           string    `json:"phone" db:"phone"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	ProfilePhotoURL *string   `json:"profilePhotoUrl" db:"profile_photo_url"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`

	SocialProfiles []SocialProfile `json:"socialProfiles" db:"-"`
}

type SocialProfile struct {
	ContactID  string    `json:"-" db:"contact_id"`
	Platform   string    `json:"platform" db:"platform"`
	ProfileURL string    `json:"profileUrl" db:"profile_url"`
	CreatedAt  time.Time `json:"-" db:"created_at"`
}

// Post is a row of the posts table. Status is the stored status, which may lag
// behind the effective one until the sweeper runs.
type Post struct {
	PostID      string           `json:"postId" db:"post_id"`
	UserID      string           `json:"userId" db:"user_id"`
	ItemName    string           `json:"itemName" db:"item_name"`
	Description string           `json:"description" db:"description"`
	Place       string           `json:"place" db:"place"`
	Status      lifecycle.Status `json:"status" db:"status"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at"`
	ExpiresAt   time.Time        `json:"expiresAt" db:"expires_at"`
}

type PostImage struct {
	ImageID    string    `json:"imageId" db:"image_id"`
	PostID     string    `json:"postId" db:"post_id"`
	ImageURL   string    `json:"imageUrl" db:"image_url"`
	ImageOrder int       `json:"imageOrder" db:"image_order"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// OwnerSummary is the slice of the owning user that is joined into post reads.
type OwnerSummary struct {
	FullName        string          `json:"fullName" db:"full_name"`
	Faculty         string          `json:"faculty" db:"faculty"`
	Phone           string          `json:"phone,omitempty" db:"phone"`
	Email           string          `json:"email,omitempty" db:"email"`
	ProfilePhotoURL *string         `json:"profilePhotoUrl" db:"profile_photo_url"`
	SocialProfiles  []SocialProfile `json:"socialProfiles,omitempty" db:"-"`
}

// PostWithOwner is a post row joined with its owner.
type PostWithOwner struct {
	Post
	OwnerSummary
}

// PostView is what read paths return: the post with its effective status and
// presentation-only fields.
type PostView struct {
	Post
	StoredStatus        lifecycle.Status `json:"storedStatus"`
	Images              []string         `json:"images"`
	Owner               OwnerSummary     `json:"owner"`
	DaysUntilExpiration *int             `json:"daysUntilExpiration,omitempty"`
	IsExpiringSoon      *bool            `json:"isExpiringSoon,omitempty"`
}
