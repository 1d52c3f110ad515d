package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lostfound/internal/models"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `user_id, full_name, faculty, class_year, phone, email, password_hash,
	profile_photo_url, created_at, updated_at`

// CreateUser inserts the user and its social profile links in one transaction.
// PasswordHash must already be set.
func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}

	query := `
		INSERT INTO users (user_id, full_name, faculty, class_year, phone, email, password_hash,
			profile_photo_url, created_at, updated_at)
		VALUES (:user_id, :full_name, :faculty, :class_year, :phone, :email, :password_hash,
			:profile_photo_url, :created_at, :updated_at)
	`

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
			if isUniqueViolation(err) {
				return models.ErrEmailTaken
			}
			return fmt.Errorf("create user: %w", err)
		}

		return insertSocialProfiles(ctx, tx, user.UserID, user.SocialProfiles, user.CreatedAt)
	})
}

func insertSocialProfiles(ctx context.Context, tx *sqlx.Tx, userID string, profiles []models.SocialProfile, createdAt time.Time) error {
	for i := range profiles {
		profile := &profiles[i]
		profile.ContactID = uuid.New().String()
		profile.CreatedAt = createdAt

		_, err := tx.ExecContext(ctx,
			`INSERT INTO social_profiles (contact_id, platform, profile_url, created_at) VALUES ($1, $2, $3, $4)`,
			profile.ContactID, profile.Platform, profile.ProfileURL, profile.CreatedAt)
		if err != nil {
			return fmt.Errorf("create social profile: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_social_profiles (user_id, contact_id) VALUES ($1, $2)`,
			userID, profile.ContactID)
		if err != nil {
			return fmt.Errorf("link social profile: %w", err)
		}
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetSocialProfiles(ctx context.Context, userID string) ([]models.SocialProfile, error) {
	query := `
		SELECT sp.contact_id, sp.platform, sp.profile_url, sp.created_at
		FROM social_profiles sp
		JOIN user_social_profiles usp ON usp.contact_id = sp.contact_id
		WHERE usp.user_id = $1
		ORDER BY sp.created_at, sp.contact_id
	`

	profiles := []models.SocialProfile{}
	if err := r.db.SelectContext(ctx, &profiles, query, userID); err != nil {
		return nil, fmt.Errorf("get social profiles: %w", err)
	}

	return profiles, nil
}

// UpdateUser applies the non-nil fields. When SocialProfiles is set the
// existing links are replaced inside the same transaction.
func (r *userRepository) UpdateUser(ctx context.Context, userID string, fields UpdateUserFields, now time.Time) error {
	if fields.Empty() {
		return models.ErrNoFieldsToUpdate
	}
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	var set setBuilder
	if fields.FullName != nil {
		set.add("full_name", *fields.FullName)
	}
	if fields.Faculty != nil {
		set.add("faculty", *fields.Faculty)
	}
	if fields.ClassYear != nil {
		set.add("class_year", *fields.ClassYear)
	}
	if fields.Phone != nil {
		set.add("phone", *fields.Phone)
	}
	if fields.Email != nil {
		set.add("email", *fields.Email)
	}
	if fields.ProfilePhotoURL != nil {
		set.add("profile_photo_url", *fields.ProfilePhotoURL)
	}
	set.add("updated_at", now)

	args := append(set.args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", set.String(), len(args))

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			if isUniqueViolation(err) {
				return models.ErrEmailTaken
			}
			return fmt.Errorf("update user: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("update user rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}

		if fields.SocialProfiles == nil {
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			DELETE FROM social_profiles
			WHERE contact_id IN (SELECT contact_id FROM user_social_profiles WHERE user_id = $1)
		`, userID)
		if err != nil {
			return fmt.Errorf("remove social profiles: %w", err)
		}

		return insertSocialProfiles(ctx, tx, userID, *fields.SocialProfiles, now)
	})
}

// DeleteUser removes the user; posts, post images and social links cascade.
func (r *userRepository) DeleteUser(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}

	return nil
}
