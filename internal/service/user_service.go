package service

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"lostfound/internal/clock"
	"lostfound/internal/models"
	"lostfound/internal/repository"
	"lostfound/internal/storage"
)

type UpdateUserRequest struct {
	UserID      string
	RequesterID string
	Fields      repository.UpdateUserFields
}

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) error
	DeleteUser(ctx context.Context, userID, requesterID string) error
	UpdateProfilePhoto(ctx context.Context, userID, requesterID string, upload Upload) (string, error)
}

// Upload is an already sniffed image file.
type Upload struct {
	FileName    string
	File        io.Reader
	Size        int64
	ContentType string
}

type userService struct {
	userRepo repository.UserRepository
	storage  storage.Storage
	clock    clock.Clock
}

func NewUserService(userRepo repository.UserRepository, store storage.Storage, clk clock.Clock) UserService {
	return &userService{
		userRepo: userRepo,
		storage:  store,
		clock:    clk,
	}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	socials, err := s.userRepo.GetSocialProfiles(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.SocialProfiles = socials

	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, req UpdateUserRequest) error {
	if req.UserID != req.RequesterID {
		return fmt.Errorf("user %s cannot edit %s: %w", req.RequesterID, req.UserID, models.ErrForbidden)
	}

	if req.Fields.Empty() {
		return models.ErrNoFieldsToUpdate
	}

	return s.userRepo.UpdateUser(ctx, req.UserID, req.Fields, s.clock.Now())
}

func (s *userService) DeleteUser(ctx context.Context, userID, requesterID string) error {
	if userID != requesterID {
		return fmt.Errorf("user %s cannot delete %s: %w", requesterID, userID, models.ErrForbidden)
	}

	return s.userRepo.DeleteUser(ctx, userID)
}

// UpdateProfilePhoto uploads the photo and points the profile at it. The
// object is removed again if the profile update fails; otherwise the previous
// photo is removed.
func (s *userService) UpdateProfilePhoto(ctx context.Context, userID, requesterID string, upload Upload) (string, error) {
	if userID != requesterID {
		return "", fmt.Errorf("user %s cannot edit %s: %w", requesterID, userID, models.ErrForbidden)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}

	objectName, url, err := s.storage.UploadImage(ctx, "profiles", upload.FileName, upload.File, upload.Size, upload.ContentType)
	if err != nil {
		return "", err
	}

	fields := repository.UpdateUserFields{ProfilePhotoURL: &url}
	if err := s.userRepo.UpdateUser(ctx, userID, fields, s.clock.Now()); err != nil {
		if delErr := s.storage.DeleteImage(ctx, objectName); delErr != nil {
			log.Warn("failed to remove orphaned profile photo", "object", objectName, "err", delErr)
		}
		return "", err
	}

	if user.ProfilePhotoURL != nil && *user.ProfilePhotoURL != url {
		s.removePhoto(ctx, *user.ProfilePhotoURL)
	}

	return url, nil
}

// removePhoto is best effort; a leftover object never fails the request.
func (s *userService) removePhoto(ctx context.Context, url string) {
	objectName, ok := s.storage.ObjectNameFromURL(url)
	if !ok {
		log.Warn("previous profile photo is not in the bucket, leaving it", "url", url)
		return
	}
	if err := s.storage.DeleteImage(ctx, objectName); err != nil {
		log.Warn("failed to remove previous profile photo", "object", objectName, "err", err)
	}
}
