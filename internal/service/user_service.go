package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"quizdeck/internal/blob"
	"quizdeck/internal/domain"
	"quizdeck/internal/dto"
	"quizdeck/internal/logger"
	"quizdeck/internal/repository"

	"go.uber.org/zap"
)

// UserService covers profiles. Stats mutations live in StatsService; the
// profile update path cannot touch counters or email.
type UserService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error)
	UploadProfilePhoto(ctx context.Context, userID, filename string, content io.Reader) (string, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	uploader blob.Uploader
}

// NewUserService creates a new instance of UserService. uploader may be
// nil, in which case photo uploads are rejected.
func NewUserService(userRepo repository.UserRepository, uploader blob.Uploader) UserService {
	return &userServiceImpl{userRepo: userRepo, uploader: uploader}
}

func (s *userServiceImpl) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewUserNotFoundError(userID)
	}
	return user, nil
}

// UpdateProfile merges the mutable profile fields. Email is immutable and
// not part of the request shape.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]any)
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, domain.NewInvalidInputError("display name must not be empty")
		}
		user.DisplayName = name
		patch["displayName"] = name
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
		patch["photoUrl"] = user.PhotoURL
	}
	if len(patch) == 0 {
		return user, nil
	}

	if err := s.userRepo.Update(ctx, userID, patch); err != nil {
		return nil, domain.NewInternalError("failed to update profile", err)
	}
	return user, nil
}

// UploadProfilePhoto stores the photo in blob storage and points the
// profile at its public URL.
func (s *userServiceImpl) UploadProfilePhoto(ctx context.Context, userID, filename string, content io.Reader) (string, error) {
	if s.uploader == nil {
		return "", domain.NewInvalidInputError("photo uploads are not enabled")
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return "", err
	}

	objectKey := fmt.Sprintf("profile/%s/photo%s", userID, filepath.Ext(filename))
	photoURL, err := s.uploader.Upload(ctx, objectKey, filename, content)
	if err != nil {
		return "", domain.NewInternalError("failed to upload profile photo", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]any{"photoUrl": photoURL}); err != nil {
		return "", domain.NewInternalError("failed to save profile photo URL", err)
	}

	logger.Get().Info("Profile photo updated", zap.String("userID", userID))
	return photoURL, nil
}
