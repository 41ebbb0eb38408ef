package service

import (
	"context"
	"errors"
	"log"

	"github.com/formforge/backend/internal/modules/user/dto"
	repository "github.com/formforge/backend/internal/modules/user/repository"
	"github.com/formforge/backend/pkg/apperror"
	"github.com/formforge/backend/pkg/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService interface {
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.UserProfile, error)
}

type profileService struct {
	repo    repository.UserRepository
	avatars storage.AvatarStorage
}

func NewProfileService(repo repository.UserRepository, avatars storage.AvatarStorage) ProfileService {
	return &profileService{repo: repo, avatars: avatars}
}

func (s *profileService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return dto.NewUserProfile(user), nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input dto.UpdateProfileInput) (*dto.UserProfile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		user.Name = *input.Name
	}

	if input.Avatar != nil {
		if s.avatars == nil {
			return nil, apperror.New(0, "avatar storage is not configured", apperror.ErrInvalidInput)
		}

		url, err := s.avatars.UploadAvatar(ctx, input.Avatar.Reader, input.Avatar.FileName)
		if err != nil {
			return nil, err
		}

		if user.AvatarURL != nil && *user.AvatarURL != "" {
			if err := s.avatars.DeleteAvatar(ctx, *user.AvatarURL); err != nil {
				log.Printf("failed to delete previous avatar: %v", err)
			}
		}
		user.AvatarURL = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.NewUserProfile(user), nil
}
