package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/repositories"
)

// UserService handles profile and settings operations
type UserService struct {
	userRepo *repositories.UserRepository
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// GetProfile retrieves the profile of a user, with the account inline.
// Missing profile rows are created lazily.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.User = user
	return profile, nil
}

// UpdateProfile applies profile edits alongside the account name fields
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, input dto.UpdateProfileRequest) (*models.Profile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.ContactNumber = input.ContactNumber
	profile.Program = input.Program
	if input.YearLevel != 0 {
		profile.YearLevel = input.YearLevel
	}
	profile.Bio = input.Bio
	profile.Address = input.Address

	if err := s.userRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	profile.User = user
	return profile, nil
}

// GetSettings retrieves a user's settings, creating defaults on first access
func (s *UserService) GetSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	return s.userRepo.GetSettingsByUserID(ctx, userID)
}

// UpdateSettings applies a partial settings update. Only fields present in
// the input change.
func (s *UserService) UpdateSettings(ctx context.Context, userID int64, input dto.UpdateSettingsRequest) (*models.UserSettings, error) {
	settings, err := s.userRepo.GetSettingsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DarkMode != nil {
		settings.DarkMode = *input.DarkMode
	}
	if input.ReceiveEmail != nil {
		settings.ReceiveEmail = *input.ReceiveEmail
	}
	if input.ReceiveSMS != nil {
		settings.ReceiveSMS = *input.ReceiveSMS
	}
	if input.ReceivePush != nil {
		settings.ReceivePush = *input.ReceivePush
	}
	if input.ProfileVisible != nil {
		settings.ProfileVisible = *input.ProfileVisible
	}
	if input.AllowDataSharing != nil {
		settings.AllowDataSharing = *input.AllowDataSharing
	}
	if input.NotificationEmail != nil {
		if *input.NotificationEmail == "" {
			settings.NotificationEmail = nil
		} else {
			settings.NotificationEmail = input.NotificationEmail
		}
	}

	if err := s.userRepo.UpdateSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
