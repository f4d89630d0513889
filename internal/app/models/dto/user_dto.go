package dto

import "github.com/eduassist/backend/internal/app/models"

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	IsActive  bool   `json:"isActive"`
}

// FromUser converts a models.User to a UserResponse
func FromUser(user *models.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
	}
}

// ProfileResponse represents a user's profile with the account details inline
type ProfileResponse struct {
	User          UserResponse `json:"user"`
	ContactNumber string       `json:"contactNumber"`
	Program       string       `json:"program"`
	YearLevel     int          `json:"yearLevel"`
	Bio           string       `json:"bio"`
	Address       string       `json:"address"`
}

// FromProfile converts a models.Profile (with User relation) to a ProfileResponse
func FromProfile(profile *models.Profile) ProfileResponse {
	if profile == nil {
		return ProfileResponse{}
	}
	resp := ProfileResponse{
		ContactNumber: profile.ContactNumber,
		Program:       profile.Program,
		YearLevel:     profile.YearLevel,
		Bio:           profile.Bio,
		Address:       profile.Address,
	}
	if profile.User != nil {
		resp.User = FromUser(profile.User)
	}
	return resp
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	ContactNumber string `json:"contactNumber" binding:"omitempty,max=32"`
	Program       string `json:"program" binding:"omitempty,max=128"`
	YearLevel     int    `json:"yearLevel" binding:"omitempty,min=1,max=5"`
	Bio           string `json:"bio" binding:"omitempty,max=1000"`
	Address       string `json:"address" binding:"omitempty,max=255"`
}

// SettingsResponse represents a user's preference toggles
type SettingsResponse struct {
	DarkMode          bool    `json:"darkMode"`
	ReceiveEmail      bool    `json:"receiveEmail"`
	ReceiveSMS        bool    `json:"receiveSms"`
	ReceivePush       bool    `json:"receivePush"`
	ProfileVisible    bool    `json:"profileVisible"`
	AllowDataSharing  bool    `json:"allowDataSharing"`
	NotificationEmail *string `json:"notificationEmail,omitempty"`
}

// FromSettings converts a models.UserSettings to a SettingsResponse
func FromSettings(settings *models.UserSettings) SettingsResponse {
	if settings == nil {
		return SettingsResponse{}
	}
	return SettingsResponse{
		DarkMode:          settings.DarkMode,
		ReceiveEmail:      settings.ReceiveEmail,
		ReceiveSMS:        settings.ReceiveSMS,
		ReceivePush:       settings.ReceivePush,
		ProfileVisible:    settings.ProfileVisible,
		AllowDataSharing:  settings.AllowDataSharing,
		NotificationEmail: settings.NotificationEmail,
	}
}

// UpdateSettingsRequest represents a settings update.
// Pointer fields distinguish "leave unchanged" from an explicit false.
type UpdateSettingsRequest struct {
	DarkMode          *bool   `json:"darkMode"`
	ReceiveEmail      *bool   `json:"receiveEmail"`
	ReceiveSMS        *bool   `json:"receiveSms"`
	ReceivePush       *bool   `json:"receivePush"`
	ProfileVisible    *bool   `json:"profileVisible"`
	AllowDataSharing  *bool   `json:"allowDataSharing"`
	NotificationEmail *string `json:"notificationEmail" binding:"omitempty,email"`
}
