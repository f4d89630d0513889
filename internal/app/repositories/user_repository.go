package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	"github.com/eduassist/backend/internal/pkg/dberrors"
	"github.com/eduassist/backend/internal/pkg/logger"
)

// UserRepository handles user, profile and settings database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name",
	"role", "is_active", "created_at", "updated_at", "last_login_at",
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt, &user.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a new user and returns its assigned ID
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (int64, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role", "is_active", "created_at", "updated_at").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.Role, user.IsActive, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create user SQL")
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return id, nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", id).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user by email query: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// UpdateUser updates the mutable account fields of a user
func (r *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	sql, args, err := r.sb.Update("users").
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("is_active", user.IsActive).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", user.ID).Msg("Error executing update user query")
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	sql, args, err := r.sb.Update("users").
		Set("password", hashedPassword).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update password query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update password query")
		return fmt.Errorf("error updating password: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the user's last successful login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	sql, args, err := r.sb.Update("users").
		Set("last_login_at", time.Now()).
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update last login query: %w", err)
	}

	if _, err = r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing update last login query")
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// GetProfileByUserID retrieves a user's profile, creating an empty one if none exists yet
func (r *UserRepository) GetProfileByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Select("id", "user_id", "contact_number", "program", "year_level", "bio", "address").
		From("profiles").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get profile query: %w", err)
	}

	var profile models.Profile
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&profile.ID, &profile.UserID, &profile.ContactNumber,
		&profile.Program, &profile.YearLevel, &profile.Bio, &profile.Address,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.createEmptyProfile(ctx, userID)
	}
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning profile row")
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}
	return &profile, nil
}

func (r *UserRepository) createEmptyProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	sql, args, err := r.sb.Insert("profiles").
		Columns("user_id", "contact_number", "program", "year_level", "bio", "address").
		Values(userID, "", "", 1, "", "").
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create profile query: %w", err)
	}

	profile := models.Profile{UserID: userID, YearLevel: 1}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&profile.ID); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error creating empty profile")
		return nil, fmt.Errorf("error creating profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile persists the editable profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	sql, args, err := r.sb.Update("profiles").
		Set("contact_number", profile.ContactNumber).
		Set("program", profile.Program).
		Set("year_level", profile.YearLevel).
		Set("bio", profile.Bio).
		Set("address", profile.Address).
		Where(squirrel.Eq{"user_id": profile.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update profile query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", profile.UserID).Msg("Error executing update profile query")
		return fmt.Errorf("error updating profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetSettingsByUserID retrieves a user's settings, creating defaults on first access
func (r *UserRepository) GetSettingsByUserID(ctx context.Context, userID int64) (*models.UserSettings, error) {
	sql, args, err := r.sb.Select(
		"id", "user_id", "dark_mode", "receive_email", "receive_sms",
		"receive_push", "profile_visible", "allow_data_sharing", "notification_email").
		From("user_settings").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get settings query: %w", err)
	}

	var settings models.UserSettings
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&settings.ID, &settings.UserID, &settings.DarkMode, &settings.ReceiveEmail,
		&settings.ReceiveSMS, &settings.ReceivePush, &settings.ProfileVisible,
		&settings.AllowDataSharing, &settings.NotificationEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.createDefaultSettings(ctx, userID)
	}
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning settings row")
		return nil, fmt.Errorf("error retrieving settings: %w", err)
	}
	return &settings, nil
}

func (r *UserRepository) createDefaultSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings := models.DefaultSettings(userID)
	sql, args, err := r.sb.Insert("user_settings").
		Columns("user_id", "dark_mode", "receive_email", "receive_sms",
			"receive_push", "profile_visible", "allow_data_sharing", "notification_email").
		Values(settings.UserID, settings.DarkMode, settings.ReceiveEmail, settings.ReceiveSMS,
			settings.ReceivePush, settings.ProfileVisible, settings.AllowDataSharing, settings.NotificationEmail).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create settings query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&settings.ID); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error creating default settings")
		return nil, fmt.Errorf("error creating settings: %w", err)
	}
	return settings, nil
}

// UpdateSettings persists the full settings record
func (r *UserRepository) UpdateSettings(ctx context.Context, settings *models.UserSettings) error {
	sql, args, err := r.sb.Update("user_settings").
		Set("dark_mode", settings.DarkMode).
		Set("receive_email", settings.ReceiveEmail).
		Set("receive_sms", settings.ReceiveSMS).
		Set("receive_push", settings.ReceivePush).
		Set("profile_visible", settings.ProfileVisible).
		Set("allow_data_sharing", settings.AllowDataSharing).
		Set("notification_email", settings.NotificationEmail).
		Where(squirrel.Eq{"user_id": settings.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update settings query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", settings.UserID).Msg("Error executing update settings query")
		return fmt.Errorf("error updating settings: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
