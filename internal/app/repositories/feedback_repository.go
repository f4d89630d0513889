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
	"github.com/eduassist/backend/internal/pkg/logger"
)

// FeedbackRepository handles feedback database operations
type FeedbackRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new feedback record
func (r *FeedbackRepository) Create(ctx context.Context, fb *models.Feedback) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("feedback").
		Columns("user_id", "rating", "comment", "created_at", "updated_at").
		Values(fb.UserID, fb.Rating, fb.Comment, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create feedback SQL")
		return fmt.Errorf("failed to build create feedback query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&fb.ID); err != nil {
		logger.Error().Err(err).Int64("userID", fb.UserID).Msg("Error executing create feedback query")
		return fmt.Errorf("error creating feedback: %w", err)
	}
	fb.CreatedAt = now
	fb.UpdatedAt = now
	return nil
}

// Update rewrites the rating and comment of a feedback record
func (r *FeedbackRepository) Update(ctx context.Context, fb *models.Feedback) error {
	sql, args, err := r.sb.Update("feedback").
		Set("rating", fb.Rating).
		Set("comment", fb.Comment).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": fb.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update feedback SQL")
		return fmt.Errorf("failed to build update feedback query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("feedbackID", fb.ID).Msg("Error executing update feedback query")
		return fmt.Errorf("error updating feedback: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeedbackNotFound
	}
	return nil
}

// GetByID retrieves a feedback record
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*models.Feedback, error) {
	sql, args, err := r.sb.Select("id", "user_id", "rating", "comment", "created_at", "updated_at").
		From("feedback").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get feedback query: %w", err)
	}

	var fb models.Feedback
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&fb.ID, &fb.UserID, &fb.Rating, &fb.Comment, &fb.CreatedAt, &fb.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFeedbackNotFound
		}
		logger.Error().Err(err).Int64("feedbackID", id).Msg("Error scanning feedback row")
		return nil, fmt.Errorf("error retrieving feedback: %w", err)
	}
	return &fb, nil
}

// ListByUser retrieves a user's own feedback, newest first
func (r *FeedbackRepository) ListByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]*models.Feedback, int64, error) {
	return r.list(ctx, &userID, offset, limit)
}

// ListAll retrieves every user's feedback, newest first (staff view)
func (r *FeedbackRepository) ListAll(ctx context.Context, offset uint64, limit int) ([]*models.Feedback, int64, error) {
	return r.list(ctx, nil, offset, limit)
}

func (r *FeedbackRepository) list(ctx context.Context, userID *int64, offset uint64, limit int) ([]*models.Feedback, int64, error) {
	countBuilder := r.sb.Select("COUNT(*)").From("feedback")
	listBuilder := r.sb.Select(
		"f.id", "f.user_id", "f.rating", "f.comment", "f.created_at", "f.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.role", "u.is_active").
		From("feedback f").
		Join("users u ON u.id = f.user_id").
		OrderBy("f.created_at DESC").
		Offset(offset).
		Limit(uint64(limit))

	if userID != nil {
		countBuilder = countBuilder.Where(squirrel.Eq{"user_id": *userID})
		listBuilder = listBuilder.Where(squirrel.Eq{"f.user_id": *userID})
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count feedback query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting feedback")
		return nil, 0, fmt.Errorf("error counting feedback: %w", err)
	}

	listSQL, listArgs, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list feedback query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list feedback query")
		return nil, 0, fmt.Errorf("error listing feedback: %w", err)
	}
	defer rows.Close()

	var feedback []*models.Feedback
	for rows.Next() {
		var fb models.Feedback
		var user models.User
		err := rows.Scan(
			&fb.ID, &fb.UserID, &fb.Rating, &fb.Comment, &fb.CreatedAt, &fb.UpdatedAt,
			&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.IsActive,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning feedback row: %w", err)
		}
		fb.User = &user
		feedback = append(feedback, &fb)
	}
	return feedback, total, rows.Err()
}

// Delete removes a feedback record
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("feedback").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete feedback query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("feedbackID", id).Msg("Error executing delete feedback query")
		return fmt.Errorf("error deleting feedback: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrFeedbackNotFound
	}
	return nil
}
