package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/eduassist/backend/internal/app/auth"
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// FeedbackService handles user feedback operations
type FeedbackService struct {
	feedbackRepo *repositories.FeedbackRepository
	logger       zerolog.Logger
}

// NewFeedbackService creates a new FeedbackService
func NewFeedbackService(feedbackRepo *repositories.FeedbackRepository, logger zerolog.Logger) *FeedbackService {
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		logger:       logger,
	}
}

// Create records feedback from actor. The lowest rating requires an
// explanatory comment.
func (s *FeedbackService) Create(ctx context.Context, actor *models.User, input dto.CreateFeedbackRequest) (*models.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}
	if input.Rating == 1 && strings.TrimSpace(input.Comment) == "" {
		return nil, apperrors.ErrCommentRequired
	}

	fb := &models.Feedback{
		UserID:  actor.ID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.feedbackRepo.Create(ctx, fb); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("feedbackID", fb.ID).Int("rating", fb.Rating).Msg("Feedback submitted")
	fb.User = actor
	return fb, nil
}

// Update edits actor's own feedback. Staff may not rewrite other users'
// feedback, only remove it.
func (s *FeedbackService) Update(ctx context.Context, actor *models.User, id int64, input dto.UpdateFeedbackRequest) (*models.Feedback, error) {
	fb, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fb.UserID != actor.ID {
		return nil, apperrors.ErrPermissionDenied
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.ErrInvalidRating
	}
	if input.Rating == 1 && strings.TrimSpace(input.Comment) == "" {
		return nil, apperrors.ErrCommentRequired
	}

	fb.Rating = input.Rating
	fb.Comment = input.Comment
	if err := s.feedbackRepo.Update(ctx, fb); err != nil {
		return nil, err
	}
	fb.User = actor
	return fb, nil
}

// ListMine retrieves actor's own feedback, newest first
func (s *FeedbackService) ListMine(ctx context.Context, actor *models.User, page, size int) ([]*models.Feedback, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.feedbackRepo.ListByUser(ctx, actor.ID, offset, limit)
}

// ListAll retrieves every user's feedback. Staff only.
func (s *FeedbackService) ListAll(ctx context.Context, actor *models.User, page, size int) ([]*models.Feedback, int64, error) {
	if !appauth.CanViewAllFeedback(actor) {
		return nil, 0, apperrors.ErrPermissionDenied
	}
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.feedbackRepo.ListAll(ctx, offset, limit)
}

// Delete removes a feedback record. Owners may delete their own, staff any.
func (s *FeedbackService) Delete(ctx context.Context, actor *models.User, id int64) error {
	fb, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if fb.UserID != actor.ID && !actor.IsStaff() {
		return apperrors.ErrPermissionDenied
	}
	return s.feedbackRepo.Delete(ctx, id)
}
