package services

import (
	"context"

	"github.com/rs/zerolog"

	appauth "github.com/eduassist/backend/internal/app/auth"
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// CategoryService handles category taxonomy operations
type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo *repositories.CategoryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List retrieves every category with choices. Visible to all users.
func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// Get retrieves one category with its choices
func (s *CategoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// Create defines a new category. Staff only.
func (s *CategoryService) Create(ctx context.Context, actor *models.User, input dto.CreateCategoryRequest) (*models.Category, error) {
	if !appauth.CanManageCategories(actor) {
		return nil, apperrors.ErrPermissionDenied
	}

	category := &models.Category{
		Name:        input.Name,
		Slug:        helpers.Slugify(input.Name),
		Description: input.Description,
		Choices:     buildChoices(input.Choices),
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("categoryID", category.ID).Str("name", category.Name).Msg("Category created")
	return s.categoryRepo.GetByID(ctx, category.ID)
}

// Update edits a category and rewrites its choice set. Staff only.
func (s *CategoryService) Update(ctx context.Context, actor *models.User, id int64, input dto.UpdateCategoryRequest) (*models.Category, error) {
	if !appauth.CanManageCategories(actor) {
		return nil, apperrors.ErrPermissionDenied
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Slug = helpers.Slugify(input.Name)
	category.Description = input.Description
	category.Choices = buildChoices(input.Choices)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByID(ctx, id)
}

// Delete removes a category. Requests that referenced it survive with the
// category cleared. Staff only.
func (s *CategoryService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if !appauth.CanManageCategories(actor) {
		return apperrors.ErrPermissionDenied
	}

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("categoryID", id).Msg("Category deleted")
	return nil
}

func buildChoices(values []string) []models.CategoryChoice {
	seen := make(map[string]bool, len(values))
	choices := make([]models.CategoryChoice, 0, len(values))
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		choices = append(choices, models.CategoryChoice{Value: value})
	}
	return choices
}
