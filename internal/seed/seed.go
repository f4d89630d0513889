package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/eduassist/backend/internal/app/models"
	appRepos "github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	pkgAuth "github.com/eduassist/backend/internal/pkg/auth"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// defaultCategories is the built-in help-desk taxonomy. Staff can reshape
// it through the category endpoints afterwards.
var defaultCategories = []struct {
	Name    string
	Choices []string
}{
	{"Academic", []string{"Course Material", "Grades", "Assignments", "Exam Schedule"}},
	{"Finance", []string{"Tuition Fee", "Scholarship", "Refund"}},
	{"Technical", []string{"Login Issue", "Software Installation", "Wi-Fi / Network Issue"}},
	{"Administrative", []string{"ID Card", "Room Allocation", "Library Access"}},
}

// CreateDefaultData creates the default categories and the initial admin
// account if they don't exist yet.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	categoryRepo := appRepos.NewCategoryRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (categories, admin account)...")
	var finalErr error

	for _, dc := range defaultCategories {
		category := &appModels.Category{
			Name: dc.Name,
			Slug: helpers.Slugify(dc.Name),
		}
		for _, value := range dc.Choices {
			category.Choices = append(category.Choices, appModels.CategoryChoice{Value: value})
		}

		err := categoryRepo.Create(ctx, category)
		if err != nil && !errors.Is(err, apperrors.ErrCategoryAlreadyExists) {
			lgr.Error().Err(err).Str("category", dc.Name).Msg("Error creating default category")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createDefaultAdmin(ctx, userRepo, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	return finalErr
}

func createDefaultAdmin(ctx context.Context, userRepo *appRepos.UserRepository, lgr zerolog.Logger) error {
	hashed, err := pkgAuth.HashPassword("changeme123")
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing default admin password")
		return err
	}

	admin := &appModels.User{
		Email:     "admin@eduassist.app",
		Password:  hashed,
		FirstName: "System",
		LastName:  "Admin",
		Role:      appModels.RoleAdmin,
		IsActive:  true,
	}

	_, err = userRepo.CreateUser(ctx, admin)
	if err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return err
	}
	if err == nil {
		lgr.Warn().Str("email", admin.Email).Msg("Default admin account created with a placeholder password, change it immediately")
	}
	return nil
}
