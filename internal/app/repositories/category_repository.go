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

// CategoryRepository handles category and category choice database operations
type CategoryRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a category with its choices in one transaction
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("categories").
		Columns("name", "slug", "description", "created_at", "updated_at").
		Values(category.Name, category.Slug, category.Description, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create category SQL")
		return fmt.Errorf("failed to build create category query: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, sql, args...).Scan(&category.ID); err != nil {
		if dberrors.IsDuplicateError(err) {
			return apperrors.ErrCategoryAlreadyExists
		}
		logger.Error().Err(err).Str("name", category.Name).Msg("Error executing create category query")
		return fmt.Errorf("error creating category: %w", err)
	}
	category.CreatedAt = now
	category.UpdatedAt = now

	if err := r.replaceChoices(ctx, tx, category); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID retrieves a category with its choices
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "description", "created_at", "updated_at").
		From("categories").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get category query: %w", err)
	}

	var category models.Category
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&category.ID, &category.Name, &category.Slug, &category.Description,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCategoryNotFound
		}
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error scanning category row")
		return nil, fmt.Errorf("error retrieving category: %w", err)
	}

	if err := r.loadChoices(ctx, []*models.Category{&category}); err != nil {
		return nil, err
	}
	return &category, nil
}

// GetChoice retrieves a single choice and verifies it belongs to the category
func (r *CategoryRepository) GetChoice(ctx context.Context, categoryID, choiceID int64) (*models.CategoryChoice, error) {
	sql, args, err := r.sb.Select("id", "category_id", "value").
		From("category_choices").
		Where(squirrel.Eq{"id": choiceID, "category_id": categoryID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get choice query: %w", err)
	}

	var choice models.CategoryChoice
	err = r.db.QueryRow(ctx, sql, args...).Scan(&choice.ID, &choice.CategoryID, &choice.Value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving category choice: %w", err)
	}
	return &choice, nil
}

// GetAll retrieves every category with choices, ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*models.Category, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "description", "created_at", "updated_at").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list categories query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list categories query")
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var category models.Category
		err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Description,
			&category.CreatedAt, &category.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		categories = append(categories, &category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	if err := r.loadChoices(ctx, categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Update edits a category and rewrites its choice set
func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	sql, args, err := r.sb.Update("categories").
		Set("name", category.Name).
		Set("slug", category.Slug).
		Set("description", category.Description).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update category query: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateError(err) {
			return apperrors.ErrCategoryAlreadyExists
		}
		logger.Error().Err(err).Int64("categoryID", category.ID).Msg("Error executing update category query")
		return fmt.Errorf("error updating category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}

	if err := r.replaceChoices(ctx, tx, category); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes a category. Requests referencing it keep existing with a
// nullified category_id via the schema's ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("categories").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete category query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("categoryID", id).Msg("Error executing delete category query")
		return fmt.Errorf("error deleting category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) replaceChoices(ctx context.Context, tx pgx.Tx, category *models.Category) error {
	delSQL, delArgs, err := r.sb.Delete("category_choices").
		Where(squirrel.Eq{"category_id": category.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete choices query: %w", err)
	}
	if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing category choices: %w", err)
	}

	if len(category.Choices) == 0 {
		return nil
	}

	insert := r.sb.Insert("category_choices").Columns("category_id", "value")
	for _, choice := range category.Choices {
		insert = insert.Values(category.ID, choice.Value)
	}
	insSQL, insArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert choices query: %w", err)
	}
	if _, err := tx.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("error inserting category choices: %w", err)
	}
	return nil
}

func (r *CategoryRepository) loadChoices(ctx context.Context, categories []*models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Category, len(categories))
	ids := make([]int64, 0, len(categories))
	for _, category := range categories {
		byID[category.ID] = category
		ids = append(ids, category.ID)
	}

	sql, args, err := r.sb.Select("id", "category_id", "value").
		From("category_choices").
		Where(squirrel.Eq{"category_id": ids}).
		OrderBy("value ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load choices query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading category choices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var choice models.CategoryChoice
		if err := rows.Scan(&choice.ID, &choice.CategoryID, &choice.Value); err != nil {
			return fmt.Errorf("error scanning choice row: %w", err)
		}
		if category, ok := byID[choice.CategoryID]; ok {
			category.Choices = append(category.Choices, choice)
		}
	}
	return rows.Err()
}
