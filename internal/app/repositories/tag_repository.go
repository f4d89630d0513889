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

// TagRepository handles tag database operations
type TagRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *pgxpool.Pool) *TagRepository {
	return &TagRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetOrCreate returns the tag with the given normalized name, creating it
// if it does not exist yet. A concurrent insert losing the race falls back
// to re-reading the winner's row.
func (r *TagRepository) GetOrCreate(ctx context.Context, name, slug string) (*models.Tag, error) {
	tag, err := r.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, apperrors.ErrTagNotFound) {
		return nil, err
	}

	now := time.Now()
	sql, args, err := r.sb.Insert("tags").
		Columns("name", "slug", "created_at", "updated_at").
		Values(name, slug, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create tag query: %w", err)
	}

	created := models.Tag{Name: name, Slug: slug, CreatedAt: now, UpdatedAt: now}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&created.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "tags_name_key") {
			return r.GetByName(ctx, name)
		}
		logger.Error().Err(err).Str("name", name).Msg("Error executing create tag query")
		return nil, fmt.Errorf("error creating tag: %w", err)
	}
	return &created, nil
}

// GetByName retrieves a tag by its normalized name
func (r *TagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	sql, args, err := r.sb.Select("id", "name", "slug", "created_at", "updated_at").
		From("tags").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get tag query: %w", err)
	}

	var tag models.Tag
	err = r.db.QueryRow(ctx, sql, args...).Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTagNotFound
		}
		logger.Error().Err(err).Str("name", name).Msg("Error scanning tag row")
		return nil, fmt.Errorf("error retrieving tag: %w", err)
	}
	return &tag, nil
}

// Search returns up to limit tags whose name contains the query, for autosuggest
func (r *TagRepository) Search(ctx context.Context, query string, limit int) ([]models.Tag, error) {
	builder := r.sb.Select("id", "name", "slug", "created_at", "updated_at").
		From("tags").
		OrderBy("name ASC").
		Limit(uint64(limit))
	if query != "" {
		builder = builder.Where(squirrel.ILike{"name": "%" + query + "%"})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search tags query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("query", query).Msg("Error executing search tags query")
		return nil, fmt.Errorf("error searching tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
