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

// Ordering policies for request listings
const (
	OrderNewest      = "newest"
	OrderStatusFirst = "status_first"
)

// RequestFilter narrows a request listing. A nil OwnerID means no
// visibility scoping (staff view).
type RequestFilter struct {
	OwnerID    *int64
	Status     string
	Priority   string
	CategoryID *int64
	Tag        string
	Search     string
	Ordering   string
	Offset     uint64
	Limit      int
}

// RequestRepository handles request database operations
type RequestRepository struct {
	db          *pgxpool.Pool
	sb          squirrel.StatementBuilderType
	statusOrder []models.Status
}

// NewRequestRepository creates a new RequestRepository. statusOrder is the
// configured status enumeration, used by the status_first ordering policy.
func NewRequestRepository(db *pgxpool.Pool, statusOrder []models.Status) *RequestRepository {
	return &RequestRepository{
		db:          db,
		sb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		statusOrder: statusOrder,
	}
}

var requestColumns = []string{
	"r.id", "r.user_id", "r.title", "r.description", "r.status", "r.priority",
	"r.category_id", "r.category_choice_id", "r.attachment_path",
	"r.admin_message", "r.approved_at", "r.created_at", "r.updated_at",
}

func scanRequest(row pgx.Row) (*models.Request, error) {
	var req models.Request
	err := row.Scan(
		&req.ID, &req.UserID, &req.Title, &req.Description, &req.Status, &req.Priority,
		&req.CategoryID, &req.CategoryChoiceID, &req.AttachmentPath,
		&req.AdminMessage, &req.ApprovedAt, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new request and links its tags in a single transaction
func (r *RequestRepository) Create(ctx context.Context, req *models.Request, tagIDs []int64) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("requests").
		Columns("user_id", "title", "description", "status", "priority",
			"category_id", "category_choice_id", "attachment_path", "created_at", "updated_at").
		Values(req.UserID, req.Title, req.Description, req.Status, req.Priority,
			req.CategoryID, req.CategoryChoiceID, req.AttachmentPath, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create request SQL")
		return fmt.Errorf("failed to build create request query: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, sql, args...).Scan(&req.ID); err != nil {
		logger.Error().Err(err).Int64("userID", req.UserID).Msg("Error executing create request query")
		return fmt.Errorf("error creating request: %w", err)
	}
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := r.replaceTags(ctx, tx, req.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// GetByID retrieves a request with its owner, category and tags loaded
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	sql, args, err := r.sb.Select(requestColumns...).
		From("requests r").
		Where(squirrel.Eq{"r.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	req, err := scanRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning request row")
		return nil, fmt.Errorf("error retrieving request: %w", err)
	}

	if err := r.loadRelations(ctx, []*models.Request{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// List retrieves a filtered, ordered, paginated page of requests plus the total count
func (r *RequestRepository) List(ctx context.Context, filter RequestFilter) ([]*models.Request, int64, error) {
	base := r.applyFilter(r.sb.Select(requestColumns...).From("requests r"), filter)
	countQuery := r.applyFilter(r.sb.Select("COUNT(DISTINCT r.id)").From("requests r"), filter)

	switch filter.Ordering {
	case OrderStatusFirst:
		expr, exprArgs := r.statusOrderClause()
		base = base.OrderByClause(expr, exprArgs...).OrderBy("r.created_at DESC")
	default:
		base = base.OrderBy("r.created_at DESC")
	}

	if filter.Limit > 0 {
		base = base.Offset(filter.Offset).Limit(uint64(filter.Limit))
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count requests query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting requests")
		return nil, 0, fmt.Errorf("error counting requests: %w", err)
	}

	listSQL, listArgs, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list requests query")
		return nil, 0, fmt.Errorf("error listing requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating request rows: %w", err)
	}

	if err := r.loadRelations(ctx, requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// applyFilter adds the WHERE clauses for a listing filter. Free-text search
// matches title, status and description substrings case-insensitively.
func (r *RequestRepository) applyFilter(q squirrel.SelectBuilder, filter RequestFilter) squirrel.SelectBuilder {
	if filter.OwnerID != nil {
		q = q.Where(squirrel.Eq{"r.user_id": *filter.OwnerID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"r.status": filter.Status})
	}
	if filter.Priority != "" {
		q = q.Where(squirrel.Eq{"r.priority": filter.Priority})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"r.category_id": *filter.CategoryID})
	}
	if filter.Tag != "" {
		q = q.Join("request_tags rt ON rt.request_id = r.id").
			Join("tags t ON t.id = rt.tag_id").
			Where(squirrel.Eq{"t.name": filter.Tag})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"r.title": pattern},
			squirrel.ILike{"r.status": pattern},
			squirrel.ILike{"r.description": pattern},
		})
	}
	return q
}

// statusOrderClause builds a parameterized CASE expression ranking statuses
// by their position in the configured enumeration.
func (r *RequestRepository) statusOrderClause() (string, []interface{}) {
	expr := "CASE r.status"
	args := make([]interface{}, 0, len(r.statusOrder))
	for i, status := range r.statusOrder {
		expr += fmt.Sprintf(" WHEN ? THEN %d", i)
		args = append(args, string(status))
	}
	expr += fmt.Sprintf(" ELSE %d END", len(r.statusOrder))
	return expr, args
}

// UpdateContent updates the owner-editable fields and replaces the tag set
func (r *RequestRepository) UpdateContent(ctx context.Context, req *models.Request, tagIDs []int64) error {
	sql, args, err := r.sb.Update("requests").
		Set("title", req.Title).
		Set("description", req.Description).
		Set("priority", req.Priority).
		Set("category_id", req.CategoryID).
		Set("category_choice_id", req.CategoryChoiceID).
		Set("attachment_path", req.AttachmentPath).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": req.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update request query: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cmdTag, err := tx.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", req.ID).Msg("Error executing update request query")
		return fmt.Errorf("error updating request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}

	if err := r.replaceTags(ctx, tx, req.ID, tagIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateStatus applies a status transition in a single UPDATE.
// setApprovedAt stamps approved_at when the request first enters the
// approved status.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.Status, adminMessage *string, setApprovedAt bool) error {
	builder := r.sb.Update("requests").
		Set("status", status).
		Set("admin_message", adminMessage).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	if setApprovedAt {
		builder = builder.Set("approved_at", time.Now())
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", id).Str("status", string(status)).Msg("Error executing update status query")
		return fmt.Errorf("error updating request status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// Delete removes a request. Tag links cascade at the schema level.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete request query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", id).Msg("Error executing delete request query")
		return fmt.Errorf("error deleting request: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// Summary returns per-status counts, scoped to an owner when ownerID is non-nil
func (r *RequestRepository) Summary(ctx context.Context, ownerID *int64) (map[models.Status]int64, error) {
	builder := r.sb.Select("status", "COUNT(*)").From("requests")
	if ownerID != nil {
		builder = builder.Where(squirrel.Eq{"user_id": *ownerID})
	}
	sql, args, err := builder.GroupBy("status").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build summary query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing summary query")
		return nil, fmt.Errorf("error counting requests by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int64)
	for rows.Next() {
		var status models.Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning summary row: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating summary rows: %w", err)
	}
	return counts, nil
}

// replaceTags rewrites the request_tags links for a request
func (r *RequestRepository) replaceTags(ctx context.Context, tx pgx.Tx, requestID int64, tagIDs []int64) error {
	delSQL, delArgs, err := r.sb.Delete("request_tags").
		Where(squirrel.Eq{"request_id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete request tags query: %w", err)
	}
	if _, err := tx.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("error clearing request tags: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("request_tags").Columns("request_id", "tag_id")
	for _, tagID := range tagIDs {
		insert = insert.Values(requestID, tagID)
	}
	insSQL, insArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert request tags query: %w", err)
	}
	if _, err := tx.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("error linking request tags: %w", err)
	}
	return nil
}

// loadRelations populates Owner, Category and Tags for a batch of requests
func (r *RequestRepository) loadRelations(ctx context.Context, requests []*models.Request) error {
	if len(requests) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Request, len(requests))
	userIDs := make([]int64, 0, len(requests))
	categoryIDs := make([]int64, 0, len(requests))
	requestIDs := make([]int64, 0, len(requests))
	for _, req := range requests {
		byID[req.ID] = req
		requestIDs = append(requestIDs, req.ID)
		userIDs = append(userIDs, req.UserID)
		if req.CategoryID != nil {
			categoryIDs = append(categoryIDs, *req.CategoryID)
		}
	}

	// Owners
	sql, args, err := r.sb.Select("id", "email", "first_name", "last_name", "role", "is_active").
		From("users").
		Where(squirrel.Eq{"id": userIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load owners query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading request owners: %w", err)
	}
	owners := make(map[int64]*models.User)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Role, &user.IsActive); err != nil {
			rows.Close()
			return fmt.Errorf("error scanning owner row: %w", err)
		}
		owners[user.ID] = &user
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating owner rows: %w", err)
	}
	for _, req := range requests {
		req.Owner = owners[req.UserID]
	}

	// Categories
	if len(categoryIDs) > 0 {
		sql, args, err = r.sb.Select("id", "name", "slug", "description").
			From("categories").
			Where(squirrel.Eq{"id": categoryIDs}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build load categories query: %w", err)
		}
		rows, err = r.db.Query(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error loading request categories: %w", err)
		}
		categories := make(map[int64]*models.Category)
		for rows.Next() {
			var category models.Category
			if err := rows.Scan(&category.ID, &category.Name, &category.Slug, &category.Description); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning category row: %w", err)
			}
			categories[category.ID] = &category
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating category rows: %w", err)
		}
		for _, req := range requests {
			if req.CategoryID != nil {
				req.Category = categories[*req.CategoryID]
			}
		}
	}

	// Tags
	sql, args, err = r.sb.Select("rt.request_id", "t.id", "t.name", "t.slug").
		From("request_tags rt").
		Join("tags t ON t.id = rt.tag_id").
		Where(squirrel.Eq{"rt.request_id": requestIDs}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build load tags query: %w", err)
	}
	rows, err = r.db.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error loading request tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var requestID int64
		var tag models.Tag
		if err := rows.Scan(&requestID, &tag.ID, &tag.Name, &tag.Slug); err != nil {
			return fmt.Errorf("error scanning tag row: %w", err)
		}
		if req, ok := byID[requestID]; ok {
			req.Tags = append(req.Tags, tag)
		}
	}
	return rows.Err()
}
