package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/pkg/logger"
)

// EmailLogRepository records notification email attempts
type EmailLogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEmailLogRepository creates a new EmailLogRepository
func NewEmailLogRepository(db *pgxpool.Pool) *EmailLogRepository {
	return &EmailLogRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an email log entry
func (r *EmailLogRepository) Create(ctx context.Context, log *models.EmailLog) error {
	sql, args, err := r.sb.Insert("email_logs").
		Columns("recipient", "template_key", "status", "message", "created_at").
		Values(log.Recipient, log.TemplateKey, log.Status, log.Message, time.Now()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create email log query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&log.ID); err != nil {
		logger.Error().Err(err).Str("recipient", log.Recipient).Msg("Error executing create email log query")
		return fmt.Errorf("error creating email log: %w", err)
	}
	return nil
}

// ListRecent retrieves the most recent email log entries (staff view)
func (r *EmailLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	sql, args, err := r.sb.Select("id", "recipient", "template_key", "status", "message", "created_at").
		From("email_logs").
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list email logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list email logs query")
		return nil, fmt.Errorf("error listing email logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.EmailLog
	for rows.Next() {
		var log models.EmailLog
		err := rows.Scan(&log.ID, &log.Recipient, &log.TemplateKey, &log.Status, &log.Message, &log.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning email log row: %w", err)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
