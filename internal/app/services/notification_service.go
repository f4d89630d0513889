package services

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/rs/zerolog"

	"github.com/eduassist/backend/internal/app/lifecycle"
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/pkg/email"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// NotificationService creates in-app notifications, dispatches notification
// emails and serves the notification feed. It implements lifecycle.Notifier.
type NotificationService struct {
	notificationRepo *repositories.NotificationRepository
	emailLogRepo     *repositories.EmailLogRepository
	userRepo         *repositories.UserRepository
	sender           email.Sender
	sendTimeout      time.Duration
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo *repositories.NotificationRepository,
	emailLogRepo *repositories.EmailLogRepository,
	userRepo *repositories.UserRepository,
	sender email.Sender,
	sendTimeout time.Duration,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		emailLogRepo:     emailLogRepo,
		userRepo:         userRepo,
		sender:           sender,
		sendTimeout:      sendTimeout,
		logger:           logger,
	}
}

var _ lifecycle.Notifier = (*NotificationService)(nil)

// NotifyStatusChange records an in-app notification for the request owner
// and dispatches the status change email. The transition has already been
// committed: every failure here is logged and swallowed, never propagated.
func (s *NotificationService) NotifyStatusChange(ctx context.Context, event lifecycle.Event) {
	req := event.Request

	message := fmt.Sprintf("Your request %q is now %s.", req.Title, event.ToLabel)
	if event.AdminMessage != "" {
		message += " " + event.AdminMessage
	}

	notification := &models.Notification{
		UserID:    req.UserID,
		Message:   message,
		RequestID: &req.ID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error().Err(err).Int64("requestID", req.ID).Msg("Failed to create status change notification")
	}

	s.dispatchEmail(ctx, event)
}

// dispatchEmail sends the status change email, honoring the owner's email
// preference, and records the attempt in the email log.
func (s *NotificationService) dispatchEmail(ctx context.Context, event lifecycle.Event) {
	req := event.Request

	owner, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", req.UserID).Msg("Failed to load request owner for email dispatch")
		return
	}

	settings, err := s.userRepo.GetSettingsByUserID(ctx, req.UserID)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", req.UserID).Msg("Failed to load settings for email dispatch")
		return
	}
	if !settings.ReceiveEmail {
		s.logger.Debug().Int64("userID", req.UserID).Msg("Email notifications disabled for user")
		return
	}

	recipient := settings.NotificationAddress(owner.Email)
	templateKey := event.TemplateKey()

	if _, err := mail.ParseAddress(recipient); err != nil {
		s.recordEmail(ctx, recipient, templateKey, models.EmailStatusInvalidAddress, err.Error())
		return
	}

	subject, body := email.StatusChangeEmail(owner.FirstName, req.Title, event.ToLabel, event.AdminMessage)

	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.sender.Send(recipient, subject, body)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error().Err(err).Str("recipient", recipient).Msg("Status change email failed")
			s.recordEmail(ctx, recipient, templateKey, models.EmailStatusServiceError, err.Error())
			return
		}
		s.recordEmail(ctx, recipient, templateKey, models.EmailStatusSent, subject)
	case <-sendCtx.Done():
		s.logger.Error().Str("recipient", recipient).Dur("timeout", s.sendTimeout).Msg("Status change email timed out")
		s.recordEmail(ctx, recipient, templateKey, models.EmailStatusTimeout, subject)
	}
}

func (s *NotificationService) recordEmail(ctx context.Context, recipient, templateKey, status, message string) {
	log := &models.EmailLog{
		Recipient:   recipient,
		TemplateKey: templateKey,
		Status:      status,
		Message:     message,
	}
	if err := s.emailLogRepo.Create(ctx, log); err != nil {
		s.logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to write email log")
	}
}

// List retrieves a user's notifications with the unread count
func (s *NotificationService) List(ctx context.Context, userID int64, page, size int) ([]*models.Notification, int64, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, 0, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, 0, err
	}
	return notifications, total, unread, nil
}

// MarkRead marks one of the user's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	return s.notificationRepo.MarkRead(ctx, notificationID, userID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

// RecentEmailLogs retrieves the latest email delivery attempts (staff view)
func (s *NotificationService) RecentEmailLogs(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.emailLogRepo.ListRecent(ctx, limit)
}
