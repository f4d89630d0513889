package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduassist/backend/internal/app/models"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	TokenRepository        *TokenRepository
	RequestRepository      *RequestRepository
	CategoryRepository     *CategoryRepository
	TagRepository          *TagRepository
	FeedbackRepository     *FeedbackRepository
	NotificationRepository *NotificationRepository
	EmailLogRepository     *EmailLogRepository
}

// NewRepositories initializes all repositories. statusOrder is the configured
// request status enumeration, in display order.
func NewRepositories(db *pgxpool.Pool, statusOrder []models.Status) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		TokenRepository:        NewTokenRepository(db),
		RequestRepository:      NewRequestRepository(db, statusOrder),
		CategoryRepository:     NewCategoryRepository(db),
		TagRepository:          NewTagRepository(db),
		FeedbackRepository:     NewFeedbackRepository(db),
		NotificationRepository: NewNotificationRepository(db),
		EmailLogRepository:     NewEmailLogRepository(db),
	}
}
