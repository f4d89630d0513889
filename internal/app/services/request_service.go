package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/rs/zerolog"

	appauth "github.com/eduassist/backend/internal/app/auth"
	"github.com/eduassist/backend/internal/app/lifecycle"
	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/repositories"
	"github.com/eduassist/backend/internal/pkg/apperrors"
	"github.com/eduassist/backend/internal/pkg/cache"
	"github.com/eduassist/backend/internal/pkg/filestorage"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// RequestStore is the request persistence surface the service depends on.
type RequestStore interface {
	Create(ctx context.Context, req *models.Request, tagIDs []int64) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	List(ctx context.Context, filter repositories.RequestFilter) ([]*models.Request, int64, error)
	UpdateContent(ctx context.Context, req *models.Request, tagIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, ownerID *int64) (map[models.Status]int64, error)
}

// RequestService handles help request operations
type RequestService struct {
	requestRepo  RequestStore
	categoryRepo *repositories.CategoryRepository
	tagService   *TagService
	engine       *lifecycle.Engine
	storage      filestorage.Storage
	cache        *cache.Cache
	logger       zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo RequestStore,
	categoryRepo *repositories.CategoryRepository,
	tagService *TagService,
	engine *lifecycle.Engine,
	storage filestorage.Storage,
	cache *cache.Cache,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		categoryRepo: categoryRepo,
		tagService:   tagService,
		engine:       engine,
		storage:      storage,
		cache:        cache,
		logger:       logger,
	}
}

// StatusSet exposes the configured status enumeration for presentation.
func (s *RequestService) StatusSet() *lifecycle.StatusSet {
	return s.engine.StatusSet()
}

// AttachmentURL resolves a request's stored attachment to a client URL.
func (s *RequestService) AttachmentURL(req *models.Request) string {
	if req == nil || req.AttachmentPath == nil {
		return ""
	}
	return s.storage.URL(*req.AttachmentPath)
}

// Create submits a new request on behalf of actor. The request always
// starts in the initial status of the configured enumeration.
func (s *RequestService) Create(ctx context.Context, actor *models.User, input dto.CreateRequestRequest, attachment *multipart.FileHeader) (*models.Request, error) {
	priority := models.Priority(input.Priority)
	if input.Priority == "" {
		priority = models.PriorityMedium
	}
	if !models.ValidPriority(priority) {
		return nil, apperrors.ErrInvalidPriority
	}

	if err := s.validateCategory(ctx, input.CategoryID, input.CategoryChoiceID); err != nil {
		return nil, err
	}

	tags, err := s.tagService.ResolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		UserID:           actor.ID,
		Title:            input.Title,
		Description:      input.Description,
		Status:           s.engine.StatusSet().Initial(),
		Priority:         priority,
		CategoryID:       input.CategoryID,
		CategoryChoiceID: input.CategoryChoiceID,
		Tags:             tags,
	}

	if attachment != nil {
		path, err := s.storage.SaveAttachment(attachment)
		if err != nil {
			return nil, err
		}
		req.AttachmentPath = &path
	}

	if err := s.requestRepo.Create(ctx, req, tagIDs(tags)); err != nil {
		if req.AttachmentPath != nil {
			_ = s.storage.DeleteFile(*req.AttachmentPath)
		}
		return nil, err
	}

	s.invalidateSummaries(ctx, actor.ID)
	s.logger.Info().Int64("requestID", req.ID).Int64("userID", actor.ID).Msg("Request created")

	return s.requestRepo.GetByID(ctx, req.ID)
}

// Get retrieves a request, applying visibility rules.
func (s *RequestService) Get(ctx context.Context, actor *models.User, id int64) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appauth.ValidateViewRequest(actor, req); err != nil {
		return nil, err
	}
	return req, nil
}

// List retrieves a filtered page of requests visible to actor. Non-staff
// callers only ever see their own requests regardless of filters.
func (s *RequestService) List(ctx context.Context, actor *models.User, filter dto.RequestFilterRequest, page, size int) ([]*models.Request, int64, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	repoFilter := repositories.RequestFilter{
		Status:     filter.Status,
		Priority:   filter.Priority,
		CategoryID: filter.CategoryID,
		Tag:        filter.Tag,
		Search:     filter.Search,
		Ordering:   filter.Ordering,
		Offset:     offset,
		Limit:      limit,
	}
	if !actor.IsStaff() {
		repoFilter.OwnerID = &actor.ID
	}

	if filter.Status != "" && !s.engine.StatusSet().Contains(models.Status(filter.Status)) {
		return nil, 0, apperrors.ErrInvalidStatus
	}

	return s.requestRepo.List(ctx, repoFilter)
}

// Update edits a request's content. Content editing is owner-only: staff
// moderate through status transitions instead.
func (s *RequestService) Update(ctx context.Context, actor *models.User, id int64, input dto.UpdateRequestRequest, attachment *multipart.FileHeader) (*models.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appauth.ValidateEditRequest(actor, req); err != nil {
		return nil, err
	}

	priority := models.Priority(input.Priority)
	if input.Priority == "" {
		priority = req.Priority
	}
	if !models.ValidPriority(priority) {
		return nil, apperrors.ErrInvalidPriority
	}

	if err := s.validateCategory(ctx, input.CategoryID, input.CategoryChoiceID); err != nil {
		return nil, err
	}

	tags, err := s.tagService.ResolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	oldAttachment := req.AttachmentPath
	var newAttachment *string
	switch {
	case attachment != nil:
		path, err := s.storage.SaveAttachment(attachment)
		if err != nil {
			return nil, err
		}
		newAttachment = &path
		req.AttachmentPath = &path
	case input.RemoveAttachment:
		req.AttachmentPath = nil
	}

	req.Title = input.Title
	req.Description = input.Description
	req.Priority = priority
	req.CategoryID = input.CategoryID
	req.CategoryChoiceID = input.CategoryChoiceID

	if err := s.requestRepo.UpdateContent(ctx, req, tagIDs(tags)); err != nil {
		if newAttachment != nil {
			_ = s.storage.DeleteFile(*newAttachment)
		}
		return nil, err
	}

	// Old file is removed only after the new state is persisted.
	if oldAttachment != nil && (newAttachment != nil || input.RemoveAttachment) {
		if err := s.storage.DeleteFile(*oldAttachment); err != nil {
			s.logger.Warn().Err(err).Str("path", *oldAttachment).Msg("Failed to remove replaced attachment")
		}
	}

	return s.requestRepo.GetByID(ctx, id)
}

// ReplaceAttachment uploads a new attachment for the request, replacing any
// existing one. Owner only, like all content edits.
func (s *RequestService) ReplaceAttachment(ctx context.Context, actor *models.User, id int64, attachment *multipart.FileHeader) (*models.Request, error) {
	if attachment == nil {
		return nil, apperrors.ErrValidationFailed
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := appauth.ValidateEditRequest(actor, req); err != nil {
		return nil, err
	}

	path, err := s.storage.SaveAttachment(attachment)
	if err != nil {
		return nil, err
	}

	oldAttachment := req.AttachmentPath
	req.AttachmentPath = &path
	if err := s.requestRepo.UpdateContent(ctx, req, tagIDs(req.Tags)); err != nil {
		_ = s.storage.DeleteFile(path)
		return nil, err
	}

	if oldAttachment != nil {
		if err := s.storage.DeleteFile(*oldAttachment); err != nil {
			s.logger.Warn().Err(err).Str("path", *oldAttachment).Msg("Failed to remove replaced attachment")
		}
	}
	return req, nil
}

// Delete removes a request and its stored attachment.
func (s *RequestService) Delete(ctx context.Context, actor *models.User, id int64) error {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := appauth.ValidateDeleteRequest(actor, req); err != nil {
		return err
	}

	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}

	if req.AttachmentPath != nil {
		if err := s.storage.DeleteFile(*req.AttachmentPath); err != nil {
			s.logger.Warn().Err(err).Str("path", *req.AttachmentPath).Msg("Failed to remove attachment of deleted request")
		}
	}

	s.invalidateSummaries(ctx, req.UserID)
	s.logger.Info().Int64("requestID", id).Int64("actorID", actor.ID).Msg("Request deleted")
	return nil
}

// Transition moves a request to a new status. Staff only.
func (s *RequestService) Transition(ctx context.Context, actor *models.User, id int64, input dto.UpdateStatusRequest) (*models.Request, bool, error) {
	if err := appauth.ValidateTransitionStatus(actor); err != nil {
		return nil, false, err
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	changed, err := s.engine.Transition(ctx, req, models.Status(input.Status), input.AdminMessage, input.Force)
	if err != nil {
		return nil, false, err
	}

	if changed {
		s.invalidateSummaries(ctx, req.UserID)
	}
	return req, changed, nil
}

// Summary returns per-status request counts. Staff see the global counts,
// students their own. The total excludes cancelled requests. The counts
// ignore listing filters and are served from cache for a short window.
func (s *RequestService) Summary(ctx context.Context, actor *models.User) (*dto.RequestSummaryResponse, error) {
	var ownerID *int64
	key := cache.SummaryKey(0)
	if !actor.IsStaff() {
		ownerID = &actor.ID
		key = cache.SummaryKey(actor.ID)
	}

	var cached dto.RequestSummaryResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn().Err(err).Msg("Summary cache read failed")
	}

	counts, err := s.requestRepo.Summary(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	summary := &dto.RequestSummaryResponse{
		ByStatus: make(map[string]int64, len(counts)),
	}
	// Every configured status appears, zero-valued when absent.
	// Cancelled requests do not count towards the total.
	set := s.engine.StatusSet()
	for _, status := range set.Members() {
		count := counts[status]
		summary.ByStatus[string(status)] = count
		if status != set.Cancelled() {
			summary.Total += count
		}
	}

	s.cache.Set(ctx, key, summary)
	return summary, nil
}

// validateCategory checks that the referenced category exists and that the
// choice, when given, belongs to it.
func (s *RequestService) validateCategory(ctx context.Context, categoryID, choiceID *int64) error {
	if categoryID == nil {
		if choiceID != nil {
			return apperrors.NewBadRequestError("a category choice requires a category")
		}
		return nil
	}
	if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
		return err
	}
	if choiceID != nil {
		if _, err := s.categoryRepo.GetChoice(ctx, *categoryID, *choiceID); err != nil {
			return err
		}
	}
	return nil
}

// invalidateSummaries drops the cached summary of the affected owner and
// the staff-wide summary.
func (s *RequestService) invalidateSummaries(ctx context.Context, ownerID int64) {
	s.cache.Delete(ctx, cache.SummaryKey(0), cache.SummaryKey(ownerID))
}

func tagIDs(tags []models.Tag) []int64 {
	ids := make([]int64, 0, len(tags))
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids
}
