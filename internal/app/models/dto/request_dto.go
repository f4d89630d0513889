package dto

import (
	"time"

	"github.com/eduassist/backend/internal/app/models"
)

// CreateRequestRequest represents a new help request submission.
// Bound from multipart form data so an attachment can ride along.
type CreateRequestRequest struct {
	Title            string `form:"title" binding:"required,max=255"`
	Description      string `form:"description" binding:"required"`
	Priority         string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	CategoryID       *int64 `form:"categoryId" binding:"omitempty,min=1"`
	CategoryChoiceID *int64 `form:"categoryChoiceId" binding:"omitempty,min=1"`
	Tags             string `form:"tags"` // Comma-separated tag names
}

// UpdateRequestRequest represents an edit to an existing request's content
type UpdateRequestRequest struct {
	Title            string `form:"title" binding:"required,max=255"`
	Description      string `form:"description" binding:"required"`
	Priority         string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	CategoryID       *int64 `form:"categoryId" binding:"omitempty,min=1"`
	CategoryChoiceID *int64 `form:"categoryChoiceId" binding:"omitempty,min=1"`
	Tags             string `form:"tags"`
	RemoveAttachment bool   `form:"removeAttachment"`
}

// UpdateStatusRequest represents a staff status transition
type UpdateStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	AdminMessage string `json:"adminMessage" binding:"omitempty,max=1000"`
	Force        bool   `json:"force"` // Bypasses the re-approval guard
}

// RequestFilterRequest represents the query parameters for listing requests
type RequestFilterRequest struct {
	Status     string `form:"status"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	CategoryID *int64 `form:"categoryId" binding:"omitempty,min=1"`
	Tag        string `form:"tag"`
	Search     string `form:"search"`
	Ordering   string `form:"ordering" binding:"omitempty,oneof=newest status_first"`
}

// TagResponse represents a tag attached to a request
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RequestResponse represents a single help request
type RequestResponse struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Status         string        `json:"status"`
	StatusLabel    string        `json:"statusLabel,omitempty"`
	Priority       string        `json:"priority"`
	Owner          *UserResponse `json:"owner,omitempty"`
	CategoryID     *int64        `json:"categoryId,omitempty"`
	CategoryName   string        `json:"categoryName,omitempty"`
	CategoryChoice string        `json:"categoryChoice,omitempty"`
	Tags           []TagResponse `json:"tags"`
	AttachmentURL  string        `json:"attachmentUrl,omitempty"`
	AdminMessage   *string       `json:"adminMessage,omitempty"`
	ApprovedAt     *time.Time    `json:"approvedAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// RequestListResponse represents a paginated page of requests
type RequestListResponse struct {
	Requests   []RequestResponse `json:"requests"`
	Pagination PaginationInfo    `json:"pagination"`
}

// RequestSummaryResponse represents per-status counts for the dashboard
type RequestSummaryResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}

// DashboardResponse combines the caller's recent requests with the
// role-scoped per-status counts
type DashboardResponse struct {
	Requests   []RequestResponse       `json:"requests"`
	Summary    *RequestSummaryResponse `json:"summary"`
	Pagination PaginationInfo          `json:"pagination"`
}

// FromTag converts a models.Tag to a TagResponse
func FromTag(tag models.Tag) TagResponse {
	return TagResponse{
		ID:   tag.ID,
		Name: tag.Name,
		Slug: tag.Slug,
	}
}

// FromRequest converts a models.Request (with relations) to a RequestResponse.
// attachmentURL should already be resolved against the public base URL.
func FromRequest(req *models.Request, statusLabel, attachmentURL string) RequestResponse {
	if req == nil {
		return RequestResponse{}
	}

	resp := RequestResponse{
		ID:            req.ID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        string(req.Status),
		StatusLabel:   statusLabel,
		Priority:      string(req.Priority),
		CategoryID:    req.CategoryID,
		Tags:          make([]TagResponse, 0, len(req.Tags)),
		AttachmentURL: attachmentURL,
		AdminMessage:  req.AdminMessage,
		ApprovedAt:    req.ApprovedAt,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}

	if req.Owner != nil {
		owner := FromUser(req.Owner)
		resp.Owner = &owner
	}
	if req.Category != nil {
		resp.CategoryName = req.Category.Name
	}
	for _, tag := range req.Tags {
		resp.Tags = append(resp.Tags, FromTag(tag))
	}

	return resp
}
