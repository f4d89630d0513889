package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/middleware"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// RequestController handles help request endpoints
type RequestController struct {
	requestService *services.RequestService
}

// NewRequestController creates a new RequestController
func NewRequestController(requestService *services.RequestService) *RequestController {
	return &RequestController{
		requestService: requestService,
	}
}

// attachmentFile extracts the optional attachment from a multipart form.
func attachmentFile(ctx *gin.Context) (*multipart.FileHeader, error) {
	file, err := ctx.FormFile("attachment")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

func (c *RequestController) toResponse(req *models.Request) dto.RequestResponse {
	return dto.FromRequest(req,
		c.requestService.StatusSet().Label(req.Status),
		c.requestService.AttachmentURL(req))
}

// Create submits a new help request
// @Summary Submit a request
// @Tags requests
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param attachment formData file false "Attachment (PDF, JPG, PNG, DOC/DOCX, max 5 MB)"
// @Success 201 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /requests [post]
func (c *RequestController) Create(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateRequestRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	attachment, err := attachmentFile(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created, err := c.requestService.Create(ctx.Request.Context(), actor, req, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(c.toResponse(created), "Request submitted"))
}

// Get retrieves one request
// @Summary Get a request
// @Tags requests
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 403 {object} dto.ErrorResponse "Not visible to the caller"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /requests/{id} [get]
func (c *RequestController) Get(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	req, err := c.requestService.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponse(req), ""))
}

// List retrieves a filtered page of requests
// @Summary List requests
// @Description Students see their own requests, staff see all. Supports
// @Description status, priority, category, tag and text filters, plus the
// @Description newest and status_first ordering policies.
// @Tags requests
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RequestListResponse}
// @Router /requests [get]
func (c *RequestController) List(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var filter dto.RequestFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	requests, total, err := c.requestService.List(ctx.Request.Context(), actor, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.RequestListResponse{
		Requests:   make([]dto.RequestResponse, 0, len(requests)),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
	for _, req := range requests {
		resp.Requests = append(resp.Requests, c.toResponse(req))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Update edits a request's content (owner only)
// @Summary Update a request
// @Tags requests
// @Accept mpfd
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Failure 403 {object} dto.ErrorResponse "Content editing is owner-only"
// @Router /requests/{id} [put]
func (c *RequestController) Update(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRequestRequest
	if err := ctx.ShouldBind(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	attachment, err := attachmentFile(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.requestService.Update(ctx.Request.Context(), actor, id, req, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponse(updated), "Request updated"))
}

// Delete removes a request
// @Summary Delete a request
// @Tags requests
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Router /requests/{id} [delete]
func (c *RequestController) Delete(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.requestService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Request deleted"))
}

// UpdateStatus applies a status transition (staff only)
// @Summary Change request status
// @Tags requests
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.UpdateStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Failure 409 {object} dto.ErrorResponse "Request already approved"
// @Router /requests/{id}/status [put]
func (c *RequestController) UpdateStatus(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	updated, changed, err := c.requestService.Transition(ctx.Request.Context(), actor, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "Status updated"
	if !changed {
		message = "Status unchanged"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponse(updated), message))
}

// UploadAttachment replaces the request's attachment (owner only)
// @Summary Upload or replace a request attachment
// @Tags requests
// @Accept mpfd
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param attachment formData file true "Attachment (PDF, JPG, PNG, DOC/DOCX, max 5 MB)"
// @Success 200 {object} dto.APIResponse{data=dto.RequestResponse}
// @Router /requests/{id}/attachment [post]
func (c *RequestController) UploadAttachment(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	attachment, err := attachmentFile(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.requestService.ReplaceAttachment(ctx.Request.Context(), actor, id, attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponse(updated), "Attachment uploaded"))
}

// Dashboard returns the caller's recent requests plus per-status counts
// @Summary Dashboard view
// @Description Role-scoped: students see their own requests, staff see all.
// @Tags requests
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /dashboard [get]
func (c *RequestController) Dashboard(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var filter dto.RequestFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	requests, total, err := c.requestService.List(ctx.Request.Context(), actor, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Counts ignore active filters on purpose
	summary, err := c.requestService.Summary(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.DashboardResponse{
		Requests:   make([]dto.RequestResponse, 0, len(requests)),
		Summary:    summary,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
	for _, req := range requests {
		resp.Requests = append(resp.Requests, c.toResponse(req))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Summary returns per-status request counts for the dashboard
// @Summary Request counts by status
// @Tags requests
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.RequestSummaryResponse}
// @Router /requests/summary [get]
func (c *RequestController) Summary(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	summary, err := c.requestService.Summary(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(summary, ""))
}
