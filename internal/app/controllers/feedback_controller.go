package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/models"
	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/middleware"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// FeedbackController handles feedback endpoints
type FeedbackController struct {
	feedbackService *services.FeedbackService
}

// NewFeedbackController creates a new FeedbackController
func NewFeedbackController(feedbackService *services.FeedbackService) *FeedbackController {
	return &FeedbackController{
		feedbackService: feedbackService,
	}
}

// Create submits feedback
// @Summary Submit feedback
// @Tags feedback
// @Security BearerAuth
// @Param request body dto.CreateFeedbackRequest true "Rating and comment"
// @Success 201 {object} dto.APIResponse{data=dto.FeedbackResponse}
// @Failure 400 {object} dto.ErrorResponse "Comment required for 1-star rating"
// @Router /feedback [post]
func (c *FeedbackController) Create(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	fb, err := c.feedbackService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromFeedback(fb), "Feedback submitted"))
}

// Update edits a feedback record (owner only)
// @Summary Update feedback
// @Tags feedback
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Param request body dto.UpdateFeedbackRequest true "Rating and comment"
// @Success 200 {object} dto.APIResponse{data=dto.FeedbackResponse}
// @Router /feedback/{id} [put]
func (c *FeedbackController) Update(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	fb, err := c.feedbackService.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromFeedback(fb), "Feedback updated"))
}

// ListMine returns the caller's feedback
// @Summary List own feedback
// @Tags feedback
// @Security BearerAuth
// @Router /feedback [get]
func (c *FeedbackController) ListMine(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	feedback, total, err := c.feedbackService.ListMine(ctx.Request.Context(), actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedbackList(feedback, total, page, size), ""))
}

// ListAll returns every user's feedback (staff only)
// @Summary List all feedback
// @Tags feedback
// @Security BearerAuth
// @Router /feedback/all [get]
func (c *FeedbackController) ListAll(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	feedback, total, err := c.feedbackService.ListAll(ctx.Request.Context(), actor, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feedbackList(feedback, total, page, size), ""))
}

// Delete removes a feedback record
// @Summary Delete feedback
// @Tags feedback
// @Security BearerAuth
// @Param id path int true "Feedback ID"
// @Router /feedback/{id} [delete]
func (c *FeedbackController) Delete(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.feedbackService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Feedback deleted"))
}

func feedbackList(feedback []*models.Feedback, total int64, page, size int) dto.FeedbackListResponse {
	resp := dto.FeedbackListResponse{
		Feedback:   make([]dto.FeedbackResponse, 0, len(feedback)),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}
	for _, fb := range feedback {
		resp.Feedback = append(resp.Feedback, dto.FromFeedback(fb))
	}
	return resp
}
