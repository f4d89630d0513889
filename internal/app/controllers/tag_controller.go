package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/middleware"
)

// TagController handles tag autosuggest endpoints
type TagController struct {
	tagService *services.TagService
}

// NewTagController creates a new TagController
func NewTagController(tagService *services.TagService) *TagController {
	return &TagController{
		tagService: tagService,
	}
}

// Search suggests tags matching the query
// @Summary Tag autosuggest
// @Tags tags
// @Security BearerAuth
// @Param q query string false "Partial tag name"
// @Success 200 {object} dto.APIResponse{data=dto.TagListResponse}
// @Router /tags [get]
func (c *TagController) Search(ctx *gin.Context) {
	tags, err := c.tagService.Search(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.TagListResponse{Tags: make([]dto.TagResponse, 0, len(tags))}
	for _, tag := range tags {
		resp.Tags = append(resp.Tags, dto.FromTag(tag))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}
