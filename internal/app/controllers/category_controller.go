package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/middleware"
)

// CategoryController handles category taxonomy endpoints
type CategoryController struct {
	categoryService *services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService *services.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

// List returns every category with its choices
// @Summary List categories
// @Tags categories
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CategoryListResponse}
// @Router /categories [get]
func (c *CategoryController) List(ctx *gin.Context) {
	categories, err := c.categoryService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.CategoryListResponse{
		Categories: make([]dto.CategoryResponse, 0, len(categories)),
	}
	for _, category := range categories {
		resp.Categories = append(resp.Categories, dto.FromCategory(category))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// Get returns one category
// @Summary Get a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Router /categories/{id} [get]
func (c *CategoryController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	category, err := c.categoryService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromCategory(category), ""))
}

// Create defines a new category (staff only)
// @Summary Create a category
// @Tags categories
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "Category definition"
// @Success 201 {object} dto.APIResponse{data=dto.CategoryResponse}
// @Failure 409 {object} dto.ErrorResponse "Name already in use"
// @Router /categories [post]
func (c *CategoryController) Create(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	category, err := c.categoryService.Create(ctx.Request.Context(), actor, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.FromCategory(category), "Category created"))
}

// Update edits a category (staff only)
// @Summary Update a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Router /categories/{id} [put]
func (c *CategoryController) Update(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	category, err := c.categoryService.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromCategory(category), "Category updated"))
}

// Delete removes a category (staff only)
// @Summary Delete a category
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Router /categories/{id} [delete]
func (c *CategoryController) Delete(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.categoryService.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Category deleted"))
}
