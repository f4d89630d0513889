package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/middleware"
)

// UserController handles profile and settings endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetProfile returns the caller's profile
// @Summary Get own profile
// @Tags profile
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Router /profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	profile, err := c.userService.GetProfile(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromProfile(profile), ""))
}

// UpdateProfile edits the caller's profile
// @Summary Update own profile
// @Tags profile
// @Security BearerAuth
// @Router /profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	profile, err := c.userService.UpdateProfile(ctx.Request.Context(), actor.ID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromProfile(profile), "Profile updated"))
}

// GetSettings returns the caller's settings
// @Summary Get own settings
// @Tags settings
// @Security BearerAuth
// @Router /settings [get]
func (c *UserController) GetSettings(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	settings, err := c.userService.GetSettings(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromSettings(settings), ""))
}

// UpdateSettings applies a partial settings update
// @Summary Update own settings
// @Tags settings
// @Security BearerAuth
// @Router /settings [patch]
func (c *UserController) UpdateSettings(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	settings, err := c.userService.UpdateSettings(ctx.Request.Context(), actor.ID, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.FromSettings(settings), "Settings updated"))
}
