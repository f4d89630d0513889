package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/models/dto"
	"github.com/eduassist/backend/internal/app/services"
	"github.com/eduassist/backend/internal/middleware"
	"github.com/eduassist/backend/internal/pkg/helpers"
)

// NotificationController handles the notification feed endpoints
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
	}
}

// List returns the caller's notifications with the unread count
// @Summary List notifications
// @Tags notifications
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse}
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	notifications, total, unread, err := c.notificationService.List(ctx.Request.Context(), actor.ID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.NotificationListResponse{
		Notifications: make([]dto.NotificationResponse, 0, len(notifications)),
		UnreadCount:   unread,
		Pagination:    helpers.NewPaginationInfo(total, page, size),
	}
	for _, n := range notifications {
		resp.Notifications = append(resp.Notifications, dto.FromNotification(n))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, ""))
}

// MarkRead marks one notification as read
// @Summary Mark a notification read
// @Tags notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.notificationService.MarkRead(ctx.Request.Context(), actor.ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Notification marked read"))
}

// MarkAllRead marks all of the caller's notifications as read
// @Summary Mark all notifications read
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/read-all [put]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	actor, ok := requireUser(ctx)
	if !ok {
		return
	}

	updated, err := c.notificationService.MarkAllRead(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"updated": updated}, "Notifications marked read"))
}

// EmailLogs returns recent email delivery attempts (staff only)
// @Summary Recent email logs
// @Tags notifications
// @Security BearerAuth
// @Param limit query int false "Max entries" default(50)
// @Router /notifications/email-logs [get]
func (c *NotificationController) EmailLogs(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	logs, err := c.notificationService.RecentEmailLogs(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"emailLogs": logs}, ""))
}
