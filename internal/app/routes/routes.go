package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduassist/backend/internal/app/controllers"
	"github.com/eduassist/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	requestController *controllers.RequestController,
	categoryController *controllers.CategoryController,
	tagController *controllers.TagController,
	feedbackController *controllers.FeedbackController,
	notificationController *controllers.NotificationController,
	authMiddleware *middleware.AuthMiddleware,
	storagePath string,
) {
	// Stored attachments are served directly
	router.Static("/uploads", storagePath)

	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)
		authenticated.PUT("/auth/password", authController.ChangePassword)

		authenticated.GET("/profile", userController.GetProfile)
		authenticated.PUT("/profile", userController.UpdateProfile)
		authenticated.GET("/settings", userController.GetSettings)
		authenticated.PATCH("/settings", userController.UpdateSettings)

		authenticated.GET("/dashboard", requestController.Dashboard)

		requests := authenticated.Group("/requests")
		{
			requests.GET("", requestController.List)
			requests.POST("", requestController.Create)
			requests.GET("/summary", requestController.Summary)
			requests.GET("/:id", requestController.Get)
			requests.PUT("/:id", requestController.Update)
			requests.DELETE("/:id", requestController.Delete)
			requests.POST("/:id/attachment", requestController.UploadAttachment)

			// Status moderation is staff-only
			requestsStaff := requests.Group("")
			requestsStaff.Use(authMiddleware.StaffRequired())
			{
				requestsStaff.PUT("/:id/status", requestController.UpdateStatus)
			}
		}

		categories := authenticated.Group("/categories")
		{
			categories.GET("", categoryController.List)
			categories.GET("/:id", categoryController.Get)

			categoriesStaff := categories.Group("")
			categoriesStaff.Use(authMiddleware.StaffRequired())
			{
				categoriesStaff.POST("", categoryController.Create)
				categoriesStaff.PUT("/:id", categoryController.Update)
				categoriesStaff.DELETE("/:id", categoryController.Delete)
			}
		}

		authenticated.GET("/tags", tagController.Search)
		authenticated.GET("/tags/autosuggest", tagController.Search)

		feedback := authenticated.Group("/feedback")
		{
			feedback.GET("", feedbackController.ListMine)
			feedback.POST("", feedbackController.Create)
			feedback.PUT("/:id", feedbackController.Update)
			feedback.DELETE("/:id", feedbackController.Delete)

			feedbackStaff := feedback.Group("")
			feedbackStaff.Use(authMiddleware.StaffRequired())
			{
				feedbackStaff.GET("/all", feedbackController.ListAll)
			}
		}

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", notificationController.List)
			notifications.PUT("/:id/read", notificationController.MarkRead)
			notifications.PUT("/read-all", notificationController.MarkAllRead)

			notificationsStaff := notifications.Group("")
			notificationsStaff.Use(authMiddleware.StaffRequired())
			{
				notificationsStaff.GET("/email-logs", notificationController.EmailLogs)
			}
		}
	}
}
