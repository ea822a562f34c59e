package routes

import (
	"net/http"
	"time"

	"notifyhub/handlers"
	"notifyhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the inbox read and status update
// endpoints for authenticated users.
func RegisterNotificationRoutes(r *gin.Engine, h *handlers.NotificationHandler) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/notification", h.ListNotificationsHandler)
		api.PUT("/notification_receive/:id", h.ReceiveNotificationHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for administrative operations.
func RegisterAdminRoutes(r *gin.Engine, h *handlers.NotificationHandler) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.POST("/notification", h.CreateNotificationHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Notifyhub"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.NotificationHandler) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterNotificationRoutes(r, h)
	RegisterAdminRoutes(r, h)
	RegisterHealthRoute(r)
}
