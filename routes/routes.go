package routes

import (
	"net/http"
	"time"

	"habitloop/handlers"
	"habitloop/middleware"
	"habitloop/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterReminderRoutes registers the reminder scheduling endpoints.
func RegisterReminderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reminders")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/once", hb.Schedule.ScheduleOnceHandler)
		api.POST("/daily", hb.Schedule.ScheduleDailyHandler)
		api.POST("/weekly", hb.Schedule.ScheduleWeeklyHandler)
		api.GET("", hb.Schedule.ListRemindersHandler)
		api.DELETE("/:id", hb.Schedule.DeleteReminderHandler)
		api.PATCH("/:id/enabled", hb.Schedule.SetReminderEnabledHandler)
	}
}

// RegisterUserRoutes registers user device endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.PUT("/fcm-token", hb.UserDevice.UpdateFCMTokenHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterReminderRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterHealthRoute(r)
}
