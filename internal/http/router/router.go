package router

import (
	"github.com/gin-gonic/gin"

	"github.com/satraksha/hazard-backend/internal/config"
	"github.com/satraksha/hazard-backend/internal/http/handlers"
	"github.com/satraksha/hazard-backend/internal/http/middleware"
	"github.com/satraksha/hazard-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	hazardHandler *handlers.HazardHandler,
	locationHandler *handlers.LocationHandler,
	voteHandler *handlers.VoteHandler,
	commentHandler *handlers.CommentHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authRateLimit := middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod)
	authGroup.Use(authRateLimit)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/hazards", hazardHandler.List)
	api.GET("/hazards/nearby", hazardHandler.Nearby)
	api.GET("/hazards/:id", hazardHandler.Get)
	api.GET("/hazards/:id/votes", voteHandler.Counts)
	api.GET("/hazards/:id/comments", commentHandler.List)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetMe)
		protected.PUT("/profile", profileHandler.UpdateMe)

		// Приём отчётов ограничен по частоте: фото + классификатор — дорогая операция.
		reportRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/hazards", reportRateLimit, hazardHandler.Create)
		protected.GET("/hazards/my", hazardHandler.ListMine)

		protected.POST("/hazards/:id/vote", voteHandler.Vote)
		protected.POST("/hazards/:id/comments", commentHandler.Add)

		protected.PUT("/location", locationHandler.Update)
		protected.GET("/location/me", locationHandler.GetMe)
		protected.GET("/location/history", locationHandler.History)
		protected.GET("/users/nearby", locationHandler.Nearby)

		protected.GET("/notifications", notificationHandler.ListNotifications)
	}

	// Административные маршруты
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.AdminOnly())
	{
		admin.GET("/users", profileHandler.ListUsers)
		admin.DELETE("/users/:id", profileHandler.DeleteUser)
		admin.PUT("/hazards/:id/status", hazardHandler.UpdateStatus)
		admin.DELETE("/hazards/:id", hazardHandler.Delete)
	}

	return r
}
