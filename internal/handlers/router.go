package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/infralens/api/internal/middleware"
)

// Routes groups the API handlers for registration.
type Routes struct {
	Health          *HealthHandler
	Recommendations *RecommendationHandler
	Models          *ModelsHandler
	Analytics       *AnalyticsHandler
	Configs         *ConfigHandler
	Auth            *middleware.Authenticator

	// Optional per-route limiters; nil disables limiting.
	DefaultLimiter *middleware.RateLimiter
	StrictLimiter  *middleware.RateLimiter
}

// Register mounts health probes at the root and the API under /api.
func (rt Routes) Register(r *gin.Engine) {
	r.GET("/health", rt.Health.Health)
	r.GET("/health/deep", rt.Health.DeepHealth)

	api := r.Group("/api")
	api.Use(rt.Auth.OptionalAuth())
	if rt.DefaultLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rt.DefaultLimiter))
	}

	recommend := []gin.HandlerFunc{rt.Recommendations.Recommend}
	if rt.StrictLimiter != nil {
		recommend = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(rt.StrictLimiter)}, recommend...)
	}
	api.POST("/recommendations", recommend...)
	api.GET("/models", rt.Models.ListModels)
	api.POST("/analytics/event", rt.Analytics.RecordEvent)

	configs := api.Group("/configs")
	configs.Use(rt.Auth.RequireAuth(), rt.Configs.RequireStore())
	{
		configs.GET("", rt.Configs.ListConfigs)
		configs.POST("", rt.Configs.CreateConfig)
		configs.PUT("/:id", rt.Configs.UpdateConfig)
		configs.DELETE("/:id", rt.Configs.DeleteConfig)
	}
}
