package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/advisor"
	"github.com/infralens/api/internal/catalog"
	"github.com/infralens/api/internal/middleware"
	"github.com/infralens/api/internal/models"
)

var tracer = otel.Tracer("github.com/infralens/api/internal/handlers")

// SessionIDHeader carries the frontend's anonymous session for analytics.
const SessionIDHeader = "X-Session-ID"

// Recommender produces a recommendation for a validated request.
type Recommender interface {
	RecommendFor(ctx context.Context, cfg models.RecommendationConfig, caller advisor.Caller) (models.RecommendationResult, error)
}

type RecommendationHandler struct {
	advisor Recommender
	logger  *zap.Logger
}

func NewRecommendationHandler(advisor Recommender, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{advisor: advisor, logger: logger}
}

// Recommend godoc
// @Summary Recommend models for a deployment
// @Tags recommendations
// @Accept json
// @Produce json
// @Param config body models.RecommendationConfig true "Deployment constraints"
// @Success 200 {object} models.RecommendationResult
// @Failure 422 {object} map[string]interface{}
// @Failure 404 {object} middleware.APIError
// @Router /api/recommendations [post]
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "Recommend")
	defer span.End()

	var cfg models.RecommendationConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		middleware.ValidationFailed(c, err)
		return
	}

	caller := advisor.Caller{SessionID: c.GetHeader(SessionIDHeader)}
	if id, ok := middleware.GetUserID(c); ok {
		caller.UserID = id
	}

	result, err := h.advisor.RecommendFor(ctx, cfg, caller)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, catalog.ErrNoModels) {
			middleware.NoModels(c, "No models available for this task")
			return
		}
		h.logger.Error("recommendation failed",
			zap.String("task_type", string(cfg.TaskType)),
			zap.Error(err),
		)
		middleware.InternalError(c, "Failed to generate recommendation")
		return
	}

	c.JSON(http.StatusOK, result)
}
