package handlers

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/catalog"
	"github.com/infralens/api/internal/middleware"
	"github.com/infralens/api/internal/models"
)

// ModelCatalog is the read side of the catalog used by the listing endpoint.
type ModelCatalog interface {
	ResolveCandidates(ctx context.Context, q catalog.Query) (catalog.Candidates, error)
	AllModels(ctx context.Context) ([]models.ModelRecommendation, error)
}

type ModelsHandler struct {
	catalog ModelCatalog
	logger  *zap.Logger
}

func NewModelsHandler(catalog ModelCatalog, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{catalog: catalog, logger: logger}
}

// ModelsResponse is the body of GET /api/models
type ModelsResponse struct {
	Models []models.ModelRecommendation `json:"models"`
	Total  int                          `json:"total"`
}

// ListModels godoc
// @Summary List catalog models
// @Tags models
// @Produce json
// @Param taskType query string false "Task type"
// @Param framework query string false "Inference framework"
// @Param quantization query string false "Quantization"
// @Param deploymentTarget query string false "Deployment target"
// @Param isWarning query bool false "Return only the task's warning model"
// @Success 200 {object} ModelsResponse
// @Router /api/models [get]
func (h *ModelsHandler) ListModels(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListModels")
	defer span.End()

	taskType := models.TaskType(c.Query("taskType"))
	if taskType == "" {
		all, err := h.catalog.AllModels(ctx)
		if err != nil {
			h.respondCatalogError(c, err)
			return
		}
		if all == nil {
			all = []models.ModelRecommendation{}
		}
		c.JSON(http.StatusOK, ModelsResponse{Models: all, Total: len(all)})
		return
	}

	if !slices.Contains(models.TaskTypes, taskType) {
		middleware.BadRequest(c, "Unknown taskType: "+string(taskType))
		return
	}

	candidates, err := h.catalog.ResolveCandidates(ctx, catalog.Query{
		Task:             taskType,
		Framework:        c.DefaultQuery("framework", models.DefaultFramework),
		Quantization:     c.DefaultQuery("quantization", models.DefaultQuantization),
		DeploymentTarget: c.DefaultQuery("deploymentTarget", models.DefaultDeploymentTarget),
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}

	if c.Query("isWarning") == "true" {
		c.JSON(http.StatusOK, ModelsResponse{Models: []models.ModelRecommendation{candidates.Warning}, Total: 1})
		return
	}

	list := candidates.Models
	if list == nil {
		list = []models.ModelRecommendation{}
	}
	c.JSON(http.StatusOK, ModelsResponse{Models: list, Total: len(list)})
}

func (h *ModelsHandler) respondCatalogError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrNoModels) {
		middleware.NoModels(c, "No models available")
		return
	}
	h.logger.Error("model listing failed", zap.Error(err))
	middleware.InternalError(c, "Failed to list models")
}
