package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/database"
	"github.com/infralens/api/internal/middleware"
	"github.com/infralens/api/internal/models"
)

// ConfigStore persists saved configurations per user.
type ConfigStore interface {
	List(ctx context.Context, userID string) ([]models.SavedConfig, error)
	Create(ctx context.Context, userID string, in models.SavedConfigInput) (models.SavedConfig, error)
	Update(ctx context.Context, userID string, id uuid.UUID, in models.SavedConfigInput) (models.SavedConfig, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

type ConfigHandler struct {
	store  ConfigStore
	logger *zap.Logger
}

func NewConfigHandler(store ConfigStore, logger *zap.Logger) *ConfigHandler {
	return &ConfigHandler{store: store, logger: logger}
}

// RequireStore rejects config requests with 503 when no store is configured.
func (h *ConfigHandler) RequireStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.store == nil {
			middleware.RespondError(c, http.StatusServiceUnavailable, middleware.ErrCodeServiceUnavailable, "Saved configurations are unavailable")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ListConfigs godoc
// @Summary List the caller's saved configurations
// @Tags configs
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string][]models.SavedConfig
// @Failure 401 {object} middleware.APIError
// @Router /api/configs [get]
func (h *ConfigHandler) ListConfigs(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	configs, err := h.store.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list configs", zap.String("user_id", userID), zap.Error(err))
		middleware.DatabaseError(c, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"configs": configs})
}

// CreateConfig godoc
// @Summary Save a configuration
// @Tags configs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param config body models.SavedConfigInput true "Configuration"
// @Success 201 {object} map[string]models.SavedConfig
// @Failure 409 {object} middleware.APIError
// @Router /api/configs [post]
func (h *ConfigHandler) CreateConfig(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	var in models.SavedConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.ValidationFailed(c, err)
		return
	}

	cfg, err := h.store.Create(c.Request.Context(), userID, in)
	if err != nil {
		h.respondStoreError(c, "create", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"config": cfg})
}

// UpdateConfig godoc
// @Summary Replace a saved configuration
// @Tags configs
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Config ID"
// @Param config body models.SavedConfigInput true "Configuration"
// @Success 200 {object} map[string]models.SavedConfig
// @Failure 404 {object} middleware.APIError
// @Router /api/configs/{id} [put]
func (h *ConfigHandler) UpdateConfig(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.NotFound(c, "Not found")
		return
	}

	var in models.SavedConfigInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.ValidationFailed(c, err)
		return
	}

	cfg, err := h.store.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		h.respondStoreError(c, "update", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// DeleteConfig godoc
// @Summary Delete a saved configuration
// @Tags configs
// @Security BearerAuth
// @Param id path string true "Config ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} middleware.APIError
// @Router /api/configs/{id} [delete]
func (h *ConfigHandler) DeleteConfig(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.Unauthorized(c, "Unauthorized")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.NotFound(c, "Not found")
		return
	}

	if err := h.store.Delete(c.Request.Context(), userID, id); err != nil {
		h.respondStoreError(c, "delete", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ConfigHandler) respondStoreError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, database.ErrConfigNotFound):
		middleware.NotFound(c, "Not found")
	case errors.Is(err, database.ErrConfigExists):
		middleware.Conflict(c, "A config with this name already exists")
	default:
		h.logger.Error("saved config "+op+" failed", zap.Error(err))
		middleware.DatabaseError(c, "Database error")
	}
}
