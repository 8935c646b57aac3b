package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infralens/api/internal/middleware"
	"github.com/infralens/api/internal/models"
)

// ClientEventRecorder accepts events reported by the frontend.
type ClientEventRecorder interface {
	RecordClientEvent(e models.AnalyticsEvent)
}

type AnalyticsHandler struct {
	recorder ClientEventRecorder
	logger   *zap.Logger
}

func NewAnalyticsHandler(recorder ClientEventRecorder, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{recorder: recorder, logger: logger}
}

// ClientEventRequest mirrors a recommendation the frontend displayed.
type ClientEventRequest struct {
	UserID              string   `json:"userId"`
	SessionID           string   `json:"sessionId"`
	TaskType            string   `json:"taskType" binding:"required"`
	GPUMemory           string   `json:"gpuMemory" binding:"required"`
	InferenceDevice     string   `json:"inferenceDevice" binding:"required"`
	MaxLatency          int      `json:"maxLatency" binding:"required"`
	LicenseType         string   `json:"licenseType" binding:"required"`
	InferenceFramework  string   `json:"inferenceFramework"`
	Quantization        string   `json:"quantization"`
	DeploymentTarget    string   `json:"deploymentTarget"`
	UseCaseDescription  string   `json:"useCaseDescription"`
	PrimaryModelID      string   `json:"primaryModelId"`
	AlternativeModelIDs []string `json:"alternativeModelIds"`
	WarningModelID      string   `json:"warningModelId"`
	UsedLLMReranking    bool     `json:"usedLlmReranking"`
	ResponseTimeMs      int64    `json:"responseTimeMs"`
}

// RecordEvent godoc
// @Summary Record a client-side analytics event
// @Tags analytics
// @Accept json
// @Produce json
// @Param event body ClientEventRequest true "Event"
// @Success 202 {object} map[string]bool
// @Router /api/analytics/event [post]
func (h *AnalyticsHandler) RecordEvent(c *gin.Context) {
	var req ClientEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.ValidationFailed(c, err)
		return
	}

	event := req.toEvent()
	if id, ok := middleware.GetUserID(c); ok {
		event.UserID = id
	}
	h.recorder.RecordClientEvent(event)

	c.JSON(http.StatusAccepted, gin.H{"recorded": true})
}

func (r ClientEventRequest) toEvent() models.AnalyticsEvent {
	alternatives := r.AlternativeModelIDs
	if alternatives == nil {
		alternatives = []string{}
	}
	return models.AnalyticsEvent{
		ID:                    uuid.New(),
		UserID:                r.UserID,
		SessionID:             r.SessionID,
		TaskType:              r.TaskType,
		GPUMemory:             r.GPUMemory,
		InferenceDevice:       r.InferenceDevice,
		MaxLatency:            r.MaxLatency,
		LicenseType:           r.LicenseType,
		InferenceFramework:    r.InferenceFramework,
		Quantization:          r.Quantization,
		DeploymentTarget:      r.DeploymentTarget,
		HadUseCaseDescription: strings.TrimSpace(r.UseCaseDescription) != "",
		PrimaryModelID:        r.PrimaryModelID,
		AlternativeModelIDs:   alternatives,
		WarningModelID:        r.WarningModelID,
		UsedLLMReranking:      r.UsedLLMReranking,
		ResponseTimeMs:        r.ResponseTimeMs,
		CreatedAt:             time.Now().UTC(),
	}
}
