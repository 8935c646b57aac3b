package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the kind of workload a model is recommended for
type TaskType string

const (
	TaskTextGeneration    TaskType = "text-generation"
	TaskClassification    TaskType = "classification"
	TaskSummarization     TaskType = "summarization"
	TaskQuestionAnswering TaskType = "question-answering"
	TaskCodeGeneration    TaskType = "code-generation"
	TaskEmbedding         TaskType = "embedding"
)

// TaskTypes lists every supported task in display order
var TaskTypes = []TaskType{
	TaskTextGeneration,
	TaskClassification,
	TaskSummarization,
	TaskQuestionAnswering,
	TaskCodeGeneration,
	TaskEmbedding,
}

// License policies accepted by the recommendation engine
const (
	LicenseAny           = "any"
	LicensePermissive    = "permissive"
	LicenseCommercial    = "commercial"
	LicenseNonCommercial = "non-commercial"
)

// Defaults applied to optional request fields
const (
	DefaultFramework        = "any"
	DefaultQuantization     = "none"
	DefaultDeploymentTarget = "local-dev"
)

// ModelRecommendation is one catalog entry as served to clients
type ModelRecommendation struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Provider       string   `json:"provider" yaml:"provider"`
	Parameters     string   `json:"parameters" yaml:"parameters"`
	MemoryRequired string   `json:"memoryRequired" yaml:"memoryRequired"`
	Latency        string   `json:"latency" yaml:"latency"`
	License        string   `json:"license" yaml:"license"`
	Score          int      `json:"score" yaml:"score"`
	Reasoning      string   `json:"reasoning" yaml:"reasoning"`
	Tradeoffs      []string `json:"tradeoffs" yaml:"tradeoffs"`
	IsWarning      bool     `json:"isWarning,omitempty" yaml:"isWarning,omitempty"`
}

// Clone returns a copy that shares no mutable state with m
func (m ModelRecommendation) Clone() ModelRecommendation {
	if m.Tradeoffs != nil {
		m.Tradeoffs = append([]string(nil), m.Tradeoffs...)
	}
	return m
}

// CloneModels copies a slice of models element by element
func CloneModels(in []ModelRecommendation) []ModelRecommendation {
	if in == nil {
		return nil
	}
	out := make([]ModelRecommendation, len(in))
	for i, m := range in {
		out[i] = m.Clone()
	}
	return out
}

// RecommendationConfig carries the user's deployment constraints
type RecommendationConfig struct {
	TaskType           TaskType `json:"taskType" binding:"required,oneof=text-generation classification summarization question-answering code-generation embedding"`
	GPUMemory          string   `json:"gpuMemory" binding:"required,oneof=8gb 16gb 24gb 40gb 80gb"`
	InferenceDevice    string   `json:"inferenceDevice" binding:"required,oneof=consumer-gpu datacenter-gpu cpu-only apple-silicon"`
	MaxLatency         int      `json:"maxLatency" binding:"required,min=20,max=500"`
	LicenseType        string   `json:"licenseType" binding:"required,oneof=any permissive commercial non-commercial"`
	InferenceFramework string   `json:"inferenceFramework,omitempty" binding:"omitempty,oneof=any transformers llama.cpp vllm onnx ollama"`
	Quantization       string   `json:"quantization,omitempty" binding:"omitempty,oneof=none int8 int4 gptq awq"`
	DeploymentTarget   string   `json:"deploymentTarget,omitempty" binding:"omitempty,oneof=local-dev on-prem-server cloud-vm edge-device"`
	UseCaseDescription string   `json:"useCaseDescription,omitempty" binding:"max=1000"`
}

// ApplyDefaults fills optional fields that were omitted from the request
func (c *RecommendationConfig) ApplyDefaults() {
	if c.InferenceFramework == "" {
		c.InferenceFramework = DefaultFramework
	}
	if c.Quantization == "" {
		c.Quantization = DefaultQuantization
	}
	if c.DeploymentTarget == "" {
		c.DeploymentTarget = DefaultDeploymentTarget
	}
}

// RecommendationResult is the response for a single recommendation request
type RecommendationResult struct {
	Primary          ModelRecommendation   `json:"primary" yaml:"primary"`
	Alternatives     []ModelRecommendation `json:"alternatives" yaml:"alternatives"`
	Warning          ModelRecommendation   `json:"warning" yaml:"warning"`
	UsedLLMReranking bool                  `json:"usedLlmReranking" yaml:"usedLlmReranking"`
}

// SavedConfig is a named recommendation configuration owned by a user
type SavedConfig struct {
	ID                 uuid.UUID `json:"id"`
	UserID             string    `json:"user_id"`
	Name               string    `json:"name"`
	TaskType           string    `json:"task_type"`
	GPUMemory          string    `json:"gpu_memory"`
	InferenceDevice    string    `json:"inference_device"`
	MaxLatency         int       `json:"max_latency"`
	LicenseType        string    `json:"license_type"`
	InferenceFramework string    `json:"inference_framework"`
	Quantization       string    `json:"quantization"`
	DeploymentTarget   string    `json:"deployment_target"`
	UseCaseDescription string    `json:"use_case_description"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// SavedConfigInput is the writable subset of SavedConfig
type SavedConfigInput struct {
	Name               string `json:"name" binding:"required,min=1,max=100"`
	TaskType           string `json:"task_type" binding:"required,oneof=text-generation classification summarization question-answering code-generation embedding"`
	GPUMemory          string `json:"gpu_memory" binding:"required,oneof=8gb 16gb 24gb 40gb 80gb"`
	InferenceDevice    string `json:"inference_device" binding:"required,oneof=consumer-gpu datacenter-gpu cpu-only apple-silicon"`
	MaxLatency         int    `json:"max_latency" binding:"required,min=20,max=500"`
	LicenseType        string `json:"license_type" binding:"required,oneof=any permissive commercial non-commercial"`
	InferenceFramework string `json:"inference_framework" binding:"omitempty,oneof=any transformers llama.cpp vllm onnx ollama"`
	Quantization       string `json:"quantization" binding:"omitempty,oneof=none int8 int4 gptq awq"`
	DeploymentTarget   string `json:"deployment_target" binding:"omitempty,oneof=local-dev on-prem-server cloud-vm edge-device"`
	UseCaseDescription string `json:"use_case_description" binding:"max=1000"`
}

// ApplyDefaults fills optional fields that were omitted from the request
func (in *SavedConfigInput) ApplyDefaults() {
	if in.InferenceFramework == "" {
		in.InferenceFramework = DefaultFramework
	}
	if in.Quantization == "" {
		in.Quantization = DefaultQuantization
	}
	if in.DeploymentTarget == "" {
		in.DeploymentTarget = DefaultDeploymentTarget
	}
}

// AnalyticsEvent is one served recommendation, mirrored for reporting
type AnalyticsEvent struct {
	ID                    uuid.UUID `json:"id"`
	UserID                string    `json:"userId,omitempty"`
	SessionID             string    `json:"sessionId,omitempty"`
	TaskType              string    `json:"taskType"`
	GPUMemory             string    `json:"gpuMemory"`
	InferenceDevice       string    `json:"inferenceDevice"`
	MaxLatency            int       `json:"maxLatency"`
	LicenseType           string    `json:"licenseType"`
	InferenceFramework    string    `json:"inferenceFramework"`
	Quantization          string    `json:"quantization"`
	DeploymentTarget      string    `json:"deploymentTarget"`
	HadUseCaseDescription bool      `json:"hadUseCaseDescription"`
	PrimaryModelID        string    `json:"primaryModelId"`
	AlternativeModelIDs   []string  `json:"alternativeModelIds"`
	WarningModelID        string    `json:"warningModelId"`
	UsedLLMReranking      bool      `json:"usedLlmReranking"`
	ResponseTimeMs        int64     `json:"responseTimeMs"`
	CreatedAt             time.Time `json:"createdAt"`
}

// NewAnalyticsEvent builds an event from a served request and its result
func NewAnalyticsEvent(cfg RecommendationConfig, result RecommendationResult, elapsed time.Duration) AnalyticsEvent {
	alternatives := make([]string, 0, len(result.Alternatives))
	for _, m := range result.Alternatives {
		alternatives = append(alternatives, m.ID)
	}
	return AnalyticsEvent{
		ID:                    uuid.New(),
		TaskType:              string(cfg.TaskType),
		GPUMemory:             cfg.GPUMemory,
		InferenceDevice:       cfg.InferenceDevice,
		MaxLatency:            cfg.MaxLatency,
		LicenseType:           cfg.LicenseType,
		InferenceFramework:    cfg.InferenceFramework,
		Quantization:          cfg.Quantization,
		DeploymentTarget:      cfg.DeploymentTarget,
		HadUseCaseDescription: strings.TrimSpace(cfg.UseCaseDescription) != "",
		PrimaryModelID:        result.Primary.ID,
		AlternativeModelIDs:   alternatives,
		WarningModelID:        result.Warning.ID,
		UsedLLMReranking:      result.UsedLLMReranking,
		ResponseTimeMs:        elapsed.Milliseconds(),
		CreatedAt:             time.Now().UTC(),
	}
}
