package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/infralens/api/internal/breaker"
	"github.com/infralens/api/internal/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()
	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "worker", "sync", "recommend", "events"} {
		assert.Contains(t, names, want)
	}
	assert.Equal(t, version, cmd.Version)
}

func TestRecommendCommandJSON(t *testing.T) {
	out, err := runCLI(t, "recommend", "--task", "embedding", "--gpu", "8gb", "--device", "cpu-only", "--latency", "50")
	require.NoError(t, err)

	var res models.RecommendationResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "bge-large", res.Primary.ID)
	require.Len(t, res.Alternatives, 2)
	assert.Equal(t, "sentence-bert", res.Warning.ID)
	assert.False(t, res.UsedLLMReranking)
}

func TestRecommendCommandYAML(t *testing.T) {
	out, err := runCLI(t, "recommend", "-t", "classification", "--gpu", "80gb", "-f", "yaml")
	require.NoError(t, err)

	var res models.RecommendationResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "deberta-v3-large", res.Primary.ID)
	assert.Equal(t, "bert-base", res.Warning.ID)
}

func TestRecommendCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing task", []string{"recommend"}, "task"},
		{"unknown task", []string{"recommend", "--task", "translation"}, "TaskType"},
		{"bad gpu", []string{"recommend", "--task", "embedding", "--gpu", "12gb"}, "GPUMemory"},
		{"latency too low", []string{"recommend", "--task", "embedding", "--latency", "5"}, "MaxLatency"},
		{"bad format", []string{"recommend", "--task", "embedding", "--format", "xml"}, "unsupported format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSyncCommandRejectsUnknownTask(t *testing.T) {
	_, err := runCLI(t, "sync", "--task", "translation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown task")
}

func TestHealthHandlerWithoutBackends(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cb := breaker.NewWithConfig(1, 1, time.Minute)

	r := gin.New()
	r.GET("/health/deep", newHealthHandler(&backends{}, cb).DeepHealth)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/deep", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	deps, ok := body["dependencies"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", deps["hub"])
}

func TestHubBreakerCheck(t *testing.T) {
	cb := breaker.NewWithConfig(1, 1, time.Minute)
	check := hubBreakerCheck(cb)
	require.NoError(t, check(context.Background()))

	cb.RecordFailure()
	assert.Error(t, check(context.Background()))
}

func TestNoMatchError(t *testing.T) {
	err := &NoMatchError{Task: models.TaskEmbedding}
	assert.Equal(t, "no models available for embedding", err.Error())
}
