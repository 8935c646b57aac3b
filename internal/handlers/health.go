package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName    = "infralens-api"
	serviceVersion = "0.1.0"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type dependency struct {
	name     string
	check    HealthCheck
	critical bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	deps          []dependency
	notConfigured []string
	timeout       time.Duration
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{timeout: 5 * time.Second}
}

// AddCheck registers a dependency. A failing critical dependency turns the
// deep check into a 503; others are reported but tolerated.
func (h *HealthHandler) AddCheck(name string, check HealthCheck, critical bool) *HealthHandler {
	h.deps = append(h.deps, dependency{name: name, check: check, critical: critical})
	return h
}

// NotConfigured lists a dependency that was deliberately left out.
func (h *HealthHandler) NotConfigured(name string) *HealthHandler {
	h.notConfigured = append(h.notConfigured, name)
	return h
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health returns basic health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// DeepHealth returns health status with dependency checks
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	deps := make(map[string]string, len(h.deps)+len(h.notConfigured))
	allHealthy := true

	for _, name := range h.notConfigured {
		deps[name] = "not configured"
	}

	sorted := append([]dependency(nil), h.deps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })
	for _, d := range sorted {
		if err := d.check(ctx); err != nil {
			deps[d.name] = "unhealthy: " + err.Error()
			if d.critical {
				allHealthy = false
			}
			continue
		}
		deps[d.name] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:       status,
		Service:      serviceName,
		Version:      serviceVersion,
		Dependencies: deps,
	})
}
