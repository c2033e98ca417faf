package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmacrm/ai-services/internal/domain/segmentation"
	"github.com/pharmacrm/ai-services/pkg/metrics"
)

// HealthDependencies defines the interface for health reporting.
type HealthDependencies interface {
	ModelVersions(ctx context.Context) map[string]string
}

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps HealthDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type healthResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Version  string            `json:"version"`
	Models   map[string]string `json:"models"`
	Segments map[string]string `json:"segments"`
}

// HandleHealth handles GET /health requests. The endpoint is unauthenticated
// so orchestrators can probe it, and it reports the active rule-set version
// of every engine plus the segments the classifier can assign.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:   "healthy",
		Service:  "pharmacrm-ai-services",
		Version:  "1.0.0",
		Models:   h.deps.ModelVersions(r.Context()),
		Segments: segmentation.Segments,
	})
}

// HandleMetrics handles GET /metrics requests from the custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
