package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/segmentation"
)

// defaultMaxBatch caps classification batches when no limit is configured.
const defaultMaxBatch = 1000

// SegmentationDependencies defines the interface for segment classification.
type SegmentationDependencies interface {
	ClassifySegments(ctx context.Context, profiles []model.SegmentProfile) []segmentation.Result
}

// SegmentationHandler handles batch segment classification requests.
type SegmentationHandler struct {
	deps     SegmentationDependencies
	maxBatch int
}

// NewSegmentationHandler creates a new segmentation handler.
func NewSegmentationHandler(deps SegmentationDependencies, maxBatch int) *SegmentationHandler {
	return &SegmentationHandler{
		deps:     deps,
		maxBatch: maxBatch,
	}
}

// classifyRequest mirrors the OpenAPI schema for POST /segmentation/classify.
type classifyRequest struct {
	HCPs []model.SegmentProfile `json:"hcps"`
}

// HandleClassify handles POST /api/v1/segmentation/classify requests.
func (h *SegmentationHandler) HandleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if req.HCPs == nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing hcps"))
		return
	}
	if len(req.HCPs) > h.maxBatch {
		writeError(w, r, http.StatusBadRequest, "batch_limit_exceeded", ErrBatchLimit)
		return
	}

	results := h.deps.ClassifySegments(r.Context(), req.HCPs)
	if results == nil {
		results = []segmentation.Result{}
	}
	writeJSON(w, r, http.StatusOK, results)
}
