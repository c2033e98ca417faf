package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/scoring"
)

// ScoringDependencies defines the interface for scoring operations.
type ScoringDependencies interface {
	ScoreEngagement(ctx context.Context, in model.ScoringInput) scoring.Result
	ScorePrescriptionPropensity(ctx context.Context, in model.ScoringInput) scoring.Result
}

// ScoringHandler handles engagement and propensity scoring requests.
type ScoringHandler struct {
	deps ScoringDependencies
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(deps ScoringDependencies) *ScoringHandler {
	return &ScoringHandler{deps: deps}
}

// HandleEngagement handles POST /api/v1/scoring/engagement requests.
func (h *ScoringHandler) HandleEngagement(w http.ResponseWriter, r *http.Request) {
	in, err := decodeScoringInput(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.deps.ScoreEngagement(r.Context(), in))
}

// HandlePrescriptionPropensity handles POST /api/v1/scoring/prescription-propensity requests.
func (h *ScoringHandler) HandlePrescriptionPropensity(w http.ResponseWriter, r *http.Request) {
	in, err := decodeScoringInput(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.deps.ScorePrescriptionPropensity(r.Context(), in))
}

func decodeScoringInput(r *http.Request) (model.ScoringInput, error) {
	var in model.ScoringInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		return model.ScoringInput{}, ErrBadRequest
	}
	if strings.TrimSpace(in.HCPID) == "" {
		return model.ScoringInput{}, errors.New("missing hcpId")
	}
	return in, nil
}
