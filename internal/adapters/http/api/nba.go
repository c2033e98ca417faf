package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/nba"
)

// NBADependencies defines the interface for next-best-action operations.
type NBADependencies interface {
	RecommendNextAction(ctx context.Context, in model.NBAInput) nba.Result
}

// NBAHandler handles next-best-action requests.
type NBAHandler struct {
	deps NBADependencies
}

// NewNBAHandler creates a new next-best-action handler.
func NewNBAHandler(deps NBADependencies) *NBAHandler {
	return &NBAHandler{deps: deps}
}

// HandleRecommend handles POST /api/v1/nba/recommend requests.
func (h *NBAHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	var in model.NBAInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	switch {
	case strings.TrimSpace(in.HCPID) == "":
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing hcpId"))
		return
	case strings.TrimSpace(in.UserID) == "":
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing userId"))
		return
	}
	writeJSON(w, r, http.StatusOK, h.deps.RecommendNextAction(r.Context(), in))
}
