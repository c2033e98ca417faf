package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/summary"
)

// SummariesDependencies defines the interface for account summaries.
type SummariesDependencies interface {
	SummarizeAccount(ctx context.Context, in model.SummaryInput) summary.Result
}

// SummariesHandler handles account summary requests.
type SummariesHandler struct {
	deps SummariesDependencies
}

// NewSummariesHandler creates a new summaries handler.
func NewSummariesHandler(deps SummariesDependencies) *SummariesHandler {
	return &SummariesHandler{deps: deps}
}

// HandleAccount handles POST /api/v1/summaries/account requests.
func (h *SummariesHandler) HandleAccount(w http.ResponseWriter, r *http.Request) {
	var in model.SummaryInput
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(in.HCPID) == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing hcpId"))
		return
	}
	writeJSON(w, r, http.StatusOK, h.deps.SummarizeAccount(r.Context(), in))
}
