package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/pharmacrm/ai-services/internal/domain/copilot"
)

// CopilotDependencies defines the interface for copilot chat.
type CopilotDependencies interface {
	CopilotChat(ctx context.Context, in copilot.Input) copilot.Result
}

// CopilotHandler handles copilot chat requests.
type CopilotHandler struct {
	deps CopilotDependencies
}

// NewCopilotHandler creates a new copilot handler.
func NewCopilotHandler(deps CopilotDependencies) *CopilotHandler {
	return &CopilotHandler{deps: deps}
}

// HandleChat handles POST /api/v1/copilot/chat requests.
func (h *CopilotHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var in copilot.Input
	if err := render.DecodeJSON(r.Body, &in); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeError(w, r, http.StatusBadRequest, "bad_request", errors.New("missing userId"))
		return
	}
	writeJSON(w, r, http.StatusOK, h.deps.CopilotChat(r.Context(), in))
}
