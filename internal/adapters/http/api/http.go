// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/pharmacrm/ai-services/internal/domain/copilot"
	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/nba"
	"github.com/pharmacrm/ai-services/internal/domain/scoring"
	"github.com/pharmacrm/ai-services/internal/domain/segmentation"
	"github.com/pharmacrm/ai-services/internal/domain/summary"
	"github.com/pharmacrm/ai-services/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ScoreEngagement(ctx context.Context, in model.ScoringInput) scoring.Result
	ScorePrescriptionPropensity(ctx context.Context, in model.ScoringInput) scoring.Result
	RecommendNextAction(ctx context.Context, in model.NBAInput) nba.Result
	ClassifySegments(ctx context.Context, profiles []model.SegmentProfile) []segmentation.Result
	SummarizeAccount(ctx context.Context, in model.SummaryInput) summary.Result
	CopilotChat(ctx context.Context, in copilot.Input) copilot.Result
	ModelVersions(ctx context.Context) map[string]string
}

// Server wires HTTP routes for the AI service API.
type Server struct {
	scoringHandler      *ScoringHandler
	nbaHandler          *NBAHandler
	segmentationHandler *SegmentationHandler
	summariesHandler    *SummariesHandler
	copilotHandler      *CopilotHandler
	healthHandler       *HealthHandler

	apiKey         string
	allowedOrigins []string
	metricsEnabled bool
	log            logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithAPIKey sets the key required by the X-API-Key header on /api/v1 routes.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithAllowedOrigins sets the CORS allow-list.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.allowedOrigins = origins
		}
	}
}

// WithMetricsEnabled toggles the /metrics endpoint. Disabled deployments
// still record metrics internally; they just do not expose the scrape route.
func WithMetricsEnabled(enabled bool) Option {
	return func(s *Server) {
		s.metricsEnabled = enabled
	}
}

// WithLogger enables the structured access log on all registered routes.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		s.log = log
	}
}

// WithMaxSegmentationBatch caps the number of profiles accepted per
// classification request.
func WithMaxSegmentationBatch(max int) Option {
	return func(s *Server) {
		if max > 0 {
			s.segmentationHandler.maxBatch = max
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		scoringHandler:      NewScoringHandler(deps),
		nbaHandler:          NewNBAHandler(deps),
		segmentationHandler: NewSegmentationHandler(deps, defaultMaxBatch),
		summariesHandler:    NewSummariesHandler(deps),
		copilotHandler:      NewCopilotHandler(deps),
		healthHandler:       NewHealthHandler(deps),

		allowedOrigins: []string{"*"},
		metricsEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(ctx context.Context, r chi.Router) {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key"},
		MaxAge:         300,
	}))
	r.Use(RequestIDMiddleware)
	if s.log != nil {
		r.Use(RequestLogMiddleware(s.log))
	}

	r.Get("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	if s.metricsEnabled {
		r.Get("/metrics", s.healthHandler.HandleMetrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(APIKeyMiddleware(s.apiKey))

		r.Post("/scoring/engagement",
			MetricsMiddleware(s.scoringHandler.HandleEngagement, "scoring_engagement"))
		r.Post("/scoring/prescription-propensity",
			MetricsMiddleware(s.scoringHandler.HandlePrescriptionPropensity, "scoring_propensity"))
		r.Post("/nba/recommend",
			MetricsMiddleware(s.nbaHandler.HandleRecommend, "nba_recommend"))
		r.Post("/segmentation/classify",
			MetricsMiddleware(s.segmentationHandler.HandleClassify, "segmentation_classify"))
		r.Post("/summaries/account",
			MetricsMiddleware(s.summariesHandler.HandleAccount, "summaries_account"))
		r.Post("/copilot/chat",
			MetricsMiddleware(s.copilotHandler.HandleChat, "copilot_chat"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, r, status, errorResponse{Code: code, Message: msg})
}
