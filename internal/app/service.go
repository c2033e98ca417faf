// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/consent"
	"github.com/pharmacrm/ai-services/internal/domain/copilot"
	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/nba"
	"github.com/pharmacrm/ai-services/internal/domain/scoring"
	"github.com/pharmacrm/ai-services/internal/domain/segmentation"
	"github.com/pharmacrm/ai-services/internal/domain/summary"
	"github.com/pharmacrm/ai-services/pkg/logger"
	"github.com/pharmacrm/ai-services/pkg/metrics"
)

// Engine names used for request and latency metrics.
const (
	engineScoring      = "scoring"
	engineNBA          = "nba"
	engineSegmentation = "segmentation"
	engineSummary      = "summary"
	engineCopilot      = "copilot"
)

// Service wires the decision engines together behind a single facade.
// All engines are deterministic and stateless, so the service holds no
// mutable state and is safe for concurrent use.
type Service struct {
	scorer     *scoring.Engine
	nba        *nba.Engine
	summarizer *summary.Generator
	assistant  *copilot.Assistant

	now func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used by the engines. Tests use
// this to make recency and timing calculations reproducible.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		now: func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.scorer = scoring.NewEngine(scoring.WithClock(s.now))
	s.nba = nba.NewEngine(nba.WithClock(s.now))
	s.summarizer = summary.NewGenerator(summary.WithClock(s.now))
	s.assistant = copilot.NewAssistant()

	return s
}

// ScoreEngagement computes the explainable engagement score for an HCP.
func (s *Service) ScoreEngagement(ctx context.Context, in model.ScoringInput) scoring.Result {
	defer s.observe(ctx, engineScoring, s.now())

	result := s.scorer.EngagementScore(in)
	s.logger.Debug(ctx, "engagement score computed",
		logger.String("hcpId", result.HCPID),
		logger.Float64("score", result.Score),
		logger.Float64("confidence", result.Confidence),
	)
	return result
}

// ScorePrescriptionPropensity computes the prescription propensity score
// for an HCP.
func (s *Service) ScorePrescriptionPropensity(ctx context.Context, in model.ScoringInput) scoring.Result {
	defer s.observe(ctx, engineScoring, s.now())

	result := s.scorer.PrescriptionPropensity(in)
	s.logger.Debug(ctx, "propensity score computed",
		logger.String("hcpId", result.HCPID),
		logger.Float64("score", result.Score),
	)
	return result
}

// RecommendNextAction produces the next best action for an HCP, honoring
// the consent gate.
func (s *Service) RecommendNextAction(ctx context.Context, in model.NBAInput) nba.Result {
	defer s.observe(ctx, engineNBA, s.now())

	result := s.nba.Recommend(in)
	if result.RecommendedChannel == consent.ChannelNone {
		metrics.RecordConsentBlock()
		s.logger.Info(ctx, "recommendation blocked by consent gate",
			logger.String("hcpId", result.HCPID),
		)
	} else {
		metrics.RecordRecommendation(result.RecommendedChannel)
		s.logger.Debug(ctx, "next best action computed",
			logger.String("hcpId", result.HCPID),
			logger.String("channel", result.RecommendedChannel),
			logger.Float64("confidence", result.Confidence),
		)
	}
	return result
}

// ClassifySegments classifies a batch of HCP profiles, preserving input
// order in the results.
func (s *Service) ClassifySegments(ctx context.Context, profiles []model.SegmentProfile) []segmentation.Result {
	defer s.observe(ctx, engineSegmentation, s.now())

	results := segmentation.ClassifyAll(profiles)
	for _, r := range results {
		metrics.RecordClassification(r.SegmentName)
	}
	s.logger.Debug(ctx, "segmentation batch classified",
		logger.Int("profiles", len(profiles)),
	)
	return results
}

// SummarizeAccount generates a deterministic account summary for an HCP.
func (s *Service) SummarizeAccount(ctx context.Context, in model.SummaryInput) summary.Result {
	defer s.observe(ctx, engineSummary, s.now())

	result := s.summarizer.Account(in)
	metrics.RecordSummaryGenerated()
	s.logger.Debug(ctx, "account summary generated",
		logger.String("hcpId", result.EntityID),
		logger.Int("insights", len(result.KeyInsights)),
	)
	return result
}

// CopilotChat answers a CRM question, applying the medical-content
// guardrail before any response is produced.
func (s *Service) CopilotChat(ctx context.Context, in copilot.Input) copilot.Result {
	defer s.observe(ctx, engineCopilot, s.now())

	result := s.assistant.Chat(in)
	if copilot.Guardrailed(result) {
		metrics.RecordGuardrailTrigger()
		s.logger.Info(ctx, "copilot guardrail triggered",
			logger.String("userId", in.UserID),
		)
	}
	return result
}

// ModelVersions reports the rule-set version of each engine for the
// health endpoint.
func (s *Service) ModelVersions(ctx context.Context) map[string]string {
	return map[string]string{
		"scoring":      scoring.ModelVersion,
		"nba":          nba.ModelVersion,
		"segmentation": segmentation.ModelVersion,
		"summary":      summary.ModelVersion,
		"copilot":      copilot.ModelVersion,
	}
}

// observe records request count and latency for an engine invocation.
func (s *Service) observe(_ context.Context, engine string, start time.Time) {
	metrics.RecordEngineRequest(engine)
	metrics.RecordEngineLatency(engine, float64(s.now().Sub(start).Milliseconds()))
}
