// Package scoring computes bounded, explainable engagement scores for HCPs.
//
// Model: deterministic weighted multi-factor scoring. Every score is a
// weighted average of named factors, each carrying a plain-language rationale.
// This is not a black box: any score can be traced back to its inputs, and the
// model version is stamped on every result for audit reproducibility.
package scoring

import (
	"fmt"
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/factor"
	"github.com/pharmacrm/ai-services/internal/domain/model"
)

// ModelVersion identifies the deterministic rule-set producing these results.
// Bumped only on deliberate algorithm change.
const ModelVersion = "scoring-v1.0"

// Score types emitted by this engine.
const (
	TypeEngagement = "engagement_likelihood"
	TypePropensity = "prescription_propensity"
)

// Engagement factor weights. Fixed by the model; they sum to 1.00 by
// construction, and the builder normalizes by the weight actually applied.
const (
	weightRecency   = 0.25
	weightFrequency = 0.20
	weightDiversity = 0.15
	weightSentiment = 0.15
	weightInfluence = 0.15
	weightConsent   = 0.10
)

// Propensity factor weights.
const (
	weightPropensityInfluence  = 0.3
	weightPropensityEngagement = 0.3
	weightPropensitySegments   = 0.2
	weightPropensitySpecialty  = 0.2
)

// propensityConfidence is a fixed constant: propensity confidence is not yet
// data-driven. Known simplification pending per-therapeutic-area calibration.
const propensityConfidence = 0.7

// Result is a single explainable score.
type Result struct {
	HCPID        string          `json:"hcpId"`
	ScoreType    string          `json:"scoreType"`
	Score        float64         `json:"score"`      // [0, 100]
	Confidence   float64         `json:"confidence"` // [0, 1]
	Factors      []factor.Factor `json:"factors"`
	ModelVersion string          `json:"modelVersion"`
	ComputedAt   time.Time       `json:"computedAt"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Used by tests to pin recency
// arithmetic and result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine computes engagement and prescription-propensity scores. It is pure
// and stateless apart from the injected clock; concurrent use is safe.
type Engine struct {
	now func() time.Time
}

// NewEngine constructs a scoring engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EngagementScore computes the engagement likelihood score from six weighted
// factors. Sparse input degrades confidence, never raises an error.
func (e *Engine) EngagementScore(in model.ScoringInput) Result {
	now := e.now()
	b := factor.NewBuilder()

	recencyVal, recencyDesc := scoreRecency(now, in.LastInteractionDate)
	b.Add("interaction_recency", weightRecency, recencyVal, recencyDesc)

	freqVal, freqDesc := scoreFrequency(in.InteractionCount)
	b.Add("interaction_frequency", weightFrequency, freqVal, freqDesc)

	divVal, divDesc := scoreChannelDiversity(in.ChannelHistory)
	b.Add("channel_diversity", weightDiversity, divVal, divDesc)

	sentVal, sentDesc := scoreSentiment(in.ChannelHistory)
	b.Add("sentiment_trend", weightSentiment, sentVal, sentDesc)

	infVal, infDesc := scoreInfluence(in.InfluenceLevel)
	b.Add("influence_level", weightInfluence, infVal, infDesc)

	consVal, consDesc := scoreConsentBreadth(in.ConsentStatus)
	b.Add("consent_breadth", weightConsent, consVal, consDesc)

	return Result{
		HCPID:        in.HCPID,
		ScoreType:    TypeEngagement,
		Score:        b.Score(),
		Confidence:   engagementConfidence(in),
		Factors:      b.Factors(),
		ModelVersion: ModelVersion,
		ComputedAt:   now,
	}
}

// PrescriptionPropensity computes the prescription propensity score. The
// result is a commercial prioritization signal; it makes no claim about
// clinical decisions.
func (e *Engine) PrescriptionPropensity(in model.ScoringInput) Result {
	now := e.now()
	b := factor.NewBuilder()

	influence := in.InfluenceLevel
	if influence == "" {
		influence = model.InfluenceMedium
	}
	influenceVal, ok := propensityInfluence[influence]
	if !ok {
		influenceVal = 0.5
	}
	b.Add("influence_level", weightPropensityInfluence, influenceVal,
		fmt.Sprintf("Influence level: %s", displayOrUnknown(in.InfluenceLevel)))

	engagementVal := factor.Clamp(float64(in.InteractionCount)/20, 0, 1)
	b.Add("interaction_engagement", weightPropensityEngagement, engagementVal,
		fmt.Sprintf("%d total interactions", in.InteractionCount))

	segmentVal := factor.Clamp(0.5+float64(len(in.Segments))*0.1, 0, 1)
	b.Add("segment_alignment", weightPropensitySegments, segmentVal,
		fmt.Sprintf("Member of %d relevant segments", len(in.Segments)))

	// Constant placeholder pending per-therapeutic-area calibration.
	b.Add("specialty_relevance", weightPropensitySpecialty, 0.6,
		fmt.Sprintf("Specialty: %s", displayOrUnknown(in.Specialty)))

	return Result{
		HCPID:        in.HCPID,
		ScoreType:    TypePropensity,
		Score:        b.Score(),
		Confidence:   propensityConfidence,
		Factors:      b.Factors(),
		ModelVersion: ModelVersion,
		ComputedAt:   now,
	}
}

// propensityInfluence differs from the engagement lookup: the propensity
// model weights influence less aggressively at the extremes.
var propensityInfluence = map[string]float64{
	model.InfluenceKeyOpinionLeader: 0.9,
	model.InfluenceHigh:             0.7,
	model.InfluenceMedium:           0.5,
	model.InfluenceLow:              0.3,
}

// engagementConfidence is a data-completeness signal, not statistical
// certainty: the count of present optional fields over five checks.
func engagementConfidence(in model.ScoringInput) float64 {
	present := 0
	if in.LastInteractionDate != "" {
		present++
	}
	if in.InteractionCount > 0 {
		present++
	}
	if len(in.ChannelHistory) > 0 {
		present++
	}
	if in.InfluenceLevel != "" {
		present++
	}
	if len(in.ConsentStatus) > 0 {
		present++
	}
	return factor.Round2(float64(present) / 5)
}

func scoreRecency(now time.Time, lastDate string) (float64, string) {
	if lastDate == "" {
		return 0.1, "No prior interactions recorded"
	}
	last, ok := model.ParseInteractionDate(lastDate)
	if !ok {
		return 0.3, "Unable to parse last interaction date"
	}
	daysAgo := int(now.Sub(last).Hours() / 24)
	switch {
	case daysAgo <= 7:
		return 0.95, fmt.Sprintf("Last interaction %d days ago (very recent)", daysAgo)
	case daysAgo <= 30:
		return 0.75, fmt.Sprintf("Last interaction %d days ago (recent)", daysAgo)
	case daysAgo <= 90:
		return 0.45, fmt.Sprintf("Last interaction %d days ago (moderate)", daysAgo)
	default:
		return 0.15, fmt.Sprintf("Last interaction %d days ago (stale)", daysAgo)
	}
}

func scoreFrequency(count int) (float64, string) {
	switch {
	case count == 0:
		return 0.1, "No interactions recorded"
	case count <= 3:
		return 0.4, fmt.Sprintf("%d interactions (low frequency)", count)
	case count <= 10:
		return 0.7, fmt.Sprintf("%d interactions (moderate frequency)", count)
	case count <= 25:
		return 0.85, fmt.Sprintf("%d interactions (high frequency)", count)
	default:
		return 0.95, fmt.Sprintf("%d interactions (very high frequency)", count)
	}
}

func scoreChannelDiversity(history []model.ChannelInteraction) (float64, string) {
	if len(history) == 0 {
		return 0.1, "No channel history"
	}
	channels := make(map[string]struct{})
	first := ""
	for _, h := range history {
		if h.Channel == "" {
			continue
		}
		if first == "" {
			first = h.Channel
		}
		channels[h.Channel] = struct{}{}
	}
	diversity := len(channels)
	switch {
	case diversity >= 4:
		return 0.95, fmt.Sprintf("Engaged across %d channels (excellent diversity)", diversity)
	case diversity == 3:
		return 0.75, fmt.Sprintf("Engaged across %d channels (good diversity)", diversity)
	case diversity == 2:
		return 0.5, fmt.Sprintf("Engaged across %d channels (moderate)", diversity)
	default:
		if first == "" {
			first = "none"
		}
		return 0.3, fmt.Sprintf("Single channel engagement (%s)", first)
	}
}

func scoreSentiment(history []model.ChannelInteraction) (float64, string) {
	var sum float64
	n := 0
	for _, h := range history {
		if h.Sentiment == nil {
			continue
		}
		sum += *h.Sentiment
		n++
	}
	if n == 0 {
		return 0.5, "No sentiment data available (neutral assumed)"
	}
	avg := sum / float64(n)
	normalized := (avg + 1) / 2
	switch {
	case normalized > 0.7:
		return normalized, fmt.Sprintf("Positive sentiment trend (avg: %.2f)", avg)
	case normalized > 0.4:
		return normalized, fmt.Sprintf("Neutral sentiment (avg: %.2f)", avg)
	default:
		return normalized, fmt.Sprintf("Negative sentiment trend (avg: %.2f)", avg)
	}
}

func scoreInfluence(level string) (float64, string) {
	if level == "" {
		level = model.InfluenceMedium
	}
	switch level {
	case model.InfluenceKeyOpinionLeader:
		return 0.95, "Key Opinion Leader - highest strategic value"
	case model.InfluenceHigh:
		return 0.75, "High influence - strong strategic importance"
	case model.InfluenceMedium:
		return 0.5, "Medium influence - standard engagement priority"
	case model.InfluenceLow:
		return 0.25, "Low influence - lower engagement priority"
	default:
		return 0.5, fmt.Sprintf("Unknown influence level: %s", level)
	}
}

func scoreConsentBreadth(consents []model.ConsentRecord) (float64, string) {
	if len(consents) == 0 {
		return 0.1, "No consent records"
	}
	granted := 0
	for _, c := range consents {
		if c.Status == "granted" {
			granted++
		}
	}
	ratio := float64(granted) / float64(len(consents))
	return ratio, fmt.Sprintf("%d of %d consent types granted", granted, len(consents))
}

func displayOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
