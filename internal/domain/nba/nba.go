// Package nba recommends the next best engagement action for an HCP.
//
// Model: rule-based channel scoring over consented channels plus a timing
// heuristic and commercial content selection. The consent resolver is a hard
// precondition gate: with no consented channels the engine terminates in a
// no-action result and no scoring runs.
//
// The engine never generates medical treatment recommendations, never claims
// product efficacy, never overrides consent restrictions, and never hides its
// reasoning from users.
package nba

import (
	"fmt"
	"strings"
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/consent"
	"github.com/pharmacrm/ai-services/internal/domain/factor"
	"github.com/pharmacrm/ai-services/internal/domain/model"
)

// ModelVersion is the audit tag stamped on every recommendation.
const ModelVersion = "nba-v1.0"

// channelPriority ranks channels by pharma engagement effectiveness.
var channelPriority = map[string]float64{
	consent.ChannelInPersonVisit:   0.9,
	consent.ChannelRemoteDetailing: 0.8,
	consent.ChannelPhone:           0.7,
	consent.ChannelEmail:           0.6,
	consent.ChannelWebinar:         0.5,
	consent.ChannelConference:      0.4,
}

// defaultChannelPriority covers channels outside the fixed table.
const defaultChannelPriority = 0.5

// sentimentBoostScale converts mean channel sentiment [-1,1] into score points.
const sentimentBoostScale = 15

// maxConfidence caps NBA confidence below 1.0: recommendations are never
// presented as certain.
const maxConfidence = 0.95

// Per-channel factor weights.
const (
	weightChannelSentiment = 0.2
	weightChannelFrequency = 0.15
	weightChannelNovelty   = 0.1
	weightTiming           = 0.1
)

// Result is a next-best-action recommendation with its full reasoning trail.
type Result struct {
	HCPID              string          `json:"hcpId"`
	RecommendedChannel string          `json:"recommendedChannel"`
	RecommendedTiming  time.Time       `json:"recommendedTiming"`
	SuggestedContent   string          `json:"suggestedContent"`
	Reasoning          string          `json:"reasoning"`
	Confidence         float64         `json:"confidence"`
	Factors            []factor.Factor `json:"factors"`
	ModelVersion       string          `json:"modelVersion"`
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock for deterministic timing in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine computes next-best-action recommendations. Pure and stateless apart
// from the injected clock.
type Engine struct {
	now func() time.Time
}

// NewEngine constructs an NBA engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recommend determines the recommended next action for engaging an HCP. The
// final decision always belongs to the field rep or manager reading it.
func (e *Engine) Recommend(in model.NBAInput) Result {
	now := e.now()

	consented := consent.Channels(in.ConsentStatus)
	if len(consented) == 0 {
		return e.noAction(in.HCPID, now)
	}

	b := factor.NewBuilder()
	bestChannel := ""
	bestScore := 0.0
	for _, ch := range consented {
		score := e.scoreChannel(ch, in, b)
		// Strictly-greater keeps the tie-break on consent enumeration order.
		if bestChannel == "" || score > bestScore {
			bestChannel = ch
			bestScore = score
		}
	}

	timing, timingReason := recommendTiming(now, in.LastInteractionDate)
	b.Annotate("recommended_timing", weightTiming, 0.5, timingReason)

	return Result{
		HCPID:              in.HCPID,
		RecommendedChannel: bestChannel,
		RecommendedTiming:  timing,
		SuggestedContent:   suggestContent(in),
		Reasoning:          buildReasoning(bestChannel, in),
		Confidence:         factor.Round2(factor.Clamp(bestScore/100, 0, maxConfidence)),
		Factors:            b.Factors(),
		ModelVersion:       ModelVersion,
	}
}

// noAction is the hard consent-gate terminal: no downstream scoring runs.
func (e *Engine) noAction(hcpID string, now time.Time) Result {
	b := factor.NewBuilder()
	b.Add("no_consent", 1.0, 0.0, "HCP has no active consent for any engagement channel")
	return Result{
		HCPID:              hcpID,
		RecommendedChannel: consent.ChannelNone,
		RecommendedTiming:  now.Add(24 * time.Hour),
		SuggestedContent:   "No consented channels available. Obtain consent before engagement.",
		Reasoning:          "No engagement channels currently have active consent. Action required: obtain consent.",
		Confidence:         0.0,
		Factors:            b.Factors(),
		ModelVersion:       ModelVersion,
	}
}

// scoreChannel scores one consented channel and appends its explanatory
// factors. Exactly one frequency-class factor is emitted per channel: a
// frequency factor when history exists, otherwise a novelty factor signaling
// a diversification opportunity.
func (e *Engine) scoreChannel(channel string, in model.NBAInput, b *factor.Builder) float64 {
	priority, ok := channelPriority[channel]
	if !ok {
		priority = defaultChannelPriority
	}
	score := priority * 100

	var history []model.ChannelInteraction
	for _, h := range in.ChannelHistory {
		if h.Channel == channel {
			history = append(history, h)
		}
	}

	if len(history) == 0 {
		b.Annotate(channel+"_novelty", weightChannelNovelty, 0.4,
			fmt.Sprintf("No prior %s interactions - diversification opportunity", channel))
		return score
	}

	var sentimentSum float64
	sentimentCount := 0
	for _, h := range history {
		if h.Sentiment == nil {
			continue
		}
		sentimentSum += *h.Sentiment
		sentimentCount++
	}
	if sentimentCount > 0 {
		avg := sentimentSum / float64(sentimentCount)
		score += avg * sentimentBoostScale
		b.Annotate(channel+"_sentiment", weightChannelSentiment, (avg+1)/2,
			fmt.Sprintf("Average sentiment on %s: %.2f", channel, avg))
	}

	freq := factor.Clamp(float64(len(history))/10, 0, 1)
	b.Annotate(channel+"_frequency", weightChannelFrequency, freq,
		fmt.Sprintf("%d past %s interactions", len(history), channel))

	return score
}

// recommendTiming applies the timing heuristic, independent of channel choice.
// All arithmetic is in UTC and the result is always strictly in the future.
func recommendTiming(now time.Time, lastDate string) (time.Time, string) {
	if lastDate == "" {
		return now.Add(24 * time.Hour), "No prior interactions - suggest near-term engagement"
	}
	last, ok := model.ParseInteractionDate(lastDate)
	if !ok {
		return now.Add(72 * time.Hour), "Unable to determine last contact - suggest standard timing"
	}
	daysSince := int(now.Sub(last).Hours() / 24)
	switch {
	case daysSince < 7:
		// Wait until a full week has elapsed since last contact.
		target := now.Add(time.Duration(7-daysSince) * 24 * time.Hour)
		if !target.After(now) {
			target = now.Add(24 * time.Hour)
		}
		return target, fmt.Sprintf("Last contact %d days ago - wait for 1-week gap", daysSince)
	case daysSince < 30:
		return now.Add(48 * time.Hour), fmt.Sprintf("Last contact %d days ago - follow up soon", daysSince)
	default:
		return now.Add(24 * time.Hour), fmt.Sprintf("Last contact %d days ago - re-engage promptly", daysSince)
	}
}

// suggestContent selects a commercial content template. Templates are
// relationship language only; no template variant may emit efficacy, dosage,
// or prescribing vocabulary. This invariant is enforced by a keyword-scan
// test over every branch.
func suggestContent(in model.NBAInput) string {
	specialty := displaySpecialty(in.Specialty)

	if in.InteractionCount == 0 {
		return fmt.Sprintf(
			"Introductory engagement for %s specialist. "+
				"Focus on understanding their practice priorities and information needs.",
			specialty)
	}

	if in.InfluenceLevel == model.InfluenceKeyOpinionLeader || in.InfluenceLevel == model.InfluenceHigh {
		return fmt.Sprintf(
			"Strategic engagement with high-influence %s specialist. "+
				"Discuss latest clinical data and peer engagement opportunities. "+
				"Consider invitations to advisory boards or speaker programs.",
			specialty)
	}

	return fmt.Sprintf(
		"Continue relationship-building with %s specialist. "+
			"Follow up on topics from previous interactions. "+
			"Share relevant educational resources aligned with their interests.",
		specialty)
}

// buildReasoning assembles the deterministic reasoning text. This is a
// required output field, not a courtesy: reviewers audit the text, not just
// the factor list.
func buildReasoning(channel string, in model.NBAInput) string {
	parts := []string{
		fmt.Sprintf("Recommended %s based on:", channel),
		fmt.Sprintf("- Consent status: %s is consented", channel),
	}
	if in.LastInteractionDate != "" {
		parts = append(parts, fmt.Sprintf("- Last interaction: %s", in.LastInteractionDate))
	}
	if in.InteractionCount > 0 {
		parts = append(parts, fmt.Sprintf("- Total interactions: %d", in.InteractionCount))
	}
	if recent := recentDistinctChannels(in.ChannelHistory, 5); len(recent) > 0 {
		parts = append(parts, fmt.Sprintf("- Recent channels used: %s", strings.Join(recent, ", ")))
	}
	return strings.Join(parts, "\n")
}

// displaySpecialty renders the specialty for content templates, falling back
// to a generic label when the CRM record carries none.
func displaySpecialty(s string) string {
	if s == "" {
		return "healthcare"
	}
	return model.DisplayName(s)
}

// recentDistinctChannels returns the distinct channels among the first n
// history entries, preserving first-seen order for determinism.
func recentDistinctChannels(history []model.ChannelInteraction, n int) []string {
	if len(history) > n {
		history = history[:n]
	}
	seen := make(map[string]struct{}, n)
	var out []string
	for _, h := range history {
		if h.Channel == "" {
			continue
		}
		if _, dup := seen[h.Channel]; dup {
			continue
		}
		seen[h.Channel] = struct{}{}
		out = append(out, h.Channel)
	}
	return out
}
