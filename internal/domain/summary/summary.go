// Package summary generates natural-language account summaries of HCPs.
//
// Summaries describe engagement patterns and the commercial relationship only.
// They must never contain medical claims, treatment recommendations, or
// clinical decision guidance; the same vocabulary ban as NBA content applies.
package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/model"
)

// ModelVersion is the audit tag for the summary template set.
const ModelVersion = "summary-v1.0"

// Result is a generated account summary. InputDataHash ties the text back to
// the exact input it was generated from for audit.
type Result struct {
	EntityID      string    `json:"entityId"`
	EntityType    string    `json:"entityType"`
	Summary       string    `json:"summary"`
	KeyInsights   []string  `json:"keyInsights"`
	GeneratedAt   time.Time `json:"generatedAt"`
	ModelVersion  string    `json:"modelVersion"`
	InputDataHash string    `json:"inputDataHash"`
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithClock overrides the generator's clock for deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator builds account summaries by deterministic template selection.
type Generator struct {
	now func() time.Time
}

// NewGenerator constructs a summary generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Account generates a natural-language summary of an HCP account covering
// engagement pattern, channel preferences, segment membership, and key
// metrics.
func (g *Generator) Account(in model.SummaryInput) Result {
	var parts []string
	var insights []string

	parts, insights = appendEngagementOverview(parts, insights, in.InteractionCount)

	if in.Specialty != "" {
		display := model.DisplayName(in.Specialty)
		parts = append(parts, fmt.Sprintf("Specialty: %s.", display))
		insights = append(insights, fmt.Sprintf("Specialty: %s", display))
	}

	if in.InfluenceLevel != "" {
		parts = append(parts, fmt.Sprintf("Classified as %s influence.", model.DisplayName(in.InfluenceLevel)))
		if in.InfluenceLevel == model.InfluenceKeyOpinionLeader {
			insights = append(insights, "Key Opinion Leader - strategic engagement priority")
		}
	}

	parts, insights = appendChannelAnalysis(parts, insights, in.ChannelHistory)

	if len(in.Segments) > 0 {
		parts = append(parts, fmt.Sprintf("Segment membership: %s.", strings.Join(in.Segments, ", ")))
	}

	if len(in.PreviousScores) > 0 {
		parts = append(parts, fmt.Sprintf("Latest AI engagement score: %v.", in.PreviousScores[0].Score))
	}

	return Result{
		EntityID:      in.HCPID,
		EntityType:    "hcp",
		Summary:       strings.Join(parts, " "),
		KeyInsights:   insights,
		GeneratedAt:   g.now(),
		ModelVersion:  ModelVersion,
		InputDataHash: inputHash(in),
	}
}

func appendEngagementOverview(parts, insights []string, count int) ([]string, []string) {
	switch {
	case count == 0:
		parts = append(parts, "This HCP has no recorded interactions. "+
			"Consider initiating outreach through consented channels.")
		insights = append(insights, "No engagement history - new prospect")
	case count < 5:
		parts = append(parts, fmt.Sprintf("This HCP has %d recorded interactions, "+
			"indicating early-stage engagement.", count))
		insights = append(insights, "Early-stage engagement")
	case count < 15:
		parts = append(parts, fmt.Sprintf("This HCP has %d recorded interactions, "+
			"showing moderate engagement levels.", count))
		insights = append(insights, "Moderate engagement established")
	default:
		parts = append(parts, fmt.Sprintf("This HCP has %d recorded interactions, "+
			"indicating strong, established engagement.", count))
		insights = append(insights, "Strong engagement relationship")
	}
	return parts, insights
}

func appendChannelAnalysis(parts, insights []string, history []model.ChannelInteraction) ([]string, []string) {
	if len(history) == 0 {
		return parts, insights
	}

	counts := make(map[string]int)
	for _, h := range history {
		counts[model.DisplayName(h.Channel)]++
	}

	// Sort by count descending, then name, for deterministic output.
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	dist := make([]string, 0, len(names))
	for _, name := range names {
		dist = append(dist, fmt.Sprintf("%s (%d)", name, counts[name]))
	}
	parts = append(parts, fmt.Sprintf("Channel distribution: %s.", strings.Join(dist, ", ")))
	insights = append(insights, fmt.Sprintf("Preferred channel: %s", names[0]))

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
		if avg > 0.3 {
			insights = append(insights, "Positive sentiment trend")
		} else if avg < -0.3 {
			insights = append(insights, "Declining sentiment - attention required")
		}
	}
	return parts, insights
}

// inputHash canonicalizes the input (JSON with sorted keys) and hashes it so
// every summary is traceable to the exact data it described.
func inputHash(in model.SummaryInput) string {
	raw, err := json.Marshal(in)
	if err != nil {
		return ""
	}
	// Round-trip through a map: Go marshals map keys in sorted order, which
	// gives a canonical byte form independent of struct field order.
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	canonical, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
