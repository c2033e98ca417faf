// Package segmentation classifies HCPs into engagement-focused segments.
//
// Model: a fixed, ordered rule cascade evaluated first-match-wins. The cascade
// is an explicit list of (predicate, outcome) pairs so individual rules can be
// audited and tested in isolation. Each HCP is classified independently; input
// order equals output order and there is no cross-record clustering step.
package segmentation

import (
	"fmt"
	"math"

	"github.com/pharmacrm/ai-services/internal/domain/factor"
	"github.com/pharmacrm/ai-services/internal/domain/model"
)

// ModelVersion is the audit tag for the segmentation rule-set.
const ModelVersion = "segmentation-v1.0"

// The five fixed segments.
const (
	SegmentHighValueEngaged = "high_value_engaged"
	SegmentGrowingPotential = "growing_potential"
	SegmentNewTargets       = "new_targets"
	SegmentAtRiskDisengaged = "at_risk_disengaged"
	SegmentKOLNetwork       = "kol_network"
)

// Segments lists every segment the cascade can assign, with a description for
// API documentation and the health surface.
var Segments = map[string]string{
	SegmentHighValueEngaged: "High-influence HCPs with strong engagement",
	SegmentGrowingPotential: "Medium-influence HCPs showing increasing engagement",
	SegmentNewTargets:       "HCPs with limited engagement history",
	SegmentAtRiskDisengaged: "Previously active HCPs with declining engagement",
	SegmentKOLNetwork:       "Key Opinion Leaders requiring strategic engagement",
}

// Result is one segment assignment with its rationale.
type Result struct {
	HCPID       string  `json:"hcpId"`
	SegmentName string  `json:"segmentName"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// influenceScores converts influence levels to a numeric score used by the
// cascade predicates. Unknown levels behave as medium.
var influenceScores = map[string]float64{
	model.InfluenceKeyOpinionLeader: 1.0,
	model.InfluenceHigh:             0.8,
	model.InfluenceMedium:           0.5,
	model.InfluenceLow:              0.2,
}

// ruleInput is the derived view of a profile the cascade evaluates.
type ruleInput struct {
	influenceLevel string
	influenceScore float64
	interactions   int
	avgSentiment   float64
}

// rule is one (predicate, outcome) pair. Order in the cascade is semantically
// significant; the first matching rule wins.
type rule struct {
	segment    string
	matches    func(ruleInput) bool
	confidence func(ruleInput) float64
	reasoning  func(ruleInput) string
}

// cascade is the fixed classification rule order. The final rule is the
// catch-all and always matches.
var cascade = []rule{
	{
		segment: SegmentKOLNetwork,
		matches: func(r ruleInput) bool { return r.influenceLevel == model.InfluenceKeyOpinionLeader },
		confidence: func(ruleInput) float64 { return 0.95 },
		reasoning: func(r ruleInput) string {
			return fmt.Sprintf("Key Opinion Leader classification. Influence: %s, Interactions: %d.",
				r.influenceLevel, r.interactions)
		},
	},
	{
		segment: SegmentHighValueEngaged,
		matches: func(r ruleInput) bool { return r.influenceScore >= 0.7 && r.interactions >= 10 },
		confidence: func(r ruleInput) float64 {
			return factor.Round2(math.Min(0.9, 0.6+r.influenceScore*0.3))
		},
		reasoning: func(r ruleInput) string {
			return fmt.Sprintf("High influence (%s) with strong engagement (%d interactions).",
				r.influenceLevel, r.interactions)
		},
	},
	{
		segment: SegmentNewTargets,
		matches: func(r ruleInput) bool { return r.interactions <= 3 },
		confidence: func(ruleInput) float64 { return 0.8 },
		reasoning: func(r ruleInput) string {
			return fmt.Sprintf("Limited engagement history (%d interactions). New target for outreach.",
				r.interactions)
		},
	},
	{
		segment: SegmentAtRiskDisengaged,
		matches: func(r ruleInput) bool { return r.interactions >= 5 && r.avgSentiment < -0.2 },
		confidence: func(r ruleInput) float64 {
			return factor.Round2(0.7 + math.Abs(r.avgSentiment)*0.2)
		},
		reasoning: func(r ruleInput) string {
			return fmt.Sprintf("Previously engaged (%d interactions) but declining sentiment (%.2f). "+
				"At risk of disengagement.", r.interactions, r.avgSentiment)
		},
	},
	{
		segment: SegmentGrowingPotential,
		matches: func(r ruleInput) bool { return r.influenceScore >= 0.4 && r.interactions >= 3 },
		confidence: func(r ruleInput) float64 {
			return factor.Round2(0.6 + r.influenceScore*0.2)
		},
		reasoning: func(r ruleInput) string {
			return fmt.Sprintf("Medium influence (%s) with growing engagement (%d interactions). "+
				"Potential for increased value.", r.influenceLevel, r.interactions)
		},
	},
	{
		segment: SegmentGrowingPotential,
		matches: func(ruleInput) bool { return true },
		confidence: func(ruleInput) float64 { return 0.5 },
		reasoning: func(r ruleInput) string {
			return fmt.Sprintf("Standard classification. Influence: %s, Interactions: %d.",
				r.influenceLevel, r.interactions)
		},
	},
}

// Classify assigns a single HCP profile to its segment.
func Classify(p model.SegmentProfile) Result {
	level := p.InfluenceLevel
	if level == "" {
		level = model.InfluenceMedium
	}
	score, ok := influenceScores[level]
	if !ok {
		score = 0.5
	}
	in := ruleInput{
		influenceLevel: level,
		influenceScore: score,
		interactions:   p.InteractionCount,
		avgSentiment:   p.AvgSentiment,
	}
	for _, r := range cascade {
		if !r.matches(in) {
			continue
		}
		return Result{
			HCPID:       idOrUnknown(p.ID),
			SegmentName: r.segment,
			Confidence:  r.confidence(in),
			Reasoning:   r.reasoning(in),
		}
	}
	// Unreachable: the cascade ends in a catch-all.
	return Result{HCPID: idOrUnknown(p.ID), SegmentName: SegmentGrowingPotential, Confidence: 0.5,
		Reasoning: "Standard classification."}
}

// ClassifyAll classifies a collection, preserving input order.
func ClassifyAll(profiles []model.SegmentProfile) []Result {
	results := make([]Result, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, Classify(p))
	}
	return results
}

func idOrUnknown(id string) string {
	if id == "" {
		return "unknown"
	}
	return id
}
