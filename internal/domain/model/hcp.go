// Package model contains domain records passed between layers.
//
// All records are immutable value types created fresh per request. Nothing in
// this package is persisted; the engines read these shapes and return results
// without mutating them.
package model

import (
	"strings"
	"time"
)

// Influence levels recognized across the engines. Unknown values fall back to
// medium behavior inside each engine.
const (
	InfluenceKeyOpinionLeader = "key_opinion_leader"
	InfluenceHigh             = "high"
	InfluenceMedium           = "medium"
	InfluenceLow              = "low"
)

// ChannelInteraction is one recorded touchpoint with an HCP on a channel.
// Sentiment and Date are optional; absent values are handled by documented
// engine defaults, never errors.
type ChannelInteraction struct {
	Channel   string   `json:"channel"`
	Status    string   `json:"status"`
	Sentiment *float64 `json:"sentiment,omitempty"` // [-1, 1]
	Date      *string  `json:"date,omitempty"`      // ISO-8601
}

// ConsentRecord is a raw consent entry as supplied by the CRM. Only records
// with status "granted" permit engagement on the mapped channel.
type ConsentRecord struct {
	ConsentType string `json:"consent_type"`
	Status      string `json:"status"`
}

// PreviousScore is a prior scoring result attached to an input for context.
type PreviousScore struct {
	ScoreType string  `json:"scoreType,omitempty"`
	Score     float64 `json:"score"`
}

// ScoringInput is the structured HCP record the scoring engines read.
// HCPID is required and validated at the HTTP boundary; every other field is
// optional with documented defaults.
type ScoringInput struct {
	HCPID               string               `json:"hcpId"`
	Specialty           string               `json:"specialty,omitempty"`
	InfluenceLevel      string               `json:"influenceLevel,omitempty"`
	TherapeuticAreas    []string             `json:"therapeuticAreas,omitempty"`
	YearsOfPractice     int                  `json:"yearsOfPractice,omitempty"`
	InteractionCount    int                  `json:"interactionCount"`
	LastInteractionDate string               `json:"lastInteractionDate,omitempty"`
	ChannelHistory      []ChannelInteraction `json:"channelHistory,omitempty"`
	ConsentStatus       []ConsentRecord      `json:"consentStatus,omitempty"`
	PreviousScores      []PreviousScore      `json:"previousScores,omitempty"`
	Segments            []string             `json:"segments,omitempty"`
}

// NBAInput carries the HCP record plus the requesting user's context for a
// next-best-action recommendation. UserID is required at the boundary.
type NBAInput struct {
	HCPID                  string               `json:"hcpId"`
	UserID                 string               `json:"userId"`
	Specialty              string               `json:"specialty,omitempty"`
	InfluenceLevel         string               `json:"influenceLevel,omitempty"`
	InteractionCount       int                  `json:"interactionCount"`
	LastInteractionDate    string               `json:"lastInteractionDate,omitempty"`
	ChannelHistory         []ChannelInteraction `json:"channelHistory,omitempty"`
	ConsentStatus          []ConsentRecord      `json:"consentStatus,omitempty"`
	PendingTasks           int                  `json:"pendingTasks,omitempty"`
	RecentUserInteractions []ChannelInteraction `json:"recentUserInteractions,omitempty"`
	TherapeuticAreas       []string             `json:"therapeuticAreas,omitempty"`
	Segments               []string             `json:"segments,omitempty"`
	PreviousScores         []PreviousScore      `json:"previousScores,omitempty"`
}

// SummaryInput is the HCP record the account summary generator reads.
type SummaryInput struct {
	HCPID            string               `json:"hcpId"`
	Specialty        string               `json:"specialty,omitempty"`
	InfluenceLevel   string               `json:"influenceLevel,omitempty"`
	InteractionCount int                  `json:"interactionCount"`
	ChannelHistory   []ChannelInteraction `json:"channelHistory,omitempty"`
	Segments         []string             `json:"segments,omitempty"`
	PreviousScores   []PreviousScore      `json:"previousScores,omitempty"`
}

// SegmentProfile is one HCP record inside a segmentation request. Each profile
// is classified independently; input order is preserved in the output.
type SegmentProfile struct {
	ID               string  `json:"id"`
	InfluenceLevel   string  `json:"influenceLevel,omitempty"`
	InteractionCount int     `json:"interactionCount"`
	AvgSentiment     float64 `json:"avgSentiment,omitempty"`
}

// interactionDateLayouts are the accepted date formats, most specific first.
// CRM exports mix full RFC3339 timestamps with naive date-times and bare
// dates; all are normalized to UTC.
var interactionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseInteractionDate parses an interaction date string and normalizes it to
// UTC. The caller decides the fallback for an unparseable value; engines never
// surface this error to their callers.
func ParseInteractionDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range interactionDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
