package smoketest

import (
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/model"
)

// Config holds configuration for the smoke test
type Config struct {
	BaseURL    string        // Base URL of the service
	APIKey     string        // X-API-Key value for protected routes
	NumHCPs    int           // Number of HCP profiles to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated profiles
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// Profile bundles the generated inputs for one synthetic HCP.
type Profile struct {
	Scoring model.ScoringInput `json:"scoring"`
	NBA     model.NBAInput     `json:"nba"`
}

// scoreResponse mirrors the wire shape of a scoring result.
type scoreResponse struct {
	HCPID      string  `json:"hcpId"`
	ScoreType  string  `json:"scoreType"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Factors    []struct {
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
		Value  float64 `json:"value"`
	} `json:"factors"`
	ModelVersion string `json:"modelVersion"`
}

// nbaResponse mirrors the wire shape of a recommendation.
type nbaResponse struct {
	HCPID              string    `json:"hcpId"`
	RecommendedChannel string    `json:"recommendedChannel"`
	RecommendedTiming  time.Time `json:"recommendedTiming"`
	SuggestedContent   string    `json:"suggestedContent"`
	Confidence         float64   `json:"confidence"`
	ModelVersion       string    `json:"modelVersion"`
}

// summaryResponse mirrors the wire shape of an account summary.
type summaryResponse struct {
	EntityID      string `json:"entityId"`
	Summary       string `json:"summary"`
	InputDataHash string `json:"inputDataHash"`
}

// copilotResponse mirrors the wire shape of a copilot reply.
type copilotResponse struct {
	Content    string `json:"content"`
	TokensUsed int    `json:"tokensUsed"`
}

// Stats holds smoke test statistics
type Stats struct {
	ProfilesGenerated  int
	RequestsSubmitted  int
	RequestsSuccessful int
	RequestsFailed     int
	ConsentBlocked     int
	InvariantFailures  int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
