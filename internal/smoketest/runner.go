package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/copilot"
	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/segmentation"
	"github.com/pharmacrm/ai-services/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete smoke test against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting AI services smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("hcps", config.NumHCPs),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate synthetic profiles
	profiles := generateProfiles(ctx, config, stats)

	// Step 3: Run scoring and recommendation requests concurrently
	results, err := submitProfiles(ctx, config, profiles, stats)
	if err != nil {
		return fmt.Errorf("profile submission failed: %w", err)
	}

	// Step 4: Verify engine invariants
	if err := verifyResults(results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 5: Classify the whole batch in one segmentation call
	if err := classifyBatch(ctx, config, profiles); err != nil {
		return fmt.Errorf("segmentation check failed: %w", err)
	}

	// Step 6: Check summary determinism
	if len(profiles) > 0 {
		if err := checkSummaryDeterminism(ctx, config, profiles[0]); err != nil {
			return fmt.Errorf("summary determinism check failed: %w", err)
		}
	}

	// Step 7: Probe the copilot guardrail
	if err := checkCopilotGuardrail(ctx, config); err != nil {
		return fmt.Errorf("copilot guardrail check failed: %w", err)
	}

	// Step 8: Save generated profiles to file
	if err := saveProfilesToFile(ctx, config, profiles); err != nil {
		logger.Get().Warn(ctx, "failed to save profiles to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "smoke test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout, config.APIKey)
	url := config.BaseURL + "/health"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// classifyBatch posts every generated profile to the segmentation endpoint
// and checks the one-result-per-profile contract.
func classifyBatch(ctx context.Context, config *Config, profiles []Profile) error {
	log.Printf("classifying %d profiles", len(profiles))

	hcps := make([]model.SegmentProfile, len(profiles))
	for i, p := range profiles {
		hcps[i] = model.SegmentProfile{
			ID:               p.Scoring.HCPID,
			InfluenceLevel:   p.Scoring.InfluenceLevel,
			InteractionCount: p.Scoring.InteractionCount,
		}
	}

	client := newHTTPClient(config.Timeout, config.APIKey)
	var results []struct {
		HCPID       string  `json:"hcpId"`
		SegmentName string  `json:"segmentName"`
		Confidence  float64 `json:"confidence"`
	}
	body := map[string]any{"hcps": hcps}
	if err := postDecoded(ctx, client, config.BaseURL+"/api/v1/segmentation/classify", body, &results); err != nil {
		return err
	}

	if len(results) != len(profiles) {
		return fmt.Errorf("expected %d segment assignments, got %d", len(profiles), len(results))
	}
	for i, r := range results {
		if r.HCPID != hcps[i].ID {
			return fmt.Errorf("segment result %d out of order: got %s, want %s", i, r.HCPID, hcps[i].ID)
		}
		if _, known := segmentation.Segments[r.SegmentName]; !known {
			return fmt.Errorf("unknown segment %q for %s", r.SegmentName, r.HCPID)
		}
	}

	log.Printf("segmentation verified for %d profiles", len(results))
	return nil
}

// checkSummaryDeterminism posts the same summary input twice and compares
// the output hash and text.
func checkSummaryDeterminism(ctx context.Context, config *Config, p Profile) error {
	client := newHTTPClient(config.Timeout, config.APIKey)
	in := model.SummaryInput{
		HCPID:            p.Scoring.HCPID,
		Specialty:        p.Scoring.Specialty,
		InfluenceLevel:   p.Scoring.InfluenceLevel,
		InteractionCount: p.Scoring.InteractionCount,
		ChannelHistory:   p.Scoring.ChannelHistory,
	}

	var first, second summaryResponse
	url := config.BaseURL + "/api/v1/summaries/account"
	if err := postDecoded(ctx, client, url, in, &first); err != nil {
		return err
	}
	if err := postDecoded(ctx, client, url, in, &second); err != nil {
		return err
	}

	if first.Summary != second.Summary {
		return fmt.Errorf("summary text differs between identical requests")
	}
	if first.InputDataHash != second.InputDataHash {
		return fmt.Errorf("input hash differs between identical requests")
	}

	log.Println("summary determinism verified")
	return nil
}

// checkCopilotGuardrail sends a clinical question and expects the refusal.
func checkCopilotGuardrail(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout, config.APIKey)
	in := copilot.Input{
		UserID: "smoke-test",
		Messages: []copilot.Message{
			{Role: "user", Content: "What dosage should I recommend for this treatment?"},
		},
	}

	var resp copilotResponse
	if err := postDecoded(ctx, client, config.BaseURL+"/api/v1/copilot/chat", in, &resp); err != nil {
		return err
	}

	if resp.TokensUsed != 0 {
		return fmt.Errorf("guardrail reply should report zero tokens, got %d", resp.TokensUsed)
	}
	if resp.Content == "" {
		return fmt.Errorf("guardrail reply is empty")
	}

	log.Println("copilot guardrail verified")
	return nil
}

// saveProfilesToFile saves the generated profiles to a JSON file.
func saveProfilesToFile(ctx context.Context, config *Config, profiles []Profile) error {
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_profiles_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "profiles saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final smoke test statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("profilesGenerated", stats.ProfilesGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsSuccessful", stats.RequestsSuccessful),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int("consentBlocked", stats.ConsentBlocked),
		logger.Int("invariantFailures", stats.InvariantFailures),
		logger.String("duration", stats.Duration.String()))
}
