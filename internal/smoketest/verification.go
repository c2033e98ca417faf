package smoketest

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pharmacrm/ai-services/internal/domain/consent"
)

// forbiddenContent must never appear in recommended content.
var forbiddenContent = []string{"cure", "treat", "prescribe", "dosage", "efficacy"}

// verifyResults checks the engine invariants over all collected results.
func verifyResults(results []profileResult, stats *Stats) error {
	log.Println("verifying results...")

	verified := 0
	for _, r := range results {
		if r.engagement.HCPID == "" {
			// Request failed earlier; already counted.
			continue
		}
		if errs := verifySingleResult(r); len(errs) > 0 {
			stats.InvariantFailures += len(errs)
			for _, err := range errs {
				log.Printf("invariant failure for %s: %v", r.profile.Scoring.HCPID, err)
			}
			continue
		}
		if r.action.RecommendedChannel == consent.ChannelNone {
			stats.ConsentBlocked++
		}
		verified++
	}

	if stats.InvariantFailures > 0 {
		return fmt.Errorf("%d invariant failures across %d profiles", stats.InvariantFailures, len(results))
	}

	log.Printf("verification completed: %d profiles verified, %d consent-blocked",
		verified, stats.ConsentBlocked)
	return nil
}

// verifySingleResult checks one profile's responses.
func verifySingleResult(r profileResult) []error {
	var errs []error

	for _, score := range []scoreResponse{r.engagement, r.propensity} {
		if score.Score < 0 || score.Score > 100 {
			errs = append(errs, fmt.Errorf("score %.2f out of bounds for %s", score.Score, score.ScoreType))
		}
		if score.Confidence < 0 || score.Confidence > 1 {
			errs = append(errs, fmt.Errorf("confidence %.2f out of bounds for %s", score.Confidence, score.ScoreType))
		}
		if len(score.Factors) == 0 {
			errs = append(errs, fmt.Errorf("no factors returned for %s", score.ScoreType))
		}
		if score.ModelVersion == "" {
			errs = append(errs, fmt.Errorf("missing model version for %s", score.ScoreType))
		}
	}

	// Consent gate: no granted consent means no recommended outreach.
	granted := consent.Channels(r.profile.NBA.ConsentStatus)
	if len(granted) == 0 {
		if r.action.RecommendedChannel != consent.ChannelNone {
			errs = append(errs, fmt.Errorf("recommended %q without any granted consent", r.action.RecommendedChannel))
		}
		if r.action.Confidence != 0 {
			errs = append(errs, fmt.Errorf("no-action confidence %.2f should be zero", r.action.Confidence))
		}
	} else {
		allowed := false
		for _, ch := range granted {
			if r.action.RecommendedChannel == ch {
				allowed = true
				break
			}
		}
		if !allowed {
			errs = append(errs, fmt.Errorf("recommended channel %q is not consented", r.action.RecommendedChannel))
		}
	}

	// Timing must always be in the future.
	if !r.action.RecommendedTiming.After(time.Now().UTC()) {
		errs = append(errs, fmt.Errorf("recommended timing %s is not in the future", r.action.RecommendedTiming))
	}

	// Suggested content must stay commercial.
	lower := strings.ToLower(r.action.SuggestedContent)
	for _, banned := range forbiddenContent {
		if strings.Contains(lower, banned) {
			errs = append(errs, fmt.Errorf("suggested content contains forbidden term %q", banned))
		}
	}

	return errs
}
