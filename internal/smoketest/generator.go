package smoketest

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileKindDivisor = 6
)

// Constants for profile archetype cases.
const (
	caseEngagedKOL     = 0
	caseActiveHigh     = 1
	caseModerate       = 2
	caseLapsed         = 3
	caseNewProspect    = 4
	caseConsentRevoked = 5
)

var specialties = []string{
	"oncology", "cardiology", "neurology", "immunology", "general_practice",
}

var consentTypes = []string{"email", "phone", "visit", "remote_detailing"}

var channels = []string{"email", "phone", "in_person_visit", "remote_detailing", "webinar"}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// pick returns a random element of the slice.
func pick(values []string) string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(values))))
	return values[n.Int64()]
}

// generateProfiles creates the specified number of synthetic HCP profiles
// spread over engagement archetypes so every engine branch gets traffic.
func generateProfiles(ctx context.Context, config *Config, stats *Stats) []Profile {
	logger.Get().Info(ctx, "generating synthetic HCP profiles", logger.Int("numHCPs", config.NumHCPs))

	profiles := make([]Profile, config.NumHCPs)
	for i := range profiles {
		profiles[i] = generateSingleProfile()
	}

	stats.ProfilesGenerated = len(profiles)
	logger.Get().Info(ctx, "generated profiles successfully", logger.Int("count", len(profiles)))

	return profiles
}

// generateSingleProfile creates one profile from a random archetype.
func generateSingleProfile() Profile {
	hcpID := "hcp-" + uuid.New().String()
	userID := "user-" + uuid.New().String()

	kind, _ := rand.Int(rand.Reader, big.NewInt(profileKindDivisor))

	var (
		interactionCount int
		influence        string
		daysSinceLast    int
		sentiment        float64
		consents         []model.ConsentRecord
	)

	switch kind.Int64() {
	case caseEngagedKOL:
		interactionCount = 15 + int(getRandomFloat()*20)
		influence = model.InfluenceKeyOpinionLeader
		daysSinceLast = 1 + int(getRandomFloat()*6)
		sentiment = 0.3 + getRandomFloat()*0.6
		consents = grantedConsents(consentTypes)
	case caseActiveHigh:
		interactionCount = 8 + int(getRandomFloat()*10)
		influence = model.InfluenceHigh
		daysSinceLast = 3 + int(getRandomFloat()*10)
		sentiment = 0.1 + getRandomFloat()*0.5
		consents = grantedConsents([]string{"email", "visit"})
	case caseModerate:
		interactionCount = 3 + int(getRandomFloat()*5)
		influence = model.InfluenceMedium
		daysSinceLast = 10 + int(getRandomFloat()*20)
		sentiment = -0.2 + getRandomFloat()*0.6
		consents = grantedConsents([]string{"email"})
	case caseLapsed:
		interactionCount = 5 + int(getRandomFloat()*10)
		influence = pick([]string{model.InfluenceMedium, model.InfluenceLow})
		daysSinceLast = 60 + int(getRandomFloat()*120)
		sentiment = -0.6 + getRandomFloat()*0.4
		consents = grantedConsents([]string{"phone"})
	case caseNewProspect:
		interactionCount = 0
		influence = pick([]string{model.InfluenceMedium, model.InfluenceLow})
		daysSinceLast = 0
		sentiment = 0
		consents = grantedConsents([]string{"email"})
	case caseConsentRevoked:
		// The consent gate must turn these into no-action recommendations.
		interactionCount = 4 + int(getRandomFloat()*8)
		influence = model.InfluenceMedium
		daysSinceLast = 5 + int(getRandomFloat()*20)
		sentiment = getRandomFloat() * 0.4
		for _, ct := range consentTypes {
			consents = append(consents, model.ConsentRecord{ConsentType: ct, Status: "revoked"})
		}
	}

	var lastDate string
	var history []model.ChannelInteraction
	if interactionCount > 0 {
		last := time.Now().UTC().AddDate(0, 0, -daysSinceLast)
		lastDate = last.Format("2006-01-02")
		historyLen := interactionCount
		if historyLen > 8 {
			historyLen = 8
		}
		for i := 0; i < historyLen; i++ {
			s := sentiment + (getRandomFloat()-0.5)*0.2
			d := last.AddDate(0, 0, -i*7).Format("2006-01-02")
			history = append(history, model.ChannelInteraction{
				Channel:   pick(channels),
				Status:    "completed",
				Sentiment: &s,
				Date:      &d,
			})
		}
	}

	scoring := model.ScoringInput{
		HCPID:               hcpID,
		Specialty:           pick(specialties),
		InfluenceLevel:      influence,
		InteractionCount:    interactionCount,
		LastInteractionDate: lastDate,
		ChannelHistory:      history,
		ConsentStatus:       consents,
	}

	return Profile{
		Scoring: scoring,
		NBA: model.NBAInput{
			HCPID:               hcpID,
			UserID:              userID,
			Specialty:           scoring.Specialty,
			InfluenceLevel:      influence,
			InteractionCount:    interactionCount,
			LastInteractionDate: lastDate,
			ChannelHistory:      history,
			ConsentStatus:       consents,
		},
	}
}

// grantedConsents builds granted consent records for the given types.
func grantedConsents(types []string) []model.ConsentRecord {
	records := make([]model.ConsentRecord, len(types))
	for i, ct := range types {
		records[i] = model.ConsentRecord{ConsentType: ct, Status: "granted"}
	}
	return records
}
