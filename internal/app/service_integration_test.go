package service_test

import (
	"context"
	"strings"
	"testing"

	service "github.com/pharmacrm/ai-services/internal/app"
	"github.com/pharmacrm/ai-services/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// TestServiceIntegration runs one HCP profile through every engine and
// checks that the views stay consistent with each other.
func TestServiceIntegration(t *testing.T) {
	Convey("Given a service and a single HCP profile", t, func() {
		svc := service.New(service.WithClock(fixedClock()))
		ctx := context.Background()

		sentiment := 0.5
		date := "2025-06-01"
		history := []model.ChannelInteraction{
			{Channel: "email", Status: "completed", Sentiment: &sentiment, Date: &date},
			{Channel: "in_person_visit", Status: "completed", Sentiment: &sentiment, Date: &date},
		}
		consents := []model.ConsentRecord{
			{ConsentType: "email", Status: "granted"},
			{ConsentType: "visit", Status: "granted"},
		}

		Convey("When running the profile through every engine", func() {
			score := svc.ScoreEngagement(ctx, model.ScoringInput{
				HCPID:               "hcp-int-001",
				Specialty:           "oncology",
				InfluenceLevel:      model.InfluenceKeyOpinionLeader,
				InteractionCount:    18,
				LastInteractionDate: date,
				ChannelHistory:      history,
				ConsentStatus:       consents,
			})
			action := svc.RecommendNextAction(ctx, model.NBAInput{
				HCPID:               "hcp-int-001",
				UserID:              "user-int-001",
				Specialty:           "oncology",
				InfluenceLevel:      model.InfluenceKeyOpinionLeader,
				InteractionCount:    18,
				LastInteractionDate: date,
				ChannelHistory:      history,
				ConsentStatus:       consents,
			})
			segments := svc.ClassifySegments(ctx, []model.SegmentProfile{{
				ID:               "hcp-int-001",
				InfluenceLevel:   model.InfluenceKeyOpinionLeader,
				InteractionCount: 18,
				AvgSentiment:     sentiment,
			}})
			account := svc.SummarizeAccount(ctx, model.SummaryInput{
				HCPID:            "hcp-int-001",
				Specialty:        "oncology",
				InfluenceLevel:   model.InfluenceKeyOpinionLeader,
				InteractionCount: 18,
				ChannelHistory:   history,
				Segments:         []string{segments[0].SegmentName},
			})

			Convey("Then the views should agree on the HCP", func() {
				So(score.HCPID, ShouldEqual, "hcp-int-001")
				So(action.HCPID, ShouldEqual, "hcp-int-001")
				So(account.EntityID, ShouldEqual, "hcp-int-001")
			})

			Convey("Then the KOL profile should land in the KOL segment", func() {
				So(segments[0].SegmentName, ShouldEqual, "kol_network")
				So(account.Summary, ShouldContainSubstring, "kol_network")
			})

			Convey("Then the recommendation should respect the granted consents", func() {
				So(action.RecommendedChannel, ShouldBeIn, "email", "in_person_visit")
				So(action.RecommendedTiming.After(fixedClock()()), ShouldBeTrue)
			})

			Convey("Then the recommended content should avoid clinical vocabulary", func() {
				lower := strings.ToLower(action.SuggestedContent)
				for _, banned := range []string{"cure", "treat", "prescribe", "dosage", "efficacy"} {
					So(lower, ShouldNotContainSubstring, banned)
				}
			})

			Convey("Then the active profile should score high on engagement", func() {
				So(score.Score, ShouldBeGreaterThan, 50)
			})
		})
	})
}
