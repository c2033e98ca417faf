package scoring_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pharmacrm/ai-services/internal/domain/model"
	scoring "github.com/pharmacrm/ai-services/internal/domain/scoring"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *scoring.Engine {
	return scoring.NewEngine(scoring.WithClock(func() time.Time { return testNow }))
}

func daysAgo(n int) string {
	return testNow.AddDate(0, 0, -n).Format("2006-01-02")
}

func TestEngagementScore(t *testing.T) {
	Convey("Given a scoring engine with a fixed clock", t, func() {
		engine := newTestEngine()

		Convey("When scoring a fully populated profile", func() {
			sentiment := 0.8
			result := engine.EngagementScore(model.ScoringInput{
				HCPID:               "hcp-001",
				InfluenceLevel:      model.InfluenceKeyOpinionLeader,
				InteractionCount:    15,
				LastInteractionDate: daysAgo(3),
				ChannelHistory: []model.ChannelInteraction{
					{Channel: "email", Sentiment: &sentiment},
					{Channel: "phone", Sentiment: &sentiment},
					{Channel: "in_person_visit", Sentiment: &sentiment},
					{Channel: "webinar", Sentiment: &sentiment},
				},
				ConsentStatus: []model.ConsentRecord{
					{ConsentType: "email", Status: "granted"},
					{ConsentType: "phone", Status: "granted"},
				},
			})

			Convey("Then it should score high with full confidence", func() {
				So(result.Score, ShouldBeGreaterThan, 80)
				So(result.Score, ShouldBeLessThanOrEqualTo, 100)
				So(result.Confidence, ShouldEqual, 1.0)
				So(result.ScoreType, ShouldEqual, "engagement_likelihood")
				So(result.ModelVersion, ShouldEqual, "scoring-v1.0")
				So(result.ComputedAt.Equal(testNow), ShouldBeTrue)
			})

			Convey("Then it should expose all six factors", func() {
				So(len(result.Factors), ShouldEqual, 6)
				names := make([]string, len(result.Factors))
				for i, f := range result.Factors {
					names[i] = f.Name
					So(f.Description, ShouldNotBeEmpty)
					So(f.Weight, ShouldBeGreaterThan, 0)
				}
				So(names, ShouldResemble, []string{
					"interaction_recency",
					"interaction_frequency",
					"channel_diversity",
					"sentiment_trend",
					"influence_level",
					"consent_breadth",
				})
			})
		})

		Convey("When scoring an empty profile", func() {
			result := engine.EngagementScore(model.ScoringInput{HCPID: "hcp-002"})

			Convey("Then the score should stay bounded with zero confidence", func() {
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 0)
				So(result.Score, ShouldBeLessThanOrEqualTo, 100)
				So(result.Confidence, ShouldEqual, 0)
				So(len(result.Factors), ShouldEqual, 6)
			})
		})

		Convey("When comparing recent and stale interactions", func() {
			recent := engine.EngagementScore(model.ScoringInput{
				HCPID:               "hcp-r",
				LastInteractionDate: daysAgo(2),
			})
			stale := engine.EngagementScore(model.ScoringInput{
				HCPID:               "hcp-s",
				LastInteractionDate: daysAgo(200),
			})

			Convey("Then recency should score monotonically", func() {
				So(recent.Score, ShouldBeGreaterThan, stale.Score)
			})
		})

		Convey("When comparing influence levels", func() {
			kol := engine.EngagementScore(model.ScoringInput{
				HCPID:          "hcp-k",
				InfluenceLevel: model.InfluenceKeyOpinionLeader,
			})
			low := engine.EngagementScore(model.ScoringInput{
				HCPID:          "hcp-l",
				InfluenceLevel: model.InfluenceLow,
			})

			Convey("Then higher influence should raise the score", func() {
				So(kol.Score, ShouldBeGreaterThan, low.Score)
			})
		})

		Convey("When an unparseable date is supplied", func() {
			result := engine.EngagementScore(model.ScoringInput{
				HCPID:               "hcp-bad-date",
				LastInteractionDate: "not-a-date",
			})

			Convey("Then the recency factor should degrade, not error", func() {
				So(result.Factors[0].Value, ShouldEqual, 0.3)
				So(result.Factors[0].Description, ShouldContainSubstring, "Unable to parse")
			})
		})

		Convey("When scoring the same input twice", func() {
			in := model.ScoringInput{
				HCPID:               "hcp-idem",
				InteractionCount:    7,
				LastInteractionDate: daysAgo(10),
			}
			first := engine.EngagementScore(in)
			second := engine.EngagementScore(in)

			Convey("Then the results should be identical", func() {
				So(first, ShouldResemble, second)
			})
		})

		Convey("When the profile has sentiment but no influence level", func() {
			negative := -0.9
			result := engine.EngagementScore(model.ScoringInput{
				HCPID: "hcp-neg",
				ChannelHistory: []model.ChannelInteraction{
					{Channel: "email", Sentiment: &negative},
				},
			})

			Convey("Then confidence should count only present fields", func() {
				// Channel history is one of five completeness checks.
				So(result.Confidence, ShouldEqual, 0.2)
			})
		})
	})
}

func TestPrescriptionPropensity(t *testing.T) {
	Convey("Given a scoring engine with a fixed clock", t, func() {
		engine := newTestEngine()

		Convey("When scoring a KOL profile", func() {
			result := engine.PrescriptionPropensity(model.ScoringInput{
				HCPID:            "hcp-010",
				InfluenceLevel:   model.InfluenceKeyOpinionLeader,
				InteractionCount: 20,
				Segments:         []string{"kol_network", "high_value_engaged"},
				Specialty:        "oncology",
			})

			Convey("Then it should report the propensity contract", func() {
				So(result.ScoreType, ShouldEqual, "prescription_propensity")
				So(result.Score, ShouldBeGreaterThanOrEqualTo, 0)
				So(result.Score, ShouldBeLessThanOrEqualTo, 100)
				So(result.Confidence, ShouldEqual, 0.7)
				So(len(result.Factors), ShouldEqual, 4)
				So(result.ModelVersion, ShouldEqual, "scoring-v1.0")
			})
		})

		Convey("When influence is missing", func() {
			withDefault := engine.PrescriptionPropensity(model.ScoringInput{HCPID: "hcp-011"})
			withMedium := engine.PrescriptionPropensity(model.ScoringInput{
				HCPID:          "hcp-012",
				InfluenceLevel: model.InfluenceMedium,
			})

			Convey("Then it should behave as medium influence", func() {
				So(withDefault.Score, ShouldEqual, withMedium.Score)
			})
		})

		Convey("When interaction counts exceed the engagement cap", func() {
			at := engine.PrescriptionPropensity(model.ScoringInput{HCPID: "a", InteractionCount: 20})
			over := engine.PrescriptionPropensity(model.ScoringInput{HCPID: "b", InteractionCount: 200})

			Convey("Then the engagement factor should saturate", func() {
				So(at.Score, ShouldEqual, over.Score)
			})
		})
	})
}
