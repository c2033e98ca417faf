package nba_test

import (
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pharmacrm/ai-services/internal/domain/consent"
	"github.com/pharmacrm/ai-services/internal/domain/model"
	"github.com/pharmacrm/ai-services/internal/domain/nba"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *nba.Engine {
	return nba.NewEngine(nba.WithClock(func() time.Time { return testNow }))
}

func granted(types ...string) []model.ConsentRecord {
	records := make([]model.ConsentRecord, 0, len(types))
	for _, t := range types {
		records = append(records, model.ConsentRecord{ConsentType: t, Status: "granted"})
	}
	return records
}

func TestRecommendConsentGate(t *testing.T) {
	Convey("Given an NBA engine with a fixed clock", t, func() {
		engine := newTestEngine()

		Convey("When the HCP has no consent records", func() {
			result := engine.Recommend(model.NBAInput{HCPID: "hcp-001", UserID: "user-1"})

			Convey("The no-action terminal is returned", func() {
				So(result.RecommendedChannel, ShouldEqual, consent.ChannelNone)
				So(result.Confidence, ShouldEqual, 0.0)
				So(result.RecommendedTiming.Equal(testNow.Add(24*time.Hour)), ShouldBeTrue)
				So(result.SuggestedContent, ShouldContainSubstring, "Obtain consent")
				So(result.Factors, ShouldHaveLength, 1)
				So(result.Factors[0].Name, ShouldEqual, "no_consent")
				So(result.ModelVersion, ShouldEqual, "nba-v1.0")
			})
		})

		Convey("When every consent is revoked", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:  "hcp-002",
				UserID: "user-1",
				ConsentStatus: []model.ConsentRecord{
					{ConsentType: "email", Status: "revoked"},
					{ConsentType: "visit", Status: "revoked"},
				},
			})

			So(result.RecommendedChannel, ShouldEqual, consent.ChannelNone)
			So(result.Confidence, ShouldEqual, 0.0)
		})

		Convey("When only one channel is consented, it is recommended regardless of priority", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-003",
				UserID:        "user-1",
				ConsentStatus: granted("email"),
			})

			So(result.RecommendedChannel, ShouldEqual, consent.ChannelEmail)
			So(result.Confidence, ShouldBeGreaterThan, 0)
		})
	})
}

func TestRecommendChannelSelection(t *testing.T) {
	Convey("Given an NBA engine with a fixed clock", t, func() {
		engine := newTestEngine()

		Convey("Channel priority decides between consented channels without history", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-010",
				UserID:        "user-1",
				ConsentStatus: granted("email", "visit", "phone"),
			})

			So(result.RecommendedChannel, ShouldEqual, consent.ChannelInPersonVisit)
		})

		Convey("Strong positive sentiment can outweigh base priority", func() {
			// email 60 + 15 sentiment boost = 75 beats phone at 70.
			positive := 1.0
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-011",
				UserID:        "user-1",
				ConsentStatus: granted("phone", "email"),
				ChannelHistory: []model.ChannelInteraction{
					{Channel: "email", Sentiment: &positive},
				},
			})

			So(result.RecommendedChannel, ShouldEqual, consent.ChannelEmail)
		})

		Convey("Channels without history get a novelty factor", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-012",
				UserID:        "user-1",
				ConsentStatus: granted("email"),
			})

			names := factorNames(result)
			So(names, ShouldContain, "email_novelty")
		})

		Convey("Channels with history get sentiment and frequency factors instead", func() {
			positive := 0.5
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-013",
				UserID:        "user-1",
				ConsentStatus: granted("email"),
				ChannelHistory: []model.ChannelInteraction{
					{Channel: "email", Sentiment: &positive},
					{Channel: "email", Sentiment: &positive},
				},
			})

			names := factorNames(result)
			So(names, ShouldContain, "email_sentiment")
			So(names, ShouldContain, "email_frequency")
			So(names, ShouldNotContain, "email_novelty")
		})

		Convey("Confidence never reaches 1.0 even for a saturated channel", func() {
			positive := 1.0
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-014",
				UserID:        "user-1",
				ConsentStatus: granted("visit"),
				ChannelHistory: []model.ChannelInteraction{
					{Channel: "in_person_visit", Sentiment: &positive},
				},
			})

			So(result.Confidence, ShouldBeLessThanOrEqualTo, 0.95)
		})

		Convey("A timing annotation is always present on actionable recommendations", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-015",
				UserID:        "user-1",
				ConsentStatus: granted("email"),
			})

			So(factorNames(result), ShouldContain, "recommended_timing")
		})
	})
}

func TestRecommendTiming(t *testing.T) {
	Convey("Given an NBA engine with a fixed clock", t, func() {
		engine := newTestEngine()
		base := model.NBAInput{HCPID: "hcp-020", UserID: "user-1", ConsentStatus: granted("email")}

		Convey("No prior contact suggests near-term engagement", func() {
			result := engine.Recommend(base)

			So(result.RecommendedTiming.Equal(testNow.Add(24*time.Hour)), ShouldBeTrue)
		})

		Convey("An unparseable last date falls back to standard timing", func() {
			in := base
			in.LastInteractionDate = "sometime last week"
			result := engine.Recommend(in)

			So(result.RecommendedTiming.Equal(testNow.Add(72*time.Hour)), ShouldBeTrue)
		})

		Convey("Contact within the last week waits out the one-week gap", func() {
			in := base
			in.LastInteractionDate = testNow.AddDate(0, 0, -3).Format("2006-01-02")
			result := engine.Recommend(in)

			So(result.RecommendedTiming.Equal(testNow.Add(4*24*time.Hour)), ShouldBeTrue)
		})

		Convey("Contact within the last month follows up in two days", func() {
			in := base
			in.LastInteractionDate = testNow.AddDate(0, 0, -14).Format("2006-01-02")
			result := engine.Recommend(in)

			So(result.RecommendedTiming.Equal(testNow.Add(48*time.Hour)), ShouldBeTrue)
		})

		Convey("Stale contact re-engages promptly", func() {
			in := base
			in.LastInteractionDate = testNow.AddDate(0, 0, -90).Format("2006-01-02")
			result := engine.Recommend(in)

			So(result.RecommendedTiming.Equal(testNow.Add(24*time.Hour)), ShouldBeTrue)
		})

		Convey("Recommended timing is always strictly in the future", func() {
			for _, last := range []string{"", "garbage", testNow.Format("2006-01-02"), "2020-01-01"} {
				in := base
				in.LastInteractionDate = last
				So(engine.Recommend(in).RecommendedTiming.After(testNow), ShouldBeTrue)
			}
		})
	})
}

func TestSuggestedContent(t *testing.T) {
	Convey("Given an NBA engine", t, func() {
		engine := newTestEngine()

		Convey("First-contact HCPs get the introductory template", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-030",
				UserID:        "user-1",
				Specialty:     "oncology",
				ConsentStatus: granted("email"),
			})

			So(result.SuggestedContent, ShouldContainSubstring, "Introductory engagement")
			So(result.SuggestedContent, ShouldContainSubstring, "Oncology")
		})

		Convey("High-influence HCPs get the strategic template", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:            "hcp-031",
				UserID:           "user-1",
				InfluenceLevel:   model.InfluenceKeyOpinionLeader,
				InteractionCount: 12,
				ConsentStatus:    granted("email"),
			})

			So(result.SuggestedContent, ShouldContainSubstring, "Strategic engagement")
		})

		Convey("Everyone else gets the relationship-building template", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:            "hcp-032",
				UserID:           "user-1",
				InfluenceLevel:   model.InfluenceLow,
				InteractionCount: 4,
				ConsentStatus:    granted("email"),
			})

			So(result.SuggestedContent, ShouldContainSubstring, "relationship-building")
		})

		Convey("A missing specialty falls back to a generic label", func() {
			result := engine.Recommend(model.NBAInput{
				HCPID:         "hcp-033",
				UserID:        "user-1",
				ConsentStatus: granted("email"),
			})

			So(result.SuggestedContent, ShouldContainSubstring, "healthcare specialist")
		})

		Convey("No template branch emits clinical vocabulary", func() {
			inputs := []model.NBAInput{
				{HCPID: "a", UserID: "u", ConsentStatus: granted("email")},
				{HCPID: "b", UserID: "u", InfluenceLevel: model.InfluenceKeyOpinionLeader,
					InteractionCount: 10, ConsentStatus: granted("visit")},
				{HCPID: "c", UserID: "u", InfluenceLevel: model.InfluenceHigh,
					InteractionCount: 3, ConsentStatus: granted("phone")},
				{HCPID: "d", UserID: "u", InfluenceLevel: model.InfluenceMedium,
					InteractionCount: 7, Specialty: "cardiology", ConsentStatus: granted("remote_detailing")},
				{HCPID: "e", UserID: "u"},
			}
			for _, in := range inputs {
				content := strings.ToLower(engine.Recommend(in).SuggestedContent)
				for _, banned := range []string{"cure", "treat", "prescribe", "dosage", "efficacy"} {
					So(content, ShouldNotContainSubstring, banned)
				}
			}
		})
	})
}

func TestReasoning(t *testing.T) {
	Convey("Given a recommendation with interaction context", t, func() {
		engine := newTestEngine()
		result := engine.Recommend(model.NBAInput{
			HCPID:               "hcp-040",
			UserID:              "user-1",
			InteractionCount:    8,
			LastInteractionDate: "2025-06-01",
			ConsentStatus:       granted("email"),
			ChannelHistory: []model.ChannelInteraction{
				{Channel: "email"},
				{Channel: "phone"},
				{Channel: "email"},
			},
		})

		Convey("The reasoning names the channel and the evidence behind it", func() {
			So(result.Reasoning, ShouldContainSubstring, "Recommended email")
			So(result.Reasoning, ShouldContainSubstring, "email is consented")
			So(result.Reasoning, ShouldContainSubstring, "Last interaction: 2025-06-01")
			So(result.Reasoning, ShouldContainSubstring, "Total interactions: 8")
			So(result.Reasoning, ShouldContainSubstring, "email, phone")
		})
	})
}

func factorNames(r nba.Result) []string {
	names := make([]string, 0, len(r.Factors))
	for _, f := range r.Factors {
		names = append(names, f.Name)
	}
	return names
}
