package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics recorders", t, func() {
		Convey("When recording engine metrics", func() {
			Convey("Then engine requests and latency should not panic", func() {
				So(func() {
					RecordEngineRequest("scoring")
					RecordEngineRequest("nba")
					RecordEngineLatency("scoring", 1.5)
					RecordEngineLatency("segmentation", 0.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording compliance metrics", func() {
			Convey("Then consent blocks and guardrail triggers should not panic", func() {
				So(func() {
					RecordConsentBlock()
					RecordGuardrailTrigger()
					RecordRecommendation("email")
					RecordRecommendation("none")
					RecordClassification("kol_network")
					RecordSummaryGenerated()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then request counters and durations should not panic", func() {
				So(func() {
					RecordHTTPRequest("scoring_engagement", "POST", "200")
					RecordHTTPRequestDuration("scoring_engagement", "POST", "200", 12.0)
					RecordAuthFailure()
				}, ShouldNotPanic)
			})
		})

		Convey("When fetching the registry", func() {
			Convey("Then the custom registry should be returned", func() {
				So(GetRegistry(), ShouldNotBeNil)
			})
		})
	})
}
