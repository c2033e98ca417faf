package model_test

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/pharmacrm/ai-services/internal/domain/model"
)

func TestParseInteractionDate(t *testing.T) {
	Convey("Given CRM interaction date strings", t, func() {
		Convey("Full RFC3339 timestamps parse and normalize to UTC", func() {
			d, ok := model.ParseInteractionDate("2025-03-10T09:30:00+02:00")

			So(ok, ShouldBeTrue)
			So(d.Equal(time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)), ShouldBeTrue)
			So(d.Location(), ShouldEqual, time.UTC)
		})

		Convey("Zulu timestamps parse", func() {
			d, ok := model.ParseInteractionDate("2025-03-10T09:30:00Z")

			So(ok, ShouldBeTrue)
			So(d.Equal(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Naive date-times parse as UTC", func() {
			d, ok := model.ParseInteractionDate("2025-03-10T09:30:00")

			So(ok, ShouldBeTrue)
			So(d.Equal(time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Bare dates parse as midnight UTC", func() {
			d, ok := model.ParseInteractionDate("2025-03-10")

			So(ok, ShouldBeTrue)
			So(d.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Surrounding whitespace is tolerated", func() {
			_, ok := model.ParseInteractionDate("  2025-03-10  ")

			So(ok, ShouldBeTrue)
		})

		Convey("Empty and unparseable strings report failure", func() {
			_, ok := model.ParseInteractionDate("")
			So(ok, ShouldBeFalse)

			_, ok = model.ParseInteractionDate("last tuesday")
			So(ok, ShouldBeFalse)

			_, ok = model.ParseInteractionDate("10/03/2025")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDisplayName(t *testing.T) {
	Convey("DisplayName renders snake_case identifiers as title text", t, func() {
		So(model.DisplayName("key_opinion_leader"), ShouldEqual, "Key Opinion Leader")
		So(model.DisplayName("oncology"), ShouldEqual, "Oncology")
		So(model.DisplayName("in_person_visit"), ShouldEqual, "In Person Visit")
		So(model.DisplayName(""), ShouldEqual, "")
	})
}
