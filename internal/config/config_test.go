package config_test

import (
	"testing"

	"github.com/pharmacrm/ai-services/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8090")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.APIKey, convey.ShouldEqual, "dev-key")
			convey.So(cfg.AllowedOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.MaxSegmentationBatch, convey.ShouldEqual, 1000)
			convey.So(cfg.MetricsEnabled, convey.ShouldBeTrue)
		})
	})
}
