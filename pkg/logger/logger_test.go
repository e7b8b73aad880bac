package logger_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/arf1/racedata/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info level", func() {
			logger.Get().Info(ctx, "session loaded", logger.String("grand_prix", "Bahrain"), logger.Int("drivers", 20))

			Convey("Then the line carries the message and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "session loaded")
				So(out, ShouldContainSubstring, "grand_prix=Bahrain")
				So(out, ShouldContainSubstring, "drivers=20")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When logging below the configured level", func() {
			logger.SetLevel(slog.LevelWarn)
			logger.Get().Info(ctx, "should be suppressed")

			Convey("Then nothing is written", func() {
				So(buf.String(), ShouldNotContainSubstring, "should be suppressed")
			})
		})

		Convey("When using a named logger", func() {
			logger.SetLevelString("info")
			logger.Named("extractor").Warn(ctx, "driver skipped", logger.Error(errors.New("missing Z")))

			Convey("Then the component tag is present", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "component=extractor")
				So(out, ShouldContainSubstring, "missing Z")
			})
		})

		Convey("When parsing level strings", func() {
			So(logger.SetLevelString("debug"), ShouldBeNil)
			So(logger.SetLevelString("WARN"), ShouldBeNil)
			So(logger.SetLevelString(""), ShouldBeNil)
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
