package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given JSON output to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat("json"), WithWriter(&buf), WithLevel("debug")), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging with fields", func() {
			Named("worker").Info(context.Background(), "job done",
				String("job_id", "j-1"),
				Int("games", 12),
				Bool("duplicate", false),
				Duration("took", 1500*time.Millisecond),
			)

			Convey("Then a JSON record is written under the logger group", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "job done")
				group, ok := rec["worker"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["job_id"], ShouldEqual, "j-1")
				So(group["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Get().Info(context.Background(), "hidden")
			Get().Error(context.Background(), "shown", Error(errors.New("boom")))

			Convey("Then lower levels are filtered", func() {
				out := buf.String()
				So(out, ShouldNotContainSubstring, "hidden")
				So(out, ShouldContainSubstring, "boom")
			})
		})
	})

	Convey("Given invalid settings", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
		So(Init(WithLevel("loud")), ShouldNotBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(Init(), ShouldBeNil)
	})

	Convey("Given text output", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf)), ShouldBeNil)
		defer func() { _ = Init() }()

		Get().Warn(context.Background(), "slow", Float64("ms", 12.5))
		So(strings.Contains(buf.String(), "level=WARN"), ShouldBeTrue)
		So(Sync(), ShouldBeNil)
	})
}
