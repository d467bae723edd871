package main

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/okian/chessdna/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("sample-games", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	configured := features.Thresholds{Inaccuracy: 40, Mistake: 120, Blunder: 250}

	Convey("Given configured thresholds and no threshold flags", t, func() {
		opts, err := parseFlags(newFlagSet(), []string{"-players", "3"}, configured)

		Convey("Then the run uses the configured cut-offs", func() {
			So(err, ShouldBeNil)
			So(opts.run.Players, ShouldEqual, 3)
			So(opts.run.Thresholds, ShouldResemble, configured)
		})
	})

	Convey("Given threshold flags", t, func() {
		opts, err := parseFlags(newFlagSet(), []string{"-inaccuracy", "60", "-blunder", "400"}, configured)

		Convey("Then the flags override the configuration", func() {
			So(err, ShouldBeNil)
			So(opts.run.Thresholds, ShouldResemble, features.Thresholds{Inaccuracy: 60, Mistake: 120, Blunder: 400})
		})
	})

	Convey("Given unordered threshold flags", t, func() {
		_, err := parseFlags(newFlagSet(), []string{"-mistake", "500"}, configured)

		So(errors.Is(err, errThresholds), ShouldBeTrue)
	})

	Convey("Given the help flag", t, func() {
		opts, err := parseFlags(newFlagSet(), []string{"-help", "-log", "run.log"}, configured)

		So(err, ShouldBeNil)
		So(opts.help, ShouldBeTrue)
		So(opts.logFile, ShouldEqual, "run.log")
	})
}
