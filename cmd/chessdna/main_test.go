package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"gopkg.in/yaml.v3"

	"github.com/okian/chessdna/internal/domain/model"
	"github.com/okian/chessdna/internal/domain/types"
)

func execute(args ...string) (string, error) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	convey.Convey("Given a games file", t, func() {
		path := writeFile(t, "games.json", `{"subject":"alice","games":[
			{"acpl":40,"blunders":1,"outcome":"win"},
			{"acpl":20,"outcome":"draw"},
			{"acpl":30,"mistakes":1,"outcome":"loss"},
			{"acpl":30,"outcome":"win"}
		]}`)

		convey.Convey("When running analyze", func() {
			out, err := execute("analyze", "--games", path, "--top", "2")

			convey.Convey("Then the report is printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				var rep types.Report
				convey.So(json.Unmarshal([]byte(out), &rep), convey.ShouldBeNil)
				convey.So(rep.Subject, convey.ShouldEqual, "alice")
				convey.So(rep.Games, convey.ShouldEqual, 4)
				convey.So(rep.Matches, convey.ShouldHaveLength, 2)
				convey.So(rep.Metrics[model.BlunderRate], convey.ShouldEqual, 25.0)
				convey.So(rep.Metrics[model.MeanCentipawnLoss], convey.ShouldEqual, 30.0)
			})
		})

		convey.Convey("When overriding the subject", func() {
			out, err := execute("analyze", "-g", path, "-s", "bob")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"subject": "bob"`)
		})
	})

	convey.Convey("Given missing or bad input", t, func() {
		_, err := execute("analyze")
		convey.So(err, convey.ShouldNotBeNil)

		_, err = execute("analyze", "--games", "/does/not/exist.json")
		convey.So(err, convey.ShouldNotBeNil)

		_, err = execute("analyze", "--games", writeFile(t, "empty.json", `{"subject":"a","games":[]}`))
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestCatalogueCommand(t *testing.T) {
	convey.Convey("Given the built-in catalogue", t, func() {
		convey.Convey("When printing YAML", func() {
			out, err := execute("catalogue")
			convey.So(err, convey.ShouldBeNil)

			var doc struct {
				Profiles []model.ReferenceProfile `yaml:"profiles"`
			}
			convey.So(yaml.Unmarshal([]byte(out), &doc), convey.ShouldBeNil)
			convey.So(doc.Profiles, convey.ShouldHaveLength, 7)
		})

		convey.Convey("When printing JSON", func() {
			out, err := execute("catalogue", "--format", "json")
			convey.So(err, convey.ShouldBeNil)
			var profiles []model.ReferenceProfile
			convey.So(json.Unmarshal([]byte(out), &profiles), convey.ShouldBeNil)
			convey.So(profiles[len(profiles)-1].Name, convey.ShouldEqual, "Magnus Carlsen")
		})

		convey.Convey("When asking for an unknown format", func() {
			_, err := execute("catalogue", "-f", "xml")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})

	convey.Convey("Given a catalogue file", t, func() {
		path := writeFile(t, "cat.yaml", "profiles:\n  - name: Solo\n    era: now\n    metrics: {aggressiveness: 60}\n")
		out, err := execute("catalogue", "--catalogue", path, "-f", "json")
		convey.So(err, convey.ShouldBeNil)
		convey.So(out, convey.ShouldContainSubstring, `"Solo"`)
	})
}

func TestGroupCommand(t *testing.T) {
	convey.Convey("Given a subjects file with three players", t, func() {
		path := writeFile(t, "subjects.json", `{
			"carol": [{"acpl":20},{"acpl":25}],
			"alice": [{"acpl":80,"blunders":2},{"acpl":90,"blunders":1}],
			"bob":   [{"acpl":22},{"acpl":24}]
		}`)

		convey.Convey("When grouping round robin with pairs", func() {
			out, err := execute("group", "--subjects", path, "--k", "2", "--mode", "round_robin", "--pairs")

			convey.Convey("Then players are grouped in name order", func() {
				convey.So(err, convey.ShouldBeNil)
				var res groupOutput
				convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
				convey.So(res.Grouping.Groups, convey.ShouldResemble, [][]string{{"alice", "carol"}, {"bob"}})
				convey.So(res.Comparisons, convey.ShouldHaveLength, 3)
				convey.So(res.Trends[model.Games].Count, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When grouping with k-means", func() {
			out, err := execute("group", "-i", path, "-k", "2")
			convey.So(err, convey.ShouldBeNil)
			var res groupOutput
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(res.Grouping.Subjects, convey.ShouldEqual, 3)
			convey.So(res.Comparisons, convey.ShouldBeEmpty)
		})

		convey.Convey("When k is zero", func() {
			_, err := execute("group", "-i", path, "-k", "0")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
