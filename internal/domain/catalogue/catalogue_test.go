package catalogue_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/okian/chessdna/internal/domain/catalogue"
	"github.com/okian/chessdna/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given two profiles with the same name", t, func() {
		_, err := catalogue.New(
			model.ReferenceProfile{Name: "A"},
			model.ReferenceProfile{Name: "A"},
		)

		Convey("Then construction fails", func() {
			So(errors.Is(err, catalogue.ErrDuplicateProfile), ShouldBeTrue)
		})
	})

	Convey("Given a profile without a name", t, func() {
		_, err := catalogue.New(model.ReferenceProfile{Name: "  "})
		So(errors.Is(err, catalogue.ErrInvalidProfile), ShouldBeTrue)
	})

	Convey("Given a profile with a NaN metric", t, func() {
		_, err := catalogue.New(model.ReferenceProfile{
			Name:    "A",
			Metrics: model.MetricSet{model.Precision: math.NaN()},
		})

		Convey("Then both error kinds are reported", func() {
			So(errors.Is(err, catalogue.ErrInvalidProfile), ShouldBeTrue)
			So(errors.Is(err, model.ErrInvalidMetric), ShouldBeTrue)
		})
	})

	Convey("Given a valid catalogue", t, func() {
		c, err := catalogue.New(
			model.ReferenceProfile{Name: "B", Metrics: model.MetricSet{model.Aggressiveness: 10}},
			model.ReferenceProfile{Name: "A", Metrics: model.MetricSet{model.Aggressiveness: 20}},
		)
		So(err, ShouldBeNil)

		Convey("Then insertion order is kept", func() {
			So(c.Names(), ShouldResemble, []string{"B", "A"})
			So(c.Len(), ShouldEqual, 2)
		})

		Convey("Then returned profiles are copies", func() {
			ps := c.Profiles()
			ps[0].Metrics[model.Aggressiveness] = 99
			p, err := c.Get("B")
			So(err, ShouldBeNil)
			So(p.Metrics[model.Aggressiveness], ShouldEqual, 10.0)
		})

		Convey("Then unknown names are not found", func() {
			_, err := c.Get("Z")
			So(errors.Is(err, catalogue.ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestDefault(t *testing.T) {
	Convey("Given the default catalogue", t, func() {
		c := catalogue.Default()

		Convey("Then it holds the seven grandmasters in order", func() {
			So(c.Len(), ShouldEqual, 7)
			So(c.Names()[0], ShouldEqual, "Mikhail Tal")
			So(c.Names()[6], ShouldEqual, "Magnus Carlsen")
		})

		Convey("Then profile values match the table", func() {
			p, err := c.Get("Tigran Petrosian")
			So(err, ShouldBeNil)
			So(p.Metrics[model.Solidity], ShouldEqual, 92.0)
			So(p.Metrics[model.Complexity], ShouldEqual, 6.2)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a YAML catalogue file", t, func() {
		c, err := catalogue.Load("testdata/catalogue.yaml")

		Convey("Then its profiles are loaded in order", func() {
			So(err, ShouldBeNil)
			So(c.Names(), ShouldResemble, []string{"Attacker", "Defender"})
			p, _ := c.Get("Defender")
			So(p.Metrics[model.Solidity], ShouldEqual, 95.0)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := catalogue.Load("testdata/missing.yaml")
		So(err, ShouldNotBeNil)
	})

	Convey("Given a document with unknown fields", t, func() {
		_, err := catalogue.Decode(strings.NewReader("players: []\n"))
		So(errors.Is(err, catalogue.ErrInvalidProfile), ShouldBeTrue)
	})

	Convey("Given a document with duplicate names", t, func() {
		doc := "profiles:\n  - name: X\n  - name: X\n"
		_, err := catalogue.Decode(strings.NewReader(doc))
		So(errors.Is(err, catalogue.ErrDuplicateProfile), ShouldBeTrue)
	})
}
