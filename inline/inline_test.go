package inline

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

// fakeCatalog answers searches from a fixed set of dramas.
type fakeCatalog struct {
	dramas   []*source.Drama
	episodes map[string][]*source.Episode
}

func (fakeCatalog) Name() string                             { return "fake" }
func (f fakeCatalog) Trending() ([]*source.Drama, error)     { return f.dramas, nil }
func (f fakeCatalog) Latest() ([]*source.Drama, error)       { return f.dramas, nil }
func (f fakeCatalog) ForYou() ([]*source.Drama, error)       { return f.dramas, nil }
func (f fakeCatalog) Vip() ([]*source.Drama, error)          { return nil, nil }
func (f fakeCatalog) Random() ([]*source.Drama, error)       { return f.dramas, nil }
func (f fakeCatalog) Search(string) ([]*source.Drama, error) { return f.dramas, nil }

func (f fakeCatalog) EpisodesOf(contentID string) ([]*source.Episode, error) {
	return f.episodes[contentID], nil
}

func (f fakeCatalog) DetailOf(contentID string, _ string) (mo.Option[*source.Drama], error) {
	if found, ok := lo.Find(f.dramas, func(d *source.Drama) bool { return d.ID == contentID }); ok {
		return mo.Some(found), nil
	}
	return mo.None[*source.Drama](), nil
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		dramas: []*source.Drama{
			{ID: "1", Title: "Moonlit Contract"},
			{ID: "2", Title: "Midnight CEO"},
		},
		episodes: map[string][]*source.Episode{
			"1": {
				{ID: "c1", Name: "EP 1", Index: 0},
				{ID: "c2", Name: "EP 2", Index: 1},
				{ID: "c3", Name: "Finale", Index: 2},
			},
		},
	}
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Produces valid JSON for an empty result", func() {
			var buf bytes.Buffer
			err := writeJson(&buf, nil, &Options{Query: "nothing", Json: true})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Query, ShouldEqual, "nothing")
			So(output.Result, ShouldHaveLength, 0)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a non-interactive invocation", t, func() {
		catalog := testCatalog()

		Convey("Without a picker every match is emitted", func() {
			var buf bytes.Buffer
			err := Run(&Options{Out: &buf, Catalog: catalog, Json: true, Query: "m"})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 2)
			So(output.Result[0].Catalog, ShouldEqual, "fake")
		})

		Convey("A first picker narrows the result", func() {
			picker, err := ParseDramaPicker("first", "")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(&Options{
				Out: &buf, Catalog: catalog, Json: true, Query: "m",
				DramaPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 1)
			So(output.Result[0].Drama.Title, ShouldEqual, "Moonlit Contract")
		})

		Convey("An exact picker with no match emits an empty result", func() {
			picker, err := ParseDramaPicker("exact", "Unknown Show")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(&Options{
				Out: &buf, Catalog: catalog, Json: true, Query: "m",
				DramaPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 0)
		})

		Convey("An episode filter trims the fetched lists", func() {
			picker, _ := ParseDramaPicker("first", "")
			filter, err := ParseEpisodesFilter("@finale@")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(&Options{
				Out: &buf, Catalog: catalog, Json: true, Query: "m",
				DramaPicker:    mo.Some(picker),
				EpisodesFilter: mo.Some(filter),
			})
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result[0].Drama.Episodes, ShouldHaveLength, 1)
			So(output.Result[0].Drama.Episodes[0].Name, ShouldEqual, "Finale")
		})

		Convey("Plain output lists episode names", func() {
			picker, _ := ParseDramaPicker("first", "")
			filter, _ := ParseEpisodesFilter("all")

			var buf bytes.Buffer
			err := Run(&Options{
				Out: &buf, Catalog: catalog, Query: "m",
				DramaPicker:    mo.Some(picker),
				EpisodesFilter: mo.Some(filter),
			})
			So(err, ShouldBeNil)
			So(buf.String(), ShouldEqual, "EP 1\nEP 2\nFinale\n")
		})
	})
}

func TestParseDramaPicker(t *testing.T) {
	Convey("ParseDramaPicker", t, func() {
		dramas := testCatalog().dramas

		Convey("last", func() {
			picker, err := ParseDramaPicker("last", "")
			So(err, ShouldBeNil)
			So(picker(dramas).ID, ShouldEqual, "2")
		})

		Convey("index clamps out-of-range values", func() {
			picker, err := ParseDramaPicker("index", "9")
			So(err, ShouldBeNil)
			So(picker(dramas).ID, ShouldEqual, "2")
		})

		Convey("invalid kinds are rejected", func() {
			_, err := ParseDramaPicker("median", "")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestParseEpisodesFilter(t *testing.T) {
	Convey("ParseEpisodesFilter", t, func() {
		episodes := testCatalog().episodes["1"]

		Convey("Ranges are inclusive", func() {
			filter, err := ParseEpisodesFilter("0-1")
			So(err, ShouldBeNil)

			got, err := filter(episodes)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 2)
		})

		Convey("A single index selects one episode", func() {
			filter, err := ParseEpisodesFilter("2")
			So(err, ShouldBeNil)

			got, err := filter(episodes)
			So(err, ShouldBeNil)
			So(got, ShouldHaveLength, 1)
			So(got[0].Name, ShouldEqual, "Finale")
		})

		Convey("Gibberish is rejected", func() {
			_, err := ParseEpisodesFilter("every other one")
			So(err, ShouldNotBeNil)
		})
	})
}
