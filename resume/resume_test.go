package resume

import (
	"testing"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/history"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestResolve(t *testing.T) {
	Convey("Given a drama with no history", t, func() {
		history.Clear()

		Convey("It opens the default episode from zero", func() {
			d := Resolve("42", "ep1")
			So(d.EpisodeID, ShouldEqual, "ep1")
			So(d.OffsetSeconds, ShouldEqual, 0)
			So(d.Label, ShouldEqual, WatchNow)
		})
	})

	Convey("Given mid-episode progress", t, func() {
		history.Clear()
		history.Put("42", "ep1", 30, 120) // 25%

		Convey("It resumes the last watched episode at the saved offset", func() {
			d := Resolve("42", "ep2")
			So(d.EpisodeID, ShouldEqual, "ep1")
			So(d.OffsetSeconds, ShouldEqual, 30)
			So(d.Label, ShouldEqual, Resume)
		})
	})

	Convey("Given a nearly finished episode", t, func() {
		history.Clear()
		history.Put("42", "ep1", 118, 120) // ~98%

		Convey("It restarts from zero with a rewatch label", func() {
			d := Resolve("42", "ep1")
			So(d.EpisodeID, ShouldEqual, "ep1")
			So(d.OffsetSeconds, ShouldEqual, 0)
			So(d.Label, ShouldEqual, Rewatch)
		})
	})

	Convey("Given sub-noise-floor progress", t, func() {
		history.Clear()
		history.Put("42", "ep1", 3, 120)

		Convey("The offset is suppressed to zero", func() {
			d := Resolve("42", "ep1")
			So(d.EpisodeID, ShouldEqual, "ep1")
			So(d.OffsetSeconds, ShouldEqual, 0)
			So(d.Label, ShouldEqual, Resume)
		})
	})

	Convey("Scenario: watch-now, then resume, then rewatch", t, func() {
		history.Clear()

		d := Resolve("42", "ep1")
		So(d, ShouldResemble, Decision{EpisodeID: "ep1", Label: WatchNow})

		history.Put("42", "ep1", 30, 120)
		d = Resolve("42", "ep1")
		So(d, ShouldResemble, Decision{EpisodeID: "ep1", OffsetSeconds: 30, Label: Resume})

		history.Put("42", "ep1", 118, 120)
		d = Resolve("42", "ep1")
		So(d, ShouldResemble, Decision{EpisodeID: "ep1", Label: Rewatch})
	})
}

func TestOffsetOf(t *testing.T) {
	Convey("OffsetOf", t, func() {
		history.Clear()

		Convey("An unknown episode starts from zero", func() {
			So(OffsetOf("42", "ep9"), ShouldEqual, 0)
		})

		Convey("Mid-episode progress is honored", func() {
			history.Put("42", "ep2", 40, 120)
			So(OffsetOf("42", "ep2"), ShouldEqual, 40)
		})

		Convey("A finished episode restarts from zero", func() {
			history.Put("42", "ep2", 118, 120)
			So(OffsetOf("42", "ep2"), ShouldEqual, 0)
		})

		Convey("Noise-floor positions are suppressed", func() {
			history.Put("42", "ep2", 4, 120)
			So(OffsetOf("42", "ep2"), ShouldEqual, 0)
		})
	})
}
