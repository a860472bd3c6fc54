package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestTransportClassification(t *testing.T) {
	Convey("IsSegmentedURL", t, func() {
		So(IsSegmentedURL("https://cdn.example.com/ep1/index.m3u8"), ShouldBeTrue)
		So(IsSegmentedURL("https://cdn.example.com/EP1/INDEX.M3U8"), ShouldBeTrue)
		So(IsSegmentedURL("https://cdn.example.com/ep1/playlist.m3u"), ShouldBeTrue)
		So(IsSegmentedURL("https://cdn.example.com/ep1/video.mp4"), ShouldBeFalse)
	})

	Convey("MediaSource.Transport", t, func() {
		manifest := &MediaSource{URL: "https://cdn.example.com/a.m3u8", Quality: 1080}
		file := &MediaSource{URL: "https://cdn.example.com/a.mp4", Quality: 1080}

		So(manifest.Transport(), ShouldEqual, TransportSegmented)
		So(file.Transport(), ShouldEqual, TransportProgressive)
		So(manifest.Transport().ContentType(), ShouldEqual, "application/x-mpegURL")
		So(file.Transport().ContentType(), ShouldEqual, "video/mp4")
	})

	Convey("IsSegmentedContentType", t, func() {
		So(IsSegmentedContentType("application/x-mpegURL"), ShouldBeTrue)
		So(IsSegmentedContentType("video/mp4"), ShouldBeFalse)
	})
}

func TestBestSource(t *testing.T) {
	Convey("Given an episode with multiple mirrors", t, func() {
		episode := &Episode{
			ID:   "ep1",
			Name: "EP 1",
			Mirrors: []*Mirror{
				{
					Domain: "cdn-a",
					Variants: []*MediaSource{
						{URL: "https://a/720.mp4", Quality: 720},
					},
				},
				{
					Domain:  "cdn-b",
					Default: true,
					Variants: []*MediaSource{
						{URL: "https://b/540.mp4", Quality: 540},
						{URL: "https://b/1080.mp4", Quality: 1080},
					},
				},
			},
		}

		Convey("It picks the highest quality of the default mirror", func() {
			best := episode.BestSource()
			So(best.IsPresent(), ShouldBeTrue)
			So(best.MustGet().URL, ShouldEqual, "https://b/1080.mp4")
		})

		Convey("It falls back to the first mirror when none is default", func() {
			episode.Mirrors[1].Default = false
			best := episode.BestSource()
			So(best.IsPresent(), ShouldBeTrue)
			So(best.MustGet().URL, ShouldEqual, "https://a/720.mp4")
		})

		Convey("It is absent when there are no mirrors", func() {
			bare := &Episode{ID: "ep2"}
			So(bare.BestSource().IsAbsent(), ShouldBeTrue)
		})
	})
}

func TestEpisodeOrdering(t *testing.T) {
	Convey("Given an unordered episode list", t, func() {
		eps := []*Episode{
			{ID: "c", Index: 3},
			{ID: "a", Index: 1},
			{ID: "b", Index: 2},
		}
		SortEpisodes(eps)

		Convey("It sorts by ordinal index", func() {
			So(eps[0].ID, ShouldEqual, "a")
			So(eps[2].ID, ShouldEqual, "c")
		})

		Convey("Next/Prev navigate the stable order", func() {
			So(NextEpisode(eps, eps[0]).MustGet().ID, ShouldEqual, "b")
			So(PrevEpisode(eps, eps[2]).MustGet().ID, ShouldEqual, "b")
			So(NextEpisode(eps, eps[2]).IsAbsent(), ShouldBeTrue)
			So(PrevEpisode(eps, eps[0]).IsAbsent(), ShouldBeTrue)
			So(NextEpisode(eps, &Episode{ID: "zz"}).IsAbsent(), ShouldBeTrue)
		})
	})
}
