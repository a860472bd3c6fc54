package dramabox

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/source"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func resetCaches() {
	filesystem.SetMemMapFs()
	detailCacher = newCacher[*source.Drama]("dramabox_detail_cache.json", time.Hour*24)
	episodeCacher = newCacher[[]*source.Episode]("dramabox_episode_cache.json", time.Minute*30)
}

const trendingBody = `[
	{"bookId": "41000156492", "bookName": "Moonlit Contract", "coverWap": "https://img.example.com/a.webp", "chapterCount": 80, "introduction": "  A contract marriage.  ", "tags": ["Romance", "CEO"]},
	{"bookId": "41000156493", "bookName": "Midnight CEO", "cover": "https://img.example.com/b.webp", "chapterCount": 64, "introduction": "Revenge."}
]`

const episodesBody = `[
	{"chapterId": "c2", "chapterIndex": 1, "chapterName": "EP 2", "isCharge": 1, "cdnList": []},
	{"chapterId": "c1", "chapterIndex": 0, "chapterName": "", "isCharge": 0, "cdnList": [
		{"cdnDomain": "tx.example.com", "isDefault": 0, "videoPathList": [
			{"quality": 540, "videoPath": "https://tx.example.com/c1_540.mp4"}
		]},
		{"cdnDomain": "ws.example.com", "isDefault": 1, "videoPathList": [
			{"quality": 540, "videoPath": "https://ws.example.com/c1_540.mp4"},
			{"quality": 1080, "videoPath": "https://ws.example.com/c1_1080.mp4"}
		]}
	]}
]`

const vipBody = `{"columnVoList": [
	{"bookList": [{"bookId": "v1", "bookName": "Locked Hearts", "chapterCount": 40, "introduction": "vip"}]},
	{"bookList": [{"bookId": "v2", "bookName": "Golden Cage", "chapterCount": 50, "introduction": "vip"}]}
]}`

// catalogServer fakes the upstream API and counts requests per path.
func catalogServer(hits map[string]int) *httptest.Server {
	mux := http.NewServeMux()

	serve := func(path, body string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			hits[path]++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}

	serve("/trending", trendingBody)
	serve("/latest", `[]`)
	serve("/vip", vipBody)
	serve("/allepisode", episodesBody)
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		hits["/search"]++
		if strings.EqualFold(r.URL.Query().Get("query"), "moonlit contract") {
			_, _ = w.Write([]byte(trendingBody))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	return httptest.NewServer(mux)
}

func testClient(server *httptest.Server) *Dramabox {
	return &Dramabox{
		baseURL: server.URL,
		timeout: 5 * time.Second,
		client:  server.Client(),
	}
}

func TestListings(t *testing.T) {
	Convey("Given a catalog backend", t, func() {
		resetCaches()
		hits := make(map[string]int)
		server := catalogServer(hits)
		defer server.Close()
		catalog := testClient(server)

		Convey("Trending maps book records into dramas", func() {
			dramas, err := catalog.Trending()
			So(err, ShouldBeNil)
			So(dramas, ShouldHaveLength, 2)

			So(dramas[0].ID, ShouldEqual, "41000156492")
			So(dramas[0].Title, ShouldEqual, "Moonlit Contract")
			So(dramas[0].EpisodeCount, ShouldEqual, 80)
			So(dramas[0].Introduction, ShouldEqual, "A contract marriage.")
			So(dramas[0].CoverURL(), ShouldEqual, "https://img.example.com/a.webp")

			Convey("The secondary cover field is honored", func() {
				So(dramas[1].CoverURL(), ShouldEqual, "https://img.example.com/b.webp")
			})
		})

		Convey("Vip flattens the column layout", func() {
			dramas, err := catalog.Vip()
			So(err, ShouldBeNil)
			So(dramas, ShouldHaveLength, 2)
			So(dramas[0].ID, ShouldEqual, "v1")
			So(dramas[1].ID, ShouldEqual, "v2")
		})

		Convey("Upstream failures surface as errors", func() {
			broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer broken.Close()

			_, err := testClient(broken).Latest()
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEpisodesOf(t *testing.T) {
	Convey("Given a drama with chapters", t, func() {
		resetCaches()
		hits := make(map[string]int)
		server := catalogServer(hits)
		defer server.Close()
		catalog := testClient(server)

		episodes, err := catalog.EpisodesOf("41000156492")
		So(err, ShouldBeNil)
		So(episodes, ShouldHaveLength, 2)

		Convey("Episodes come back ordered by index", func() {
			So(episodes[0].ID, ShouldEqual, "c1")
			So(episodes[1].ID, ShouldEqual, "c2")
		})

		Convey("A missing chapter name falls back to the ordinal", func() {
			So(episodes[0].Name, ShouldEqual, "EP 1")
			So(episodes[1].Name, ShouldEqual, "EP 2")
		})

		Convey("Premium gating is carried over", func() {
			So(episodes[0].Locked, ShouldBeFalse)
			So(episodes[1].Locked, ShouldBeTrue)
		})

		Convey("The default mirror and its best variant win", func() {
			best := episodes[0].BestSource()
			So(best.IsPresent(), ShouldBeTrue)
			So(best.MustGet().URL, ShouldEqual, "https://ws.example.com/c1_1080.mp4")
		})

		Convey("A second lookup is served from the cache", func() {
			_, err = catalog.EpisodesOf("41000156492")
			So(err, ShouldBeNil)
			So(hits["/allepisode"], ShouldEqual, 1)
		})
	})
}

func TestDetailOf(t *testing.T) {
	Convey("Given a content id to resolve", t, func() {
		resetCaches()
		hits := make(map[string]int)
		server := catalogServer(hits)
		defer server.Close()
		catalog := testClient(server)

		Convey("A title hint resolves through search", func() {
			detail, err := catalog.DetailOf("41000156492", "Moonlit Contract")
			So(err, ShouldBeNil)
			So(detail.MustGet().Title, ShouldEqual, "Moonlit Contract")
			So(hits["/trending"], ShouldEqual, 0)
		})

		Convey("Without a hint the listings are scanned", func() {
			detail, err := catalog.DetailOf("41000156493", "")
			So(err, ShouldBeNil)
			So(detail.MustGet().Title, ShouldEqual, "Midnight CEO")
			So(hits["/search"], ShouldEqual, 0)
		})

		Convey("Premium content is found through the vip fallback", func() {
			detail, err := catalog.DetailOf("v2", "")
			So(err, ShouldBeNil)
			So(detail.MustGet().Title, ShouldEqual, "Golden Cage")
		})

		Convey("An unknown id is absent, not an error", func() {
			detail, err := catalog.DetailOf("nope", "nope")
			So(err, ShouldBeNil)
			So(detail.IsAbsent(), ShouldBeTrue)
		})

		Convey("A resolved drama is cached", func() {
			_, err := catalog.DetailOf("41000156492", "Moonlit Contract")
			So(err, ShouldBeNil)

			searches := hits["/search"]
			detail, err := catalog.DetailOf("41000156492", "Moonlit Contract")
			So(err, ShouldBeNil)
			So(detail.IsPresent(), ShouldBeTrue)
			So(hits["/search"], ShouldEqual, searches)
		})
	})
}
