package relay

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestEmbedded(t *testing.T) {
	Convey("Given a media origin", t, func() {
		origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "media-bytes")
		}))
		defer origin.Close()

		Convey("Ensure binds the relay and returns a reachable base URL", func() {
			base, err := Ensure("127.0.0.1:0")
			defer Stop()

			So(err, ShouldBeNil)
			So(base, ShouldStartWith, "http://127.0.0.1:")

			resp, err := http.Get(ProxyURL(base, origin.URL+"/ep1.mp4"))
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, "media-bytes")

			Convey("A second Ensure reuses the running instance", func() {
				again, err := Ensure("127.0.0.1:0")
				So(err, ShouldBeNil)
				So(again, ShouldEqual, base)
			})
		})

		Convey("Stop tears the relay down", func() {
			base, err := Ensure("127.0.0.1:0")
			So(err, ShouldBeNil)
			Stop()

			_, err = http.Get(ProxyURL(base, origin.URL+"/ep1.mp4"))
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "connection refused"), ShouldBeTrue)
		})
	})
}
