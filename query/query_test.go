package query

import (
	"testing"

	"github.com/dramasan-cli/dramasan/filesystem"
	"github.com/dramasan-cli/dramasan/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given a query history", t, func() {
		So(Clear(), ShouldBeNil)

		Convey("When remembering queries", func() {
			So(Remember("moonlit contract", 1), ShouldBeNil)
			So(Remember("midnight ceo", 10), ShouldBeNil)

			Convey("Suggestions are sorted by rank", func() {
				s := SuggestMany("mi")
				So(len(s), ShouldBeGreaterThanOrEqualTo, 2)
				So(s[0], ShouldEqual, "midnight ceo")
			})

			Convey("Suggest returns the top match", func() {
				So(Suggest("midnight").MustGet(), ShouldEqual, "midnight ceo")
			})

			Convey("Non-matching input yields nothing", func() {
				So(Suggest("zzz").IsAbsent(), ShouldBeTrue)
			})

			Convey("Repeated queries climb the ranking", func() {
				So(Remember("moonlit contract", 20), ShouldBeNil)
				s := SuggestMany("m")
				So(s[0], ShouldEqual, "moonlit contract")
			})
		})

		Convey("When suggestions are disabled", func() {
			So(Remember("moonlit contract", 1), ShouldBeNil)
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("moon"), ShouldBeEmpty)
		})

		Convey("It sanitizes input", func() {
			So(sanitize("  MOONLIT  "), ShouldEqual, "moonlit")
		})
	})
}
