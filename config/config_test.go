package config

import (
	"testing"

	"github.com/dramasan-cli/dramasan/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				val := viper.Get(name)
				So(val, ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("catalog.base_url")
			So(result, ShouldEqual, "catalog_base_url")
		})

		Convey("Env names should carry the application prefix", func() {
			f := Default["catalog.base_url"]
			So(f.Env(), ShouldEqual, "DRAMASAN_CATALOG_BASE_URL")
		})
	})
}
