package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFilesystem(t *testing.T) {
	Convey("Filesystem backend", t, func() {
		Convey("Should switch to in-memory backend", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")

			Convey("And write/read through it", func() {
				err := API().WriteFile("/probe.txt", []byte("ok"), 0644)
				So(err, ShouldBeNil)

				data, err := API().ReadFile("/probe.txt")
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "ok")
			})
		})

		Convey("Should restore the OS backend", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
			SetMemMapFs()
		})
	})
}
