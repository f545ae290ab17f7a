package filesystem

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestSize(t *testing.T) {
	Convey("Given an in-memory file", t, func() {
		SetMemMapFs()
		So(API().WriteFile("/media/clip.mp4", []byte("0123456789"), 0o644), ShouldBeNil)

		Convey("Size reports its length", func() {
			size, err := Size("/media/clip.mp4")
			So(err, ShouldBeNil)
			So(size, ShouldEqual, 10)
		})

		Convey("Size fails for a missing file", func() {
			_, err := Size("/media/missing.mp4")
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
}
