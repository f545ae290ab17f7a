package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubeplay-cli/tubeplay/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config() creates the directory", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Config() honours the override variable", func() {
			t.Setenv(EnvConfigPath, "/custom/tubeplay")
			So(Config(), ShouldEqual, "/custom/tubeplay")
			So(lo.Must(filesystem.API().IsDir("/custom/tubeplay")), ShouldBeTrue)
		})

		Convey("Logs() lives under Config()", func() {
			So(filepath.Dir(Logs()), ShouldEqual, Config())
		})

		Convey("Downloads() and Temp() are created", func() {
			So(lo.Must(filesystem.API().IsDir(Downloads())), ShouldBeTrue)
			So(lo.Must(filesystem.API().IsDir(Temp())), ShouldBeTrue)
		})

		Convey("History() is a json file in the config directory", func() {
			So(filepath.Ext(History()), ShouldEqual, ".json")
			So(filepath.Dir(History()), ShouldEqual, Config())
		})
	})
}
