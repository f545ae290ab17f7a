package config

import (
	"encoding/json"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		So(Setup(), ShouldBeNil)

		Convey("Should populate every default", func() {
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("Should carry the acquisition policy defaults", func() {
			So(viper.GetInt(key.DownloadRetries), ShouldEqual, 10)
			So(viper.GetInt(key.DownloadFragmentRetries), ShouldEqual, 10)
			So(viper.GetInt(key.DownloadFallbackHeight), ShouldEqual, 720)
			So(viper.GetString(key.PlayerVolumePolicy), ShouldEqual, "clamp")
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			So(EnvKeyReplacer.Replace("download.fragment_retries"), ShouldEqual, "download_fragment_retries")
		})
	})
}

func TestField(t *testing.T) {
	Convey("Given a registered field", t, func() {
		field := Default[key.DownloadSocketTimeout]

		Convey("Env is prefixed and upper-cased", func() {
			So(field.Env(), ShouldEqual, "TUBEPLAY_DOWNLOAD_SOCKET_TIMEOUT")
		})

		Convey("MarshalJSON reports type and default", func() {
			raw, err := json.Marshal(&field)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(raw, &decoded), ShouldBeNil)
			So(decoded["type"], ShouldEqual, "int")
			So(decoded["default"], ShouldEqual, float64(30))
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given raw command line values", t, func() {
		Convey("Integers are converted", func() {
			v, err := Parse(key.DownloadRetries, []string{"3"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 3)
		})

		Convey("Booleans are converted", func() {
			v, err := Parse(key.LogsWrite, []string{"true"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, true)
		})

		Convey("Malformed numbers are rejected", func() {
			_, err := Parse(key.DownloadRetries, []string{"many"})
			So(err, ShouldNotBeNil)
		})

		Convey("Resolutions go through the preference parser", func() {
			v, err := Parse(key.DownloadResolution, []string{"720p"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "720p")

			_, err = Parse(key.DownloadResolution, []string{"huge"})
			So(err, ShouldNotBeNil)
		})

		Convey("Volumes outside 0..100 are rejected", func() {
			_, err := Parse(key.PlayerVolume, []string{"150"})
			So(err, ShouldNotBeNil)
		})

		Convey("Unknown volume policies are rejected", func() {
			_, err := Parse(key.PlayerVolumePolicy, []string{"wrap"})
			So(err, ShouldNotBeNil)
		})

		Convey("A missing value is an error", func() {
			_, err := Parse(key.DownloadDir, nil)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLookup(t *testing.T) {
	Convey("Given a misspelled key", t, func() {
		_, err := Lookup("download.retires")

		Convey("The closest registered key is suggested", func() {
			var unknown *UnknownKeyError
			So(errors.As(err, &unknown), ShouldBeTrue)
			So(unknown.Closest, ShouldEqual, key.DownloadRetries)
		})
	})
}
