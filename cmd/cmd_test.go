package cmd

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/history"
	"github.com/tubeplay-cli/tubeplay/media"
)

func init() {
	filesystem.SetMemMapFs()
}

func frameAt(ts time.Duration) *media.Frame {
	return &media.Frame{Width: 2, Height: 2, Timestamp: ts, Pix: make([]byte, 16)}
}

func TestFrameConsumer(t *testing.T) {
	Convey("Given a consumer limited to two cycles", t, func() {
		c := newFrameConsumer("", "clip", 2)

		Convey("It finishes on the start of the third cycle", func() {
			c.OnFrame(frameAt(0))
			c.OnFrame(frameAt(time.Second / 30))
			c.OnFrame(frameAt(0))

			select {
			case <-c.finished:
				So("finished early", ShouldBeEmpty)
			default:
			}

			c.OnFrame(frameAt(0))
			select {
			case <-c.finished:
			case <-time.After(time.Second):
				So("not finished", ShouldBeEmpty)
			}
			So(c.frames.Load(), ShouldEqual, 4)
		})

		Convey("It remembers the last error", func() {
			boom := errors.New("boom")
			c.OnError(boom)
			So(c.err(), ShouldEqual, boom)
		})
	})

	Convey("Given a consumer with a snapshot directory", t, func() {
		c := newFrameConsumer("/snaps", "clip", 0)
		c.start()

		c.OnFrame(frameAt(0))
		c.close()

		Convey("The first frame of the cycle is written as PNG", func() {
			exists, err := filesystem.API().Exists("/snaps/clip_cycle_0000.png")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})
	})
}

func TestForgetStale(t *testing.T) {
	Convey("Given a history with a deleted and a present file", t, func() {
		So(filesystem.API().WriteFile("/downloads/kept.mp4", []byte("data"), 0o644), ShouldBeNil)
		So(history.Save(&history.Record{Path: "/downloads/kept.mp4", At: time.Now()}), ShouldBeNil)
		So(history.Save(&history.Record{Path: "/downloads/gone.mp4", At: time.Now()}), ShouldBeNil)

		n, err := forgetStale()

		Convey("Only the deleted file is forgotten", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1)

			records, err := history.List()
			So(err, ShouldBeNil)
			paths := make([]string, 0, len(records))
			for _, r := range records {
				paths = append(paths, r.Path)
			}
			So(paths, ShouldContain, "/downloads/kept.mp4")
			So(paths, ShouldNotContain, "/downloads/gone.mp4")
		})
	})
}
