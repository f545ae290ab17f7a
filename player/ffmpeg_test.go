//go:build !windows

package player

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubeplay-cli/tubeplay/media"
	"go.uber.org/goleak"
)

// scriptedFFmpeg reports a 2x2 10fps clip lasting half a second and decodes it with tail.
func scriptedFFmpeg(t *testing.T, tail string) media.FFmpeg {
	dir := t.TempDir()
	scripts := map[string]string{
		"ffprobe": "#!/bin/sh\necho '" +
			`{"streams": [{"codec_type": "video", "width": 2, "height": 2, "avg_frame_rate": "10/1"}], "format": {"duration": "0.5"}}` +
			"'\n",
		"ffmpeg": "#!/bin/sh\n" + tail + "\n",
	}
	for name, body := range scripts {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return media.FFmpeg{
		FFmpegBin:  filepath.Join(dir, "ffmpeg"),
		FFprobeBin: filepath.Join(dir, "ffprobe"),
	}
}

func TestPlaybackWithFFmpeg(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a video track shorter than the reported duration", t, func() {
		// three frames decode, the clock expects five per cycle
		frames := newCollector(count(12))
		session := NewSession(scriptedFFmpeg(t, "head -c 48 /dev/zero"), nil, frames)
		session.sleep = fastSleep

		So(session.Load("clip.mp4"), ShouldBeNil)
		So(session.Start(), ShouldBeNil)
		So(received(frames.reached), ShouldBeTrue)
		session.Stop()

		Convey("Then playback keeps looping without errors", func() {
			So(frames.errors(), ShouldBeEmpty)
			starts := lo.Filter(frames.frames(), func(ts time.Duration, _ int) bool { return ts == 0 })
			So(len(starts), ShouldBeGreaterThanOrEqualTo, 2)
			So(frames.frames()[4], ShouldEqual, 400*time.Millisecond)
		})
	})

	Convey("Given a decoder that hangs after the first frame", t, func() {
		frames := newCollector(count(1))
		session := NewSession(scriptedFFmpeg(t, "head -c 16 /dev/zero\nsleep 30"), nil, frames)
		session.sleep = fastSleep

		So(session.Load("clip.mp4"), ShouldBeNil)
		So(session.Start(), ShouldBeNil)
		So(received(frames.reached), ShouldBeTrue)

		stopped := make(chan struct{})
		go func() {
			session.Stop()
			close(stopped)
		}()

		Convey("Then Stop interrupts the pending decode", func() {
			So(received(stopped), ShouldBeTrue)
			So(session.Snapshot().Running, ShouldBeFalse)
			So(frames.errors(), ShouldBeEmpty)
		})
	})
}
