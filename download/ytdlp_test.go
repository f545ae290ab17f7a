//go:build !windows

package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tubeplay-cli/tubeplay/format"
)

// fakeYtDlp writes an executable shell script that records its arguments in args.log.
func fakeYtDlp(t *testing.T, dir, body string) YTDLP {
	bin := filepath.Join(dir, "yt-dlp")
	script := "#!/bin/sh\necho \"$@\" > " + filepath.Join(dir, "args.log") + "\n" + body + "\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return YTDLP{Bin: bin}
}

func testRequest(dir string) Request {
	return Request{
		URL:      testURL,
		Dir:      dir,
		Template: "%(title)s.%(ext)s",
		Selector: format.ForStream("136"),
		Policy:   DefaultPolicy(),
	}
}

func TestYTDLPFetch(t *testing.T) {
	Convey("Given yt-dlp printing progress on both pipes", t, func() {
		dir := t.TempDir()
		ytdlp := fakeYtDlp(t, dir, strings.Join([]string{
			`echo "[youtube] clip: Downloading webpage" >&2`,
			`echo "tubeplay-progress 50 100 NA 1000" >&2`,
			`echo "tubeplay-progress 100 100 NA 2000"`,
			`echo "clip.mp4"`,
		}, "\n"))

		var (
			mu      sync.Mutex
			samples []Sample
		)
		path, err := ytdlp.Fetch(context.Background(), testRequest(dir), func(s Sample) {
			mu.Lock()
			samples = append(samples, s)
			mu.Unlock()
		})

		Convey("Then every progress line becomes a sample", func() {
			So(err, ShouldBeNil)
			downloaded := lo.Map(samples, func(s Sample, _ int) int64 { return s.Downloaded })
			So(downloaded, ShouldHaveLength, 2)
			So(downloaded, ShouldContain, int64(50))
			So(downloaded, ShouldContain, int64(100))
		})

		Convey("Then the printed file path is resolved against the download directory", func() {
			So(path, ShouldEqual, filepath.Join(dir, "clip.mp4"))
		})

		Convey("Then the selector and the path printer are passed", func() {
			args, err := os.ReadFile(filepath.Join(dir, "args.log"))
			So(err, ShouldBeNil)
			So(string(args), ShouldContainSubstring, "--format 136+bestaudio/best")
			So(string(args), ShouldContainSubstring, "--print after_move:filepath")
			So(string(args), ShouldEndWith, testURL+"\n")
		})
	})

	Convey("Given yt-dlp failing on a fragment", t, func() {
		dir := t.TempDir()
		ytdlp := fakeYtDlp(t, dir, `echo "ERROR: fragment 3 not found" >&2; exit 1`)

		_, err := ytdlp.Fetch(context.Background(), testRequest(dir), nil)

		Convey("Then the failure is a retryable fragment error", func() {
			var e *Error
			So(errors.As(err, &e), ShouldBeTrue)
			So(e.Kind, ShouldEqual, KindFragment)
			So(e.Kind.Retryable(), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "fragment 3 not found")
		})
	})

	Convey("Given yt-dlp reporting that ffmpeg is missing", t, func() {
		dir := t.TempDir()
		ytdlp := fakeYtDlp(t, dir, `echo "ERROR: Postprocessing: ffmpeg is not installed" >&2; exit 1`)

		_, err := ytdlp.Fetch(context.Background(), testRequest(dir), nil)

		Convey("Then ffmpeg install instructions are attached", func() {
			var e *Error
			So(errors.As(err, &e), ShouldBeTrue)
			So(errors.Is(err, ErrPrerequisiteMissing), ShouldBeTrue)
			So(e.Remediation, ShouldEqual, FFmpegRemediation())
		})
	})

	Convey("Given no yt-dlp executable", t, func() {
		dir := t.TempDir()

		for _, bin := range []string{filepath.Join(dir, "yt-dlp"), "tubeplay-test-no-such-yt-dlp"} {
			_, err := YTDLP{Bin: bin}.Fetch(context.Background(), testRequest(dir), nil)

			var e *Error
			So(errors.As(err, &e), ShouldBeTrue)
			So(e.Kind, ShouldEqual, KindPrerequisiteMissing)
			So(e.Remediation, ShouldEqual, YtDlpRemediation())
		}
	})

	Convey("Given yt-dlp with a helper that never exits", t, func() {
		dir := t.TempDir()
		ytdlp := fakeYtDlp(t, dir, "sleep 30 &\nwait")

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := ytdlp.Fetch(ctx, testRequest(dir), nil)

		Convey("Then cancellation stops the whole process group", func() {
			So(errors.Is(err, ErrCanceled), ShouldBeTrue)
			So(time.Since(start), ShouldBeLessThan, 1500*time.Millisecond)
		})
	})
}

func TestExecProber(t *testing.T) {
	Convey("Given a tool printing its version", t, func() {
		bin := filepath.Join(t.TempDir(), "tool")
		So(os.WriteFile(bin, []byte("#!/bin/sh\necho \"tool 1.2.3\"\necho \"built today\"\n"), 0o755), ShouldBeNil)

		version, err := ExecProber{}.Probe(context.Background(), bin, "--version")

		So(err, ShouldBeNil)
		So(version, ShouldEqual, "tool 1.2.3")
	})

	Convey("Given a tool that hangs with a child process", t, func() {
		bin := filepath.Join(t.TempDir(), "tool")
		So(os.WriteFile(bin, []byte("#!/bin/sh\nsleep 30 &\nwait\n"), 0o755), ShouldBeNil)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := ExecProber{}.Probe(ctx, bin, "--version")

		So(err, ShouldNotBeNil)
		So(time.Since(start), ShouldBeLessThan, 1500*time.Millisecond)
	})
}
