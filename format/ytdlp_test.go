//go:build !windows

package format

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func scriptedYTDLP(t *testing.T, body string) YTDLP {
	bin := filepath.Join(t.TempDir(), "yt-dlp")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return YTDLP{Bin: bin}
}

func TestYTDLPStreams(t *testing.T) {
	Convey("Given yt-dlp dumping an info document", t, func() {
		ytdlp := scriptedYTDLP(t, `cat <<'EOF'
{"title": "clip", "formats": [{"format_id": "136", "height": 720, "vcodec": "avc1", "acodec": "none"}]}
EOF`)

		streams, err := ytdlp.Streams(context.Background(), "https://example.com/watch?v=clip")

		So(err, ShouldBeNil)
		So(streams, ShouldHaveLength, 1)
		So(streams[0].ID, ShouldEqual, "136")
		So(streams[0].VideoOnly(), ShouldBeTrue)
	})

	Convey("Given yt-dlp failing", t, func() {
		ytdlp := scriptedYTDLP(t, `echo "WARNING: slow" >&2; echo "ERROR: Video unavailable" >&2; exit 1`)

		_, err := ytdlp.Streams(context.Background(), "https://example.com/watch?v=gone")

		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldEndWith, "ERROR: Video unavailable")
	})

	Convey("Given yt-dlp stuck behind a child process", t, func() {
		ytdlp := scriptedYTDLP(t, "sleep 30 &\nwait")

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := ytdlp.Streams(ctx, "https://example.com/watch?v=clip")

		Convey("Then the timeout stops the child as well", func() {
			So(err, ShouldNotBeNil)
			So(time.Since(start), ShouldBeLessThan, 1500*time.Millisecond)
		})
	})
}
