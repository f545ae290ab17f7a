package format

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func video(id string, height int) Stream {
	return Stream{ID: id, Height: mo.Some(height), VCodec: "avc1", ACodec: "none"}
}

type fakeProber struct {
	streams []Stream
	err     error
	calls   int
}

func (f *fakeProber) Streams(_ context.Context, _ string) ([]Stream, error) {
	f.calls++
	return f.streams, f.err
}

func TestParsePreference(t *testing.T) {
	Convey("ParsePreference", t, func() {
		Convey("Should accept heights with and without suffix", func() {
			p, err := ParsePreference("720p")
			So(err, ShouldBeNil)
			So(p.MustGet(), ShouldEqual, 720)

			p, err = ParsePreference("1080")
			So(err, ShouldBeNil)
			So(p.MustGet(), ShouldEqual, 1080)
		})

		Convey("Should treat auto, best and empty as automatic", func() {
			for _, s := range []string{"", "auto", "best", " Auto "} {
				p, err := ParsePreference(s)
				So(err, ShouldBeNil)
				So(p.IsAutomatic(), ShouldBeTrue)
			}
		})

		Convey("Should reject garbage", func() {
			_, err := ParsePreference("hd")
			So(err, ShouldNotBeNil)
			_, err = ParsePreference("-5p")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPick(t *testing.T) {
	Convey("Given candidates a:480 and b:1080", t, func() {
		streams := []Stream{video("a", 480), video("b", 1080)}

		Convey("A 720p preference picks a because 240 < 360", func() {
			So(Pick(streams, Height(720)), ShouldEqual, Selector("a+bestaudio/best"))
		})

		Convey("A 1000p preference picks b", func() {
			So(Pick(streams, Height(1000)), ShouldEqual, Selector("b+bestaudio/best"))
		})

		Convey("An automatic preference ignores the candidates", func() {
			So(Pick(streams, AutomaticPreference), ShouldEqual, Automatic)
		})
	})

	Convey("Given equally distant candidates", t, func() {
		streams := []Stream{video("low", 600), video("high", 840)}

		Convey("The first seen wins", func() {
			So(Pick(streams, Height(720)), ShouldEqual, ForStream("low"))
		})
	})

	Convey("Given only muxed and audio streams", t, func() {
		streams := []Stream{
			{ID: "18", Height: mo.Some(360), VCodec: "avc1", ACodec: "mp4a"},
			{ID: "140", VCodec: "none", ACodec: "mp4a"},
		}

		Convey("There are no candidates so the selector is automatic", func() {
			So(Candidates(streams), ShouldBeEmpty)
			So(Pick(streams, Height(360)), ShouldEqual, Automatic)
		})
	})

	Convey("Given no streams at all", t, func() {
		So(Pick(nil, Height(720)), ShouldEqual, Automatic)
	})

	Convey("Unknown heights count as zero", t, func() {
		streams := []Stream{
			{ID: "unknown", VCodec: "vp9", ACodec: "none"},
			video("tall", 2160),
		}
		So(Pick(streams, Height(144)), ShouldEqual, ForStream("unknown"))
	})

	Convey("For every target the chosen stream minimises the distance", t, func() {
		streams := []Stream{video("144", 144), video("360", 360), video("720", 720), video("1440", 1440)}
		for target := 0; target <= 2000; target += 37 {
			got := Pick(streams, Height(target))
			best := streams[0]
			for _, s := range streams[1:] {
				if distance(s, target) < distance(best, target) {
					best = s
				}
			}
			So(got, ShouldEqual, ForStream(best.ID))
		}
	})
}

func TestCapped(t *testing.T) {
	Convey("Capped", t, func() {
		So(Capped(720), ShouldEqual, Selector("best[height<=720]"))
	})
}

func TestResolver(t *testing.T) {
	Convey("Given a resolver", t, func() {
		prober := &fakeProber{streams: []Stream{video("a", 480), video("b", 1080)}}
		resolver := NewResolver(prober)

		Convey("A concrete preference queries the source", func() {
			sel, err := resolver.Resolve(context.Background(), "https://example.com/v", Height(720))
			So(err, ShouldBeNil)
			So(sel, ShouldEqual, ForStream("a"))
			So(prober.calls, ShouldEqual, 1)
		})

		Convey("An automatic preference does not query", func() {
			sel, err := resolver.Resolve(context.Background(), "https://example.com/v", AutomaticPreference)
			So(err, ShouldBeNil)
			So(sel, ShouldEqual, Automatic)
			So(prober.calls, ShouldEqual, 0)
		})

		Convey("A failing prober yields a ResolutionError with its cause", func() {
			cause := errors.New("no network")
			prober.err = cause

			_, err := resolver.Resolve(context.Background(), "https://example.com/v", Height(720))
			var resErr *ResolutionError
			So(errors.As(err, &resErr), ShouldBeTrue)
			So(resErr.URL, ShouldEqual, "https://example.com/v")
			So(errors.Is(err, cause), ShouldBeTrue)
		})
	})
}

func TestParseInfo(t *testing.T) {
	Convey("Given a yt-dlp info document", t, func() {
		doc := []byte(`{
			"title": "clip",
			"formats": [
				{"format_id": "140", "vcodec": "none", "acodec": "mp4a.40.2"},
				{"format_id": "134", "height": 360, "vcodec": "avc1.4d401e", "acodec": "none"},
				{"format_id": "18", "height": 360, "vcodec": "avc1.42001E", "acodec": "mp4a.40.2"},
				{"format_id": "sb0", "vcodec": "none", "acodec": "none"},
				{"format_id": "137", "height": 1080, "acodec": "none"},
				{"format_id": "hls-720", "height": 720, "vcodec": "avc1.64001f"}
			]
		}`)

		streams, err := ParseInfo(doc)
		So(err, ShouldBeNil)
		So(streams, ShouldHaveLength, 6)
		So(streams[0].Height.IsAbsent(), ShouldBeTrue)
		So(streams[1].Height.MustGet(), ShouldEqual, 360)

		Convey("Video only streams are candidates, including one with an unreported vcodec", func() {
			candidates := Candidates(streams)
			So(lo.Map(candidates, func(s Stream, _ int) string { return s.ID }), ShouldResemble, []string{"134", "137"})
		})

		Convey("A stream with an unreported acodec is not video only", func() {
			So(streams[5].VideoOnly(), ShouldBeFalse)
		})
	})

	Convey("Malformed documents are reported", t, func() {
		_, err := ParseInfo([]byte("<html>"))
		So(err, ShouldNotBeNil)
	})
}
