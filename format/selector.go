package format

import (
	"fmt"

	"github.com/samber/lo"
)

// Selector is a yt-dlp format expression.
type Selector string

// Automatic is the universal best effort selector.
const Automatic Selector = "bestvideo+bestaudio/best"

// ForStream pairs a video stream with the best audio, falling back to the best muxed stream.
func ForStream(id string) Selector {
	return Selector(fmt.Sprintf("%s+bestaudio/best", id))
}

// Capped selects the best muxed stream no taller than height.
func Capped(height int) Selector {
	return Selector(fmt.Sprintf("best[height<=%d]", height))
}

func (s Selector) String() string {
	return string(s)
}

// Candidates keeps the video only streams, preserving order.
func Candidates(streams []Stream) []Stream {
	return lo.Filter(streams, func(s Stream, _ int) bool {
		return s.VideoOnly()
	})
}

// Pick chooses the video only stream whose height is closest to the preference.
// Ties go to the stream seen first. Unknown heights count as zero.
func Pick(streams []Stream, pref Preference) Selector {
	target, ok := pref.Get()
	if !ok {
		return Automatic
	}

	candidates := Candidates(streams)
	if len(candidates) == 0 {
		return Automatic
	}

	best := lo.MinBy(candidates, func(a, b Stream) bool {
		return distance(a, target) < distance(b, target)
	})

	return ForStream(best.ID)
}

func distance(s Stream, target int) int {
	d := s.Height.OrEmpty() - target
	if d < 0 {
		return -d
	}
	return d
}
