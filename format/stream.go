// Package format discovers the video streams a remote source offers and turns a
// resolution preference into a yt-dlp format selector.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/mo"
)

// Stream is one encoded variant offered by the remote source.
type Stream struct {
	ID     string
	Height mo.Option[int]
	VCodec string
	ACodec string
}

// VideoOnly reports whether the stream carries video and no audio.
func (s Stream) VideoOnly() bool {
	return s.VCodec != "none" && s.ACodec == "none"
}

func (s Stream) String() string {
	if h, ok := s.Height.Get(); ok {
		return fmt.Sprintf("%s (%dp, %s)", s.ID, h, s.VCodec)
	}
	return fmt.Sprintf("%s (?, %s)", s.ID, s.VCodec)
}

// Preference is a target height in pixels. None means automatic.
type Preference struct {
	mo.Option[int]
}

// AutomaticPreference picks the overall best available stream.
var AutomaticPreference = Preference{mo.None[int]()}

// Height returns a preference for the given vertical resolution.
func Height(h int) Preference {
	return Preference{mo.Some(h)}
}

// IsAutomatic reports whether no concrete height was requested.
func (p Preference) IsAutomatic() bool {
	return p.IsAbsent()
}

func (p Preference) String() string {
	if h, ok := p.Get(); ok {
		return fmt.Sprintf("%dp", h)
	}
	return "auto"
}

// ParsePreference accepts "720p", "720", "auto", "best" or an empty string.
func ParsePreference(s string) (Preference, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "auto", "automatic", "best":
		return AutomaticPreference, nil
	}

	h, err := strconv.Atoi(strings.TrimSuffix(s, "p"))
	if err != nil || h <= 0 {
		return AutomaticPreference, fmt.Errorf("invalid resolution %q: expected a height like 720p or auto", s)
	}

	return Height(h), nil
}
