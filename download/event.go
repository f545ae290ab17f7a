package download

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/mo"
)

// Phase is the stage an Event reports on.
type Phase string

const (
	PhaseDiscovering Phase = "discovering"
	PhaseDownloading Phase = "downloading"
	PhaseFinalizing  Phase = "finalizing"
	PhaseError       Phase = "error"
	PhaseDone        Phase = "done"
)

// Event is a progress notification. Percent is absent when no total size is known.
type Event struct {
	Phase   Phase
	Percent mo.Option[float64]

	// Rate is in bytes per second.
	Rate    mo.Option[float64]
	Message string
	Time    time.Time
}

func (e Event) String() string {
	var b strings.Builder
	b.WriteString(string(e.Phase))

	if p, ok := e.Percent.Get(); ok {
		fmt.Fprintf(&b, " %5.1f%%", p)
	}
	if r, ok := e.Rate.Get(); ok {
		fmt.Fprintf(&b, " at %s/s", humanize.Bytes(uint64(r)))
	}
	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	}

	return b.String()
}

// ProgressHandler observes acquisition progress. Calls are synchronous,
// so slow handlers should drop events rather than queue them.
type ProgressHandler interface {
	OnProgress(Event)
}

// ProgressFunc adapts a function to ProgressHandler.
type ProgressFunc func(Event)

func (f ProgressFunc) OnProgress(e Event) {
	f(e)
}

type discardProgress struct{}

func (discardProgress) OnProgress(Event) {}
