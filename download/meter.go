package download

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/mo"
	"github.com/tubeplay-cli/tubeplay/util"
)

// Sample is a raw progress reading from the fetch tool.
type Sample struct {
	Downloaded int64
	Total      mo.Option[int64]
	Estimate   mo.Option[int64]

	// Speed is the rate reported by the tool itself, in bytes per second.
	Speed mo.Option[float64]
}

// Meter turns byte counters into percentages and rates.
type Meter struct {
	lastBytes int64
	lastAt    time.Time
	rate      mo.Option[float64]
}

// NewMeter returns a meter whose first interval starts at now.
func NewMeter(now time.Time) *Meter {
	return &Meter{lastAt: now}
}

// Observe converts s into a downloading Event.
func (m *Meter) Observe(s Sample, now time.Time) Event {
	// a new file (the audio after the video) restarts the counters
	if s.Downloaded < m.lastBytes {
		m.lastBytes = 0
	}

	if speed, ok := s.Speed.Get(); ok && speed >= 0 {
		m.rate = mo.Some(speed)
	} else if dt := now.Sub(m.lastAt).Seconds(); dt > 0 {
		m.rate = mo.Some(float64(s.Downloaded-m.lastBytes) / dt)
	}
	m.lastBytes = s.Downloaded
	m.lastAt = now

	event := Event{
		Phase: PhaseDownloading,
		Rate:  m.rate,
		Time:  now,
	}

	total, ok := s.Total.Get()
	if !ok || total <= 0 {
		total, ok = s.Estimate.Get()
	}

	if ok && total > 0 {
		event.Percent = mo.Some(util.Clamp(float64(s.Downloaded)/float64(total)*100, 0, 100))
		event.Message = fmt.Sprintf("%s / %s", humanize.Bytes(uint64(s.Downloaded)), humanize.Bytes(uint64(total)))
	} else {
		event.Message = humanize.Bytes(uint64(s.Downloaded))
	}

	return event
}
