package player

import (
	"fmt"
	"time"
)

// State is a consistent snapshot of a Session.
type State struct {
	Path     string
	FPS      float64
	Duration time.Duration
	Position time.Duration
	Volume   float64
	Running  bool
	HasAudio bool
	Cycle    int
}

func (s State) String() string {
	status := "stopped"
	if s.Running {
		status = "playing"
	}

	return fmt.Sprintf("%s %s / %s (cycle %d, %.0f%% volume)",
		status,
		s.Position.Truncate(time.Millisecond),
		s.Duration.Truncate(time.Millisecond),
		s.Cycle,
		s.Volume*100,
	)
}
