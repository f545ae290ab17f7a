package clock

import (
	"context"
	"time"

	"github.com/tubeplay-cli/tubeplay/media"
)

// Source decodes the frame at a media time.
type Source interface {
	FrameAt(ctx context.Context, t time.Duration) (*media.Frame, error)
}

// Sequence is an endless, restartable sequence of frames timed by a Clock.
type Sequence struct {
	clock   *Clock
	source  Source
	started bool
}

// NewSequence starts at the current clock position.
func NewSequence(clock *Clock, source Source) *Sequence {
	return &Sequence{clock: clock, source: source}
}

// Clock returns the clock driving the sequence.
func (s *Sequence) Clock() *Clock {
	return s.clock
}

// Next returns the next frame. wrapped is true when the frame starts a new cycle at time zero.
func (s *Sequence) Next(ctx context.Context) (frame *media.Frame, wrapped bool, err error) {
	if s.started {
		wrapped = s.clock.Advance()
	}
	s.started = true

	at := s.clock.Current()
	frame, err = s.source.FrameAt(ctx, at)
	if err != nil {
		return nil, wrapped, err
	}

	return frame, wrapped, nil
}

// Reset makes the next call return the frame at the current clock position again.
func (s *Sequence) Reset() {
	s.started = false
}
