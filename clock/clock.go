// Package clock schedules frames on a looping timeline derived from the media frame rate.
package clock

import (
	"math"
	"sync"
	"time"
)

// DefaultFPS is used when the media reports no usable frame rate.
const DefaultFPS = 30.0

// epsilon absorbs floating point noise in duration*fps, so 10s at 30fps is 300 frames, not 301.
const epsilon = 1e-6

// Clock maps frame indices onto media time and wraps at the end of the media.
// It is safe for concurrent use.
type Clock struct {
	fps      float64
	interval time.Duration
	duration time.Duration
	frames   int

	mu    sync.Mutex
	index int
	cycle int
}

// New returns a clock at time zero.
func New(fps float64, duration time.Duration) *Clock {
	return NewWithDefault(fps, duration, DefaultFPS)
}

// NewWithDefault is New with a custom fallback frame rate.
func NewWithDefault(fps float64, duration time.Duration, fallback float64) *Clock {
	if !usable(fallback) {
		fallback = DefaultFPS
	}
	if !usable(fps) {
		fps = fallback
	}

	if duration < 0 {
		duration = 0
	}

	return &Clock{
		fps:      fps,
		interval: time.Duration(float64(time.Second) / fps),
		duration: duration,
		frames:   framesPerCycle(fps, duration),
	}
}

func usable(fps float64) bool {
	return fps > 0 && !math.IsNaN(fps) && !math.IsInf(fps, 0)
}

func framesPerCycle(fps float64, duration time.Duration) int {
	if duration <= 0 {
		return 1
	}
	n := int(math.Ceil(duration.Seconds()*fps - epsilon))
	return max(n, 1)
}

// FPS returns the effective frame rate.
func (c *Clock) FPS() float64 {
	return c.fps
}

// Interval returns the wall clock spacing between frames.
func (c *Clock) Interval() time.Duration {
	return c.interval
}

// Duration returns the length of one cycle.
func (c *Clock) Duration() time.Duration {
	return c.duration
}

// FramesPerCycle is ceil(duration * fps).
func (c *Clock) FramesPerCycle() int {
	return c.frames
}

// Current returns the media time of the current frame.
func (c *Clock) Current() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at(c.index)
}

// Index returns the current frame index within the cycle.
func (c *Clock) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Cycle returns how many times the clock wrapped.
func (c *Clock) Cycle() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cycle
}

// at computes the time from the index instead of accumulating intervals, so there is no drift.
func (c *Clock) at(index int) time.Duration {
	return time.Duration(float64(index) * float64(time.Second) / c.fps)
}

// Advance moves to the next frame and reports whether the clock wrapped to zero.
func (c *Clock) Advance() (wrapped bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index++
	if c.index >= c.frames {
		c.index = 0
		c.cycle++
		return true
	}
	return false
}

// Seek moves to the frame at t, clamped to [0, duration).
func (c *Clock) Seek(t time.Duration) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := int(math.Floor(t.Seconds()*c.fps + epsilon))
	c.index = min(max(index, 0), c.frames-1)
	return c.at(c.index)
}

// Pace returns how long to sleep after a frame that took elapsed to process.
func (c *Clock) Pace(elapsed time.Duration) time.Duration {
	return max(c.interval-elapsed, 0)
}
