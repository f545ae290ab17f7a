// Package audio plays decoded audio tracks in real time on their own goroutine.
package audio

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tubeplay-cli/tubeplay/log"
	"github.com/tubeplay-cli/tubeplay/media"
	"github.com/tubeplay-cli/tubeplay/util"
)

// Sink is an audio output accepting s16le stereo PCM at media.SampleRate.
// Writes block at playback speed.
type Sink interface {
	Open(ctx context.Context) (io.WriteCloser, error)
}

// Renderer plays one track at a time. Starting a new track stops the previous one.
type Renderer struct {
	sink   Sink
	volume atomic.Uint64

	mu      sync.Mutex
	cancel  context.CancelFunc
	starts  int
	running int

	// active counts every render goroutine, including replaced ones still winding down.
	active sync.WaitGroup
}

// NewRenderer returns a renderer at full volume.
func NewRenderer(sink Sink) *Renderer {
	r := &Renderer{sink: sink}
	r.SetVolume(1)
	return r
}

// SetVolume sets the volume in [0, 1]. It applies to the playing track immediately.
func (r *Renderer) SetVolume(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	r.volume.Store(math.Float64bits(util.Clamp(v, 0, 1)))
}

// Volume returns the current volume.
func (r *Renderer) Volume() float64 {
	return math.Float64frombits(r.volume.Load())
}

// Starts returns how many times a track was started.
func (r *Renderer) Starts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts
}

// Start plays track from the given offset on a new goroutine.
func (r *Renderer) Start(track media.AudioTrack, from time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.starts++
	r.running++
	r.active.Add(1)

	go func() {
		defer r.finished()
		defer cancel()

		if err := r.render(ctx, track, from); err != nil && ctx.Err() == nil {
			log.Warnf("audio from %s: %v", from, err)
		}
	}()
}

func (r *Renderer) finished() {
	r.mu.Lock()
	r.running--
	r.mu.Unlock()
	r.active.Done()
}

func (r *Renderer) render(ctx context.Context, track media.AudioTrack, from time.Duration) error {
	pcm, err := track.PCM(ctx, from)
	if err != nil {
		return err
	}
	defer util.Ignore(pcm.Close)

	out, err := r.sink.Open(ctx)
	if err != nil {
		return err
	}

	_, err = Pump(ctx, out, pcm, r.Volume)
	return errors.Join(err, out.Close())
}

// Stop cancels the playing track, if any. It does not wait.
func (r *Renderer) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Wait blocks until every started track finished or timeout passed.
// It reports whether they all finished.
func (r *Renderer) Wait(timeout time.Duration) bool {
	r.mu.Lock()
	running := r.running
	r.mu.Unlock()

	if running == 0 {
		return true
	}

	done := make(chan struct{})
	go func() {
		r.active.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
