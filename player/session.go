// Package player runs a playback session: a frame loop paced by the media clock
// and an audio renderer running alongside it, both stoppable at any moment.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/mo"
	"github.com/tubeplay-cli/tubeplay/clock"
	"github.com/tubeplay-cli/tubeplay/log"
	"github.com/tubeplay-cli/tubeplay/media"
)

// ErrNotLoaded is returned by Start before a successful Load.
var ErrNotLoaded = errors.New("no media loaded")

// LoadError is returned when a file cannot be opened for playback.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// AudioRenderer plays audio tracks on its own goroutine.
type AudioRenderer interface {
	Start(track media.AudioTrack, from time.Duration)
	Stop()
	Wait(timeout time.Duration) bool
	SetVolume(v float64)
}

// Option configures a Session.
type Option func(*Session)

// WithVolumePolicy sets how out of range volumes are treated.
func WithVolumePolicy(policy VolumePolicy) Option {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithAudioJoinTimeout bounds how long Stop waits for the audio renderer.
func WithAudioJoinTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		s.joinTimeout = timeout
	}
}

// WithDefaultFPS sets the frame rate for media that reports none.
func WithDefaultFPS(fps float64) Option {
	return func(s *Session) {
		s.defaultFPS = fps
	}
}

// Session owns one loaded media file and its playback.
type Session struct {
	decoder     media.Decoder
	renderer    AudioRenderer
	handler     Handler
	policy      VolumePolicy
	joinTimeout time.Duration
	defaultFPS  float64

	// sleep waits for d or until stop is closed, reporting whether it slept the full time.
	sleep func(d time.Duration, stop <-chan struct{}) bool

	// mu guards the fields below. Frames are delivered while holding it.
	mu      sync.Mutex
	path    string
	media   media.Media
	track   media.AudioTrack
	clock   *clock.Clock
	seq     *clock.Sequence
	seek    mo.Option[time.Duration]
	running bool
	volume  float64
	halt    func()
	done    chan struct{}
}

// NewSession returns an idle session. renderer may be nil when no audio output is available.
func NewSession(decoder media.Decoder, renderer AudioRenderer, handler Handler, options ...Option) *Session {
	s := &Session{
		decoder:     decoder,
		renderer:    renderer,
		handler:     handler,
		policy:      VolumeClamp,
		joinTimeout: time.Second,
		defaultFPS:  clock.DefaultFPS,
		sleep:       sleep,
		volume:      1,
	}

	if s.handler == nil {
		s.handler = HandlerFuncs{}
	}

	for _, option := range options {
		option(s)
	}

	if s.renderer != nil {
		s.renderer.SetVolume(s.volume)
	}

	return s
}

func sleep(d time.Duration, stop <-chan struct{}) bool {
	if d <= 0 {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-stop:
		return false
	}
}

// Load stops any playback, releases the previous media and opens path at position zero.
func (s *Session) Load(path string) error {
	s.Stop()

	m, err := s.decoder.Open(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	info := m.Info()
	clk := clock.NewWithDefault(info.FPS, info.Duration, s.defaultFPS)

	s.mu.Lock()
	s.path = path
	s.media = m
	s.track = m.Audio()
	s.clock = clk
	s.seq = clock.NewSequence(clk, m)
	s.seek = mo.None[time.Duration]()
	s.mu.Unlock()

	log.WithFields(map[string]any{
		"path":     path,
		"fps":      clk.FPS(),
		"frames":   clk.FramesPerCycle(),
		"duration": info.Duration,
		"audio":    s.track != nil,
	}).Info("loaded media")

	return nil
}

// Start begins playback. Starting a running session does nothing.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.media == nil {
		return ErrNotLoaded
	}

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan struct{})

	s.running = true
	s.done = make(chan struct{})
	s.halt = sync.OnceFunc(func() {
		close(stop)
		cancel()
	})

	if s.track != nil && s.renderer != nil {
		s.renderer.Start(s.track, s.clock.Current())
	}

	go s.loop(ctx, stop, s.done, s.seq, s.clock)

	return nil
}

func (s *Session) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}, seq *clock.Sequence, clk *clock.Clock) {
	defer close(done)

	for {
		begin := time.Now()

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		if t, ok := s.seek.Get(); ok {
			s.seek = mo.None[time.Duration]()
			clk.Seek(t)
			seq.Reset()
			s.startAudio(clk.Current())
		}
		s.mu.Unlock()

		frame, wrapped, err := seq.Next(ctx)

		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}

		if err != nil {
			s.running = false
			path := s.path
			s.mu.Unlock()

			log.Errorf("playback of %s stopped: %v", path, err)
			s.handler.OnError(err)
			s.release()
			return
		}

		if wrapped {
			log.Debugf("cycle %d of %s", clk.Cycle(), s.path)
			s.startAudio(0)
		}

		s.handler.OnFrame(frame)
		s.mu.Unlock()

		if !s.sleep(clk.Pace(time.Since(begin)), stop) {
			return
		}
	}
}

// startAudio must be called with s.mu held.
func (s *Session) startAudio(from time.Duration) {
	if s.track != nil && s.renderer != nil {
		s.renderer.Start(s.track, from)
	}
}

// Stop ends playback and releases the media. It returns after the playback
// goroutine exited and the audio renderer joined or timed out.
// It must not be called from Handler.OnFrame.
func (s *Session) Stop() {
	s.mu.Lock()
	s.running = false
	halt, done := s.halt, s.done
	s.mu.Unlock()

	if halt != nil {
		halt()
	}

	s.release()

	if done != nil {
		<-done
	}
}

// release frees the media and the audio. Every step runs even if an earlier one fails.
func (s *Session) release() {
	s.mu.Lock()
	m, hadAudio := s.media, s.track != nil
	s.media = nil
	s.track = nil
	s.mu.Unlock()

	if hadAudio && s.renderer != nil {
		guard("stop audio", func() error {
			s.renderer.Stop()
			if !s.renderer.Wait(s.joinTimeout) {
				return fmt.Errorf("audio did not stop within %s", s.joinTimeout)
			}
			return nil
		})
	}

	if m != nil {
		guard("close media", m.Close)
	}
}

func guard(step string, f func() error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s: panic: %v", step, r)
		}
	}()

	if err := f(); err != nil {
		log.Warnf("%s: %v", step, err)
	}
}

// Wait returns a channel closed when the playback goroutine exits,
// either by Stop or by an error.
func (s *Session) Wait() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return s.done
}

// SetVolume sets the volume as a percentage, applying the volume policy.
func (s *Session) SetVolume(percent int) error {
	v, err := s.policy.Apply(percent)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()

	if s.renderer != nil {
		s.renderer.SetVolume(v)
	}
	return nil
}

// Seek moves playback to t. A running session restarts its audio there.
func (s *Session) Seek(t time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clock == nil || s.media == nil {
		return ErrNotLoaded
	}

	if s.running {
		s.seek = mo.Some(t)
		return nil
	}

	s.clock.Seek(t)
	s.seq.Reset()
	return nil
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		Path:     s.path,
		Volume:   s.volume,
		Running:  s.running,
		HasAudio: s.track != nil,
	}

	if s.clock != nil {
		state.FPS = s.clock.FPS()
		state.Duration = s.clock.Duration()
		state.Position = s.clock.Current()
		state.Cycle = s.clock.Cycle()
	}

	return state
}
