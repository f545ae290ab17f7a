// Package download drives yt-dlp through prerequisite checks, format resolution,
// a resilient download with a single lower quality fallback, and verification.
package download

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/mo"
	"github.com/tubeplay-cli/tubeplay/filesystem"
	"github.com/tubeplay-cli/tubeplay/format"
	"github.com/tubeplay-cli/tubeplay/log"
)

// State is the position of a Controller in the acquisition state machine.
type State string

const (
	StateIdle                  State = "idle"
	StateCheckingPrerequisites State = "checking prerequisites"
	StateResolvingFormat       State = "resolving format"
	StateDownloading           State = "downloading"
	StateFinalizing            State = "finalizing"
	StateDone                  State = "done"
	StateFailed                State = "failed"
)

// Resolver turns a preference into a selector.
type Resolver interface {
	Resolve(ctx context.Context, url string, pref format.Preference) (format.Selector, error)
}

// Result describes a finished download.
type Result struct {
	Job      *Job
	Path     string
	Size     int64
	Selector format.Selector
	Attempts int
}

// Recorder is told about every successful download.
type Recorder interface {
	Record(Result) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithChecker replaces the prerequisite check.
func WithChecker(checker Checker) Option {
	return func(c *Controller) {
		c.checker = checker
	}
}

// WithRecorder registers a recorder for finished downloads.
func WithRecorder(recorder Recorder) Option {
	return func(c *Controller) {
		c.recorder = recorder
	}
}

// WithClock overrides the time source used for events.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// Controller runs acquisition jobs. A controller runs one job at a time.
type Controller struct {
	resolver Resolver
	fetcher  Fetcher
	handler  ProgressHandler
	checker  Checker
	recorder Recorder
	now      func() time.Time

	mu    sync.Mutex
	state State
}

// NewController wires a controller. A nil handler discards progress.
func NewController(resolver Resolver, fetcher Fetcher, handler ProgressHandler, options ...Option) *Controller {
	c := &Controller{
		resolver: resolver,
		fetcher:  fetcher,
		handler:  handler,
		now:      time.Now,
		state:    StateIdle,
	}

	if c.handler == nil {
		c.handler = discardProgress{}
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	log.Debugf("acquisition state: %s", state)
}

func (c *Controller) emit(phase Phase, msg string, args ...any) {
	c.handler.OnProgress(Event{
		Phase:   phase,
		Message: fmt.Sprintf(msg, args...),
		Time:    c.now(),
	})
}

type outcomeKind int

const (
	success outcomeKind = iota
	retryable
	fatal
)

type outcome struct {
	kind   outcomeKind
	result Result
	err    *Error
}

// Acquire downloads job and returns the path of the verified file.
// Every returned error is an *Error.
func (c *Controller) Acquire(ctx context.Context, job *Job) (string, error) {
	c.setState(StateCheckingPrerequisites)
	c.emit(PhaseDiscovering, "checking prerequisites")

	if c.checker != nil {
		if err := c.checker.Check(ctx); err != nil {
			return "", c.fail(asError(KindPrerequisiteMissing, "check prerequisites", err))
		}
	}

	c.setState(StateResolvingFormat)
	if job.Selector == "" {
		job.Selector = c.resolve(ctx, job)
	}

	if err := ctx.Err(); err != nil {
		return "", c.fail(newError(KindCanceled, "resolve format", err))
	}

	if err := filesystem.API().MkdirAll(job.Dir, 0o755); err != nil {
		return "", c.fail(newError(KindFileVerification, "create "+job.Dir, err))
	}

	selectors := []format.Selector{job.Selector, format.Capped(job.Policy.FallbackHeight)}

	var last outcome
	for i, selector := range selectors {
		if i > 0 {
			log.Warnf("download of %s failed, retrying once with %s: %v", job.URL, selector, last.err)
			c.emit(PhaseDownloading, "falling back to %s", selector)
		}

		job.Selector = selector
		last = c.attempt(ctx, job, selector)
		last.result.Attempts = i + 1

		if last.kind != retryable {
			break
		}
	}

	if last.kind != success {
		return "", c.fail(last.err)
	}

	result := last.result
	c.setState(StateDone)
	c.handler.OnProgress(Event{
		Phase:   PhaseDone,
		Percent: mo.Some(100.0),
		Message: fmt.Sprintf("%s (%s)", result.Path, humanize.Bytes(uint64(result.Size))),
		Time:    c.now(),
	})
	log.Infof("downloaded %s to %s (%d bytes, %d attempts)", job.URL, result.Path, result.Size, result.Attempts)

	if c.recorder != nil {
		if err := c.recorder.Record(result); err != nil {
			log.Warnf("record download: %v", err)
		}
	}

	return result.Path, nil
}

func (c *Controller) resolve(ctx context.Context, job *Job) format.Selector {
	if job.Preference.IsAutomatic() || c.resolver == nil {
		return format.Automatic
	}

	c.emit(PhaseDiscovering, "looking up %s streams", job.Preference)
	selector, err := c.resolver.Resolve(ctx, job.URL, job.Preference)
	if err != nil {
		log.Warnf("falling back to %s: %v", format.Automatic, err)
		c.emit(PhaseDiscovering, "format lookup failed, using %s", format.Automatic)
		return format.Automatic
	}

	return selector
}

func (c *Controller) attempt(ctx context.Context, job *Job, selector format.Selector) outcome {
	c.setState(StateDownloading)
	c.emit(PhaseDownloading, "downloading %s", selector)

	meter := NewMeter(c.now())
	path, err := c.fetcher.Fetch(ctx, job.request(selector), func(s Sample) {
		c.handler.OnProgress(meter.Observe(s, c.now()))
	})
	if err != nil {
		e := asError(KindNetwork, "download", err)
		if ctx.Err() != nil {
			e = newError(KindCanceled, "download", ctx.Err())
		}
		if e.Kind.Retryable() {
			return outcome{kind: retryable, err: e}
		}
		return outcome{kind: fatal, err: e}
	}

	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(job.Dir, path)
	}

	c.setState(StateFinalizing)
	c.emit(PhaseFinalizing, "verifying %s", path)

	size, err := verify(path)
	if err != nil {
		// a missing or empty file still earns the single fallback
		return outcome{kind: retryable, err: newError(KindFileVerification, "verify", err)}
	}

	return outcome{
		kind: success,
		result: Result{
			Job:      job,
			Path:     path,
			Size:     size,
			Selector: selector,
		},
	}
}

func verify(path string) (int64, error) {
	if path == "" {
		return 0, errors.New("yt-dlp reported no output file")
	}

	size, err := filesystem.Size(path)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		return 0, fmt.Errorf("%s is empty", path)
	}

	return size, nil
}

func (c *Controller) fail(err *Error) error {
	c.setState(StateFailed)
	c.handler.OnProgress(Event{
		Phase:   PhaseError,
		Message: err.Error(),
		Time:    c.now(),
	})
	log.Error(err)
	return err
}
