package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/log"
	"github.com/tubeplay-cli/tubeplay/proc"
)

var errClosed = errors.New("media closed")

// FFmpeg decodes with the ffmpeg and ffprobe executables.
type FFmpeg struct {
	FFmpegBin  string
	FFprobeBin string

	// DefaultFPS is used for decoding when the file reports no frame rate.
	DefaultFPS float64
}

func (f FFmpeg) ffmpeg() string {
	if f.FFmpegBin == "" {
		return constant.FFmpeg
	}
	return f.FFmpegBin
}

func (f FFmpeg) ffprobe() string {
	if f.FFprobeBin == "" {
		return constant.FFprobe
	}
	return f.FFprobeBin
}

// Open probes path and prepares lazy frame decoding.
func (f FFmpeg) Open(path string) (Media, error) {
	ctx, cancel := context.WithCancel(context.Background())

	info, err := Probe(ctx, f.ffprobe(), path)
	if err != nil {
		cancel()
		return nil, err
	}

	m := &ffmpegMedia{
		bin:    f.ffmpeg(),
		info:   info,
		fps:    info.FPS,
		ctx:    ctx,
		cancel: cancel,
	}
	if m.fps <= 0 {
		m.fps = f.DefaultFPS
		if m.fps <= 0 {
			m.fps = 30
		}
	}

	log.Infof("opened %s: %dx%d %.3ffps %s audio=%t", path, info.Width, info.Height, info.FPS, info.Duration, info.HasAudio)
	return m, nil
}

type ffmpegMedia struct {
	bin  string
	info Info
	fps  float64

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	stream *frameStream
	next   int
	closed bool

	// last is the newest decoded frame. Once the decoder ran dry, ended is set and
	// sequential requests repeat last until the clock wraps or seeks.
	last  *Frame
	ended bool
}

func (m *ffmpegMedia) Info() Info {
	return m.info
}

func (m *ffmpegMedia) index(t time.Duration) int {
	return int(math.Round(t.Seconds() * m.fps))
}

func (m *ffmpegMedia) FrameAt(ctx context.Context, t time.Duration) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FrameError{At: t, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, &FrameError{At: t, Err: errClosed}
	}

	index := m.index(t)
	if m.ended && index == m.next {
		m.next++
		return m.hold(t), nil
	}

	if m.stream == nil || index != m.next {
		if m.stream != nil {
			log.Debugf("restarting decoder at %s (expected frame %d, got %d)", t, m.next, index)
			m.dropStream()
		}

		stream, err := m.startStream(t)
		if err != nil {
			return nil, &FrameError{At: t, Err: err}
		}
		m.stream = stream
		m.next = index
		m.ended = false
	}

	// a canceled caller must not wait for ffmpeg to produce the next frame
	stream := m.stream
	stop := context.AfterFunc(ctx, func() { _ = proc.Kill(stream.cmd) })

	pix := make([]byte, m.info.FrameSize())
	_, err := io.ReadFull(stream.out, pix)
	killed := !stop()

	switch {
	case m.ctx.Err() != nil:
		m.dropStream()
		return nil, &FrameError{At: t, Err: errClosed}
	case ctx.Err() != nil:
		m.dropStream()
		return nil, &FrameError{At: t, Err: ctx.Err()}
	case err != nil:
		m.dropStream()
		if (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) && m.last != nil {
			log.Debugf("video ended before %s, holding the last frame", t)
			m.ended = true
			m.next = index + 1
			return m.hold(t), nil
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("stream ended: %w", err)
		}
		return nil, &FrameError{At: t, Err: err}
	case killed:
		m.dropStream()
	}
	m.next++

	m.last = &Frame{
		Width:     m.info.Width,
		Height:    m.info.Height,
		Timestamp: t,
		Pix:       pix,
	}
	return m.last, nil
}

// hold repeats the last decoded picture at t.
func (m *ffmpegMedia) hold(t time.Duration) *Frame {
	frame := *m.last
	frame.Timestamp = t
	return &frame
}

func (m *ffmpegMedia) dropStream() {
	if m.stream != nil {
		_ = m.stream.close()
		m.stream = nil
	}
}

func (m *ffmpegMedia) startStream(from time.Duration) (*frameStream, error) {
	cmd := proc.Command(m.ctx, m.bin,
		"-v", "error",
		"-nostdin",
		"-ss", seconds(from),
		"-i", m.info.Path,
		"-an",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-r", strconv.FormatFloat(m.fps, 'f', -1, 64),
		"pipe:1",
	)
	return startPipe(cmd)
}

func (m *ffmpegMedia) Audio() AudioTrack {
	if !m.info.HasAudio {
		return nil
	}
	return &ffmpegAudio{bin: m.bin, path: m.info.Path}
}

// Close kills the decoder first, so a FrameAt blocked on it returns and frees the lock.
func (m *ffmpegMedia) Close() error {
	m.cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var err error
	if m.stream != nil {
		err = m.stream.close()
		m.stream = nil
	}

	return err
}

type ffmpegAudio struct {
	bin  string
	path string
}

func (a *ffmpegAudio) PCM(ctx context.Context, from time.Duration) (io.ReadCloser, error) {
	cmd := proc.Command(ctx, a.bin,
		"-v", "error",
		"-nostdin",
		"-ss", seconds(from),
		"-i", a.path,
		"-vn",
		"-f", "s16le",
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"pipe:1",
	)
	return startPipe(cmd)
}

// frameStream is the stdout of a running ffmpeg process.
type frameStream struct {
	cmd  *exec.Cmd
	pipe io.ReadCloser
	out  *bufio.Reader
	once sync.Once
}

func startPipe(cmd *exec.Cmd) (*frameStream, error) {
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	return &frameStream{
		cmd:  cmd,
		pipe: pipe,
		out:  bufio.NewReaderSize(pipe, 1<<20),
	}, nil
}

func (s *frameStream) Read(p []byte) (int, error) {
	return s.out.Read(p)
}

// close kills the process and reaps it. A killed process is not an error.
func (s *frameStream) close() error {
	var err error
	s.once.Do(func() {
		_ = proc.Kill(s.cmd)
		_ = s.pipe.Close()
		if waitErr := s.cmd.Wait(); waitErr != nil {
			var exitErr *exec.ExitError
			if !errors.As(waitErr, &exitErr) {
				err = waitErr
			}
		}
	})
	return err
}

func (s *frameStream) Close() error {
	return s.close()
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
