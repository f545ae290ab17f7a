// Package media opens local video files and decodes frames and audio through ffmpeg.
package media

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Info describes an opened media file.
type Info struct {
	Path     string
	Width    int
	Height   int
	FPS      float64
	Duration time.Duration
	HasAudio bool
}

// FrameSize is the byte length of one RGBA frame.
func (i Info) FrameSize() int {
	return i.Width * i.Height * 4
}

// Media is an opened file.
type Media interface {
	Info() Info

	// FrameAt decodes the frame shown at t. Sequential calls are cheap, jumps restart decoding.
	FrameAt(ctx context.Context, t time.Duration) (*Frame, error)

	// Audio returns nil when the file has no audio stream.
	Audio() AudioTrack
	Close() error
}

// Decoder opens media files.
type Decoder interface {
	Open(path string) (Media, error)
}

// PCM format produced by every AudioTrack: signed 16 bit little endian, interleaved stereo.
const (
	SampleRate     = 44100
	Channels       = 2
	BytesPerSample = 2
)

// AudioTrack streams decoded PCM.
type AudioTrack interface {
	// PCM starts decoding at from. Closing the reader stops the decoder.
	PCM(ctx context.Context, from time.Duration) (io.ReadCloser, error)
}

// FrameError reports a frame that could not be decoded.
type FrameError struct {
	At  time.Duration
	Err error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("decode frame at %s: %v", e.At, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
