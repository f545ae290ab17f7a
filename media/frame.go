package media

import (
	"image"
	"time"
)

// Frame is a decoded RGBA picture. Frames handed to consumers are shared,
// so anything kept past the callback must be copied with Clone.
type Frame struct {
	Width     int
	Height    int
	Timestamp time.Duration
	Pix       []byte
}

// Stride is the number of bytes per row.
func (f *Frame) Stride() int {
	return f.Width * 4
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	clone := *f
	clone.Pix = append([]byte(nil), f.Pix...)
	return &clone
}

// Image copies the frame into an image.RGBA.
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Pix)
	return img
}
