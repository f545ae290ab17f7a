package audio

import (
	"context"
	"encoding/binary"
	"io"
	"math"
)

const chunkSize = 4096

// Pump copies s16le PCM from src to dst, scaling every sample by volume().
// volume is read once per chunk, so changes apply within a few milliseconds.
func Pump(ctx context.Context, dst io.Writer, src io.Reader, volume func() float64) (int64, error) {
	buf := make([]byte, chunkSize)
	var (
		written int64
		carry   int
	)

	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := src.Read(buf[carry:])
		n += carry

		// only whole samples are scaled and written, a trailing odd byte waits for the next read
		whole := n &^ 1
		if whole > 0 {
			Scale(buf[:whole], volume())
			m, err := dst.Write(buf[:whole])
			written += int64(m)
			if err != nil {
				return written, err
			}
		}

		carry = n - whole
		if carry > 0 {
			buf[0] = buf[whole]
		}

		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}

// Scale multiplies every little endian int16 sample in pcm by v in place.
func Scale(pcm []byte, v float64) {
	if v >= 1 {
		return
	}

	if v <= 0 {
		clear(pcm)
		return
	}

	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(pcm[i:]))
		scaled := math.Round(float64(sample) * v)
		binary.LittleEndian.PutUint16(pcm[i:], uint16(int16(scaled)))
	}
}
