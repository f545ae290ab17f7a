package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tubeplay-cli/tubeplay/proc"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration,omitempty"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

// Probe runs ffprobe on path.
func Probe(ctx context.Context, ffprobe, path string) (Info, error) {
	var stdout, stderr bytes.Buffer

	cmd := proc.Command(ctx, ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"-i", path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Info{}, fmt.Errorf("probe %q: %w: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	info, err := ParseProbe(stdout.Bytes())
	if err != nil {
		return Info{}, fmt.Errorf("probe %q: %w", path, err)
	}
	info.Path = path

	return info, nil
}

// ParseProbe reads the ffprobe JSON of a file with at least one video stream.
func ParseProbe(data []byte) (Info, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Info{}, fmt.Errorf("decode probe result: %w", err)
	}

	video, ok := lo.Find(out.Streams, func(s probeStream) bool {
		return s.CodecType == "video"
	})
	if !ok {
		return Info{}, errors.New("no video stream")
	}
	if video.Width <= 0 || video.Height <= 0 {
		return Info{}, fmt.Errorf("invalid video size %dx%d", video.Width, video.Height)
	}

	fps := ParseRate(video.AvgFrameRate)
	if fps <= 0 {
		fps = ParseRate(video.RFrameRate)
	}

	// the container duration also spans a longer audio track
	duration := parseSeconds(video.Duration)
	if duration <= 0 {
		duration = parseSeconds(out.Format.Duration)
	}

	return Info{
		Width:    video.Width,
		Height:   video.Height,
		FPS:      fps,
		Duration: duration,
		HasAudio: lo.ContainsBy(out.Streams, func(s probeStream) bool {
			return s.CodecType == "audio"
		}),
	}, nil
}

// ParseRate parses ffprobe rates such as "30000/1001" or "25". Unknown rates are 0.
func ParseRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}

	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseSeconds(s string) time.Duration {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return time.Duration(f * float64(time.Second))
}
