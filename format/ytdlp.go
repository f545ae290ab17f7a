package format

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/proc"
)

// YTDLP lists streams by dumping the yt-dlp info JSON of a single video.
type YTDLP struct {
	Bin string
}

type infoJSON struct {
	Title   string       `json:"title"`
	Formats []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID string `json:"format_id"`
	Height   *int   `json:"height"`
	VCodec   string `json:"vcodec"`
	ACodec   string `json:"acodec"`
}

func (y YTDLP) bin() string {
	if y.Bin == "" {
		return constant.YtDlp
	}
	return y.Bin
}

// Streams runs yt-dlp -J and parses every format it reports.
func (y YTDLP) Streams(ctx context.Context, url string) ([]Stream, error) {
	var stdout, stderr bytes.Buffer

	cmd := proc.Command(ctx, y.bin(), "-J", "--no-warnings", "--no-playlist", url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", y.bin(), err, lastLine(msg))
		}
		return nil, fmt.Errorf("%s: %w", y.bin(), err)
	}

	return ParseInfo(stdout.Bytes())
}

// ParseInfo extracts the formats from a yt-dlp info JSON document.
// Missing codecs stay empty: only an explicit "none" marks a stream as lacking video or audio.
func ParseInfo(data []byte) ([]Stream, error) {
	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("malformed info json: %w", err)
	}

	return lo.Map(info.Formats, func(f formatJSON, _ int) Stream {
		return Stream{
			ID:     f.FormatID,
			Height: mo.PointerToOption(f.Height),
			VCodec: f.VCodec,
			ACodec: f.ACodec,
		}
	}), nil
}

func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	return lines[len(lines)-1]
}
