package download

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/mo"
	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/format"
	"github.com/tubeplay-cli/tubeplay/log"
	"github.com/tubeplay-cli/tubeplay/proc"
)

const (
	progressPrefix   = "tubeplay-progress"
	progressTemplate = "download:" + progressPrefix +
		" %(progress.downloaded_bytes)s %(progress.total_bytes)s %(progress.total_bytes_estimate)s %(progress.speed)s"
	stderrLines = 64
)

// Request is a single attempt of a job.
type Request struct {
	URL      string
	Dir      string
	Template string
	Selector format.Selector
	Policy   Policy
}

func (j *Job) request(selector format.Selector) Request {
	return Request{
		URL:      j.URL,
		Dir:      j.Dir,
		Template: j.OutputTemplate,
		Selector: selector,
		Policy:   j.Policy,
	}
}

// Fetcher downloads one attempt and returns the path of the finished file.
// Failures should be *Error values with a classified Kind.
type Fetcher interface {
	Fetch(ctx context.Context, req Request, progress func(Sample)) (string, error)
}

// YTDLP fetches through the yt-dlp executable.
type YTDLP struct {
	Bin string
}

func (y YTDLP) bin() string {
	if y.Bin == "" {
		return constant.YtDlp
	}
	return y.Bin
}

// Args builds the yt-dlp command line for req.
func Args(req Request) []string {
	p := req.Policy
	args := []string{
		"--format", req.Selector.String(),
		"--paths", req.Dir,
		"--output", req.Template,
		"--no-playlist",
		"--retries", strconv.Itoa(p.Retries),
		"--fragment-retries", strconv.Itoa(p.FragmentRetries),
		"--extractor-retries", strconv.Itoa(p.ExtractorRetries),
		"--file-access-retries", strconv.Itoa(p.FileAccessRetries),
		"--socket-timeout", strconv.Itoa(int(p.SocketTimeout.Seconds())),
	}

	if p.SkipUnavailableFragments {
		args = append(args, "--skip-unavailable-fragments")
	} else {
		args = append(args, "--abort-on-unavailable-fragments")
	}

	if p.UseFFmpegDownloader {
		args = append(args,
			"--downloader", "ffmpeg",
			"--downloader-args", fmt.Sprintf(
				"ffmpeg:-reconnect 1 -reconnect_streamed 1 -reconnect_delay_max %d",
				int(p.ReconnectDelayMax.Seconds()),
			),
		)
	}

	if p.Container != "" {
		args = append(args,
			"--merge-output-format", p.Container,
			"--remux-video", p.Container,
		)
	}

	args = append(args,
		"--newline",
		"--progress",
		"--progress-template", progressTemplate,
		"--print", "after_move:filepath",
		"--no-simulate",
		"--",
		req.URL,
	)

	return args
}

// Fetch runs yt-dlp and parses its progress lines while it runs.
func (y YTDLP) Fetch(ctx context.Context, req Request, progress func(Sample)) (string, error) {
	cmd := proc.Command(ctx, y.bin(), Args(req)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", newError(KindNetwork, "yt-dlp stdout", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", newError(KindNetwork, "yt-dlp stderr", err)
	}

	log.WithFields(map[string]any{
		"url":      req.URL,
		"selector": req.Selector,
	}).Info("starting yt-dlp")

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			e := newError(KindPrerequisiteMissing, "start yt-dlp", err)
			e.Remediation = YtDlpRemediation()
			return "", e
		}
		return "", newError(KindNetwork, "start yt-dlp", err)
	}

	var (
		mu   sync.Mutex
		path string
		tail = newRing(stderrLines)
		wg   sync.WaitGroup
	)

	onProgress := func(line string) bool {
		sample, ok := ParseProgress(line)
		if ok && progress != nil {
			mu.Lock()
			progress(sample)
			mu.Unlock()
		}
		return ok
	}

	scan := func(r io.Reader, other func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || onProgress(line) {
				continue
			}
			mu.Lock()
			other(line)
			mu.Unlock()
		}
	}

	wg.Add(2)
	go scan(stdout, func(line string) { path = line })
	go scan(stderr, func(line string) {
		log.Debug("yt-dlp: ", line)
		tail.push(line)
	})
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return "", newError(KindCanceled, "yt-dlp", ctx.Err())
		}

		lines := tail.lines()
		e := newError(classify(lines), "yt-dlp", fmt.Errorf("%w: %s", err, summary(lines)))
		if e.Kind == KindPrerequisiteMissing {
			e.Remediation = FFmpegRemediation()
		}
		return "", e
	}

	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(req.Dir, path)
	}

	return path, nil
}

// ParseProgress parses a line printed by the progress template.
// yt-dlp prints NA for values it does not know.
func ParseProgress(line string) (Sample, bool) {
	fields := strings.Fields(line)
	if len(fields) != 5 || fields[0] != progressPrefix {
		return Sample{}, false
	}

	downloaded, ok := parseNumber(fields[1]).Get()
	if !ok {
		return Sample{}, false
	}

	return Sample{
		Downloaded: int64(downloaded),
		Total:      toInt64(parseNumber(fields[2])),
		Estimate:   toInt64(parseNumber(fields[3])),
		Speed:      parseNumber(fields[4]),
	}, true
}

func parseNumber(s string) mo.Option[float64] {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return mo.None[float64]()
	}
	return mo.Some(v)
}

func toInt64(o mo.Option[float64]) mo.Option[int64] {
	if v, ok := o.Get(); ok {
		return mo.Some(int64(v))
	}
	return mo.None[int64]()
}

// classify maps the stderr tail of a failed run onto an error kind.
func classify(lines []string) Kind {
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "ffmpeg is not installed") {
			return KindPrerequisiteMissing
		}
	}
	for _, line := range lines {
		if strings.Contains(strings.ToLower(line), "fragment") {
			return KindFragment
		}
	}
	return KindNetwork
}

// summary prefers the last ERROR line yt-dlp printed.
func summary(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "ERROR:") {
			return strings.TrimSpace(strings.TrimPrefix(lines[i], "ERROR:"))
		}
	}
	if len(lines) > 0 {
		return lines[len(lines)-1]
	}
	return "no output"
}

// ring keeps the last n lines.
type ring struct {
	buf  []string
	next int
	full bool
}

func newRing(n int) *ring {
	return &ring{buf: make([]string, n)}
}

func (r *ring) push(line string) {
	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

func (r *ring) lines() []string {
	if !r.full {
		return append([]string(nil), r.buf[:r.next]...)
	}
	return append(append([]string(nil), r.buf[r.next:]...), r.buf[:r.next]...)
}
