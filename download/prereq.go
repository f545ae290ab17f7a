package download

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/log"
	"github.com/tubeplay-cli/tubeplay/proc"
)

// ToolProber runs an executable with arguments and returns its first output line.
type ToolProber interface {
	Probe(ctx context.Context, bin string, args ...string) (string, error)
}

// ExecProber probes tools by running them.
type ExecProber struct{}

func (ExecProber) Probe(ctx context.Context, bin string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := proc.Command(ctx, bin, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(strings.TrimSpace(out.String()), "\n")
	return line, nil
}

// Tool is an external executable the download depends on.
type Tool struct {
	Name        string
	Bin         string
	VersionArgs []string
	Remediation func() string
}

// Checker verifies prerequisites before any network activity.
type Checker interface {
	Check(ctx context.Context) error
}

// Prerequisites checks that every tool answers a version probe.
type Prerequisites struct {
	Prober ToolProber
	Tools  []Tool
}

// NewPrerequisites checks for ffmpeg and yt-dlp at the given paths.
func NewPrerequisites(ffmpeg, ytdlp string) *Prerequisites {
	return &Prerequisites{
		Prober: ExecProber{},
		Tools: []Tool{
			{Name: constant.FFmpeg, Bin: ffmpeg, VersionArgs: []string{"-version"}, Remediation: FFmpegRemediation},
			{Name: constant.YtDlp, Bin: ytdlp, VersionArgs: []string{"--version"}, Remediation: YtDlpRemediation},
		},
	}
}

// Check stops at the first missing tool.
func (p *Prerequisites) Check(ctx context.Context) error {
	for _, tool := range p.Tools {
		version, err := p.Prober.Probe(ctx, tool.Bin, tool.VersionArgs...)
		if err != nil {
			if ctx.Err() != nil {
				return newError(KindCanceled, "check "+tool.Name, ctx.Err())
			}
			e := newError(KindPrerequisiteMissing, "check "+tool.Name, fmt.Errorf("%s: %w", tool.Bin, err))
			if tool.Remediation != nil {
				e.Remediation = tool.Remediation()
			}
			return e
		}

		log.Debugf("found %s: %s", tool.Name, version)
	}

	return nil
}

// Report is the probe result of a single tool.
type Report struct {
	Tool    Tool
	Version string
	Err     error
}

// Report probes every tool, without stopping at the first failure.
func (p *Prerequisites) Report(ctx context.Context) []Report {
	reports := make([]Report, 0, len(p.Tools))
	for _, tool := range p.Tools {
		version, err := p.Prober.Probe(ctx, tool.Bin, tool.VersionArgs...)
		reports = append(reports, Report{Tool: tool, Version: version, Err: err})
	}
	return reports
}
