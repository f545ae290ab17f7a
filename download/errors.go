package download

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/tubeplay-cli/tubeplay/constant"
)

// Kind classifies an acquisition failure.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindFragment
	KindPrerequisiteMissing
	KindResolution
	KindFileVerification
	KindCanceled
)

// Sentinels for errors.Is checks against *Error.
var (
	ErrNetwork             = errors.New("network error")
	ErrFragment            = errors.New("fragment error")
	ErrPrerequisiteMissing = errors.New("prerequisite missing")
	ErrResolution          = errors.New("format resolution failed")
	ErrFileVerification    = errors.New("file verification failed")
	ErrCanceled            = errors.New("download canceled")
)

var sentinels = map[Kind]error{
	KindNetwork:             ErrNetwork,
	KindFragment:            ErrFragment,
	KindPrerequisiteMissing: ErrPrerequisiteMissing,
	KindResolution:          ErrResolution,
	KindFileVerification:    ErrFileVerification,
	KindCanceled:            ErrCanceled,
}

func (k Kind) String() string {
	if err, ok := sentinels[k]; ok {
		return err.Error()
	}
	return "unknown error"
}

// Retryable reports whether a failure of this kind may be followed by the fallback attempt.
func (k Kind) Retryable() bool {
	return k == KindNetwork || k == KindFragment
}

// Error is the only error type returned by Controller.Acquire.
type Error struct {
	Kind Kind
	Op   string
	Err  error

	// Remediation is user facing text describing how to fix the problem, if known.
	Remediation string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func asError(kind Kind, op string, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return newError(kind, op, err)
}

// FFmpegRemediation explains how to install ffmpeg on the current platform.
func FFmpegRemediation() string {
	return ffmpegRemediation(runtime.GOOS)
}

func ffmpegRemediation(goos string) string {
	switch goos {
	case constant.Windows:
		return fmt.Sprintf(`ffmpeg was not found. To install it:
1. Open %s
2. Download ffmpeg-master-latest-win64-gpl.zip
3. Extract the archive
4. Add the extracted ffmpeg-master-latest-win64-gpl\bin directory to the PATH environment variable
5. Restart %s`, constant.FFmpegBuildsURL, constant.Tubeplay)
	case constant.Darwin:
		return "ffmpeg was not found. Install it with:\n  brew install ffmpeg"
	case constant.Android:
		return "ffmpeg was not found. Install it with:\n  pkg install ffmpeg"
	default:
		return "ffmpeg was not found. Install it with your package manager, for example:\n  sudo apt install ffmpeg\n  sudo dnf install ffmpeg\n  sudo pacman -S ffmpeg"
	}
}

// YtDlpRemediation explains how to install yt-dlp.
func YtDlpRemediation() string {
	return fmt.Sprintf("yt-dlp was not found. Install it with:\n  pip install -U yt-dlp\nor download a release binary from %s and put it on PATH", constant.YtDlpReleasesURL)
}
