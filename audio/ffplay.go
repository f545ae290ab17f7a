package audio

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"strconv"

	"github.com/tubeplay-cli/tubeplay/constant"
	"github.com/tubeplay-cli/tubeplay/media"
	"github.com/tubeplay-cli/tubeplay/proc"
)

// FFplay plays PCM through a headless ffplay process reading stdin.
type FFplay struct {
	Bin string
}

func (f FFplay) bin() string {
	if f.Bin == "" {
		return constant.FFplay
	}
	return f.Bin
}

func (f FFplay) Open(ctx context.Context) (io.WriteCloser, error) {
	cmd := proc.Command(ctx, f.bin(),
		"-v", "error",
		"-nodisp",
		"-autoexit",
		"-f", "s16le",
		"-ch_layout", "stereo",
		"-ar", strconv.Itoa(media.SampleRate),
		"-i", "pipe:0",
	)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &ffplayInput{WriteCloser: stdin, cmd: cmd}, nil
}

type ffplayInput struct {
	io.WriteCloser
	cmd *exec.Cmd
}

// Close ends the input and waits for ffplay to drain its buffer.
func (in *ffplayInput) Close() error {
	err := in.WriteCloser.Close()
	waitErr := in.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		// killed on cancel
		waitErr = nil
	}

	return errors.Join(err, waitErr)
}
