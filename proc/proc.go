// Package proc starts external tools in their own process group so that
// cancelling one also stops every helper it spawned.
package proc

import (
	"context"
	"os/exec"
	"time"

	"github.com/tubeplay-cli/tubeplay/log"
)

// WaitDelay bounds how long Wait blocks on pipes after the process was killed.
const WaitDelay = 2 * time.Second

// Command is exec.CommandContext with process group handling.
// When ctx is done the whole group is killed.
func Command(ctx context.Context, bin string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Cancel = func() error {
		log.Debugf("killing %s (pid %d)", bin, cmd.Process.Pid)
		return Kill(cmd)
	}
	cmd.WaitDelay = WaitDelay
	return cmd
}
