//go:build !windows

package scanner

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// configureProcess starts the scanner in its own process group and kills the group on cancellation.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
