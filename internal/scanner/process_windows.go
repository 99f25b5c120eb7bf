//go:build windows

package scanner

import "os/exec"

// configureProcess keeps the default cancellation, which kills the scanner process only.
func configureProcess(cmd *exec.Cmd) {}
