package scanner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// Command is a single scanner process to launch.
type Command struct {
	Path string
	Args []string
}

// Outcome is the result of a finished scanner process.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// ProcessRunner launches a process and blocks until it exits.
// A non-zero exit status is reported in Outcome, not as an error;
// the error is reserved for processes that could not be run at all.
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command) (Outcome, error)
}

// waitDelay bounds how long Run waits for output pipes after the process is killed.
// Processes started by the scanner may otherwise keep them open.
const waitDelay = 2 * time.Second

// ExecRunner runs commands with os/exec, capturing stdout and stderr in memory.
// On cancellation the whole process group is killed where the platform has one.
type ExecRunner struct{}

// Run executes the command and waits for completion.
func (ExecRunner) Run(ctx context.Context, c Command) (Outcome, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	configureProcess(cmd)

	start := time.Now()
	err := cmd.Run()
	outcome := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			outcome.ExitCode = exitErr.ExitCode()
			return outcome, nil
		}
		outcome.ExitCode = -1
		return outcome, err
	}
	return outcome, nil
}
