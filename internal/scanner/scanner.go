package scanner

import (
	"context"
	"errors"
	"runtime"

	"github.com/hashicorp/go-hclog"

	"github.com/scan-io-git/sonar-reporter/internal/profile"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/files"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/validation"
)

// repairPermissions is false where POSIX execute bits do not exist.
var repairPermissions = runtime.GOOS != "windows"

// Scanner drives the external scanner executable for one project.
type Scanner struct {
	runner  ProcessRunner
	logger  hclog.Logger
	profile *profile.Profile
}

// New creates a Scanner. A nil runner uses ExecRunner.
func New(runner ProcessRunner, logger hclog.Logger) *Scanner {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scanner{
		runner: runner,
		logger: logger,
	}
}

// WithProfile forces a profile instead of classifying the project manifest.
func (s *Scanner) WithProfile(p profile.Profile) *Scanner {
	s.profile = &p
	return s
}

// ResolveExecutable validates the scanner path and repairs missing execute bits.
func (s *Scanner) ResolveExecutable(path string) (string, error) {
	if err := validation.ValidateScannerPath(path); err != nil {
		return "", err
	}

	if repairPermissions {
		changed, err := files.EnsureExecutable(path)
		if err != nil {
			return "", &errs.ScannerNotFoundError{Path: path, Reason: err.Error()}
		}
		if changed {
			s.logger.Warn("scanner was not executable, execute permission added", "path", path)
		}
	}
	return path, nil
}

// Profile returns the scan profile for the project.
func (s *Scanner) Profile(projectDir string) profile.Profile {
	if s.profile != nil {
		s.logger.Debug("using forced profile", "profile", s.profile.String())
		return *s.profile
	}
	return profile.Detect(s.logger, projectDir)
}

// Scan runs the scanner against cfg.ProjectDir and waits for it to exit.
func (s *Scanner) Scan(ctx context.Context, cfg config.RunConfig) (Outcome, error) {
	var result Outcome

	path, err := s.ResolveExecutable(cfg.ScannerPath)
	if err != nil {
		s.logger.Error("scanner executable validation failed", "error", err)
		return result, err
	}

	if err := validation.ValidateScanTarget(cfg.ProjectDir); err != nil {
		s.logger.Error("validation failed for scan operation", "error", err)
		return result, err
	}

	p := s.Profile(cfg.ProjectDir)
	commandArgs := BuildArgs(p, cfg)

	runCtx := ctx
	if cfg.ScanTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.ScanTimeout)
		defer cancel()
	}

	s.logger.Info("scan is starting", "project", cfg.ProjectDir, "projectKey", cfg.ProjectKey, "profile", p.String())
	s.logger.Debug("debug info", "cmd", path, "args", redactArgs(commandArgs))

	result, err = s.runner.Run(runCtx, Command{Path: path, Args: commandArgs})

	if cfg.ScanTimeout > 0 && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		s.logger.Error("scanner timed out", "timeout", cfg.ScanTimeout)
		return result, &errs.ScanTimeoutError{Timeout: cfg.ScanTimeout, Stdout: result.Stdout, Stderr: result.Stderr}
	}
	if err != nil {
		s.logger.Error("scanner execution error", "error", err)
		return result, &errs.ScanExecutionError{ExitCode: -1, Stdout: result.Stdout, Stderr: result.Stderr, Err: err}
	}
	if result.ExitCode != 0 {
		s.logger.Error("scanner exited with non-zero status", "exitCode", result.ExitCode)
		return result, &errs.ScanExecutionError{ExitCode: result.ExitCode, Stdout: result.Stdout, Stderr: result.Stderr}
	}

	s.logger.Debug("scanner output", "stdout", result.Stdout, "stderr", result.Stderr)
	s.logger.Info("scan finished", "project", cfg.ProjectDir, "duration", result.Duration)
	return result, nil
}
