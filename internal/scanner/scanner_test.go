package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scan-io-git/sonar-reporter/internal/profile"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
)

type fakeRunner struct {
	outcome Outcome
	err     error
	wait    bool
	calls   []Command
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command) (Outcome, error) {
	f.calls = append(f.calls, cmd)
	if f.wait {
		<-ctx.Done()
		return Outcome{ExitCode: -1, Stderr: "killed"}, nil
	}
	return f.outcome, f.err
}

func newBinary(t *testing.T, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sonar-scanner")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode))
	return path
}

func runConfig(t *testing.T, scannerPath string) config.RunConfig {
	return config.RunConfig{
		ServerURL:   "http://x:9000",
		Token:       "T",
		ScannerPath: scannerPath,
		ProjectKey:  "demo",
		ProjectDir:  t.TempDir(),
		OutputDir:   t.TempDir(),
		Username:    "alice",
	}
}

func TestBuildArgsGeneric(t *testing.T) {
	cfg := config.RunConfig{ServerURL: "http://x:9000", Token: "T", ProjectKey: "demo", ProjectDir: "/proj"}

	assert.Equal(t, []string{
		"-Dsonar.projectKey=demo",
		"-Dsonar.sources=/proj",
		"-Dsonar.host.url=http://x:9000",
		"-Dsonar.login=T",
	}, BuildArgs(profile.ProfileGeneric, cfg))
}

func TestBuildArgsFlutter(t *testing.T) {
	cfg := config.RunConfig{ServerURL: "http://x:9000", Token: "T", ProjectKey: "demo", ProjectDir: "/proj"}

	assert.Equal(t, []string{
		"-Dsonar.projectKey=demo",
		"-Dsonar.projectName=flutter_project",
		"-Dsonar.projectVersion=1.0",
		"-Dsonar.sourceEncoding=UTF-8",
		"-Dsonar.sources=lib",
		"-Dsonar.tests=test",
		"-Dsonar.projectBaseDir=/proj",
		"-Dsonar.host.url=http://x:9000",
		"-Dsonar.login=T",
	}, BuildArgs(profile.ProfileFlutter, cfg))
}

func TestRedactArgs(t *testing.T) {
	args := []string{"-Dsonar.projectKey=demo", "-Dsonar.login=secret"}

	assert.Equal(t, []string{"-Dsonar.projectKey=demo", "-Dsonar.login=****"}, redactArgs(args))
	assert.Equal(t, "-Dsonar.login=secret", args[1], "input must not be modified")
}

func TestScanGenericProject(t *testing.T) {
	runner := &fakeRunner{outcome: Outcome{Stdout: "EXECUTION SUCCESS"}}
	bin := newBinary(t, 0o755)
	cfg := runConfig(t, bin)

	outcome, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "EXECUTION SUCCESS", outcome.Stdout)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, bin, runner.calls[0].Path)
	assert.Contains(t, runner.calls[0].Args, "-Dsonar.sources="+cfg.ProjectDir)
}

func TestScanFlutterProject(t *testing.T) {
	runner := &fakeRunner{}
	cfg := runConfig(t, newBinary(t, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.ProjectDir, profile.ManifestFile), []byte("name: app\nflutter:\n"), 0o644))

	_, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Contains(t, runner.calls[0].Args, "-Dsonar.sources=lib")
	assert.Contains(t, runner.calls[0].Args, "-Dsonar.projectBaseDir="+cfg.ProjectDir)
}

func TestScanForcedProfile(t *testing.T) {
	runner := &fakeRunner{}
	cfg := runConfig(t, newBinary(t, 0o755))

	_, err := New(runner, hclog.NewNullLogger()).WithProfile(profile.ProfileFlutter).Scan(context.Background(), cfg)
	require.NoError(t, err)
	assert.Contains(t, runner.calls[0].Args, "-Dsonar.tests=test")
}

func TestScanNonZeroExit(t *testing.T) {
	runner := &fakeRunner{outcome: Outcome{ExitCode: 2, Stdout: "INFO: scanning", Stderr: "ERROR: Not authorized"}}
	cfg := runConfig(t, newBinary(t, 0o755))

	_, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), cfg)

	var execErr *errs.ScanExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 2, execErr.ExitCode)
	assert.Equal(t, "INFO: scanning", execErr.Stdout)
	assert.Equal(t, "ERROR: Not authorized", execErr.Stderr)
}

func TestScanLaunchFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exec format error"), outcome: Outcome{ExitCode: -1}}
	cfg := runConfig(t, newBinary(t, 0o755))

	_, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), cfg)

	var execErr *errs.ScanExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, -1, execErr.ExitCode)
	assert.Contains(t, err.Error(), "exec format error")
}

func TestScanTimeout(t *testing.T) {
	runner := &fakeRunner{wait: true}
	cfg := runConfig(t, newBinary(t, 0o755))
	cfg.ScanTimeout = 20 * time.Millisecond

	_, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), cfg)

	var timeoutErr *errs.ScanTimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 20*time.Millisecond, timeoutErr.Timeout)
}

func TestScanScannerNotFound(t *testing.T) {
	for name, path := range map[string]string{
		"Unset":   "",
		"Missing": filepath.Join(t.TempDir(), "sonar-scanner"),
	} {
		t.Run(name, func(t *testing.T) {
			runner := &fakeRunner{}
			_, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), runConfig(t, path))

			var notFound *errs.ScannerNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Empty(t, runner.calls, "scanner must not be launched")
		})
	}
}

func TestScanMissingProjectDir(t *testing.T) {
	runner := &fakeRunner{}
	cfg := runConfig(t, newBinary(t, 0o755))
	cfg.ProjectDir = filepath.Join(cfg.ProjectDir, "missing")

	_, err := New(runner, hclog.NewNullLogger()).Scan(context.Background(), cfg)

	var cfgErr *errs.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Empty(t, runner.calls)
}

func TestResolveExecutableRepairsMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("execute bits are not meaningful on windows")
	}
	bin := newBinary(t, 0o600)

	got, err := New(nil, hclog.NewNullLogger()).ResolveExecutable(bin)
	require.NoError(t, err)
	assert.Equal(t, bin, got)

	info, err := os.Stat(bin)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o711), info.Mode().Perm())
}

func TestExecRunner(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "fake-scanner")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"args: $*\"\necho \"warn\" 1>&2\nexit \"$EXIT_CODE\"\n"), 0o755))

	t.Run("Success", func(t *testing.T) {
		t.Setenv("EXIT_CODE", "0")
		outcome, err := ExecRunner{}.Run(context.Background(), Command{Path: script, Args: []string{"-Da=b"}})
		require.NoError(t, err)
		assert.Equal(t, 0, outcome.ExitCode)
		assert.Equal(t, "args: -Da=b\n", outcome.Stdout)
		assert.Equal(t, "warn\n", outcome.Stderr)
	})

	t.Run("Non-zero exit", func(t *testing.T) {
		t.Setenv("EXIT_CODE", "3")
		outcome, err := ExecRunner{}.Run(context.Background(), Command{Path: script})
		require.NoError(t, err)
		assert.Equal(t, 3, outcome.ExitCode)
	})

	t.Run("Missing binary", func(t *testing.T) {
		_, err := ExecRunner{}.Run(context.Background(), Command{Path: filepath.Join(t.TempDir(), "missing")})
		assert.Error(t, err)
	})

	t.Run("Cancellation kills child processes", func(t *testing.T) {
		launcher := filepath.Join(t.TempDir(), "launcher")
		require.NoError(t, os.WriteFile(launcher, []byte(`#!/bin/sh
echo started
sleep 5
echo finished
`), 0o755))

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		outcome, _ := ExecRunner{}.Run(ctx, Command{Path: launcher})
		elapsed := time.Since(start)

		assert.Less(t, elapsed, 3*time.Second, "run must return soon after cancellation")
		assert.NotEqual(t, 0, outcome.ExitCode)
		assert.NotContains(t, outcome.Stdout, "finished")
	})
}

func TestScanTimeoutStopsLauncher(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	cfg := runConfig(t, filepath.Join(t.TempDir(), "sonar-scanner"))
	require.NoError(t, os.WriteFile(cfg.ScannerPath, []byte(`#!/bin/sh
sleep 5
echo done
`), 0o755))
	cfg.ScanTimeout = 200 * time.Millisecond

	start := time.Now()
	_, err := New(nil, hclog.NewNullLogger()).Scan(context.Background(), cfg)
	elapsed := time.Since(start)

	var timeoutErr *errs.ScanTimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Less(t, elapsed, 3*time.Second)
}
