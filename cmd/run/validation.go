package run

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/scan-io-git/sonar-reporter/internal/profile"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
)

const profileAuto = "auto"

// prepareRunArgs validates the flags and converts them into configuration overrides.
// The returned profile is nil when it should be detected from the project.
func prepareRunArgs(flags *pflag.FlagSet, options *RunOptions) (config.Overrides, *profile.Profile, error) {
	overrides := config.Overrides{
		ServerURL:   options.Host,
		Token:       options.Token,
		ScannerPath: options.Scanner,
		ProjectKey:  options.ProjectKey,
		ProjectDir:  options.ProjectDir,
		OutputDir:   options.Output,
		Username:    options.Username,
		EnvFile:     options.EnvFile,
	}

	if flags.Changed("scan-timeout") {
		timeout, err := parseTimeout(options.ScanTimeout)
		if err != nil {
			return overrides, nil, err
		}
		overrides.ScanTimeout = &timeout
	}

	forced, err := parseProfile(options.Profile)
	if err != nil {
		return overrides, nil, err
	}
	return overrides, forced, nil
}

func parseTimeout(raw string) (time.Duration, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("the 'scan-timeout' flag must be a duration such as 90s or 15m: %w", err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("the 'scan-timeout' flag cannot be negative")
	}
	return timeout, nil
}

func parseProfile(raw string) (*profile.Profile, error) {
	if raw == "" || strings.EqualFold(strings.TrimSpace(raw), profileAuto) {
		return nil, nil
	}
	p, err := profile.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("the 'profile' flag must be one of auto, generic, flutter: %w", err)
	}
	return &p, nil
}
