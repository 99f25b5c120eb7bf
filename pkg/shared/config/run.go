package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/files"
)

// RunConfig is the configuration of a single scan-fetch-save run.
// It is resolved once at startup and passed by value to every stage.
type RunConfig struct {
	ServerURL   string
	Token       string
	ScannerPath string
	ProjectKey  string
	ProjectDir  string
	OutputDir   string
	Username    string

	ScanTimeout  time.Duration
	MissingValue string
}

// Overrides holds values passed explicitly on the command line.
// Empty strings and a nil ScanTimeout mean "not given".
type Overrides struct {
	ServerURL   string
	Token       string
	ScannerPath string
	ProjectKey  string
	ProjectDir  string
	OutputDir   string
	Username    string
	EnvFile     string
	ScanTimeout *time.Duration
}

// LookupFunc fetches environment variables and defaults to os.Getenv.
type LookupFunc func(string) string

// Resolver builds a RunConfig from flags, the process environment and a key=value env file,
// in that order of precedence.
type Resolver struct {
	lookup LookupFunc
	logger hclog.Logger
}

// NewResolver creates a Resolver. A nil lookup reads the process environment.
func NewResolver(logger hclog.Logger, lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.Getenv
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Resolver{lookup: lookup, logger: logger}
}

// Resolve merges every configuration layer and validates the result.
func (r *Resolver) Resolve(overrides Overrides, global *Config) (RunConfig, error) {
	if global == nil {
		global = &Config{}
	}

	fileValues, err := r.loadEnvFile(overrides.EnvFile)
	if err != nil {
		return RunConfig{}, err
	}

	pick := func(flag, key string) string {
		return firstNonEmpty(flag, r.lookup(key), fileValues[key])
	}

	cfg := RunConfig{
		ServerURL:    firstNonEmpty(pick(overrides.ServerURL, EnvHostURL), DefaultServerURL),
		Token:        pick(overrides.Token, EnvToken),
		ScannerPath:  pick(overrides.ScannerPath, EnvScannerPath),
		ProjectKey:   pick(overrides.ProjectKey, EnvProjectKey),
		ProjectDir:   pick(overrides.ProjectDir, EnvProjectDir),
		OutputDir:    pick(overrides.OutputDir, EnvOutputDir),
		Username:     pick(overrides.Username, EnvUsername),
		ScanTimeout:  global.Scanner.Timeout,
		MissingValue: SetThen(global.Report.MissingValue, DefaultMissingValue),
	}
	if overrides.ScanTimeout != nil {
		cfg.ScanTimeout = *overrides.ScanTimeout
	}

	if err := cfg.normalize(); err != nil {
		return RunConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RunConfig{}, err
	}

	r.logger.Debug("run configuration resolved",
		"server", cfg.ServerURL,
		"projectKey", cfg.ProjectKey,
		"projectDir", cfg.ProjectDir,
		"outputDir", cfg.OutputDir,
		"username", cfg.Username,
		"scanner", cfg.ScannerPath,
		"scanTimeout", cfg.ScanTimeout,
	)
	return cfg, nil
}

// loadEnvFile reads the fallback key=value file. A missing file is only a warning.
func (r *Resolver) loadEnvFile(explicit string) (map[string]string, error) {
	path := firstNonEmpty(explicit, r.lookup(EnvEnvFile), DefaultEnvFile)

	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warn("env file not found, relying on flags and environment", "path", path)
			return map[string]string{}, nil
		}
		return nil, errs.NewConfigurationError("unable to read env file %q: %v", path, err)
	}
	r.logger.Debug("env file loaded", "path", path, "keys", len(values))
	return values, nil
}

// normalize expands home-relative paths and trims the trailing slash from the server URL.
func (c *RunConfig) normalize() error {
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")

	for _, p := range []*string{&c.ProjectDir, &c.OutputDir, &c.ScannerPath} {
		if *p == "" {
			continue
		}
		expanded, err := files.ExpandPath(*p)
		if err != nil {
			return errs.NewConfigurationError("failed to expand path %q: %v", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate reports every missing required field at once, then any invalid value.
func (c RunConfig) Validate() error {
	required := []struct {
		value string
		name  string
	}{
		{c.ServerURL, fmt.Sprintf("server URL (--host or %s)", EnvHostURL)},
		{c.Token, fmt.Sprintf("token (--token or %s)", EnvToken)},
		{c.ProjectKey, fmt.Sprintf("project key (--project-key or %s)", EnvProjectKey)},
		{c.ProjectDir, fmt.Sprintf("project path (--project-dir or %s)", EnvProjectDir)},
		{c.OutputDir, fmt.Sprintf("output directory (--output or %s)", EnvOutputDir)},
		{c.Username, fmt.Sprintf("username (--username or %s)", EnvUsername)},
	}

	var missing []string
	for _, field := range required {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return &errs.ConfigurationError{Missing: missing}
	}

	if err := validateServerURL(c.ServerURL); err != nil {
		return &errs.ConfigurationError{Reason: err.Error()}
	}
	if c.ScanTimeout < 0 {
		return errs.NewConfigurationError("scan timeout cannot be negative: %v", c.ScanTimeout)
	}
	return nil
}
