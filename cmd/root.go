package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/sonar-reporter/cmd/metrics"
	"github.com/scan-io-git/sonar-reporter/cmd/run"
	"github.com/scan-io-git/sonar-reporter/cmd/version"
	"github.com/scan-io-git/sonar-reporter/internal/console"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	Logger    hclog.Logger
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                   "sonar-reporter [command]",
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		Short:                 "Sonar-reporter runs a code analysis and saves the project's quality metrics as CSV.",
		Long: `Sonar-reporter runs the sonar-scanner against a local project, then fetches the project's
	measures from the analysis server and writes them to a timestamped CSV report.
	`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("Path to the YAML configuration file (default is %s).", config.DefaultConfigFile))

	rootCmd.AddCommand(run.NewRunCmd())
	rootCmd.AddCommand(metrics.NewMetricsCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	return rootCmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return execute(ctx, NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, rootCmd *cobra.Command, args []string, out, errOut io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	console.NewPrinter(out, errOut).Error("%v", err)
	var cmdErr *errs.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.ExitCode
	}
	return 1
}

// initConfig loads the YAML configuration. Without an explicit --config a missing default file means built-in defaults.
func initConfig() error {
	explicit := cfgFile != ""
	path := cfgFile
	if !explicit {
		path = config.DefaultConfigFile
	}

	cfg, err := config.LoadConfig(path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, config.ErrConfigNotFound):
		cfg = &config.Config{}
	default:
		return errs.NewCommandError(fmt.Errorf("failed to load config file: %w", err), 1)
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return errs.NewCommandError(fmt.Errorf("invalid config file %q: %w", path, err), 1)
	}

	AppConfig = cfg
	Logger = logger.NewLogger(AppConfig, "core")
	if err == nil {
		Logger.Debug("config file loaded", "path", path)
	}

	run.Init(AppConfig, Logger)
	return nil
}
