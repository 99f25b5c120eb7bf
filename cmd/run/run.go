package run

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/scan-io-git/sonar-reporter/internal/console"
	"github.com/scan-io-git/sonar-reporter/internal/metrics"
	"github.com/scan-io-git/sonar-reporter/internal/pipeline"
	"github.com/scan-io-git/sonar-reporter/internal/report"
	"github.com/scan-io-git/sonar-reporter/internal/scanner"
	"github.com/scan-io-git/sonar-reporter/internal/sonar"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/config"
	errs "github.com/scan-io-git/sonar-reporter/pkg/shared/errors"
	"github.com/scan-io-git/sonar-reporter/pkg/shared/httpclient"
)

// RunOptions holds the arguments for the run command.
type RunOptions struct {
	Host        string
	Token       string
	Scanner     string
	ProjectKey  string
	ProjectDir  string
	Output      string
	Username    string
	EnvFile     string
	Profile     string
	ScanTimeout string
}

// Global variables for configuration and command arguments
var (
	AppConfig  *config.Config
	logger     hclog.Logger
	runOptions RunOptions

	// newRunner returns the process runner for the scanner. Nil means os/exec.
	newRunner func() scanner.ProcessRunner

	exampleRunUsage = `  # Scan a project with every value given as a flag
  sonar-reporter run --host http://localhost:9000 --token squ_xxx --scanner /opt/sonar-scanner/bin/sonar-scanner \
    --project-key demo --project-dir ./demo --output ./reports --username alice

  # Take values from SONAR_* environment variables or a .env file in the working directory
  sonar-reporter run

  # Use another fallback file and force the Flutter profile
  sonar-reporter run --env-file ./ci/sonar.env --profile flutter

  # Abort the scanner after 15 minutes
  sonar-reporter run --scan-timeout 15m`
)

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	runOptions = RunOptions{}

	cmd := &cobra.Command{
		Use:                   "run [flags]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Example:               exampleRunUsage,
		Short:                 "Scan a project, fetch its measures and save them as CSV",
		Long: fmt.Sprintf(`Scan a project with sonar-scanner, fetch its measures and save them as CSV.

Every value is taken from its flag, then from the environment, then from a key=value env file
(%s by default, see --env-file). The report is written to
<output>/sonar_analyzer_results/<project-key>_<YYYYMMDD_HHMMSS>.csv.`, config.DefaultEnvFile),
		Args: cobra.NoArgs,
		RunE: runRunCommand,
	}

	cmd.Flags().StringVar(&runOptions.Host, "host", "", fmt.Sprintf("Analysis server URL (env %s, default %s).", config.EnvHostURL, config.DefaultServerURL))
	cmd.Flags().StringVar(&runOptions.Token, "token", "", fmt.Sprintf("Authentication token (env %s).", config.EnvToken))
	cmd.Flags().StringVar(&runOptions.Scanner, "scanner", "", fmt.Sprintf("Path to the sonar-scanner executable (env %s).", config.EnvScannerPath))
	cmd.Flags().StringVar(&runOptions.ProjectKey, "project-key", "", fmt.Sprintf("Project key on the analysis server (env %s).", config.EnvProjectKey))
	cmd.Flags().StringVar(&runOptions.ProjectDir, "project-dir", "", fmt.Sprintf("Path to the project to scan (env %s).", config.EnvProjectDir))
	cmd.Flags().StringVarP(&runOptions.Output, "output", "o", "", fmt.Sprintf("Directory for the CSV report (env %s).", config.EnvOutputDir))
	cmd.Flags().StringVar(&runOptions.Username, "username", "", fmt.Sprintf("Username written to every report row (env %s).", config.EnvUsername))
	cmd.Flags().StringVar(&runOptions.EnvFile, "env-file", "", fmt.Sprintf("Fallback key=value file (env %s, default %s).", config.EnvEnvFile, config.DefaultEnvFile))
	cmd.Flags().StringVar(&runOptions.Profile, "profile", profileAuto, "Scan profile: auto, generic or flutter.")
	cmd.Flags().StringVar(&runOptions.ScanTimeout, "scan-timeout", "", "Abort the scanner after this duration, e.g. 15m. Overrides scanner.timeout from the config file.")
	cmd.Flags().BoolP("help", "h", false, "Show help for the run command.")
	return cmd
}

func runRunCommand(cmd *cobra.Command, args []string) error {
	printer := console.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	runID := uuid.New()
	log := logger.With("runID", runID.String())

	overrides, forced, err := prepareRunArgs(cmd.Flags(), &runOptions)
	if err != nil {
		log.Error("invalid run arguments", "error", err)
		return errs.NewCommandError(fmt.Errorf("invalid run arguments: %w", err), 1)
	}

	runCfg, err := config.NewResolver(log, os.Getenv).Resolve(overrides, AppConfig)
	if err != nil {
		log.Error("failed to resolve configuration", "error", err)
		return errs.NewCommandError(err, 1)
	}

	var runner scanner.ProcessRunner
	if newRunner != nil {
		runner = newRunner()
	}
	s := scanner.New(runner, log.Named("scanner"))
	if forced != nil {
		s.WithProfile(*forced)
	}

	httpc := httpclient.InitializeRestyClient(log.Named("http"), AppConfig)
	p := pipeline.New(pipeline.Options{
		Config:  runCfg,
		Scanner: s,
		Fetcher: sonar.New(httpc, runCfg.ServerURL, runCfg.Token, log.Named("sonar")),
		Writer:  report.NewWriter(runCfg.OutputDir, runCfg.MissingValue),
		Catalog: metrics.Catalog(),
		RunID:   runID,
		Logger:  log,
	})

	result, err := p.Run(cmd.Context())
	if err != nil {
		echoScannerOutput(printer, err)
		return errs.NewCommandError(err, 1)
	}

	printer.Success("Results saved to %s", result.ReportPath)
	return nil
}

// echoScannerOutput copies the captured scanner streams to stderr when the scan failed.
func echoScannerOutput(printer *console.Printer, err error) {
	var execErr *errs.ScanExecutionError
	if errors.As(err, &execErr) {
		printer.Warning("scanner output (exit status %d):", execErr.ExitCode)
		printer.Raw(execErr.Stdout)
		printer.Raw(execErr.Stderr)
		return
	}
	var timeoutErr *errs.ScanTimeoutError
	if errors.As(err, &timeoutErr) {
		printer.Warning("scanner output before the %s timeout:", timeoutErr.Timeout)
		printer.Raw(timeoutErr.Stdout)
		printer.Raw(timeoutErr.Stderr)
	}
}
