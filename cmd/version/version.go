package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/sonar-reporter/internal/console"
	"github.com/scan-io-git/sonar-reporter/internal/metrics"
)

// Set at build time with -ldflags "-X".
var (
	CoreVersion   = "unknown"
	GolangVersion = runtime.Version()
	BuildTime     = "unknown"
)

// Versions holds build information of the binary.
type Versions struct {
	Version       string `json:"version"`
	GolangVersion string `json:"golang_version"`
	BuildTime     string `json:"build_time"`
	Metrics       int    `json:"metrics"`
}

// NewVersionCmd creates a new cobra.Command for the version command.
func NewVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:                   "version [--json]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the version of the application",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := Versions{
				Version:       CoreVersion,
				GolangVersion: GolangVersion,
				BuildTime:     BuildTime,
				Metrics:       len(metrics.Catalog()),
			}
			if asJSON {
				data, err := json.MarshalIndent(v, "", "    ")
				if err != nil {
					return fmt.Errorf("error marshaling version info: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			printVersionInfo(console.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()), v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON.")
	return cmd
}

func printVersionInfo(p *console.Printer, v Versions) {
	p.KeyValue("Core Version", "v"+v.Version)
	p.KeyValue("Go Version", v.GolangVersion)
	p.KeyValue("Build Time", v.BuildTime)
	p.KeyValue("Metric Catalog", fmt.Sprintf("%d metrics", v.Metrics))
}
