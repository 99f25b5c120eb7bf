package metrics

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scan-io-git/sonar-reporter/internal/console"
	"github.com/scan-io-git/sonar-reporter/internal/metrics"
)

// NewMetricsCmd creates the command that prints the metric catalog in report order.
func NewMetricsCmd() *cobra.Command {
	var query bool

	cmd := &cobra.Command{
		Use:                   "metrics [--query]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Print the metric keys requested for every report",
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := metrics.Catalog()
			if query {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), metrics.Query(catalog))
				return err
			}
			console.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()).List(catalog)
			return nil
		},
	}
	cmd.Flags().BoolVar(&query, "query", false, "Print the comma-separated metricKeys query value instead of a list.")
	return cmd
}
