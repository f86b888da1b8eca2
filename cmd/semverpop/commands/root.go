// Package commands implements the semverpop cobra commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/semverpop/pkg/version"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath  string
	corpusDir   string
	outputDir   string
	logLevel    string
	logJSON     bool
	noColor     bool
	noCharts    bool
	metricsFile string
	otlp        string
}

// NewRootCommand builds the semverpop command tree.
func NewRootCommand() *cobra.Command {
	ro := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "semverpop",
		Short: "Semantic versioning violations and API popularity analysis",
		Long: `semverpop analyses breaking changes and illegal API extensions of
versioned Maven packages and relates them to package and method popularity.

Commands:
  analyze   Summary statistics, violation charts and popularity comparisons
  dedup     Reconcile renamed callables and export the reconciled corpus
  cutoff    Estimate the method popularity cutoff
  packages  Relate package popularity to violations`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ro.configPath, "config", "c", "", "Config file (default: .semverpop.yaml in CWD or $HOME)")
	flags.StringVar(&ro.corpusDir, "corpus", "", "Corpus directory (overrides corpus.dir)")
	flags.StringVarP(&ro.outputDir, "output", "o", "", "Chart output directory (overrides report.output_dir)")
	flags.StringVar(&ro.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.BoolVar(&ro.logJSON, "log-json", false, "Emit JSON logs")
	flags.BoolVar(&ro.noColor, "no-color", false, "Disable colored output")
	flags.BoolVar(&ro.noCharts, "no-charts", false, "Skip HTML chart rendering")
	flags.StringVar(&ro.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.StringVar(&ro.otlp, "otlp-endpoint", "", "OTLP gRPC endpoint for traces and metrics")

	rootCmd.AddCommand(
		newAnalyzeCommand(ro),
		newDedupCommand(ro),
		newCutoffCommand(ro),
		newPackagesCommand(ro),
		versionCmd(),
	)

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "semverpop %s\n", version.String())
		},
	}
}
