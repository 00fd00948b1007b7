package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "siteopt",
		Short: "siteopt - facility location and material sourcing optimizer",
		Long: `siteopt selects the cheapest production facility among the raw material
collection points and plans sourcing, consumption and port flows for it.

The solve runs in two phases: facility selection over materials A-D, then a
full re-solve with material E at the fixed facility. Reports are written as
markdown; the whatif command explores scenarios described in plain language.

Examples:
  siteopt check --dataset data/dataset.yaml
  siteopt solve --dataset data/dataset.yaml
  siteopt whatif
  siteopt compare --scenario 2
  siteopt compare --baseline 1 --scenario 3 --session session-baseline-a1b2c3d4`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default searches ., ./configs, /etc/siteopt)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewSolveCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewWhatifCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
