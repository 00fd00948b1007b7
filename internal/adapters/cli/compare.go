package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"siteopt/internal/application/scenario"
	"siteopt/internal/domain/planning"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	var sessionID string
	var baselineNumber int
	var scenarioNumber int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two stored solves from a session",
		Long: `Diff two solve records stored by earlier solve or whatif runs.

Scenario 0 is the session's baseline; what-if runs count up from 1. Without
--session the most recently written session is used.

Examples:
  siteopt compare --scenario 2
  siteopt compare --baseline 1 --scenario 3
  siteopt compare --scenario 2 --session session-baseline-a1b2c3d4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scenarioNumber < 0 {
				return fmt.Errorf("--scenario flag is required")
			}

			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			ctx := app.commandContext(context.Background())

			if sessionID == "" {
				sessionID, err = app.store.LatestSessionID(ctx)
				if err != nil {
					return fmt.Errorf("failed to resolve session: %w", err)
				}
				if sessionID == "" {
					return fmt.Errorf("no stored sessions; run 'siteopt solve' or 'siteopt whatif' first")
				}
			}

			baseline, err := app.store.Find(ctx, sessionID, baselineNumber)
			if err != nil {
				return fmt.Errorf("failed to load baseline record: %w", err)
			}
			candidate, err := app.store.Find(ctx, sessionID, scenarioNumber)
			if err != nil {
				return fmt.Errorf("failed to load scenario record: %w", err)
			}

			response, err := app.mediator.Send(ctx, &scenario.CompareScenariosQuery{
				Baseline: baseline.Record,
				Scenario: candidate.Record,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}
			result, ok := response.(*scenario.CompareScenariosResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printDiff(result.Diff)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session ID (default: most recent session)")
	cmd.Flags().IntVar(&baselineNumber, "baseline", 0, "Baseline scenario number (0 = session baseline)")
	cmd.Flags().IntVar(&scenarioNumber, "scenario", -1, "Scenario number to compare against the baseline")

	return cmd
}

// printDiff renders a comparison to stdout.
func printDiff(diff *planning.DiffRecord) {
	fmt.Printf("\n=== Comparison: %s vs %s ===\n", diff.BaselineLabel, diff.ScenarioLabel)
	if diff.FacilityChanged {
		fmt.Printf("Facility: %s -> %s\n", diff.FacilityFrom, diff.FacilityTo)
	} else {
		fmt.Printf("Facility: %s (unchanged)\n", diff.FacilityFrom)
	}
	if len(diff.PortsAdded) > 0 {
		fmt.Printf("Ports added: %v\n", diff.PortsAdded)
	}
	if len(diff.PortsRemoved) > 0 {
		fmt.Printf("Ports removed: %v\n", diff.PortsRemoved)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tBASELINE\tSCENARIO\tDELTA\tPERCENT")
	fmt.Fprintln(w, "------\t--------\t--------\t-----\t-------")
	for _, m := range diff.Metrics {
		printMetricRow(w, m)
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COST COMPONENT\tBASELINE\tSCENARIO\tDELTA\tPERCENT")
	fmt.Fprintln(w, "--------------\t--------\t--------\t-----\t-------")
	for _, m := range diff.CostComponents {
		printMetricRow(w, m)
	}
	w.Flush()

	if len(diff.Significant) > 0 {
		fmt.Println("\nSignificant changes:")
		for _, change := range diff.Significant {
			fmt.Printf("  - %s\n", change.Description)
		}
	}
}

func printMetricRow(w *tabwriter.Writer, m planning.MetricDelta) {
	percent := "-"
	if m.Baseline != 0 {
		percent = fmt.Sprintf("%+.1f%%", m.Percent)
	}
	fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f\t%s\n", m.Name, m.Baseline, m.Scenario, m.Absolute, percent)
}
