package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"siteopt/internal/application/solve"
	"siteopt/internal/domain/planning"
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	var datasetPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether the dataset can reach its production target",
		Long: `Run the pre-solve capacity check without building any model.

Each material contributes at most min(volume x yield, share x target); the
check reports the achievable finished tonnage for the phase 1 material set
(A-D) and for the full set including E. An infeasible dataset is reported,
not treated as an error.

Examples:
  siteopt check
  siteopt check --dataset data/dataset.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			ds, err := app.loadDataset(datasetPath)
			if err != nil {
				return err
			}

			ctx := app.commandContext(context.Background())
			response, err := app.mediator.Send(ctx, &solve.CheckFeasibilityQuery{Dataset: ds})
			if err != nil {
				return fmt.Errorf("feasibility check failed: %w", err)
			}

			result, ok := response.(*solve.CheckFeasibilityResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printFeasibility("Phase 1 (materials A-D)", result.PhaseOne)
			printFeasibility("Full (materials A-E)", result.Full)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset YAML path (overrides config)")

	return cmd
}

// printFeasibility renders one capacity report to stdout.
func printFeasibility(title string, report *planning.FeasibilityReport) {
	fmt.Printf("\n=== %s ===\n", title)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATERIAL\tACHIEVABLE TONS\tBOUND")
	fmt.Fprintln(w, "--------\t---------------\t-----")
	for _, limit := range report.Limits {
		fmt.Fprintf(w, "%s\t%.2f\t%s\n", limit.Material, limit.Achievable, limit.Bound)
	}
	w.Flush()

	fmt.Printf("\nTarget: %.2f tons, achievable: %.2f tons\n", report.TargetTons, report.AchievableTons)
	if report.Feasible {
		fmt.Println("Result: FEASIBLE")
	} else {
		fmt.Printf("Result: INFEASIBLE (short %.2f tons)\n", report.ShortfallTons())
	}
}
