package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"siteopt/internal/application/scenario"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/planning"
)

// NewSolveCommand creates the solve command
func NewSolveCommand() *cobra.Command {
	var datasetPath string
	var label string

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve the baseline facility location and sourcing plan",
		Long: `Run the two-phase optimization on the configured dataset.

Phase 1 selects the cheapest facility over materials A-D; phase 2 re-solves
the full sourcing, consumption and port flows with material E included. The
solved plan is printed, written as a markdown report and stored as scenario 0
of a new session for later comparison.

Examples:
  siteopt solve
  siteopt solve --dataset data/dataset.yaml --label q3-plan`,
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
			response, err := app.mediator.Send(ctx, &solve.RunBaselineCommand{
				Dataset: ds,
				Label:   label,
				Options: app.solverOptions(),
			})
			if err != nil {
				return fmt.Errorf("solve failed: %w", err)
			}

			result, ok := response.(*solve.RunBaselineResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printSolution(result.Record)

			reportPath, err := app.writer.WriteBaseline(result.Record)
			if err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			sess := scenario.NewSession(result.Record, ds)
			stored := &scenario.StoredScenario{
				SessionID:      sess.ID,
				ScenarioNumber: 0,
				Label:          result.Record.Label,
				Record:         result.Record,
			}
			if err := app.store.Save(ctx, stored); err != nil {
				return fmt.Errorf("failed to store baseline: %w", err)
			}

			fmt.Printf("\nReport written to %s\n", reportPath)
			fmt.Printf("Session %s (baseline stored as scenario 0)\n", sess.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset YAML path (overrides config)")
	cmd.Flags().StringVar(&label, "label", "", "Label for the stored run (default \"baseline\")")

	return cmd
}

// printSolution renders one solved record to stdout.
func printSolution(rec *planning.SolutionRecord) {
	fmt.Printf("\n=== Solution: %s ===\n", rec.Label)
	fmt.Printf("Facility: %s\n", rec.FacilityID)
	fmt.Printf("Export ports: %s\n", strings.Join(rec.SelectedPorts, ", "))
	fmt.Printf("Finished product: %.2f tons from %.2f raw tons (yield %.2f%%)\n\n",
		rec.TotalFinishedTons, rec.TotalRawTons, rec.AverageYield*100)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "COMPONENT\tCOST\tPER TON")
	fmt.Fprintln(w, "---------\t----\t-------")
	fmt.Fprintf(w, "Raw material purchase\t$%.2f\t$%.2f\n", rec.Costs.RawMaterial, rec.Costs.RawMaterialPerRawTon)
	fmt.Fprintf(w, "Inbound freight\t$%.2f\t$%.2f\n", rec.Costs.InboundFreight, rec.Costs.InboundPerRawTon)
	fmt.Fprintf(w, "Outbound freight\t$%.2f\t$%.2f\n", rec.Costs.OutboundFreight, rec.Costs.OutboundPerFinishedTon)
	fmt.Fprintf(w, "Port operations\t$%.2f\t$%.2f\n", rec.Costs.PortOperations, rec.Costs.PortOperationsPerFinishedTon)
	fmt.Fprintf(w, "Sea freight\t$%.2f\t$%.2f\n", rec.Costs.SeaFreight, rec.Costs.SeaFreightPerFinishedTon)
	fmt.Fprintf(w, "TOTAL\t$%.2f\t$%.2f\n", rec.Costs.Total, rec.Costs.TotalPerFinishedTon)
	w.Flush()

	if len(rec.TonsBySite) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE SITE\tRAW TONS")
		fmt.Fprintln(w, "-----------\t--------")
		for _, site := range sortedSiteIDs(rec.TonsBySite) {
			fmt.Fprintf(w, "%s\t%.2f\n", site, rec.TonsBySite[site])
		}
		w.Flush()
	}

	fmt.Printf("\nSolved in %.2fs (phase 1: %.2fs over %d candidates, phase 2: %.2fs)\n",
		rec.SolveTime.Seconds(),
		rec.Phases.Phase1.Duration.Seconds(),
		len(rec.Phases.Phase1.Candidates),
		rec.Phases.Phase2.Duration.Seconds())
}
