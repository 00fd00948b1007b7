package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"siteopt/internal/adapters/nlparse"
	"siteopt/internal/application/scenario"
	"siteopt/internal/application/solve"
)

// NewWhatifCommand creates the whatif command
func NewWhatifCommand() *cobra.Command {
	var datasetPath string

	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Explore what-if scenarios described in plain language",
		Long: `Solve the baseline, then read scenario descriptions interactively.

Each description is translated into structured modifications by the Gemini
API, validated, applied to a clone of the baseline dataset and re-solved. The
result is compared against the baseline, written as a versioned markdown
report and stored in the session. Type 'quit' or 'exit' to leave.

Requires a Gemini API key (GEMINI_API_KEY or nl.api_key in config).

Examples:
  siteopt whatif
  siteopt whatif --dataset data/dataset.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			ctx := app.commandContext(context.Background())

			parser, err := nlparse.NewGeminiParser(ctx, app.cfg.NL.APIKey, app.cfg.NL.Model,
				app.cfg.NL.RequestsPerMinute, app.cfg.NL.Timeout)
			if err != nil {
				return fmt.Errorf("whatif needs the natural language parser: %w", err)
			}

			ds, err := app.loadDataset(datasetPath)
			if err != nil {
				return err
			}

			fmt.Println("Solving baseline...")
			response, err := app.mediator.Send(ctx, &solve.RunBaselineCommand{
				Dataset: ds,
				Options: app.solverOptions(),
			})
			if err != nil {
				return fmt.Errorf("baseline solve failed: %w", err)
			}
			baseline, ok := response.(*solve.RunBaselineResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printSolution(baseline.Record)

			if _, err := app.writer.WriteBaseline(baseline.Record); err != nil {
				return fmt.Errorf("failed to write baseline report: %w", err)
			}

			sess := scenario.NewSession(baseline.Record, ds)
			if err := app.store.Save(ctx, &scenario.StoredScenario{
				SessionID:      sess.ID,
				ScenarioNumber: 0,
				Label:          baseline.Record.Label,
				Record:         baseline.Record,
			}); err != nil {
				return fmt.Errorf("failed to store baseline: %w", err)
			}

			fmt.Printf("\nSession %s\n", sess.ID)
			fmt.Println("Describe a scenario in plain language, or 'quit' to exit.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("\nwhatif> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "exit" {
					break
				}

				runWhatifScenario(ctx, app, parser, sess, line)
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("input error: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Dataset YAML path (overrides config)")

	return cmd
}

// runWhatifScenario handles one REPL request end to end. Failures are printed
// and the loop keeps going; a bad scenario should not end the session.
func runWhatifScenario(ctx context.Context, app *app, parser scenario.Parser, sess *scenario.Session, request string) {
	parsed, err := parser.Parse(ctx, request, sess.Baseline, sess.BaselineDataset)
	if err != nil {
		fmt.Printf("Could not parse request: %v\n", err)
		return
	}

	fmt.Printf("\nInterpreted as: %s\n", parsed.Name)
	if parsed.Explanation != "" {
		fmt.Println(parsed.Explanation)
	}
	for _, mod := range parsed.Modifications {
		fmt.Printf("  - %s: %s\n", mod.Type, mod.Describe())
	}

	response, err := app.mediator.Send(ctx, &scenario.RunScenarioCommand{
		Baseline:      sess.BaselineDataset,
		Modifications: parsed.Modifications,
		Label:         parsed.Name,
		Options:       app.solverOptions(),
	})
	if err != nil {
		fmt.Printf("Scenario failed: %v\n", err)
		return
	}
	result, ok := response.(*scenario.RunScenarioResponse)
	if !ok {
		fmt.Println("unexpected response type")
		return
	}

	compared, err := app.mediator.Send(ctx, &scenario.CompareScenariosQuery{
		Baseline: sess.Baseline,
		Scenario: result.Record,
	})
	if err != nil {
		fmt.Printf("Comparison failed: %v\n", err)
		return
	}
	diff, ok := compared.(*scenario.CompareScenariosResponse)
	if !ok {
		fmt.Println("unexpected response type")
		return
	}

	printDiff(diff.Diff)

	number := sess.NextScenarioNumber()
	reportPath, err := app.writer.WriteScenario(number, diff.Diff, result.Record, parsed.Explanation, parsed.Modifications)
	if err != nil {
		fmt.Printf("Failed to write report: %v\n", err)
		return
	}

	if err := app.store.Save(ctx, &scenario.StoredScenario{
		SessionID:      sess.ID,
		ScenarioNumber: number,
		Label:          parsed.Name,
		Explanation:    parsed.Explanation,
		Record:         result.Record,
	}); err != nil {
		fmt.Printf("Failed to store scenario: %v\n", err)
		return
	}

	fmt.Printf("\nScenario %d written to %s\n", number, reportPath)
}
