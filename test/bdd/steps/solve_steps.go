package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	"siteopt/internal/adapters/solver"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/shared"
	"siteopt/test/fixtures"
)

type baselineSolveContext struct {
	ds       *dataset.Dataset
	response *solve.RunBaselineResponse
	err      error
}

func InitializeBaselineSolveScenario(ctx *godog.ScenarioContext) {
	c := &baselineSolveContext{}

	// Given steps
	ctx.Step(`^the three point dataset$`, c.theThreePointDataset)
	ctx.Step(`^the three point dataset with the target raised to (\d+) tons$`, c.theDatasetWithTarget)

	// When steps
	ctx.Step(`^I solve the baseline$`, c.iSolveTheBaseline)

	// Then steps
	ctx.Step(`^the solve succeeds$`, c.theSolveSucceeds)
	ctx.Step(`^the selected facility is "([^"]*)"$`, c.theSelectedFacilityIs)
	ctx.Step(`^the total cost is ([0-9.]+)$`, c.theTotalCostIs)
	ctx.Step(`^the raw material requirement is ([0-9.]+) tons$`, c.theRawRequirementIs)
	ctx.Step(`^port "([^"]*)" ships ([0-9.]+) tons$`, c.portShips)
	ctx.Step(`^the raw material tonnage by type is:$`, c.theRawTonnageByTypeIs)
	ctx.Step(`^the solve fails with a phase (\d+) capacity error$`, c.solveFailsWithCapacityError)

	// Setup/teardown
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*c = baselineSolveContext{}
		return ctx, nil
	})
}

func (c *baselineSolveContext) theThreePointDataset() error {
	c.ds = fixtures.ThreePointDataset()
	return nil
}

func (c *baselineSolveContext) theDatasetWithTarget(target int) error {
	c.ds = fixtures.ThreePointDataset()
	c.ds.Demand.TargetTons = float64(target)
	return nil
}

func (c *baselineSolveContext) iSolveTheBaseline() error {
	handler := solve.NewRunBaselineHandler(solve.NewPipeline(solver.NewSimplexSolver(nil), nil))

	response, err := handler.Handle(context.Background(), &solve.RunBaselineCommand{Dataset: c.ds})
	c.err = err
	if err != nil {
		return nil
	}

	result, ok := response.(*solve.RunBaselineResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}
	c.response = result
	return nil
}

func (c *baselineSolveContext) theSolveSucceeds() error {
	if c.err != nil {
		return fmt.Errorf("solve failed: %v", c.err)
	}
	if c.response == nil || c.response.Record == nil {
		return fmt.Errorf("no solution record produced")
	}
	return nil
}

func (c *baselineSolveContext) theSelectedFacilityIs(facilityID string) error {
	if got := c.response.Record.FacilityID; got != facilityID {
		return fmt.Errorf("facility is %s, want %s", got, facilityID)
	}
	return nil
}

func (c *baselineSolveContext) theTotalCostIs(expected float64) error {
	got := c.response.Record.Costs.Total
	if math.Abs(got-expected) > 0.01 {
		return fmt.Errorf("total cost %.2f, want %.2f", got, expected)
	}
	return nil
}

func (c *baselineSolveContext) theRawRequirementIs(expected float64) error {
	got := c.response.Record.TotalRawTons
	if math.Abs(got-expected) > 0.01 {
		return fmt.Errorf("raw requirement %.2f t, want %.2f t", got, expected)
	}
	return nil
}

func (c *baselineSolveContext) portShips(portID string, expected float64) error {
	for _, shipment := range c.response.Record.PortShipments {
		if shipment.PortID != portID {
			continue
		}
		if math.Abs(shipment.Tons-expected) > 0.01 {
			return fmt.Errorf("port %s ships %.2f t, want %.2f t", portID, shipment.Tons, expected)
		}
		return nil
	}
	return fmt.Errorf("port %s not in shipment plan", portID)
}

func (c *baselineSolveContext) theRawTonnageByTypeIs(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		name := cellValue(table, row, "material")
		material, err := dataset.ParseMaterial(name)
		if err != nil {
			return err
		}
		expected, err := strconv.ParseFloat(cellValue(table, row, "tons"), 64)
		if err != nil {
			return fmt.Errorf("bad tons cell for %s: %w", name, err)
		}
		got := c.response.Record.TonsByMaterial[material]
		if math.Abs(got-expected) > 0.01 {
			return fmt.Errorf("%s is %.2f t, want %.2f t", name, got, expected)
		}
	}
	return nil
}

// cellValue reads one named column from a table row, using the header row to
// resolve the column index.
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (c *baselineSolveContext) solveFailsWithCapacityError(phase int) error {
	if c.err == nil {
		return fmt.Errorf("expected the solve to fail")
	}
	var infeasible *shared.DataInfeasibleError
	if !errors.As(c.err, &infeasible) {
		return fmt.Errorf("expected a capacity error, got %v", c.err)
	}
	if infeasible.Phase != phase {
		return fmt.Errorf("capacity error names phase %d, want %d", infeasible.Phase, phase)
	}
	return nil
}
