package steps

import (
	"context"
	"fmt"
	"math"

	"github.com/cucumber/godog"
	"gorm.io/gorm"

	"siteopt/internal/adapters/persistence"
	"siteopt/internal/adapters/solver"
	"siteopt/internal/application/scenario"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
	"siteopt/internal/infrastructure/database"
	"siteopt/test/fixtures"
	"siteopt/test/helpers"
)

type whatifContext struct {
	db       *gorm.DB
	store    *persistence.GormScenarioStore
	pipeline *solve.Pipeline
	parser   *helpers.MockParser

	session  *scenario.Session
	response *scenario.RunScenarioResponse
	diff     *planning.DiffRecord
	err      error
}

func InitializeWhatifScenario(ctx *godog.ScenarioContext) {
	c := &whatifContext{}

	// Given steps
	ctx.Step(`^a solved baseline for the three point dataset$`, c.aSolvedBaseline)
	ctx.Step(`^the parser reads "([^"]*)" as forcing facility "([^"]*)"$`, c.parserReadsAsForcedFacility)

	// When steps
	ctx.Step(`^I force the facility to "([^"]*)"$`, c.iForceTheFacilityTo)
	ctx.Step(`^I run a scenario with no modifications$`, c.iRunAnEmptyScenario)
	ctx.Step(`^I ask "([^"]*)"$`, c.iAsk)
	ctx.Step(`^I store the scenario in the session store$`, c.iStoreTheScenario)

	// Then steps
	ctx.Step(`^the scenario facility is "([^"]*)"$`, c.theScenarioFacilityIs)
	ctx.Step(`^the finished tonnage matches the baseline$`, c.finishedTonnageMatchesBaseline)
	ctx.Step(`^the total cost rises by ([0-9.]+)$`, c.totalCostRisesBy)
	ctx.Step(`^the total cost matches the baseline$`, c.totalCostMatchesBaseline)
	ctx.Step(`^the sea freight component is unchanged$`, c.seaFreightUnchanged)
	ctx.Step(`^the stored session lists (\d+) records$`, c.storedSessionLists)
	ctx.Step(`^the parser was consulted once$`, c.parserConsultedOnce)

	// Setup/teardown
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		*c = whatifContext{}
		return ctx, c.setup()
	})
}

func (c *whatifContext) setup() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	c.db = db
	c.store = persistence.NewGormScenarioStore(db, nil)
	c.pipeline = solve.NewPipeline(solver.NewSimplexSolver(nil), nil)
	c.parser = helpers.NewMockParser()
	return nil
}

func (c *whatifContext) aSolvedBaseline() error {
	ds := fixtures.ThreePointDataset()

	handler := solve.NewRunBaselineHandler(c.pipeline)
	response, err := handler.Handle(context.Background(), &solve.RunBaselineCommand{Dataset: ds})
	if err != nil {
		return fmt.Errorf("baseline solve failed: %w", err)
	}
	result, ok := response.(*solve.RunBaselineResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}

	c.session = scenario.NewSession(result.Record, ds)
	return c.store.Save(context.Background(), &scenario.StoredScenario{
		SessionID:      c.session.ID,
		ScenarioNumber: 0,
		Label:          result.Record.Label,
		Record:         result.Record,
	})
}

func (c *whatifContext) runScenario(label string, mods []dataset.Modification) error {
	handler := scenario.NewRunScenarioHandler(c.pipeline)
	response, err := handler.Handle(context.Background(), &scenario.RunScenarioCommand{
		Baseline:      c.session.BaselineDataset,
		Modifications: mods,
		Label:         label,
	})
	c.err = err
	if err != nil {
		return nil
	}

	result, ok := response.(*scenario.RunScenarioResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}
	c.response = result

	compared, err := scenario.NewCompareScenariosHandler().Handle(context.Background(), &scenario.CompareScenariosQuery{
		Baseline: c.session.Baseline,
		Scenario: result.Record,
	})
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	diff, ok := compared.(*scenario.CompareScenariosResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", compared)
	}
	c.diff = diff.Diff
	return nil
}

func (c *whatifContext) parserReadsAsForcedFacility(request, facilityID string) error {
	c.parser.SetScenario(request, &scenario.ParsedScenario{
		Name:        "force_" + facilityID,
		Explanation: "Moves all production to " + facilityID + ".",
		Modifications: []dataset.Modification{
			{Type: dataset.ModForcedFacility, FacilityID: facilityID},
		},
	})
	return nil
}

func (c *whatifContext) iForceTheFacilityTo(facilityID string) error {
	return c.runScenario("", []dataset.Modification{
		{Type: dataset.ModForcedFacility, FacilityID: facilityID},
	})
}

func (c *whatifContext) iRunAnEmptyScenario() error {
	return c.runScenario("", nil)
}

func (c *whatifContext) iAsk(request string) error {
	parsed, err := c.parser.Parse(context.Background(), request, c.session.Baseline, c.session.BaselineDataset)
	if err != nil {
		c.err = err
		return nil
	}
	return c.runScenario(parsed.Name, parsed.Modifications)
}

func (c *whatifContext) iStoreTheScenario() error {
	if c.response == nil {
		return fmt.Errorf("no scenario solved yet")
	}
	return c.store.Save(context.Background(), &scenario.StoredScenario{
		SessionID:      c.session.ID,
		ScenarioNumber: c.session.NextScenarioNumber(),
		Label:          c.response.Record.Label,
		Record:         c.response.Record,
	})
}

func (c *whatifContext) theScenarioFacilityIs(facilityID string) error {
	if c.err != nil {
		return fmt.Errorf("scenario failed: %v", c.err)
	}
	if got := c.response.Record.FacilityID; got != facilityID {
		return fmt.Errorf("facility is %s, want %s", got, facilityID)
	}
	return nil
}

func (c *whatifContext) finishedTonnageMatchesBaseline() error {
	baseline := c.session.Baseline.TotalFinishedTons
	got := c.response.Record.TotalFinishedTons
	if math.Abs(got-baseline) > 0.01 {
		return fmt.Errorf("finished tonnage %.2f t, baseline %.2f t", got, baseline)
	}
	return nil
}

func (c *whatifContext) totalCostRisesBy(expected float64) error {
	delta := c.diff.Metrics[0].Absolute
	if math.Abs(delta-expected) > 0.01 {
		return fmt.Errorf("total cost delta %.2f, want %.2f", delta, expected)
	}
	return nil
}

func (c *whatifContext) totalCostMatchesBaseline() error {
	delta := c.diff.Metrics[0].Absolute
	if math.Abs(delta) > 0.01 {
		return fmt.Errorf("total cost delta %.2f, want 0", delta)
	}
	return nil
}

func (c *whatifContext) seaFreightUnchanged() error {
	for _, comp := range c.diff.CostComponents {
		if comp.Name != "sea freight" {
			continue
		}
		if math.Abs(comp.Absolute) > 0.01 {
			return fmt.Errorf("sea freight delta %.2f, want 0", comp.Absolute)
		}
		return nil
	}
	return fmt.Errorf("sea freight component missing from diff")
}

func (c *whatifContext) storedSessionLists(count int) error {
	records, err := c.store.List(context.Background(), c.session.ID)
	if err != nil {
		return fmt.Errorf("failed to list session: %w", err)
	}
	if len(records) != count {
		return fmt.Errorf("session has %d records, want %d", len(records), count)
	}
	return nil
}

func (c *whatifContext) parserConsultedOnce() error {
	if calls := c.parser.Calls(); len(calls) != 1 {
		return fmt.Errorf("parser saw %d requests, want 1", len(calls))
	}
	return nil
}
