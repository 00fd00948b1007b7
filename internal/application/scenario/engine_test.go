package scenario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/application/scenario"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
	"siteopt/internal/domain/shared"
	"siteopt/test/fixtures"
	"siteopt/test/helpers"
)

func scriptedSolver() *helpers.MockSolver {
	solver := helpers.NewMockSolver()
	solver.SetObjective("Alpha_Mill", 15333333.33)
	solver.SetObjective("Beta_Works", 15133333.33)
	solver.SetObjective("Gamma_Forge", 14933333.33)
	solver.SetValues("Gamma_Forge", map[string]float64{
		"procure[Gamma_Forge|A]": 70000,
		"procure[Beta_Works|A]":  41111.111111,
		"ship[PortX]":            100000,
	})
	return solver
}

func TestRunScenarioHandler_EmptyListReproducesBaseline(t *testing.T) {
	// Arrange - solve the baseline, then a scenario with no modifications
	ds := fixtures.ThreePointDataset()
	pipeline := solve.NewPipeline(scriptedSolver(), nil)
	baselineHandler := solve.NewRunBaselineHandler(pipeline)
	scenarioHandler := scenario.NewRunScenarioHandler(solve.NewPipeline(scriptedSolver(), nil))

	baseResp, err := baselineHandler.Handle(context.Background(), &solve.RunBaselineCommand{Dataset: ds})
	require.NoError(t, err)
	baseline := baseResp.(*solve.RunBaselineResponse).Record

	// Act
	resp, err := scenarioHandler.Handle(context.Background(), &scenario.RunScenarioCommand{
		Baseline: ds,
		Label:    "unchanged",
	})

	// Assert - identical facility, ports and costs; only identity differs
	require.NoError(t, err)
	rec := resp.(*scenario.RunScenarioResponse).Record
	assert.Equal(t, baseline.FacilityID, rec.FacilityID)
	assert.Equal(t, baseline.SelectedPorts, rec.SelectedPorts)
	assert.InDelta(t, baseline.Costs.Total, rec.Costs.Total, 1e-6)
	assert.InDelta(t, baseline.TotalRawTons, rec.TotalRawTons, 1e-6)
	assert.NotEqual(t, baseline.ID, rec.ID)
}

func TestRunScenarioHandler_InvalidModificationStopsBeforeSolving(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	solver := helpers.NewMockSolver()
	handler := scenario.NewRunScenarioHandler(solve.NewPipeline(solver, nil))

	_, err := handler.Handle(context.Background(), &scenario.RunScenarioCommand{
		Baseline: ds,
		Modifications: []dataset.Modification{
			{Type: dataset.ModForcedFacility, FacilityID: "Nowhere"},
		},
	})

	var invalid *shared.InvalidModificationError
	require.ErrorAs(t, err, &invalid)
	assert.Empty(t, solver.Calls())
}

func TestRunScenarioHandler_ForcedFacilityRestrictsCandidates(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	solver := scriptedSolver()
	solver.SetValues("Beta_Works", map[string]float64{
		"procure[Beta_Works|A]": 60000,
		"procure[Alpha_Mill|A]": 51111.111111,
		"ship[PortX]":           100000,
	})
	handler := scenario.NewRunScenarioHandler(solve.NewPipeline(solver, nil))

	resp, err := handler.Handle(context.Background(), &scenario.RunScenarioCommand{
		Baseline: ds,
		Modifications: []dataset.Modification{
			{Type: dataset.ModForcedFacility, FacilityID: "Beta_Works"},
		},
		Label: "forced beta",
	})

	require.NoError(t, err)
	rec := resp.(*scenario.RunScenarioResponse).Record
	assert.Equal(t, "Beta_Works", rec.FacilityID)
	// phase 1 never solves the other candidates, phase 2 re-solves the winner
	assert.Equal(t, []string{"Beta_Works", "Beta_Works"}, solver.Calls())
}

func TestRunScenarioHandler_BaselineStaysUntouched(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	handler := scenario.NewRunScenarioHandler(solve.NewPipeline(scriptedSolver(), nil))

	_, err := handler.Handle(context.Background(), &scenario.RunScenarioCommand{
		Baseline: ds,
		Modifications: []dataset.Modification{
			{Type: dataset.ModProductionTarget, Action: dataset.ActionScale, Value: 0.8},
			{Type: dataset.ModFreightCost, Action: dataset.ActionScale, Value: 2, Leg: dataset.LegInbound},
		},
	})

	require.NoError(t, err)
	assert.InDelta(t, 100000, ds.Demand.TargetTons, 1e-9)
	assert.InDelta(t, 20, ds.Freight.Inbound["Alpha_Mill"]["Beta_Works"], 1e-9)
	assert.InDelta(t, 30, ds.Freight.MaterialEFlat, 1e-9)
}

func TestRunScenarioHandler_ReturnsMutatedDataset(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	handler := scenario.NewRunScenarioHandler(solve.NewPipeline(scriptedSolver(), nil))

	resp, err := handler.Handle(context.Background(), &scenario.RunScenarioCommand{
		Baseline: ds,
		Modifications: []dataset.Modification{
			{Type: dataset.ModProductionTarget, Action: dataset.ActionScale, Value: 0.9},
		},
	})

	require.NoError(t, err)
	response := resp.(*scenario.RunScenarioResponse)
	assert.InDelta(t, 90000, response.Dataset.Demand.TargetTons, 1e-9)
}

func TestCompareScenariosHandler_ProducesDiff(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	pipeline := solve.NewPipeline(scriptedSolver(), nil)
	baseResp, err := solve.NewRunBaselineHandler(pipeline).Handle(context.Background(),
		&solve.RunBaselineCommand{Dataset: ds})
	require.NoError(t, err)
	baseline := baseResp.(*solve.RunBaselineResponse).Record

	scenSolver := scriptedSolver()
	scenSolver.SetValues("Gamma_Forge", map[string]float64{
		"procure[Gamma_Forge|A]": 70000,
		"procure[Alpha_Mill|A]":  41111.111111,
		"ship[PortX]":            100000,
	})
	scenResp, err := scenario.NewRunScenarioHandler(solve.NewPipeline(scenSolver, nil)).Handle(
		context.Background(), &scenario.RunScenarioCommand{
			Baseline: ds,
			Modifications: []dataset.Modification{
				{Type: dataset.ModMaterialVolume, Action: dataset.ActionSet, Value: 0,
					SiteID: "Beta_Works", Material: dataset.MaterialA},
			},
			Label: "beta dries up",
		})
	require.NoError(t, err)
	scen := scenResp.(*scenario.RunScenarioResponse).Record

	resp, err := scenario.NewCompareScenariosHandler().Handle(context.Background(),
		&scenario.CompareScenariosQuery{Baseline: baseline, Scenario: scen})

	require.NoError(t, err)
	diff := resp.(*scenario.CompareScenariosResponse).Diff
	assert.Equal(t, baseline.ID, diff.BaselineID)
	assert.Equal(t, scen.ID, diff.ScenarioID)
	assert.False(t, diff.FacilityChanged)
	assert.Zero(t, diff.Metrics[0].Absolute) // same tonnage, same rates, same cost
}

func TestCompareScenariosHandler_RequiresBothRecords(t *testing.T) {
	handler := scenario.NewCompareScenariosHandler()

	_, err := handler.Handle(context.Background(), &scenario.CompareScenariosQuery{})

	assert.Error(t, err)
}

func TestSession_CountsScenarios(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	baseline := &planning.SolutionRecord{ID: "solve-baseline-11111111", Label: "baseline"}
	sess := scenario.NewSession(baseline, ds)

	assert.Equal(t, 1, sess.NextScenarioNumber())
	assert.Equal(t, 2, sess.NextScenarioNumber())
	assert.Equal(t, 3, sess.NextScenarioNumber())
	assert.NotEmpty(t, sess.ID)

	// the session keeps its own dataset copy
	ds.Demand.TargetTons = 1
	assert.InDelta(t, 100000, sess.BaselineDataset.Demand.TargetTons, 1e-9)
}
