package solve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/application/solve"
	"siteopt/internal/domain/optimize"
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

func TestPipeline_EndToEnd(t *testing.T) {
	// Arrange
	ds := fixtures.ThreePointDataset()
	solver := scriptedSolver()
	pipeline := solve.NewPipeline(solver, nil)

	// Act
	result, err := pipeline.Run(context.Background(), ds, "baseline", optimize.Options{})

	// Assert
	require.NoError(t, err)
	rec := result.Record
	assert.Equal(t, "Gamma_Forge", rec.FacilityID)
	assert.InDelta(t, 14933333.33, rec.Costs.Total, 1.0)
	assert.InDelta(t, 111111.11, rec.TotalRawTons, 0.01)
	assert.Equal(t, []string{"PortX"}, rec.SelectedPorts)
	assert.True(t, result.PhaseOneFeasibility.Feasible)
	assert.True(t, result.FullFeasibility.Feasible)

	// three phase-1 candidates, then the phase-2 re-solve at the winner
	assert.Equal(t, []string{"Alpha_Mill", "Beta_Works", "Gamma_Forge", "Gamma_Forge"}, solver.Calls())
}

func TestPipeline_InfeasibleDataStopsBeforeSolving(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	ds.Demand.TargetTons = 500000
	solver := helpers.NewMockSolver()
	pipeline := solve.NewPipeline(solver, nil)

	_, err := pipeline.Run(context.Background(), ds, "impossible", optimize.Options{})

	var infeasible *shared.DataInfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, 1, infeasible.Phase)
	assert.Empty(t, solver.Calls(), "no model may be solved after a failed pre-check")
}

func TestPipeline_InvalidDatasetRejected(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	ds.Demand.TargetTons = -5
	pipeline := solve.NewPipeline(helpers.NewMockSolver(), nil)

	_, err := pipeline.Run(context.Background(), ds, "broken", optimize.Options{})

	var inconsistent *shared.InconsistentDataError
	require.ErrorAs(t, err, &inconsistent)
}

func TestRunBaselineHandler_DefaultsLabel(t *testing.T) {
	pipeline := solve.NewPipeline(scriptedSolver(), nil)
	handler := solve.NewRunBaselineHandler(pipeline)

	resp, err := handler.Handle(context.Background(), &solve.RunBaselineCommand{
		Dataset: fixtures.ThreePointDataset(),
	})

	require.NoError(t, err)
	response, ok := resp.(*solve.RunBaselineResponse)
	require.True(t, ok)
	assert.Equal(t, "baseline", response.Record.Label)
	assert.Equal(t, "Gamma_Forge", response.Record.FacilityID)
}

func TestRunBaselineHandler_RejectsWrongRequestType(t *testing.T) {
	handler := solve.NewRunBaselineHandler(solve.NewPipeline(helpers.NewMockSolver(), nil))

	_, err := handler.Handle(context.Background(), "not a command")

	assert.Error(t, err)
}

func TestRunBaselineHandler_RequiresDataset(t *testing.T) {
	handler := solve.NewRunBaselineHandler(solve.NewPipeline(helpers.NewMockSolver(), nil))

	_, err := handler.Handle(context.Background(), &solve.RunBaselineCommand{})

	assert.Error(t, err)
}

func TestCheckFeasibilityHandler_ReportsBothMaterialSets(t *testing.T) {
	// Phase-one materials alone miss a 250k target; adding E closes the gap
	ds := fixtures.FiveMaterialDataset()
	ds.Demand.TargetTons = 250000
	handler := solve.NewCheckFeasibilityHandler()

	resp, err := handler.Handle(context.Background(), &solve.CheckFeasibilityQuery{Dataset: ds})

	require.NoError(t, err)
	response, ok := resp.(*solve.CheckFeasibilityResponse)
	require.True(t, ok)
	assert.False(t, response.PhaseOne.Feasible)
	assert.True(t, response.Full.Feasible)
	assert.InDelta(t, 234000, response.PhaseOne.AchievableTons, 1e-6)
	assert.InDelta(t, 284000, response.Full.AchievableTons, 1e-6)
}

func TestCheckFeasibilityHandler_ValidatesDataset(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	ds.Points[0].SiteID = ds.Points[1].SiteID // duplicate ids
	handler := solve.NewCheckFeasibilityHandler()

	_, err := handler.Handle(context.Background(), &solve.CheckFeasibilityQuery{Dataset: ds})

	var inconsistent *shared.InconsistentDataError
	require.ErrorAs(t, err, &inconsistent)
}
