package planning_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/planning"
	"siteopt/internal/domain/shared"
	"siteopt/test/fixtures"
	"siteopt/test/helpers"
)

func TestPhaseTwo_SolvesAtFixedFacility(t *testing.T) {
	// Arrange
	ds := fixtures.FiveMaterialDataset()
	solver := helpers.NewMockSolver()
	solver.SetObjective("Gamma_Forge", 14000000)
	solver.SetValues("Gamma_Forge", map[string]float64{
		"procure[Gamma_Forge|A]": 70000,
		"procure[Gamma_Forge|E]": 25000,
		"ship[PortY]":            100000,
	})
	engine := planning.NewPhaseTwoEngine(solver, nil)

	// Act
	result, err := engine.Run(context.Background(), ds, "Gamma_Forge", optimize.Options{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Gamma_Forge", result.FacilityID)
	assert.InDelta(t, 14000000, result.Objective, 1e-9)
	assert.InDelta(t, 25000, result.Values["procure[Gamma_Forge|E]"], 1e-9)
	assert.Equal(t, []string{"Gamma_Forge"}, solver.Calls())
}

func TestPhaseTwo_UnknownFacility(t *testing.T) {
	ds := fixtures.FiveMaterialDataset()
	engine := planning.NewPhaseTwoEngine(helpers.NewMockSolver(), nil)

	_, err := engine.Run(context.Background(), ds, "Delta_Yard", optimize.Options{})

	var inconsistent *shared.InconsistentDataError
	require.ErrorAs(t, err, &inconsistent)
	assert.Equal(t, "facility", inconsistent.Field)
}

func TestPhaseTwo_Infeasible(t *testing.T) {
	ds := fixtures.FiveMaterialDataset()
	solver := helpers.NewMockSolver()
	solver.SetError("Gamma_Forge", optimize.ErrInfeasible)
	engine := planning.NewPhaseTwoEngine(solver, nil)

	_, err := engine.Run(context.Background(), ds, "Gamma_Forge", optimize.Options{})

	var infeasible *shared.ModelInfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, 2, infeasible.Phase)
	assert.Equal(t, "Gamma_Forge", infeasible.FacilityID)
}

func TestPhaseTwo_NoOutboundLane(t *testing.T) {
	ds := fixtures.FiveMaterialDataset()
	ds.Freight.Outbound["Gamma_Forge"] = nil
	engine := planning.NewPhaseTwoEngine(helpers.NewMockSolver(), nil)

	_, err := engine.Run(context.Background(), ds, "Gamma_Forge", optimize.Options{})

	var infeasible *shared.ModelInfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, 2, infeasible.Phase)
}

func TestPhaseTwo_TimeLimit(t *testing.T) {
	ds := fixtures.FiveMaterialDataset()
	solver := helpers.NewMockSolver()
	solver.SetDelay(500 * time.Millisecond)
	engine := planning.NewPhaseTwoEngine(solver, nil)

	_, err := engine.Run(context.Background(), ds, "Gamma_Forge", optimize.Options{TimeLimit: 20 * time.Millisecond})

	var timeout *shared.SolveTimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 2, timeout.Phase)
}
