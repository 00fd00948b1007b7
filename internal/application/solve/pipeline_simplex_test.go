package solve_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/adapters/solver"
	"siteopt/internal/application/solve"
	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/planning"
	"siteopt/test/fixtures"
)

// These tests run the full pipeline against the real simplex adapter on the
// canonical three-point world, checking the hand-computed optimum end to end.

func TestPipeline_SimplexSelectsHighestVolumeSite(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	pipeline := solve.NewPipeline(solver.NewSimplexSolver(nil), nil)

	result, err := pipeline.Run(context.Background(), ds, "baseline", optimize.Options{})

	require.NoError(t, err)
	rec := result.Record
	// Gamma_Forge holds 70k t locally, so it imports the least
	assert.Equal(t, "Gamma_Forge", rec.FacilityID)
	assert.Equal(t, []string{"PortX"}, rec.SelectedPorts)

	assert.InDelta(t, 111111.11, rec.TotalRawTons, 0.01)
	assert.InDelta(t, 100000, rec.TotalFinishedTons, 0.01)
	assert.InDelta(t, 11111111.11, rec.Costs.RawMaterial, 0.1)
	assert.InDelta(t, 822222.22, rec.Costs.InboundFreight, 0.1)
	assert.InDelta(t, 1500000, rec.Costs.OutboundFreight, 0.1)
	assert.InDelta(t, 500000, rec.Costs.PortOperations, 0.1)
	assert.InDelta(t, 1000000, rec.Costs.SeaFreight, 0.1)
	assert.InDelta(t, 14933333.33, rec.Costs.Total, 0.1)

	// the record's itemization and the solver objective must agree
	assert.InDelta(t, rec.Phases.Phase2.ObjectiveValue, rec.Costs.Total, 0.1)
	require.Len(t, rec.Phases.Phase1.Candidates, 3)
}

func TestPipeline_SimplexIsDeterministic(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	pipeline := solve.NewPipeline(solver.NewSimplexSolver(nil), nil)

	first, err := pipeline.Run(context.Background(), ds, "run-a", optimize.Options{})
	require.NoError(t, err)
	second, err := pipeline.Run(context.Background(), ds, "run-b", optimize.Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Record.FacilityID, second.Record.FacilityID)
	assert.Equal(t, first.Record.SelectedPorts, second.Record.SelectedPorts)
	assert.InDelta(t, first.Record.Costs.Total, second.Record.Costs.Total, 1e-6)
}

func TestPipeline_SimplexCostGrowsWithTarget(t *testing.T) {
	pipeline := solve.NewPipeline(solver.NewSimplexSolver(nil), nil)

	small := fixtures.ThreePointDataset()
	small.Demand.TargetTons = 90000
	smallResult, err := pipeline.Run(context.Background(), small, "small", optimize.Options{})
	require.NoError(t, err)

	large := fixtures.ThreePointDataset()
	largeResult, err := pipeline.Run(context.Background(), large, "large", optimize.Options{})
	require.NoError(t, err)

	assert.Less(t, smallResult.Record.Costs.Total, largeResult.Record.Costs.Total)
}

func TestPipeline_SimplexForcedFacilityRaisesFreightOnly(t *testing.T) {
	// Forcing the smallest site keeps the tonnage formula but pays more
	// inbound freight; port-side costs stay identical
	pipeline := solve.NewPipeline(solver.NewSimplexSolver(nil), nil)

	baseline := fixtures.ThreePointDataset()
	baseResult, err := pipeline.Run(context.Background(), baseline, "baseline", optimize.Options{})
	require.NoError(t, err)

	forced := fixtures.ThreePointDataset()
	forced.Overrides.ForcedFacility = "Alpha_Mill"
	forcedResult, err := pipeline.Run(context.Background(), forced, "forced alpha", optimize.Options{})
	require.NoError(t, err)

	require.Equal(t, "Alpha_Mill", forcedResult.Record.FacilityID)
	assert.InDelta(t, baseResult.Record.TotalRawTons, forcedResult.Record.TotalRawTons, 0.01)

	diff := planning.NewComparator().Compare(baseResult.Record, forcedResult.Record)
	assert.True(t, diff.FacilityChanged)

	components := make(map[string]float64, len(diff.CostComponents))
	for _, c := range diff.CostComponents {
		components[c.Name] = c.Absolute
	}
	// 61,111 imported tons instead of 41,111, at the same 20 $/t rate
	assert.InDelta(t, 400000, components["inbound freight"], 0.1)
	assert.InDelta(t, 0, components["raw material purchase"], 0.1)
	assert.InDelta(t, 0, components["outbound freight"], 0.1)
	assert.InDelta(t, 0, components["port operations"], 0.1)
	assert.InDelta(t, 0, components["sea freight"], 0.1)
}
