package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/domain/dataset"
	"siteopt/internal/domain/planning"
	"siteopt/internal/domain/shared"
	"siteopt/test/fixtures"
)

func TestFeasibility_FeasibleAtShareCap(t *testing.T) {
	// Arrange - 180k t of A at yield 0.9 could make 162k t, but the share cap
	// limits A to exactly the 100k target
	ds := fixtures.ThreePointDataset()
	checker := planning.NewFeasibilityChecker()

	// Act
	report := checker.Check(ds, dataset.PhaseOneMaterials())

	// Assert
	assert.True(t, report.Feasible)
	assert.InDelta(t, 100000, report.AchievableTons, 1e-6)
	assert.Zero(t, report.ShortfallTons())

	require.Len(t, report.Limits, 4)
	assert.Equal(t, "RawMaterialA", report.Limits[0].Material)
	assert.Equal(t, "share", report.Limits[0].Bound)
	// Materials with no volume are supply-bound at zero
	assert.Equal(t, "supply", report.Limits[1].Bound)
	assert.Zero(t, report.Limits[1].Achievable)
}

func TestFeasibility_InfeasibleBySupply(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	ds.Demand.TargetTons = 200000
	checker := planning.NewFeasibilityChecker()

	report, err := checker.Ensure(ds, dataset.PhaseOneMaterials(), 1)

	var infeasible *shared.DataInfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, 1, infeasible.Phase)
	assert.InDelta(t, 162000, infeasible.AchievableTons, 1e-6)
	assert.InDelta(t, 38000, infeasible.ShortfallTons, 1e-6)

	assert.False(t, report.Feasible)
	assert.Equal(t, "supply", report.Limits[0].Bound)
}

func TestFeasibility_InfeasibleByShareCap(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	ds.Demand.MaxConsumptionShares[dataset.MaterialA] = 0.5
	checker := planning.NewFeasibilityChecker()

	report := checker.Check(ds, dataset.PhaseOneMaterials())

	assert.False(t, report.Feasible)
	assert.InDelta(t, 50000, report.AchievableTons, 1e-6)
	assert.Equal(t, "share", report.Limits[0].Bound)
	assert.InDelta(t, 50000, report.ShortfallTons(), 1e-6)
}

func TestFeasibility_ConstrainedMaterialAddsCapacity(t *testing.T) {
	// 75k t of E at yield 0.7 adds 52.5k t of capacity on top of phase one
	ds := fixtures.FiveMaterialDataset()
	ds.Demand.TargetTons = 300000
	checker := planning.NewFeasibilityChecker()

	phase1 := checker.Check(ds, dataset.PhaseOneMaterials())
	full := checker.Check(ds, dataset.AllMaterials())

	assert.Greater(t, full.AchievableTons, phase1.AchievableTons)
	assert.InDelta(t, 52500, full.AchievableTons-phase1.AchievableTons, 1e-6)

	eLimit := full.Limits[len(full.Limits)-1]
	assert.Equal(t, "RawMaterialE", eLimit.Material)
	assert.InDelta(t, 52500, eLimit.Achievable, 1e-6) // supply bound: 75000*0.7 < 0.2*300000
	assert.Equal(t, "supply", eLimit.Bound)
}

func TestFeasibility_ExactTargetIsFeasible(t *testing.T) {
	ds := fixtures.ThreePointDataset()
	ds.Demand.TargetTons = 162000 // exactly the supply cap of A
	checker := planning.NewFeasibilityChecker()

	report := checker.Check(ds, dataset.PhaseOneMaterials())

	assert.True(t, report.Feasible)
}
