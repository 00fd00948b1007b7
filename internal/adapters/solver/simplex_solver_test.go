package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteopt/internal/adapters/solver"
	"siteopt/internal/domain/optimize"
)

func TestSimplexSolver_SolvesBoundedLP(t *testing.T) {
	// Arrange - min 2x + 3y, x + y = 10, x <= 6: push x to its bound
	model := optimize.NewModel("bounded")
	require.NoError(t, model.AddVariable("x", 2, 0, 6))
	require.NoError(t, model.AddVariable("y", 3, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name:  "demand",
		Terms: map[string]float64{"x": 1, "y": 1},
		Sense: optimize.Equal,
		RHS:   10,
	})
	s := solver.NewSimplexSolver(nil)

	// Act
	result, err := s.Solve(context.Background(), model, optimize.Options{})

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 24, result.Objective, 1e-6)
	assert.InDelta(t, 6, result.Value("x"), 1e-6)
	assert.InDelta(t, 4, result.Value("y"), 1e-6)
	assert.GreaterOrEqual(t, result.Duration.Nanoseconds(), int64(0))
}

func TestSimplexSolver_ShiftsLowerBounds(t *testing.T) {
	// min x + 0y, x + y = 6, x in [2,5]: x rests on its lower bound
	model := optimize.NewModel("shifted")
	require.NoError(t, model.AddVariable("x", 1, 2, 5))
	require.NoError(t, model.AddVariable("y", 0, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name:  "sum",
		Terms: map[string]float64{"x": 1, "y": 1},
		Sense: optimize.Equal,
		RHS:   6,
	})
	s := solver.NewSimplexSolver(nil)

	result, err := s.Solve(context.Background(), model, optimize.Options{})

	require.NoError(t, err)
	assert.InDelta(t, 2, result.Objective, 1e-6)
	assert.InDelta(t, 2, result.Value("x"), 1e-6)
	assert.InDelta(t, 4, result.Value("y"), 1e-6)
}

func TestSimplexSolver_GreaterEqualRows(t *testing.T) {
	// min 4x + 5y, x + 2y >= 8, 3x + y >= 9
	model := optimize.NewModel("cover")
	require.NoError(t, model.AddVariable("x", 4, 0, optimize.Inf()))
	require.NoError(t, model.AddVariable("y", 5, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name: "c1", Terms: map[string]float64{"x": 1, "y": 2},
		Sense: optimize.GreaterEqual, RHS: 8,
	})
	model.AddConstraint(optimize.Constraint{
		Name: "c2", Terms: map[string]float64{"x": 3, "y": 1},
		Sense: optimize.GreaterEqual, RHS: 9,
	})
	s := solver.NewSimplexSolver(nil)

	result, err := s.Solve(context.Background(), model, optimize.Options{})

	require.NoError(t, err)
	// intersection at x=2, y=3
	assert.InDelta(t, 23, result.Objective, 1e-6)
	assert.InDelta(t, 2, result.Value("x"), 1e-6)
	assert.InDelta(t, 3, result.Value("y"), 1e-6)
}

func TestSimplexSolver_InfeasibleModel(t *testing.T) {
	// x <= 2 bound against x >= 5 row
	model := optimize.NewModel("impossible")
	require.NoError(t, model.AddVariable("x", 1, 0, 2))
	model.AddConstraint(optimize.Constraint{
		Name: "floor", Terms: map[string]float64{"x": 1},
		Sense: optimize.GreaterEqual, RHS: 5,
	})
	s := solver.NewSimplexSolver(nil)

	_, err := s.Solve(context.Background(), model, optimize.Options{})

	assert.ErrorIs(t, err, optimize.ErrInfeasible)
}

func TestSimplexSolver_UnboundedModel(t *testing.T) {
	model := optimize.NewModel("runaway")
	require.NoError(t, model.AddVariable("x", -1, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name: "floor", Terms: map[string]float64{"x": 1},
		Sense: optimize.GreaterEqual, RHS: 1,
	})
	s := solver.NewSimplexSolver(nil)

	_, err := s.Solve(context.Background(), model, optimize.Options{})

	assert.ErrorIs(t, err, optimize.ErrUnbounded)
}

func TestSimplexSolver_EmptyRowsResolveByTruth(t *testing.T) {
	// cap rows over materials nobody supplies have no terms; satisfied ones
	// vanish, violated ones are infeasible before the simplex even runs
	model := optimize.NewModel("empty-rows")
	require.NoError(t, model.AddVariable("x", 1, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name: "anchor", Terms: map[string]float64{"x": 1},
		Sense: optimize.Equal, RHS: 3,
	})
	model.AddConstraint(optimize.Constraint{
		Name: "vacuous", Terms: map[string]float64{},
		Sense: optimize.LessEqual, RHS: 100,
	})
	s := solver.NewSimplexSolver(nil)

	result, err := s.Solve(context.Background(), model, optimize.Options{})
	require.NoError(t, err)
	assert.InDelta(t, 3, result.Objective, 1e-6)

	model.AddConstraint(optimize.Constraint{
		Name: "violated", Terms: map[string]float64{},
		Sense: optimize.Equal, RHS: 7,
	})
	_, err = s.Solve(context.Background(), model, optimize.Options{})
	assert.ErrorIs(t, err, optimize.ErrInfeasible)
}

func TestSimplexSolver_UnknownTermRejected(t *testing.T) {
	model := optimize.NewModel("dangling")
	require.NoError(t, model.AddVariable("x", 1, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name: "bad", Terms: map[string]float64{"ghost": 1},
		Sense: optimize.Equal, RHS: 1,
	})
	s := solver.NewSimplexSolver(nil)

	_, err := s.Solve(context.Background(), model, optimize.Options{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestSimplexSolver_FacilityCandidateShape(t *testing.T) {
	// The sourcing LP for one facility candidate: three supply columns with
	// box bounds feeding an exact production target, one port column.
	// Cheapest local supply fills first, the remainder imports at 120.
	model := optimize.NewModel("Gamma_Forge")
	require.NoError(t, model.AddVariable("procure[Alpha_Mill|A]", 120, 0, 50000))
	require.NoError(t, model.AddVariable("procure[Beta_Works|A]", 120, 0, 60000))
	require.NoError(t, model.AddVariable("procure[Gamma_Forge|A]", 100, 0, 70000))
	require.NoError(t, model.AddVariable("ship[PortX]", 30, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name: "cap[A]",
		Terms: map[string]float64{
			"procure[Alpha_Mill|A]":  0.9,
			"procure[Beta_Works|A]":  0.9,
			"procure[Gamma_Forge|A]": 0.9,
		},
		Sense: optimize.LessEqual, RHS: 100000,
	})
	model.AddConstraint(optimize.Constraint{
		Name: "production",
		Terms: map[string]float64{
			"procure[Alpha_Mill|A]":  0.9,
			"procure[Beta_Works|A]":  0.9,
			"procure[Gamma_Forge|A]": 0.9,
		},
		Sense: optimize.Equal, RHS: 100000,
	})
	model.AddConstraint(optimize.Constraint{
		Name:  "port_balance",
		Terms: map[string]float64{"ship[PortX]": 1},
		Sense: optimize.Equal, RHS: 100000,
	})
	s := solver.NewSimplexSolver(nil)

	result, err := s.Solve(context.Background(), model, optimize.Options{})

	require.NoError(t, err)
	assert.InDelta(t, 14933333.33, result.Objective, 0.01)

	raw := result.Value("procure[Alpha_Mill|A]") +
		result.Value("procure[Beta_Works|A]") +
		result.Value("procure[Gamma_Forge|A]")
	assert.InDelta(t, 111111.11, raw, 0.01)
	assert.InDelta(t, 70000, result.Value("procure[Gamma_Forge|A]"), 1e-3)
	assert.InDelta(t, 100000, result.Value("ship[PortX]"), 1e-3)
}

func TestSimplexSolver_NoNegativeValues(t *testing.T) {
	model := optimize.NewModel("clean")
	require.NoError(t, model.AddVariable("x", 1, 0, optimize.Inf()))
	require.NoError(t, model.AddVariable("y", 1, 0, optimize.Inf()))
	model.AddConstraint(optimize.Constraint{
		Name: "sum", Terms: map[string]float64{"x": 1, "y": 1},
		Sense: optimize.Equal, RHS: 1,
	})
	s := solver.NewSimplexSolver(nil)

	result, err := s.Solve(context.Background(), model, optimize.Options{})

	require.NoError(t, err)
	for name, v := range result.Values {
		assert.GreaterOrEqual(t, v, 0.0, name)
	}
}
