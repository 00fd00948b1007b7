// Package solver adapts the declarative optimization model to gonum's
// simplex implementation.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"siteopt/internal/domain/optimize"
	"siteopt/internal/domain/shared"
)

const (
	// defaultTolerance is passed to the simplex when options leave it unset.
	defaultTolerance = 1e-10

	// cleanupEpsilon clamps tiny negative solution values caused by float
	// round-off back to zero.
	cleanupEpsilon = 1e-9
)

// SimplexSolver solves linear models with gonum's dense simplex. Models are
// converted to standard form (equalities over non-negative columns) here:
// inequality rows gain slack or surplus columns, finite upper bounds become
// extra rows, lower bounds are shifted out.
type SimplexSolver struct {
	clock shared.Clock
}

// NewSimplexSolver creates the adapter.
func NewSimplexSolver(clock shared.Clock) *SimplexSolver {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SimplexSolver{clock: clock}
}

// Solve implements optimize.Solver. The simplex itself has no cancellation
// hook, so it runs in a goroutine raced against the context; on expiry the
// abandoned run finishes in the background and its result is discarded.
func (s *SimplexSolver) Solve(ctx context.Context, model *optimize.Model, opts optimize.Options) (*optimize.Result, error) {
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}

	form, err := toStandardForm(model)
	if err != nil {
		if errors.Is(err, optimize.ErrInfeasible) {
			return nil, err
		}
		return nil, fmt.Errorf("model %s: %w", model.Name, err)
	}

	started := s.clock.Now()

	type outcome struct {
		objective float64
		values    []float64
		err       error
	}
	done := make(chan outcome, 1)
	go func() {
		objective, values, err := lp.Simplex(form.costs, form.a, form.b, tol, nil)
		done <- outcome{objective: objective, values: values, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return nil, mapSimplexError(model.Name, out.err)
		}
		return s.extractResult(model, form, out.objective, out.values, started), nil
	}
}

func mapSimplexError(name string, err error) error {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return optimize.ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return optimize.ErrUnbounded
	default:
		return fmt.Errorf("model %s: simplex failed: %w", name, err)
	}
}

func (s *SimplexSolver) extractResult(model *optimize.Model, form *standardForm, objective float64, solved []float64, started time.Time) *optimize.Result {
	values := make(map[string]float64, model.NumVariables())
	for i, v := range model.Variables() {
		value := solved[i] + v.Lower
		if value < 0 && value > -cleanupEpsilon {
			value = 0
		}
		values[v.Name] = value
	}
	return &optimize.Result{
		Objective: objective + form.offset,
		Values:    values,
		Duration:  s.clock.Now().Sub(started),
	}
}

// standardForm is min costs*z subject to a*z = b, z >= 0, where z holds the
// shifted model variables followed by slack/surplus columns.
type standardForm struct {
	costs  []float64
	a      *mat.Dense
	b      []float64
	offset float64 // objective constant from shifted lower bounds
}

type standardRow struct {
	coeffs map[int]float64
	slack  float64 // +1 slack, -1 surplus, 0 equality
	rhs    float64
}

// toStandardForm rewrites the model for lp.Simplex. Rows whose terms all
// reference omitted columns degenerate to constant comparisons: a violated
// one makes the model infeasible, a satisfied one is dropped.
func toStandardForm(model *optimize.Model) (*standardForm, error) {
	vars := model.Variables()
	n := len(vars)
	if n == 0 {
		return nil, fmt.Errorf("no variables")
	}

	var offset float64
	for _, v := range vars {
		if v.Lower < 0 {
			return nil, fmt.Errorf("variable %s has negative lower bound %g", v.Name, v.Lower)
		}
		offset += v.Cost * v.Lower
	}

	var rows []standardRow
	for _, c := range model.Constraints() {
		row := standardRow{coeffs: make(map[int]float64, len(c.Terms)), rhs: c.RHS}
		for name, coeff := range c.Terms {
			idx, ok := model.VariableIndex(name)
			if !ok {
				return nil, fmt.Errorf("constraint %s references unknown variable %s", c.Name, name)
			}
			row.coeffs[idx] += coeff
			row.rhs -= coeff * vars[idx].Lower
		}

		if len(row.coeffs) == 0 {
			if constraintHolds(c.Sense, row.rhs) {
				continue
			}
			return nil, optimize.ErrInfeasible
		}

		switch c.Sense {
		case optimize.LessEqual:
			row.slack = 1
		case optimize.GreaterEqual:
			row.slack = -1
		}
		rows = append(rows, row)
	}

	// finite upper bounds become slack rows on the shifted variable
	for i, v := range vars {
		if math.IsInf(v.Upper, 1) {
			continue
		}
		rows = append(rows, standardRow{
			coeffs: map[int]float64{i: 1},
			slack:  1,
			rhs:    v.Upper - v.Lower,
		})
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no constraints")
	}

	slacks := 0
	for _, row := range rows {
		if row.slack != 0 {
			slacks++
		}
	}

	cols := n + slacks
	a := mat.NewDense(len(rows), cols, nil)
	b := make([]float64, len(rows))
	costs := make([]float64, cols)
	for i, v := range vars {
		costs[i] = v.Cost
	}

	slackCol := n
	for r, row := range rows {
		for idx, coeff := range row.coeffs {
			a.Set(r, idx, coeff)
		}
		if row.slack != 0 {
			a.Set(r, slackCol, row.slack)
			slackCol++
		}
		b[r] = row.rhs
	}

	return &standardForm{costs: costs, a: a, b: b, offset: offset}, nil
}

func constraintHolds(sense optimize.Sense, rhs float64) bool {
	switch sense {
	case optimize.LessEqual:
		return rhs >= 0
	case optimize.GreaterEqual:
		return rhs <= 0
	default:
		return math.Abs(rhs) < cleanupEpsilon
	}
}
