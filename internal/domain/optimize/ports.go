package optimize

import (
	"context"
	"errors"
	"time"
)

// Sentinel outcomes adapters translate solver-specific failures into.
// Callers attribute them to a phase; the adapter only knows the model.
var (
	ErrInfeasible = errors.New("model has no feasible solution")
	ErrUnbounded  = errors.New("model is unbounded")
)

// Options bound a single solve call.
type Options struct {
	TimeLimit time.Duration // zero means the adapter default
	Tolerance float64       // numeric tolerance, zero means the adapter default
}

// Result of a successful solve.
type Result struct {
	Objective float64
	Values    map[string]float64 // by variable name
	Duration  time.Duration
}

// Value returns a solved variable value, zero when the variable is absent.
func (r *Result) Value(name string) float64 {
	return r.Values[name]
}

// Solver is the narrow port to the external solving capability. Implementations
// must honor ctx cancellation and the Options time limit, returning
// context.DeadlineExceeded (wrapped or bare) when the limit expires.
type Solver interface {
	Solve(ctx context.Context, m *Model, opts Options) (*Result, error)
}
