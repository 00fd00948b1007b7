package helpers

import (
	"context"
	"sync"
	"time"

	"siteopt/internal/domain/optimize"
)

// MockSolver scripts solver outcomes by model name for deterministic engine
// tests. Candidate models are named after the facility site id, so tests
// script per-candidate objectives directly.
type MockSolver struct {
	mu sync.Mutex

	objectives map[string]float64
	values     map[string]map[string]float64
	errs       map[string]error
	delay      time.Duration
	calls      []string
}

// NewMockSolver creates an empty mock; unscripted models solve to objective 0
// with no variable values.
func NewMockSolver() *MockSolver {
	return &MockSolver{
		objectives: make(map[string]float64),
		values:     make(map[string]map[string]float64),
		errs:       make(map[string]error),
	}
}

// SetObjective scripts the objective value returned for a model name.
func (m *MockSolver) SetObjective(model string, objective float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objectives[model] = objective
}

// SetValues scripts the variable values returned for a model name.
func (m *MockSolver) SetValues(model string, values map[string]float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[model] = values
}

// SetError scripts a failure for a model name.
func (m *MockSolver) SetError(model string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[model] = err
}

// SetDelay makes every Solve call block, for exercising cancellation.
func (m *MockSolver) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls returns the model names solved so far, in order.
func (m *MockSolver) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Solve implements optimize.Solver with the scripted behavior.
func (m *MockSolver) Solve(ctx context.Context, model *optimize.Model, _ optimize.Options) (*optimize.Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, model.Name)
	delay := m.delay
	err := m.errs[model.Name]
	objective := m.objectives[model.Name]
	values := m.values[model.Name]
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]float64)
	}
	return &optimize.Result{
		Objective: objective,
		Values:    values,
		Duration:  time.Millisecond,
	}, nil
}
