// Package optimize holds the solver-agnostic linear model structures and the
// narrow port to the external solving capability. Model construction is
// declarative: builders register variables and constraints, an adapter turns
// them into whatever form its solver wants.
package optimize

import (
	"fmt"
	"math"
)

// Variable is a continuous decision column with box bounds.
type Variable struct {
	Name  string
	Cost  float64 // objective coefficient
	Lower float64
	Upper float64 // math.Inf(1) when unbounded above
}

// Sense of a linear constraint.
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "=="
	}
	return "?"
}

// Constraint is sum(Terms[name] * var) Sense RHS.
type Constraint struct {
	Name  string
	Terms map[string]float64
	Sense Sense
	RHS   float64
}

// Model is a linear program in minimization form.
type Model struct {
	Name        string
	vars        []Variable
	index       map[string]int
	constraints []Constraint
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{Name: name, index: make(map[string]int)}
}

// AddVariable registers a column. Names must be unique within the model.
func (m *Model) AddVariable(name string, cost, lower, upper float64) error {
	if name == "" {
		return fmt.Errorf("model %s: empty variable name", m.Name)
	}
	if _, exists := m.index[name]; exists {
		return fmt.Errorf("model %s: duplicate variable %s", m.Name, name)
	}
	if upper < lower {
		return fmt.Errorf("model %s: variable %s has upper %g below lower %g", m.Name, name, upper, lower)
	}
	m.index[name] = len(m.vars)
	m.vars = append(m.vars, Variable{Name: name, Cost: cost, Lower: lower, Upper: upper})
	return nil
}

// AddConstraint registers a row. Terms referencing unknown variables are
// rejected at solve time, not here, so builders can assemble rows freely.
func (m *Model) AddConstraint(c Constraint) {
	m.constraints = append(m.constraints, c)
}

// Variables returns the columns in registration order.
func (m *Model) Variables() []Variable {
	return m.vars
}

// Constraints returns the rows in registration order.
func (m *Model) Constraints() []Constraint {
	return m.constraints
}

// VariableIndex returns the column position of a named variable.
func (m *Model) VariableIndex(name string) (int, bool) {
	i, ok := m.index[name]
	return i, ok
}

// NumVariables reports the column count.
func (m *Model) NumVariables() int {
	return len(m.vars)
}

// NumConstraints reports the row count.
func (m *Model) NumConstraints() int {
	return len(m.constraints)
}

// Inf is the unbounded-above marker for variable bounds.
func Inf() float64 {
	return math.Inf(1)
}
