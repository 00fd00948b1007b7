package config

import "time"

// SolverConfig holds optimization run configuration
type SolverConfig struct {
	// TimeLimit bounds each optimization phase
	TimeLimit time.Duration `mapstructure:"time_limit"`

	// Tolerance is the simplex convergence tolerance
	Tolerance float64 `mapstructure:"tolerance" validate:"omitempty,gt=0"`
}
