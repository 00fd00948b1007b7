package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Data defaults
	if cfg.Data.DatasetPath == "" {
		cfg.Data.DatasetPath = "data/dataset.yaml"
	}

	// Solver defaults
	if cfg.Solver.TimeLimit == 0 {
		cfg.Solver.TimeLimit = 5 * time.Minute
	}
	if cfg.Solver.Tolerance == 0 {
		cfg.Solver.Tolerance = 1e-10
	}

	// Natural-language parser defaults
	if cfg.NL.Model == "" {
		cfg.NL.Model = "gemini-2.5-flash"
	}
	if cfg.NL.Timeout == 0 {
		cfg.NL.Timeout = 60 * time.Second
	}
	if cfg.NL.RequestsPerMinute == 0 {
		cfg.NL.RequestsPerMinute = 10
	}

	// Database defaults
	if cfg.Database.Path == "" {
		cfg.Database.Path = ":memory:"
	}

	// Reports defaults
	if cfg.Reports.OutputDir == "" {
		cfg.Reports.OutputDir = "reports"
	}
}
