package config

// ReportsConfig holds report writer configuration
type ReportsConfig struct {
	// OutputDir is where markdown reports are written
	OutputDir string `mapstructure:"output_dir"`
}
