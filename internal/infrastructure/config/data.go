package config

// DataConfig holds dataset file configuration
type DataConfig struct {
	// DatasetPath points at the YAML master file; the CSV freight matrices
	// it names are resolved relative to it.
	DatasetPath string `mapstructure:"dataset_path"`
}
