package config

// DatabaseConfig holds the scenario store connection configuration.
// The store is SQLite; Path may be a file path or ":memory:".
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}
