package config

import "time"

type Config struct {
	Version       int           `toml:"version"`
	Table         Table         `toml:"table"`
	Trace         Trace         `toml:"trace"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Observability Observability `toml:"observability"`
}

type Table struct {
	// Buckets is applied to every scope the symbol table creates.
	Buckets int `toml:"buckets"`
}

type Trace struct {
	Verbose bool   `toml:"verbose"`
	Labels  string `toml:"labels"` // id or hierarchical
}

type Output struct {
	Color  bool   `toml:"color"`
	Format string `toml:"format"` // text or markdown
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	Ignore   []string      `toml:"ignore"`
}

type Observability struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

// DefaultConfig returns a configuration with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
