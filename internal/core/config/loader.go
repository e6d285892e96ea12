package config

import (
	"os"
	"strings"
	"time"

	"symtab/internal/core/errors"

	"github.com/BurntSushi/toml"
)

const (
	DefaultBuckets  = 7
	DefaultDebounce = 300 * time.Millisecond
	DefaultAddress  = "127.0.0.1:9464"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CodeSyntaxError, "decode config").WithContext(errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], errors.CodeValidationError, "invalid config").WithContext(errors.CtxPath, path)
	}

	return &cfg, nil
}

// LoadDefault builds the configuration used when no config file exists:
// defaults plus environment overrides.
func LoadDefault() (*Config, error) {
	cfg := DefaultConfig()
	ApplyEnvOverrides(cfg)
	normalize(cfg)
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], errors.CodeValidationError, "invalid environment overrides")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Table.Buckets == 0 {
		cfg.Table.Buckets = DefaultBuckets
	}
	if strings.TrimSpace(cfg.Trace.Labels) == "" {
		cfg.Trace.Labels = "id"
	}
	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	// Default debounce if not set.
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if strings.TrimSpace(cfg.Observability.Address) == "" {
		cfg.Observability.Address = DefaultAddress
	}
}

func normalize(cfg *Config) {
	cfg.Trace.Labels = strings.ToLower(strings.TrimSpace(cfg.Trace.Labels))
	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Observability.Address = strings.TrimSpace(cfg.Observability.Address)
	if len(cfg.Watch.Ignore) == 0 {
		return
	}
	ignore := make([]string, 0, len(cfg.Watch.Ignore))
	for _, p := range cfg.Watch.Ignore {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ignore = append(ignore, p)
	}
	cfg.Watch.Ignore = ignore
}
