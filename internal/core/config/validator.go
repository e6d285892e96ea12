package config

import (
	"fmt"
	"net"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateTable(cfg *Config) error {
	if cfg.Table.Buckets <= 0 {
		return fmt.Errorf("table.buckets must be a positive integer, got %d", cfg.Table.Buckets)
	}
	return nil
}

func validateTrace(cfg *Config) error {
	switch cfg.Trace.Labels {
	case "id", "hierarchical":
		return nil
	default:
		return fmt.Errorf("trace.labels must be one of: id, hierarchical; got %q", cfg.Trace.Labels)
	}
}

func validateOutput(cfg *Config) error {
	switch cfg.Output.Format {
	case "text", "markdown":
		return nil
	default:
		return fmt.Errorf("output.format must be one of: text, markdown; got %q", cfg.Output.Format)
	}
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	for i, pattern := range cfg.Watch.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("watch.ignore[%d] %q is not a valid pattern: %w", i, pattern, err)
		}
	}
	return nil
}

func validateObservability(cfg *Config) error {
	if !cfg.Observability.Enabled {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Observability.Address); err != nil {
		return fmt.Errorf("observability.address %q must be host:port: %w", cfg.Observability.Address, err)
	}
	return nil
}

// Validate returns every problem found in cfg, in section order.
func Validate(cfg *Config) []error {
	var errs []error

	for _, check := range []func(*Config) error{
		validateVersion,
		validateTable,
		validateTrace,
		validateOutput,
		validateWatch,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
