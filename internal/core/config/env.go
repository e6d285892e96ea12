package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SYMTAB_[SECTION]_[KEY] (e.g., SYMTAB_TABLE_BUCKETS).
func ApplyEnvOverrides(cfg *Config) {
	setEnvInt(&cfg.Table.Buckets, "SYMTAB_TABLE_BUCKETS")

	setEnvBool(&cfg.Trace.Verbose, "SYMTAB_TRACE_VERBOSE")
	setEnvString(&cfg.Trace.Labels, "SYMTAB_TRACE_LABELS")

	setEnvBool(&cfg.Output.Color, "SYMTAB_OUTPUT_COLOR")
	setEnvString(&cfg.Output.Format, "SYMTAB_OUTPUT_FORMAT")

	setEnvDuration(&cfg.Watch.Debounce, "SYMTAB_WATCH_DEBOUNCE")

	setEnvBool(&cfg.Observability.Enabled, "SYMTAB_OBSERVABILITY_ENABLED")
	setEnvString(&cfg.Observability.Address, "SYMTAB_OBSERVABILITY_ADDRESS")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
