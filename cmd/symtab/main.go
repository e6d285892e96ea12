package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"symtab/internal/core/config"
	"symtab/internal/core/errors"
	"symtab/internal/shared/observability"
)

var (
	configPath = flag.String("config", defaultConfigPath, "Path to config file")
	buckets    = flag.Int("buckets", 0, "Override the bucket count of every scope")
	echo       = flag.Bool("echo", true, "Echo each command before its output")
	watch      = flag.Bool("watch", false, "Re-run the script whenever it changes")
	ui         = flag.Bool("ui", false, "Start an interactive terminal session")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging and symbol table tracing")
	version    = flag.Bool("version", false, "Print version and exit")
)

const (
	VERSION           = "1.0.0"
	defaultConfigPath = "./symtab.toml"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: symtab [flags] [script|-]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Printf("symtab v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stderr
	if *ui {
		// In UI mode, avoid logs corrupting the TUI.
		if f, err := openLogFile(resolveLogPath()); err == nil {
			defer f.Close()
			output = f
		} else {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(errors.ExitCode(err))
	}
	if *buckets != 0 {
		cfg.Table.Buckets = *buckets
	}
	if *verbose {
		cfg.Trace.Verbose = true
	}
	if errs := config.Validate(cfg); len(errs) > 0 {
		slog.Error("invalid configuration", "error", errs[0])
		os.Exit(2)
	}

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(cfg, os.Stdout, os.Stdin)
	app.Echo = *echo

	if cfg.Observability.Enabled {
		srv := observability.NewServer(cfg.Observability.Address, app.Health)
		if err := srv.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			os.Exit(1)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Stop(shutdownCtx)
		}()
	}

	switch {
	case *ui:
		err = app.RunUI(ctx)
	case *watch:
		err = app.WatchScript(ctx, path)
	default:
		err = app.RunScript(ctx, path)
	}
	if err != nil {
		slog.Error("symtab failed", "error", err)
		stop()
		os.Exit(errors.ExitCode(err))
	}
}

// loadConfig reads path; a missing default config file falls back to
// built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && stderrors.Is(err, fs.ErrNotExist) {
		return config.LoadDefault()
	}
	return nil, err
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create log dir for %s: %w", logPath, err)
	}
	if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
		return nil, fmt.Errorf("refusing to write logs to symlink path %s", logPath)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}
	return f, nil
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "symtab", "symtab.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "symtab", "symtab.log")
	}

	return "symtab.log"
}
