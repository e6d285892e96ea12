package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"symtab/internal/core/config"
	"symtab/internal/core/errors"
	"symtab/internal/engine/symtab"
	"symtab/internal/script"
	"symtab/internal/shared/observability"
	"symtab/internal/ui/report"
	"symtab/internal/watcher"

	"github.com/google/uuid"
)

type App struct {
	Config *config.Config
	Echo   bool

	out   io.Writer
	stdin io.Reader

	// mu serializes script runs; the watcher calls back from its own goroutine.
	mu      sync.Mutex
	runs    int
	lastErr error
}

func NewApp(cfg *config.Config, out io.Writer, stdin io.Reader) *App {
	return &App{
		Config: cfg,
		Echo:   true,
		out:    out,
		stdin:  stdin,
	}
}

func (a *App) printer(w io.Writer) *report.Printer {
	return report.NewPrinter(w, report.Options{
		Labels: report.LabelStyle(a.Config.Trace.Labels),
		Format: report.Format(a.Config.Output.Format),
		Color:  a.Config.Output.Color,
	})
}

func (a *App) scriptOptions(w io.Writer, logger *slog.Logger) script.Options {
	opts := script.Options{
		Buckets: a.Config.Table.Buckets,
		Printer: a.printer(w),
		Logger:  logger,
		Echo:    a.Echo,
	}
	if a.Config.Trace.Verbose {
		opts.Tracer = symtab.LogTracer(logger)
	}
	return opts
}

// RunScript parses and executes the script at path; "-" or "" reads stdin.
func (a *App) RunScript(ctx context.Context, path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	logger := slog.Default().With("run", uuid.NewString())
	err := a.runLocked(ctx, path, logger)
	a.runs++
	a.lastErr = err
	if err != nil {
		logger.Warn("script failed", "path", path, "error", err)
	} else {
		logger.Debug("script finished", "path", path)
	}
	return err
}

func (a *App) runLocked(ctx context.Context, path string, logger *slog.Logger) error {
	var r io.Reader = a.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return errors.Wrap(err, errors.CodeNotFound, "open script").WithContext(errors.CtxPath, path)
			}
			return errors.Wrap(err, errors.CodeInternal, "open script").WithContext(errors.CtxPath, path)
		}
		defer f.Close()
		r = f
	}

	s, err := script.Parse(r)
	if err != nil {
		de := errors.Wrap(err, errors.CodeSyntaxError, "parse script").WithContext(errors.CtxPath, displayPath(path))
		var perr *script.ParseError
		if stderrors.As(err, &perr) {
			de.WithContext(errors.CtxLine, perr.Line)
		}
		return de
	}
	logger.Debug("script parsed", "path", displayPath(path), "commands", len(s.Commands), "buckets", s.Buckets)
	return script.Run(ctx, s, a.scriptOptions(a.out, logger))
}

// WatchScript runs path once and again after every change until ctx is done.
func (a *App) WatchScript(ctx context.Context, path string) error {
	if path == "" || path == "-" {
		return errors.New(errors.CodeValidationError, "watch mode requires a script file")
	}
	if err := a.RunScript(ctx, path); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
	}

	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.Config.Watch.Ignore, func(paths []string) {
		slog.Info("detected changes", "count", len(paths))
		fmt.Fprintln(a.out, "---")
		if err := a.RunScript(ctx, path); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Watch([]string{path}); err != nil {
		return err
	}
	slog.Info("watching script", "path", path)
	<-ctx.Done()
	return nil
}

// Health reports down when the most recent run failed.
func (a *App) Health(context.Context) observability.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.lastErr != nil {
		return observability.Status{Status: "down", Detail: a.lastErr.Error()}
	}
	return observability.Status{Status: "up", Detail: fmt.Sprintf("%d runs", a.runs)}
}

func displayPath(path string) string {
	if path == "" || path == "-" {
		return "<stdin>"
	}
	return path
}
