package script

import (
	"context"
	"fmt"
	"log/slog"

	"symtab/internal/engine/symtab"
	"symtab/internal/shared/observability"
	"symtab/internal/ui/report"
)

type Options struct {
	// Buckets is used when the script does not set its own count.
	Buckets int
	Printer *report.Printer
	// Tracer also receives every event the printer renders.
	Tracer symtab.Tracer
	Logger *slog.Logger
	// Echo prints each command before its output.
	Echo bool
}

// Runner executes commands against one SymbolTable.
type Runner struct {
	table   *symtab.SymbolTable
	printer *report.Printer
	logger  *slog.Logger
	echo    bool
	count   int
	done    bool
}

func NewRunner(buckets int, opts Options) (*Runner, error) {
	if opts.Printer == nil {
		return nil, fmt.Errorf("script: printer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	st, err := symtab.New(buckets, symtab.WithTracer(symtab.MultiTracer(opts.Printer, opts.Tracer)))
	if err != nil {
		return nil, err
	}
	logger.Debug("symbol table created", "buckets", buckets)
	return &Runner{
		table:   st,
		printer: opts.Printer,
		logger:  logger,
		echo:    opts.Echo,
	}, nil
}

// Table exposes the underlying SymbolTable for inspection.
func (r *Runner) Table() *symtab.SymbolTable { return r.table }

// Done reports whether a Q command has been executed.
func (r *Runner) Done() bool { return r.done }

// Exec runs one command and reports whether the script should stop.
// cmd must come from Parse or ParseLine.
func (r *Runner) Exec(cmd Command) bool {
	if r.done {
		return true
	}
	r.count++
	observability.ScriptCommandsTotal.WithLabelValues(cmd.Op.String()).Inc()
	if r.echo {
		r.printer.Command(r.count, cmd.Text)
	}

	st := r.table
	switch cmd.Op {
	case OpInsert:
		st.Insert(cmd.Args[0], cmd.Args[1], symtab.Verbose)
	case OpLookup:
		st.Lookup(cmd.Args[0], symtab.Verbose)
	case OpDelete:
		st.Remove(cmd.Args[0], symtab.Verbose)
	case OpWhere:
		t, ok := st.ScopeOf(cmd.Args[0])
		r.printer.ScopeOf(cmd.Args[0], t, ok)
	case OpPrint:
		if cmd.Args[0] == printAll {
			r.printer.Chain(st.Scopes())
		} else {
			r.printer.Table(st.Current())
		}
	case OpEnter:
		st.EnterScope(symtab.Verbose)
	case OpExit:
		st.ExitScope(symtab.Verbose)
	case OpFind:
		if cmd.pattern == nil {
			r.printer.Message("pattern %q was not compiled", cmd.Args[0])
			break
		}
		n := 0
		st.Visible(cmd.pattern.Match, func(res symtab.Resolution) bool {
			r.printer.Match(res)
			n++
			return true
		})
		if n == 0 {
			r.printer.Message("no visible symbol matches %q", cmd.Args[0])
		}
	case OpQuit:
		r.Close()
		return true
	}
	return false
}

// Close exits every open scope, reporting each, and tears the table down.
func (r *Runner) Close() {
	if r.done {
		return
	}
	r.done = true
	for r.table.Depth() > 1 {
		r.table.ExitScope(symtab.Verbose)
	}
	r.table.Close()
	r.logger.Debug("symbol table closed", "commands", r.count)
}

// Run executes s from start to finish. The bucket count comes from the
// script when it sets one and from opts otherwise.
func Run(ctx context.Context, s *Script, opts Options) error {
	buckets := opts.Buckets
	if s.Buckets > 0 {
		buckets = s.Buckets
	}
	r, err := NewRunner(buckets, opts)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, cmd := range s.Commands {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("script interrupted at line %d: %w", cmd.Line, err)
		}
		if r.Exec(cmd) {
			return nil
		}
	}
	return nil
}
