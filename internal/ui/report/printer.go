// Package report renders scope tables and symbol-table trace events for
// humans. Nothing here is consumed programmatically.
package report

import (
	"fmt"
	"io"
	"strings"

	"symtab/internal/engine/scope"
	"symtab/internal/engine/symtab"
)

// LabelStyle selects how tables are named in output.
type LabelStyle string

const (
	// LabelID names a table by its unique id ("ScopeTable# 3").
	LabelID LabelStyle = "id"
	// LabelHierarchical names a table by its nesting path ("ScopeTable# 1.2").
	LabelHierarchical LabelStyle = "hierarchical"
)

// Format selects the dump layout.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
)

type Options struct {
	Labels LabelStyle
	Format Format
	// Color enables lipgloss styling of text output.
	Color bool
}

// Printer writes dumps and trace lines to w. It implements symtab.Tracer.
type Printer struct {
	w      io.Writer
	opts   Options
	styles *styles
}

var _ symtab.Tracer = (*Printer)(nil)

func NewPrinter(w io.Writer, opts Options) *Printer {
	if opts.Labels == "" {
		opts.Labels = LabelID
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}
	p := &Printer{w: w, opts: opts}
	if opts.Color {
		p.styles = newStyles()
	}
	return p
}

// Label returns the display name of t under the printer's label style.
func (p *Printer) Label(t *scope.Table) string {
	if t == nil {
		return "ScopeTable# ?"
	}
	if p.opts.Labels == LabelHierarchical {
		return "ScopeTable# " + t.Label()
	}
	return fmt.Sprintf("ScopeTable# %d", t.ID())
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

// Command echoes a script command before its output.
func (p *Printer) Command(n int, text string) {
	line := fmt.Sprintf("Cmd %d: %s", n, text)
	if p.styles != nil {
		line = p.styles.command.Render(line)
	}
	p.println(line)
}

// Message writes a free-form line.
func (p *Printer) Message(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}

// Table dumps one table.
func (p *Printer) Table(t *scope.Table) {
	if p.opts.Format == FormatMarkdown {
		p.println(Markdown(p, []*scope.Table{t}))
		return
	}
	p.println(p.header(t))
	for _, b := range t.Dump() {
		p.println(p.bucket(b))
	}
}

// Chain dumps tables in the given order, innermost first by convention.
func (p *Printer) Chain(tables []*scope.Table) {
	if p.opts.Format == FormatMarkdown {
		p.println(Markdown(p, tables))
		return
	}
	for _, t := range tables {
		p.Table(t)
	}
	p.println("")
}

func (p *Printer) header(t *scope.Table) string {
	h := p.Label(t)
	if p.opts.Labels == LabelHierarchical {
		h = fmt.Sprintf("%s (id %d)", h, t.ID())
	}
	if p.styles != nil {
		return p.styles.header.Render(h)
	}
	return h
}

func (p *Printer) bucket(b scope.Bucket) string {
	var sb strings.Builder
	idx := fmt.Sprintf("%d -->", b.Index)
	if p.styles != nil {
		idx = p.styles.index.Render(idx)
	}
	sb.WriteString(idx)
	for _, sym := range b.Symbols {
		sb.WriteString(" ")
		sb.WriteString(p.symbol(sym))
	}
	return sb.String()
}

func (p *Printer) symbol(sym scope.Symbol) string {
	if p.styles != nil {
		return "< " + p.styles.name.Render(sym.Name) + " : " + p.styles.kind.Render(sym.Type) + " >"
	}
	return "< " + sym.Name + " : " + sym.Type + " >"
}

// position renders a 0-based position 1-based, as traces always have.
func position(pos scope.Position) string {
	return fmt.Sprintf("position %d, %d", pos.Bucket+1, pos.Index+1)
}

// Trace writes one line describing e.
func (p *Printer) Trace(e symtab.Event) {
	var line string
	switch e.Kind {
	case symtab.EventEnter:
		line = p.Label(e.Table) + " created"
	case symtab.EventExit:
		line = p.Label(e.Table) + " removed"
	case symtab.EventExitRoot:
		line = p.Label(e.Table) + " is the global scope and cannot be removed"
	case symtab.EventInsert:
		line = fmt.Sprintf("Inserted %s in %s at %s", p.symbol(scope.Symbol{Name: e.Name, Type: e.Type}), p.Label(e.Table), position(e.Pos))
	case symtab.EventDuplicate:
		line = fmt.Sprintf("%s already exists in %s at %s", p.symbol(scope.Symbol{Name: e.Name, Type: e.Type}), p.Label(e.Table), position(e.Pos))
	case symtab.EventFound:
		line = fmt.Sprintf("'%s' found in %s at %s", e.Name, p.Label(e.Table), position(e.Pos))
	case symtab.EventNotFound:
		line = fmt.Sprintf("'%s' not found in any of the ScopeTables", e.Name)
	case symtab.EventRemove:
		line = fmt.Sprintf("Deleted '%s' from %s at %s", e.Name, p.Label(e.Table), position(e.Pos))
	case symtab.EventRemoveMissing:
		line = fmt.Sprintf("'%s' not found in the current ScopeTable", e.Name)
	default:
		line = fmt.Sprintf("unknown event %d", e.Kind)
	}
	if p.styles != nil {
		switch e.Kind {
		case symtab.EventDuplicate, symtab.EventNotFound, symtab.EventRemoveMissing, symtab.EventExitRoot:
			line = p.styles.miss.Render(line)
		}
	}
	p.println(line)
}

// ScopeOf reports which table resolved name.
func (p *Printer) ScopeOf(name string, t *scope.Table, ok bool) {
	if !ok {
		p.println(fmt.Sprintf("'%s' not found in any of the ScopeTables", name))
		return
	}
	p.println(fmt.Sprintf("'%s' resolves in %s", name, p.Label(t)))
}

// Match reports one binding found by a pattern search.
func (p *Printer) Match(r symtab.Resolution) {
	p.println(fmt.Sprintf("%s in %s at %s", p.symbol(r.Symbol), p.Label(r.Table), position(r.Pos)))
}
