package symtab

import (
	"log/slog"

	"symtab/internal/engine/scope"
)

// EventKind identifies what a traced operation did.
type EventKind int

const (
	EventEnter EventKind = iota
	EventExit
	EventExitRoot
	EventInsert
	EventDuplicate
	EventFound
	EventNotFound
	EventRemove
	EventRemoveMissing
)

func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventExitRoot:
		return "exit_root"
	case EventInsert:
		return "insert"
	case EventDuplicate:
		return "duplicate"
	case EventFound:
		return "found"
	case EventNotFound:
		return "not_found"
	case EventRemove:
		return "remove"
	case EventRemoveMissing:
		return "remove_missing"
	default:
		return "unknown"
	}
}

// Event is emitted for calls made with the Verbose option.
// Table is the scope the event concerns; for EventNotFound after a chain
// walk it is the scope the walk started from.
type Event struct {
	Kind  EventKind
	Name  string
	Type  string
	Table *scope.Table
	Pos   scope.Position
}

// Tracer receives verbose events. It must not call back into the
// SymbolTable that emitted the event.
type Tracer interface {
	Trace(Event)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(Event)

func (f TracerFunc) Trace(e Event) { f(e) }

type logTracer struct {
	logger *slog.Logger
}

func (l logTracer) Trace(e Event) {
	attrs := []any{"event", e.Kind.String()}
	if e.Table != nil {
		attrs = append(attrs, "scope", e.Table.ID())
	}
	if e.Name != "" {
		attrs = append(attrs, "name", e.Name)
	}
	if e.Type != "" {
		attrs = append(attrs, "type", e.Type)
	}
	switch e.Kind {
	case EventInsert, EventDuplicate, EventFound, EventRemove:
		attrs = append(attrs, "bucket", e.Pos.Bucket, "index", e.Pos.Index)
	}
	l.logger.Debug("symbol table", attrs...)
}

// CallOption modifies a single SymbolTable call.
type CallOption func(*call)

type call struct {
	verbose bool
}

// Verbose makes the call emit a trace event.
func Verbose(c *call) { c.verbose = true }

// Trace returns Verbose when on is set and a no-op otherwise, for callers
// driving verbosity from a flag.
func Trace(on bool) CallOption {
	return func(c *call) {
		if on {
			c.verbose = true
		}
	}
}

func collect(opts []CallOption) call {
	var c call
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogTracer returns a Tracer that logs every event at debug level.
func LogTracer(logger *slog.Logger) Tracer {
	if logger == nil {
		logger = slog.Default()
	}
	return logTracer{logger: logger}
}

// MultiTracer fans every event out to each non-nil tracer in order.
func MultiTracer(tracers ...Tracer) Tracer {
	live := make([]Tracer, 0, len(tracers))
	for _, tr := range tracers {
		if tr != nil {
			live = append(live, tr)
		}
	}
	return TracerFunc(func(e Event) {
		for _, tr := range live {
			tr.Trace(e)
		}
	})
}
