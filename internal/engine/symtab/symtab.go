// Package symtab implements the scope stack used during semantic analysis.
//
// A SymbolTable owns a chain of scope tables. Declarations go into the
// innermost (current) scope, lookups walk outward so the nearest enclosing
// binding wins, and exiting a scope discards every binding it held.
package symtab

import (
	"errors"
	"fmt"
	"log/slog"

	"symtab/internal/engine/scope"
	"symtab/internal/shared/observability"
)

// ErrInvalidBucketCount is returned by New for a non-positive bucket count.
var ErrInvalidBucketCount = errors.New("symtab: bucket count must be positive")

// SymbolTable is a stack of scope tables. It is not safe for concurrent use.
type SymbolTable struct {
	buckets int
	nextID  int
	scopes  []*scope.Table // root first, current last
	tracer  Tracer
}

// Option configures a SymbolTable at construction.
type Option func(*SymbolTable)

// WithTracer routes verbose events to tr.
func WithTracer(tr Tracer) Option {
	return func(s *SymbolTable) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

// WithLogger routes verbose events to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *SymbolTable) {
		if logger != nil {
			s.tracer = LogTracer(logger)
		}
	}
}

// New creates a SymbolTable whose scopes all have the given number of
// buckets, with the root scope (id 1) already entered.
func New(buckets int, opts ...Option) (*SymbolTable, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBucketCount, buckets)
	}
	s := &SymbolTable{
		buckets: buckets,
		nextID:  1,
		tracer:  logTracer{logger: slog.Default()},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.push()
	return s, nil
}

// BucketCount is the bucket count applied to every scope.
func (s *SymbolTable) BucketCount() int { return s.buckets }

// Current returns the innermost scope, or nil after Close.
func (s *SymbolTable) Current() *scope.Table {
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[len(s.scopes)-1]
}

// Root returns the global scope, or nil after Close.
func (s *SymbolTable) Root() *scope.Table {
	if len(s.scopes) == 0 {
		return nil
	}
	return s.scopes[0]
}

// Depth is the number of open scopes, the root included.
func (s *SymbolTable) Depth() int { return len(s.scopes) }

// Scopes returns the open scopes from innermost to root.
func (s *SymbolTable) Scopes() []*scope.Table {
	out := make([]*scope.Table, 0, len(s.scopes))
	for i := len(s.scopes) - 1; i >= 0; i-- {
		out = append(out, s.scopes[i])
	}
	return out
}

func (s *SymbolTable) push() *scope.Table {
	t := scope.New(s.buckets, s.Current(), s.nextID)
	s.nextID++
	s.scopes = append(s.scopes, t)
	observability.ScopesEnteredTotal.Inc()
	return t
}

// EnterScope opens a new innermost scope and returns it.
// It does nothing and returns nil once the table is closed.
func (s *SymbolTable) EnterScope(opts ...CallOption) *scope.Table {
	if len(s.scopes) == 0 {
		return nil
	}
	t := s.push()
	s.emit(opts, Event{Kind: EventEnter, Table: t})
	return t
}

// ExitScope destroys the current scope and makes its parent current.
// The root scope is never exited: the call is ignored and false returned.
func (s *SymbolTable) ExitScope(opts ...CallOption) bool {
	if len(s.scopes) <= 1 {
		if cur := s.Current(); cur != nil {
			observability.RootExitRejectedTotal.Inc()
			s.emit(opts, Event{Kind: EventExitRoot, Table: cur})
		}
		return false
	}
	s.pop(opts)
	return true
}

func (s *SymbolTable) pop(opts []CallOption) {
	last := len(s.scopes) - 1
	t := s.scopes[last]
	s.scopes[last] = nil
	s.scopes = s.scopes[:last]
	s.emit(opts, Event{Kind: EventExit, Table: t})
	t.Release()
	observability.ScopesExitedTotal.Inc()
}

// Close destroys every scope from the innermost back to the root.
// A closed table resolves nothing and rejects every mutation.
func (s *SymbolTable) Close() {
	for len(s.scopes) > 0 {
		s.pop(nil)
	}
}

// Insert binds name in the current scope. It returns false if name is
// already bound in that same scope; bindings in enclosing scopes are
// shadowed, never a conflict.
func (s *SymbolTable) Insert(name, typ string, opts ...CallOption) (scope.Position, bool) {
	cur := s.Current()
	if cur == nil {
		return scope.Position{}, false
	}
	pos, ok := cur.Insert(name, typ)
	if !ok {
		observability.InsertsTotal.WithLabelValues(observability.OutcomeDuplicate).Inc()
		s.emit(opts, Event{Kind: EventDuplicate, Name: name, Type: typ, Table: cur, Pos: pos})
		return pos, false
	}
	observability.InsertsTotal.WithLabelValues(observability.OutcomeOK).Inc()
	observability.ChainLength.Observe(float64(pos.Index + 1))
	s.emit(opts, Event{Kind: EventInsert, Name: name, Type: typ, Table: cur, Pos: pos})
	return pos, true
}

// Remove unbinds name from the current scope only.
func (s *SymbolTable) Remove(name string, opts ...CallOption) (scope.Position, bool) {
	cur := s.Current()
	if cur == nil {
		return scope.Position{}, false
	}
	pos, ok := cur.Remove(name)
	if !ok {
		observability.RemovesTotal.WithLabelValues(observability.OutcomeNotFound).Inc()
		s.emit(opts, Event{Kind: EventRemoveMissing, Name: name, Table: cur})
		return scope.Position{}, false
	}
	observability.RemovesTotal.WithLabelValues(observability.OutcomeOK).Inc()
	s.emit(opts, Event{Kind: EventRemove, Name: name, Table: cur, Pos: pos})
	return pos, true
}

// Resolution is the result of a successful chain walk.
type Resolution struct {
	Symbol scope.Symbol
	Table  *scope.Table
	Pos    scope.Position
}

func (s *SymbolTable) resolve(name string) (Resolution, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		t := s.scopes[i]
		if sym, pos, ok := t.Lookup(name); ok {
			return Resolution{Symbol: sym, Table: t, Pos: pos}, true
		}
	}
	return Resolution{}, false
}

// Lookup returns the nearest binding of name, searching from the current
// scope outward to the root.
func (s *SymbolTable) Lookup(name string, opts ...CallOption) (scope.Symbol, bool) {
	r, ok := s.Resolve(name, opts...)
	return r.Symbol, ok
}

// Resolve is Lookup that also reports which scope held the binding and
// where.
func (s *SymbolTable) Resolve(name string, opts ...CallOption) (Resolution, bool) {
	r, ok := s.resolve(name)
	if !ok {
		observability.LookupsTotal.WithLabelValues(observability.OutcomeNotFound).Inc()
		s.emit(opts, Event{Kind: EventNotFound, Name: name, Table: s.Current()})
		return Resolution{}, false
	}
	observability.LookupsTotal.WithLabelValues(observability.OutcomeOK).Inc()
	s.emit(opts, Event{Kind: EventFound, Name: name, Type: r.Symbol.Type, Table: r.Table, Pos: r.Pos})
	return r, true
}

// ScopeOf returns the scope that resolves name from the current scope.
// The returned table stays valid until that scope is exited.
func (s *SymbolTable) ScopeOf(name string) (*scope.Table, bool) {
	r, ok := s.resolve(name)
	if !ok {
		return nil, false
	}
	return r.Table, true
}

// Visible calls fn for every binding visible from the current scope,
// nearest scope first. Bindings hidden by an inner scope are skipped.
// If match is non-nil only names it accepts are reported.
func (s *SymbolTable) Visible(match func(name string) bool, fn func(Resolution) bool) {
	seen := make(map[string]struct{})
	for i := len(s.scopes) - 1; i >= 0; i-- {
		t := s.scopes[i]
		stop := false
		t.Each(func(sym scope.Symbol, pos scope.Position) bool {
			if _, hidden := seen[sym.Name]; hidden {
				return true
			}
			seen[sym.Name] = struct{}{}
			if match != nil && !match(sym.Name) {
				return true
			}
			if !fn(Resolution{Symbol: sym, Table: t, Pos: pos}) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

func (s *SymbolTable) emit(opts []CallOption, e Event) {
	if len(opts) == 0 {
		return
	}
	if c := collect(opts); c.verbose {
		s.tracer.Trace(e)
	}
}
