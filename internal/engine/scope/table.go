// Package scope implements a single lexical scope as a fixed-size hash table
// with separate chaining.
package scope

import (
	"slices"
	"strconv"

	"symtab/internal/engine/hash"
)

// Symbol is one name bound in a scope together with its descriptor.
type Symbol struct {
	Name string
	Type string
}

// Position locates a symbol inside a table. Both fields are 0-based.
type Position struct {
	Bucket int
	Index  int
}

// Bucket is one non-empty chain as reported by Dump.
type Bucket struct {
	Index   int
	Symbols []Symbol
}

// Table holds the bindings of one scope.
//
// The parent pointer is only observed for lookup chaining and labelling; the
// owner of the scope chain (symtab.SymbolTable) is responsible for its lifetime.
type Table struct {
	id       int
	label    string
	depth    int
	parent   *Table
	children int
	buckets  [][]Symbol
	size     int
}

// New allocates an empty table with the given number of buckets.
// It panics if buckets is not positive.
func New(buckets int, parent *Table, id int) *Table {
	if buckets <= 0 {
		panic("scope: bucket count must be positive")
	}
	t := &Table{
		id:      id,
		parent:  parent,
		buckets: make([][]Symbol, buckets),
	}
	if parent == nil {
		t.label = "1"
	} else {
		parent.children++
		t.depth = parent.depth + 1
		t.label = parent.label + "." + strconv.Itoa(parent.children)
	}
	return t
}

func (t *Table) ID() int { return t.id }

// Label is the hierarchical name of the table: the root is "1" and the k-th
// child of a table labelled L is "L.k".
func (t *Table) Label() string { return t.label }

// Depth is 0 for the root and grows by one per nesting level.
func (t *Table) Depth() int { return t.depth }

func (t *Table) Parent() *Table { return t.parent }

func (t *Table) BucketCount() int { return len(t.buckets) }

// Len returns the number of symbols bound in this table.
func (t *Table) Len() int { return t.size }

// Insert binds name to typ unless name is already bound in this table.
// On success the returned position is where the new symbol landed.
// On a duplicate the returned position is that of the existing symbol and
// the table is unchanged.
func (t *Table) Insert(name, typ string) (Position, bool) {
	idx := hash.SDBM(name, len(t.buckets))
	chain := t.buckets[idx]
	for i := range chain {
		if chain[i].Name == name {
			return Position{Bucket: idx, Index: i}, false
		}
	}
	t.buckets[idx] = append(chain, Symbol{Name: name, Type: typ})
	t.size++
	return Position{Bucket: idx, Index: len(chain)}, true
}

// Lookup searches this table only; parents are never consulted.
func (t *Table) Lookup(name string) (Symbol, Position, bool) {
	idx := hash.SDBM(name, len(t.buckets))
	for i, sym := range t.buckets[idx] {
		if sym.Name == name {
			return sym, Position{Bucket: idx, Index: i}, true
		}
	}
	return Symbol{}, Position{}, false
}

// Remove unbinds name from this table, keeping the order of the rest of
// its chain. It reports where the symbol was.
func (t *Table) Remove(name string) (Position, bool) {
	_, pos, ok := t.Lookup(name)
	if !ok {
		return Position{}, false
	}
	chain := t.buckets[pos.Bucket]
	chain = slices.Delete(chain, pos.Index, pos.Index+1)
	if len(chain) == 0 {
		chain = nil
	}
	t.buckets[pos.Bucket] = chain
	t.size--
	return pos, true
}

// Dump returns every non-empty bucket in index order. The returned slices
// are copies and may be retained by the caller.
func (t *Table) Dump() []Bucket {
	var out []Bucket
	for i, chain := range t.buckets {
		if len(chain) == 0 {
			continue
		}
		out = append(out, Bucket{Index: i, Symbols: slices.Clone(chain)})
	}
	return out
}

// Each calls fn for every symbol in bucket then chain order until fn
// returns false.
func (t *Table) Each(fn func(Symbol, Position) bool) {
	for b, chain := range t.buckets {
		for i, sym := range chain {
			if !fn(sym, Position{Bucket: b, Index: i}) {
				return
			}
		}
	}
}

// Release drops every binding and detaches the table from its parent.
// The table is empty afterwards but keeps its id and label.
func (t *Table) Release() {
	for i := range t.buckets {
		t.buckets[i] = nil
	}
	t.size = 0
	t.parent = nil
}
