// Package symtab implements the process-wide symbol table the meta-AST
// front-end treats as an external collaborator: the downstream CFG-lowering
// component owns the authoritative table, but reduction rendering and
// identifier registration during parsing both need to read and append to
// it. Per the design notes in SPEC_FULL.md this is injected explicitly
// rather than reached for as package-global state.
package symtab

import (
	"fmt"
	"sync"

	"github.com/david-andrew/dewy-compiler-compiler/ustring"
)

// Symbol is one entry in the table: a non-terminal or terminal name.
type Symbol struct {
	Name ustring.String
}

// Table maps a dense uint64 index to a Symbol. It is safe for concurrent
// use: once a grammar's rules start being parsed and folded on separate
// goroutines (the concurrency model SPEC_FULL.md §5 allows), all of them
// may register or look up identifiers against the same table.
type Table struct {
	mu      sync.RWMutex
	symbols []Symbol
	byName  map[string]uint64
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{byName: make(map[string]uint64)}
}

// Register interns name, returning its existing index if already present
// or a freshly allocated one otherwise.
func (t *Table) Register(name ustring.String) uint64 {
	key := name.String()

	t.mu.RLock()
	if idx, ok := t.byName[key]; ok {
		t.mu.RUnlock()
		return idx
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if idx, ok := t.byName[key]; ok {
		return idx
	}
	idx := uint64(len(t.symbols))
	t.symbols = append(t.symbols, Symbol{Name: name.Clone()})
	t.byName[key] = idx
	return idx
}

// Get returns the symbol at idx. It panics on an out-of-range index, the
// same contract as a direct slice index, since a valid idx is always one
// this table itself handed out via Register.
func (t *Table) Get(idx uint64) Symbol {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if idx >= uint64(len(t.symbols)) {
		panic(fmt.Sprintf("symtab: index %d out of range (%d symbols)", idx, len(t.symbols)))
	}
	return t.symbols[idx]
}

// Len returns the number of registered symbols.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.symbols)
}
