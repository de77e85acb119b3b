/*
Package symtab implements a scoped symbol table for static analysis.

Scopes are organized as a stack during analysis: entering a block pushes a
new scope, leaving it pops the scope. Every scope links back to its parent,
thus scopes pushed and popped over the course of an analysis form a tree.
Popped scopes are kept, so clients may take a snapshot of all scopes after
analysis has finished.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package symtab

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/npillmayer/gofront/gosub/types"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'gofront.symtab'.
func tracer() tracing.Trace {
	return tracing.Select("gofront.symtab")
}

// --- Symbols ---------------------------------------------------------------

// ScopeKind tells where a symbol has been declared.
type ScopeKind int

// Scope kinds of symbols
const (
	Global ScopeKind = iota
	Local
	Parameter
)

func (k ScopeKind) String() string {
	switch k {
	case Global:
		return "global"
	case Parameter:
		return "parameter"
	}
	return "local"
}

// Symbol holds the metadata of a declared name. Functions are symbols with a
// type of types.Func.
type Symbol struct {
	Name    string
	Type    types.Type
	Kind    ScopeKind
	Line    int  // line of declaration
	IsConst bool // constants may not be assigned to
}

// NewSymbol creates a new symbol.
func NewSymbol(name string, typ types.Type, kind ScopeKind, line int) *Symbol {
	return &Symbol{Name: name, Type: typ, Kind: kind, Line: line}
}

// AsConst marks a symbol as constant. Use as
//
//    sym := NewSymbol("pi", types.Float64, Global, 3).AsConst()
//
func (s *Symbol) AsConst() *Symbol {
	s.IsConst = true
	return s
}

// IsFunc is true for symbols of function type.
func (s *Symbol) IsFunc() bool {
	_, ok := s.Type.(types.Func)
	return ok
}

// Signature returns the function type of a function symbol.
func (s *Symbol) Signature() (types.Func, bool) {
	f, ok := s.Type.(types.Func)
	return f, ok
}

// String is a debug Stringer for symbols.
func (s *Symbol) String() string {
	return fmt.Sprintf("<sym '%s':%s>", s.Name, s.Type)
}

// === Scopes ================================================================

// Scope is a named scope, which may contain symbol definitions. Scopes link
// back to a parent scope, forming a tree.
type Scope struct {
	Name    string
	Parent  *Scope
	Level   int // nesting level, 0 for the global scope
	symbols *linkedhashmap.Map
}

// NewScope creates a new scope.
func NewScope(nm string, parent *Scope) *Scope {
	sc := &Scope{
		Name:    nm,
		Parent:  parent,
		symbols: linkedhashmap.New(),
	}
	if parent != nil {
		sc.Level = parent.Level + 1
	}
	return sc
}

// Prettyfied Stringer.
func (s *Scope) String() string {
	return fmt.Sprintf("<scope %s:%d>", s.Name, s.Level)
}

// Size counts the symbols in a scope.
func (s *Scope) Size() int {
	return s.symbols.Size()
}

// Resolve finds a symbol in this scope only. Returns nil if not found.
func (s *Scope) Resolve(name string) *Symbol {
	if sym, ok := s.symbols.Get(name); ok {
		return sym.(*Symbol)
	}
	return nil
}

// Define stores a symbol in the scope. It overwrites an existing symbol with
// the same name and returns the previously stored one (or nil).
func (s *Scope) Define(sym *Symbol) *Symbol {
	old := s.Resolve(sym.Name)
	s.symbols.Put(sym.Name, sym)
	return old
}

// Symbols returns the symbols of a scope in order of declaration.
func (s *Scope) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, s.symbols.Size())
	it := s.symbols.Iterator()
	for it.Next() {
		syms = append(syms, it.Value().(*Symbol))
	}
	return syms
}

// === Symbol table ==========================================================

// Table is the symbol table used during analysis. It manages a stack of
// scopes, with the global scope at the bottom. The stack is never empty.
type Table struct {
	stack  *arraylist.List // of *Scope
	closed []*Scope        // scopes popped from the stack
}

// New creates a symbol table containing an empty global scope.
func New() *Table {
	t := &Table{stack: arraylist.New()}
	t.stack.Add(NewScope("global", nil))
	return t
}

// Current gets the innermost scope (TOS).
func (t *Table) Current() *Scope {
	sc, _ := t.stack.Get(t.stack.Size() - 1)
	return sc.(*Scope)
}

// Globals gets the outermost scope, containing global symbols.
func (t *Table) Globals() *Scope {
	sc, _ := t.stack.Get(0)
	return sc.(*Scope)
}

// Depth returns the number of scopes on the stack.
func (t *Table) Depth() int {
	return t.stack.Size()
}

// EnterScope pushes a new, empty scope onto the stack of scopes.
func (t *Table) EnterScope(name string) *Scope {
	sc := NewScope(name, t.Current())
	t.stack.Add(sc)
	tracer().P("scope", sc.Name).Debugf("pushing new scope")
	return sc
}

// ExitScope pops the innermost scope. Popping the global scope is a
// programming error and panics.
func (t *Table) ExitScope() *Scope {
	if t.stack.Size() <= 1 {
		panic("attempt to pop global scope from scope stack")
	}
	sc := t.Current()
	tracer().Debugf("popping scope [%s]", sc.Name)
	t.stack.Remove(t.stack.Size() - 1)
	t.closed = append(t.closed, sc)
	return sc
}

// Insert adds a symbol to the innermost scope. An existing symbol with the
// same name is overwritten; checking for redeclarations is up to the caller.
func (t *Table) Insert(sym *Symbol) {
	t.Current().Define(sym)
}

// Lookup searches for a symbol from the innermost to the outermost scope.
// Returns the symbol and the scope it was found in, or nil and nil.
func (t *Table) Lookup(name string) (*Symbol, *Scope) {
	for i := t.stack.Size() - 1; i >= 0; i-- {
		v, _ := t.stack.Get(i)
		sc := v.(*Scope)
		if sym := sc.Resolve(name); sym != nil {
			return sym, sc
		}
	}
	return nil, nil
}

// LookupCurrent searches for a symbol in the innermost scope only.
func (t *Table) LookupCurrent(name string) *Symbol {
	return t.Current().Resolve(name)
}

// Snapshot returns all non-empty scopes, the ones still on the stack as well
// as the ones already popped, ordered by nesting level. Scopes of the same
// level keep the order in which they have been closed.
func (t *Table) Snapshot() []*Scope {
	var scopes []*Scope
	for _, sc := range t.closed {
		if sc.Size() > 0 {
			scopes = append(scopes, sc)
		}
	}
	for i := t.stack.Size() - 1; i >= 0; i-- {
		v, _ := t.stack.Get(i)
		if sc := v.(*Scope); sc.Size() > 0 {
			scopes = append(scopes, sc)
		}
	}
	sort.SliceStable(scopes, func(i, j int) bool {
		return scopes[i].Level < scopes[j].Level
	})
	return scopes
}
