// Package scope implements the lexical Scope/Symbol Resolver (spec
// component C): ordered name -> id tables for symbols and types, with an
// inverse lookup so a Symbol/TypeId can ask "was I defined directly in this
// scope, or only inherited from an ancestor" without walking the whole
// scope stack again.
package scope

import "github.com/cloverlang/cloverc/internal/arena"

type SymbolId = arena.SymbolId
type TypeId = arena.TypeId

// Scope is one lexical block's name table. Insertion order is preserved in
// both directions (named -> id and id -> named) because diagnostics quote
// names in declaration order and local_symbols()/local_types() (used by the
// dependency graph's capture analysis) must be deterministic across runs.
type Scope struct {
	namedSymbols map[string]SymbolId
	symbolOrder  []string
	symbolNames  map[SymbolId]string

	namedTypes map[string]TypeId
	typeOrder  []string
	typeNames  map[TypeId]string
}

func New() *Scope {
	return &Scope{
		namedSymbols: map[string]SymbolId{},
		symbolNames:  map[SymbolId]string{},
		namedTypes:   map[string]TypeId{},
		typeNames:    map[TypeId]string{},
	}
}

// DefineSymbol registers name in both directions. A later definition of the
// same name in the same scope shadows the earlier one for Symbol() lookups,
// but the inverse symbolNames entry for the earlier id is left untouched
// (distinguishes "exists" from "currently visible by this name").
func (s *Scope) DefineSymbol(name string, id SymbolId) {
	if _, exists := s.namedSymbols[name]; !exists {
		s.symbolOrder = append(s.symbolOrder, name)
	}
	s.namedSymbols[name] = id
	s.symbolNames[id] = name
}

func (s *Scope) DefineType(name string, id TypeId) {
	if _, exists := s.namedTypes[name]; !exists {
		s.typeOrder = append(s.typeOrder, name)
	}
	s.namedTypes[name] = id
	s.typeNames[id] = name
}

func (s *Scope) Symbol(name string) (SymbolId, bool) {
	id, ok := s.namedSymbols[name]
	return id, ok
}

func (s *Scope) Type(name string) (TypeId, bool) {
	id, ok := s.namedTypes[name]
	return id, ok
}

func (s *Scope) SymbolName(id SymbolId) (string, bool) {
	name, ok := s.symbolNames[id]
	return name, ok
}

func (s *Scope) TypeName(id TypeId) (string, bool) {
	name, ok := s.typeNames[id]
	return name, ok
}

// IsLocal reports whether id was defined directly in this scope (as opposed
// to only being visible through a parent scope lookup done elsewhere). The
// dependency graph's capture analysis uses this to decide define vs capture.
func (s *Scope) IsLocal(id SymbolId) bool {
	_, ok := s.symbolNames[id]
	return ok
}

// LocalSymbols returns every symbol id defined directly in this scope, in
// declaration order.
func (s *Scope) LocalSymbols() []SymbolId {
	ids := make([]SymbolId, 0, len(s.symbolOrder))
	for _, name := range s.symbolOrder {
		ids = append(ids, s.namedSymbols[name])
	}
	return ids
}

func (s *Scope) LocalTypes() []TypeId {
	ids := make([]TypeId, 0, len(s.typeOrder))
	for _, name := range s.typeOrder {
		ids = append(ids, s.namedTypes[name])
	}
	return ids
}
