// Package depgraph builds the dependency graph: per-scope capture/definition
// environments and a symbol reference graph, by walking
// HIR twice -- once to discover every reachable scope/function (and detect
// recursion), once more to resolve references and propagate captures up
// through parent scopes.
package depgraph

import (
	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
)

type (
	ScopeId  = arena.ScopeId
	SymbolId = arena.SymbolId
	HirId    = arena.HirId
	EnvId    = arena.EnvId
)

// orderedSet is a minimal insertion-ordered set: both capture propagation
// and cycle detection depend on stable iteration order for reproducible
// diagnostics.
type orderedSet[T comparable] struct {
	order []T
	has   map[T]bool
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{has: map[T]bool{}}
}

func (s *orderedSet[T]) Add(v T) bool {
	if s.has[v] {
		return false
	}
	s.has[v] = true
	s.order = append(s.order, v)
	return true
}

func (s *orderedSet[T]) Contains(v T) bool { return s.has[v] }

func (s *orderedSet[T]) Remove(v T) {
	if !s.has[v] {
		return
	}
	delete(s.has, v)
	for i, x := range s.order {
		if x == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *orderedSet[T]) Items() []T { return append([]T(nil), s.order...) }

// Environment records, for one scope, which outer symbols it closes over
// (Captures) and which symbols it newly introduces (Definitions) -- the
// input a closure-conversion codegen stage needs, kept here rather than in
// hir because it's entirely a byproduct of graph construction, not of HIR
// shape itself.
type Environment struct {
	Captures    *orderedSet[SymbolId]
	Definitions *orderedSet[SymbolId]
	InheritsFrom *EnvId
	Varargs     bool
}

func NewEnvironment() *Environment {
	return &Environment{Captures: newOrderedSet[SymbolId](), Definitions: newOrderedSet[SymbolId]()}
}

// NewFunctionEnvironment seeds an Environment for a function body: its
// parameters are definitions (they're bound fresh, never captured), and
// Varargs records whether the last parameter spreads.
func NewFunctionEnvironment(parameters []SymbolId, varargs bool) *Environment {
	e := NewEnvironment()
	for _, p := range parameters {
		e.Definitions.Add(p)
	}
	e.Varargs = varargs
	return e
}

// NewBindingEnvironment seeds an Environment for a Let/block scope that
// inherits its parent function's environment (so unresolved lookups during
// propagation continue up through the parent rather than stopping here).
func NewBindingEnvironment(parent EnvId) *Environment {
	e := NewEnvironment()
	e.InheritsFrom = &parent
	return e
}

func (e *Environment) Define(s SymbolId)  { e.Definitions.Add(s) }
func (e *Environment) Capture(s SymbolId) { e.Captures.Add(s) }

// DB is the subset of arena access the graph builder needs: symbol/scope/
// HIR lookups, plus environment allocation, against the shared database a
// compile run owns.
type DB interface {
	Symbol(SymbolId) *hir.Symbol
	Scope(ScopeId) Scope
	Hir(HirId) *hir.Hir
	AllocEnv(Environment) EnvId
	Env(EnvId) *Environment
	Error(kind diagnostics.ErrorKind, span diagnostics.Span, args ...string)
}

// Scope is the narrow view the graph builder needs of a lexical scope,
// satisfied by *scope.Scope.
type Scope interface {
	IsLocal(SymbolId) bool
	LocalSymbols() []SymbolId
}

// Graph is the finished dependency graph: one Environment per scope that
// needed one, parent-scope links for capture propagation, and per-symbol
// reference counts, read through SymbolReferences (no unused-symbol
// warning is emitted from them in this module).
type Graph struct {
	environments    map[ScopeId]EnvId
	parentScopes    map[ScopeId]*orderedSet[ScopeId]
	symbolRefCounts map[SymbolId]int
	references      map[SymbolId]*orderedSet[SymbolId]
}

func (g *Graph) EnvironmentId(scopeId ScopeId) (EnvId, bool) {
	id, ok := g.environments[scopeId]
	return id, ok
}

func (g *Graph) SymbolReferences(id SymbolId) int { return g.symbolRefCounts[id] }

// AllReferences returns every symbol transitively reachable from id's
// definition, via a DFS over the reference graph built during walk.
func (g *Graph) AllReferences(id SymbolId) []SymbolId {
	visited := newOrderedSet[SymbolId]()
	stack := []SymbolId{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visited.Add(cur) {
			continue
		}
		if refs, ok := g.references[cur]; ok {
			stack = append(stack, refs.Items()...)
		}
	}
	visited.Remove(id)
	return visited.Items()
}

// builder is the two-phase walker: walk_* discovers scopes/functions and
// raises recursion errors, ref_* resolves references and propagates
// captures. Kept as one struct (rather than two free-function passes) so
// the symbol_stack/visited bookkeeping from the first phase doesn't need to
// be threaded as extra parameters into the second.
type builder struct {
	db           DB
	graph        *Graph
	symbolStack  *orderedSet[SymbolId]
	visitedScope map[ScopeId]bool
	visitedHir   map[hirKey]bool
}

type hirKey struct {
	scope ScopeId
	hir   HirId
}

// Build runs both phases over entrypoint (the main symbol's scope and HIR
// body) and returns the finished Graph.
func Build(db DB, entrypointScope ScopeId, entrypointBody HirId) *Graph {
	b := &builder{
		db: db,
		graph: &Graph{
			environments:    map[ScopeId]EnvId{},
			parentScopes:    map[ScopeId]*orderedSet[ScopeId]{},
			symbolRefCounts: map[SymbolId]int{},
			references:      map[SymbolId]*orderedSet[SymbolId]{},
		},
		symbolStack:  newOrderedSet[SymbolId](),
		visitedScope: map[ScopeId]bool{},
		visitedHir:   map[hirKey]bool{},
	}

	params := db.Scope(entrypointScope).LocalSymbols()
	b.walkFunctionScope(entrypointScope, params, false)
	b.walkHir(entrypointScope, entrypointBody)

	b.visitedScope = map[ScopeId]bool{}
	b.visitedHir = map[hirKey]bool{}
	b.refFunctionScope(entrypointScope)
	b.refHir(entrypointScope, entrypointBody)

	return b.graph
}

func (b *builder) walkFunctionScope(scopeId ScopeId, parameters []SymbolId, varargs bool) {
	if b.visitedScope[scopeId] {
		return
	}
	b.visitedScope[scopeId] = true

	env := NewFunctionEnvironment(parameters, varargs)
	b.graph.environments[scopeId] = b.db.AllocEnv(*env)
}

func (b *builder) walkHir(scopeId ScopeId, hirId HirId) {
	key := hirKey{scopeId, hirId}
	if b.visitedHir[key] {
		return
	}
	b.visitedHir[key] = true

	node := b.db.Hir(hirId)
	switch node.Kind {
	case hir.KindUnknown, hir.KindAtom:
	case hir.KindOp:
		b.walkHir(scopeId, node.Value)
	case hir.KindRaise:
		if node.HasRaised {
			b.walkHir(scopeId, node.Raised)
		}
	case hir.KindPair:
		b.walkHir(scopeId, node.First)
		b.walkHir(scopeId, node.Rest)
	case hir.KindFunctionCall:
		b.walkHir(scopeId, node.Callee)
		for _, arg := range node.Arguments {
			b.walkHir(scopeId, arg)
		}
	case hir.KindIf:
		b.walkHir(scopeId, node.Condition)
		b.walkHir(scopeId, node.Then)
		b.walkHir(scopeId, node.Else)
	case hir.KindBinaryOp:
		b.walkHir(scopeId, node.Lhs)
		b.walkHir(scopeId, node.Rhs)
	case hir.KindSubstr:
		b.walkHir(scopeId, node.Value)
		b.walkHir(scopeId, node.Start)
		b.walkHir(scopeId, node.End)
	case hir.KindDefinition:
		b.walkDefinition(scopeId, node.DefScope, node.DefBody)
	case hir.KindReference:
		b.walkReference(scopeId, node.Symbol)
	case hir.KindSha256, hir.KindPubkeyForExp:
		b.walkHir(scopeId, node.Value)
	case hir.KindIntrinsic:
		for _, arg := range node.Arguments {
			b.walkHir(scopeId, arg)
		}
	case hir.KindTypeCheck:
		b.walkHir(scopeId, node.CheckValue)
	}
}

func (b *builder) walkDefinition(parent, child ScopeId, body HirId) {
	if b.visitedScope[child] {
		return
	}
	b.visitedScope[child] = true

	if _, ok := b.graph.parentScopes[child]; !ok {
		b.graph.parentScopes[child] = newOrderedSet[ScopeId]()
	}
	b.graph.parentScopes[child].Add(parent)

	parentEnvId := b.graph.environments[parent]
	env := NewBindingEnvironment(parentEnvId)
	b.graph.environments[child] = b.db.AllocEnv(*env)

	b.walkHir(child, body)
}

func (b *builder) walkReference(scopeId ScopeId, symbolId SymbolId) {
	sym := b.db.Symbol(symbolId)

	if b.symbolStack.Contains(symbolId) {
		b.raiseRecursive(sym, symbolId)
	}

	if _, ok := b.graph.references[symbolId]; !ok {
		b.graph.references[symbolId] = newOrderedSet[SymbolId]()
	}
	for _, s := range b.symbolStack.Items() {
		b.graph.references[s].Add(symbolId)
	}

	onStack := sym.IsConstant()
	if onStack {
		b.symbolStack.Add(symbolId)
	}

	switch sym.Kind {
	case hir.SymFunction, hir.SymInlineFunction:
		if _, ok := b.graph.parentScopes[sym.Function.ScopeId]; !ok {
			b.graph.parentScopes[sym.Function.ScopeId] = newOrderedSet[ScopeId]()
		}
		params := b.db.Scope(sym.Function.ScopeId).LocalSymbols()
		b.walkFunctionScope(sym.Function.ScopeId, params, false)
		b.walkHir(sym.Function.ScopeId, sym.Function.HirId)
	case hir.SymParameter:
	case hir.SymLet, hir.SymConst, hir.SymInlineConst:
		b.walkHir(scopeId, sym.Value.HirId)
	}

	if onStack {
		b.symbolStack.Remove(symbolId)
	}
}

func (b *builder) raiseRecursive(sym *hir.Symbol, symbolId SymbolId) {
	switch sym.Kind {
	case hir.SymConst:
		b.db.Error(diagnostics.ErrRecursiveConstantReference, diagnostics.Span{})
	case hir.SymInlineConst:
		b.db.Error(diagnostics.ErrRecursiveInlineConstantReference, diagnostics.Span{})
	case hir.SymInlineFunction:
		b.db.Error(diagnostics.ErrRecursiveInlineFunctionCall, diagnostics.Span{})
	}
}

// propagateCapture walks scopeId and every ancestor it can reach through
// parentScopes, marking symbolId as either defined locally or captured from
// an ancestor in each Environment it passes through.
func (b *builder) propagateCapture(scopeId ScopeId, symbolId SymbolId, visited *orderedSet[ScopeId]) {
	if !visited.Add(scopeId) {
		return
	}

	sc := b.db.Scope(scopeId)
	sym := b.db.Symbol(symbolId)

	envId, ok := b.graph.environments[scopeId]
	if !ok {
		return
	}
	env := b.db.Env(envId)

	switch {
	case sc.IsLocal(symbolId) && sym.IsDefinable():
		env.Define(symbolId)
	case !sc.IsLocal(symbolId) && sym.IsCapturable():
		env.Capture(symbolId)
		if parents, ok := b.graph.parentScopes[scopeId]; ok {
			for _, p := range parents.Items() {
				b.propagateCapture(p, symbolId, visited)
			}
		}
	}
}

// Second phase: ref_* mirrors walk_* but resolves references (propagating
// captures and counting uses) instead of merely discovering structure.

func (b *builder) refFunctionScope(scopeId ScopeId) {
	// The environment already exists from phase one; phase two only needs
	// to descend into referenced HIR, which refHir/refReference below do.
}

func (b *builder) refHir(scopeId ScopeId, hirId HirId) {
	key := hirKey{scopeId, hirId}
	if b.visitedHir[key] {
		return
	}
	b.visitedHir[key] = true

	node := b.db.Hir(hirId)
	switch node.Kind {
	case hir.KindUnknown, hir.KindAtom:
	case hir.KindOp:
		b.refHir(scopeId, node.Value)
	case hir.KindRaise:
		if node.HasRaised {
			b.refHir(scopeId, node.Raised)
		}
	case hir.KindPair:
		b.refHir(scopeId, node.First)
		b.refHir(scopeId, node.Rest)
	case hir.KindFunctionCall:
		b.refHir(scopeId, node.Callee)
		for _, arg := range node.Arguments {
			b.refHir(scopeId, arg)
		}
	case hir.KindIf:
		b.refHir(scopeId, node.Condition)
		b.refHir(scopeId, node.Then)
		b.refHir(scopeId, node.Else)
	case hir.KindBinaryOp:
		b.refHir(scopeId, node.Lhs)
		b.refHir(scopeId, node.Rhs)
	case hir.KindSubstr:
		b.refHir(scopeId, node.Value)
		b.refHir(scopeId, node.Start)
		b.refHir(scopeId, node.End)
	case hir.KindDefinition:
		b.refHir(node.DefScope, node.DefBody)
	case hir.KindReference:
		b.resolveReference(scopeId, node.Symbol)
	case hir.KindSha256, hir.KindPubkeyForExp:
		b.refHir(scopeId, node.Value)
	case hir.KindIntrinsic:
		for _, arg := range node.Arguments {
			b.refHir(scopeId, arg)
		}
	case hir.KindTypeCheck:
		b.refHir(scopeId, node.CheckValue)
	}
}

func (b *builder) resolveReference(scopeId ScopeId, symbolId SymbolId) {
	sym := b.db.Symbol(symbolId)

	if sym.IsConstant() && b.symbolStack.Contains(symbolId) {
		return
	}

	b.graph.symbolRefCounts[symbolId]++
	b.propagateCapture(scopeId, symbolId, newOrderedSet[ScopeId]())

	onStack := sym.IsConstant()
	if onStack {
		b.symbolStack.Add(symbolId)
	}

	switch sym.Kind {
	case hir.SymLet, hir.SymConst, hir.SymInlineConst:
		b.refHir(scopeId, sym.Value.HirId)
	case hir.SymFunction:
		b.refHir(sym.Function.ScopeId, sym.Function.HirId)
	case hir.SymInlineFunction:
		b.refInlineFunction(scopeId, symbolId, sym)
	case hir.SymParameter:
	}

	if onStack {
		b.symbolStack.Remove(symbolId)
	}
}

// refInlineFunction inlines the callee's own environment into the caller's:
// every non-parameter definition/capture the inline body's scope discovered
// becomes a definition/capture of the caller's environment too, since at
// codegen time the inline body is spliced directly into the call site
// rather than becoming its own closure.
func (b *builder) refInlineFunction(callerScope ScopeId, symbolId SymbolId, sym *hir.Symbol) {
	callerEnvId, ok := b.graph.environments[callerScope]
	if !ok {
		return
	}
	callerEnv := b.db.Env(callerEnvId)

	b.refHir(sym.Function.ScopeId, sym.Function.HirId)

	calleeEnvId, ok := b.graph.environments[sym.Function.ScopeId]
	if !ok {
		return
	}
	calleeEnv := b.db.Env(calleeEnvId)
	params := map[SymbolId]bool{}
	for _, p := range b.db.Scope(sym.Function.ScopeId).LocalSymbols() {
		params[p] = true
	}

	for _, d := range calleeEnv.Definitions.Items() {
		if !params[d] {
			callerEnv.Define(d)
		}
	}
	for _, c := range calleeEnv.Captures.Items() {
		if !params[c] {
			callerEnv.Capture(c)
		}
	}
}
