// Package compile implements the HIR builder: it walks resolved expressions
// and statements and produces HIR plus a static type for each, performing
// type checking, operator dispatch and guard propagation along the way.
package compile

import (
	"sort"

	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/scope"
	"github.com/cloverlang/cloverc/internal/types"
)

type (
	ScopeId  = arena.ScopeId
	SymbolId = arena.SymbolId
	TypeId   = arena.TypeId
	HirId    = arena.HirId
)

// DB is the arena surface the compiler needs: HIR/symbol/scope allocation
// plus diagnostic reporting, kept narrow so this package never has to name
// the concrete arena.Database[...] instantiation (that's internal/driver's
// job, once every type parameter's package exists).
type DB interface {
	AllocHir(hir.Hir) HirId
	Hir(HirId) *hir.Hir
	AllocSymbol(hir.Symbol) SymbolId
	Symbol(SymbolId) *hir.Symbol
	AllocScope(*scope.Scope) ScopeId
	Scope(ScopeId) *scope.Scope
	Error(kind diagnostics.ErrorKind, span diagnostics.Span, args ...string)
	Warning(kind diagnostics.WarningKind, span diagnostics.Span)
}

// Builtins holds the always-present intrinsic scope and its standard types;
// the standard library loader materializes the rest on top of this.
type Builtins struct {
	ScopeId    ScopeId
	Std        types.StandardTypes
	NilHir     HirId
	UnknownHir HirId
}

// Compiler is the HIR-building pass's mutable state: a stack of lexically
// enclosing scopes, a stack of type overrides pushed/popped at every guard
// boundary, a stack of substitution frames for generic inference, and
// whether the expression currently being compiled is in callee position
// (which permits referencing an inline function by name without
// immediately calling it).
type Compiler struct {
	db  DB
	ty  *types.System
	bi  Builtins

	scopeStack          []ScopeId
	symbolStack         []SymbolId
	typeOverrides       []map[SymbolId]TypeId
	substitutionStack   []map[TypeId]TypeId
	allowGenericInfer   []bool
	isCallee            bool
}

func New(db DB, ty *types.System, builtins Builtins) *Compiler {
	return &Compiler{
		db:                db,
		ty:                ty,
		bi:                builtins,
		scopeStack:        []ScopeId{builtins.ScopeId},
		allowGenericInfer: []bool{false},
	}
}

func (c *Compiler) unknown() hir.Value {
	return hir.NewValue(c.bi.UnknownHir, c.bi.Std.Unknown)
}

func (c *Compiler) currentScope() ScopeId { return c.scopeStack[len(c.scopeStack)-1] }

func (c *Compiler) pushScope(id ScopeId) { c.scopeStack = append(c.scopeStack, id) }
func (c *Compiler) popScope() ScopeId {
	id := c.scopeStack[len(c.scopeStack)-1]
	c.scopeStack = c.scopeStack[:len(c.scopeStack)-1]
	return id
}

// typeCheck emits a TypeMismatch diagnostic unless found is Equal or
// Assignable to expected.
func (c *Compiler) typeCheck(found, expected TypeId, span diagnostics.Span) {
	cmp := c.ty.CompareWithGenerics(found, expected, &c.substitutionStack, c.allowInference())
	if cmp > types.Assignable {
		c.db.Error(diagnostics.ErrTypeMismatch, span,
			c.ty.Stringify(expected), c.ty.Stringify(found))
	}
}

func (c *Compiler) allowInference() bool {
	return c.allowGenericInfer[len(c.allowGenericInfer)-1]
}

// resolveSymbolByName scans the scope stack from innermost to outermost and
// returns the first symbol bound to name. It does not consult
// type_overrides; overrideType applies a guard refinement to the found
// symbol's type without mutating the symbol itself.
func (c *Compiler) resolveSymbolByName(name string) (SymbolId, bool) {
	for i := len(c.scopeStack) - 1; i >= 0; i-- {
		if id, ok := c.db.Scope(c.scopeStack[i]).Symbol(name); ok {
			return id, true
		}
	}
	return SymbolId{}, false
}

// overrideType returns the guard-refined type for symbolId if any
// type_overrides frame (innermost wins) mentions it, else its declared
// type.
func (c *Compiler) overrideType(symbolId SymbolId, declared TypeId) TypeId {
	for i := len(c.typeOverrides) - 1; i >= 0; i-- {
		if t, ok := c.typeOverrides[i][symbolId]; ok {
			return t
		}
	}
	return declared
}

// swapGuards inverts a guard list's then/else types, turning "guards true
// when the condition holds" into "guards true when the condition fails" --
// used to build the else-branch override frame with the same path-aware
// buildOverrides logic the then-branch uses.
func swapGuards(guards []hir.Guard) []hir.Guard {
	out := make([]hir.Guard, len(guards))
	for i, g := range guards {
		out[i] = hir.Guard{Path: g.Path, ThenType: g.ElseType, ElseType: g.ThenType}
	}
	return out
}

// declaredType returns symbolId's type ignoring any currently active
// type_overrides frame -- the starting point buildOverrides narrows from.
func (c *Compiler) declaredType(symbolId SymbolId) TypeId {
	sym := c.db.Symbol(symbolId)
	switch sym.Kind {
	case hir.SymParameter:
		return sym.ParamType
	case hir.SymLet, hir.SymConst, hir.SymInlineConst:
		return sym.Value.TypeId
	case hir.SymFunction, hir.SymInlineFunction:
		return sym.Function.Type
	default:
		return c.bi.Std.Unknown
	}
}

// buildOverrides collapses a set of guards into a single override frame:
// guards are grouped by root symbol, sorted by path length ascending, then
// ty.Replace(current, path, thenType) is folded in order
// starting from the symbol's current (possibly already-overridden) type, so
// a more specific refinement (e.g. `x.first`) is applied on top of a less
// specific one (e.g. `x`) rather than the other way around.
func (c *Compiler) buildOverrides(guards []hir.Guard) map[SymbolId]TypeId {
	order := []SymbolId{}
	bySymbol := map[SymbolId][]hir.Guard{}
	for _, g := range guards {
		if _, ok := bySymbol[g.Path.Root]; !ok {
			order = append(order, g.Path.Root)
		}
		bySymbol[g.Path.Root] = append(bySymbol[g.Path.Root], g)
	}

	out := map[SymbolId]TypeId{}
	for _, root := range order {
		gs := append([]hir.Guard(nil), bySymbol[root]...)
		sort.SliceStable(gs, func(i, j int) bool {
			return len(gs[i].Path.Path) < len(gs[j].Path.Path)
		})

		current := c.overrideType(root, c.declaredType(root))
		for _, g := range gs {
			if len(g.Path.Path) == 0 {
				current = g.ThenType
			} else {
				current = c.ty.Replace(current, g.Path.Path, g.ThenType)
			}
		}
		out[root] = current
	}
	return out
}
