package compile

import (
	"github.com/cloverlang/cloverc/internal/ast"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/types"
)

// resolveTypeByName scans the scope stack innermost-first, mirroring
// resolveSymbolByName but against the type namespace (spec: each scope
// separately namespaces values and types).
func (c *Compiler) resolveTypeByName(name string) (TypeId, bool) {
	for i := len(c.scopeStack) - 1; i >= 0; i-- {
		if id, ok := c.db.Scope(c.scopeStack[i]).Type(name); ok {
			return id, true
		}
	}
	return TypeId{}, false
}

// buildType resolves surface-syntax ast.TypeExpr into a types.TypeId,
// checking generics (the current item's own type parameters) before
// falling back to scope lookup.
func (c *Compiler) buildType(e ast.TypeExpr, generics map[string]TypeId) TypeId {
	switch t := e.(type) {
	case *ast.NamedTypeExpr:
		if generics != nil {
			if g, ok := generics[t.TypeName]; ok {
				return g
			}
		}
		if id, ok := c.resolveTypeByName(t.TypeName); ok {
			return id
		}
		c.db.Error(diagnostics.ErrUndefinedType, t.NodeSpan, t.TypeName)
		return c.bi.Std.Unknown

	case *ast.PairTypeExpr:
		return c.buildPairType(t.Elements, t.NilTerminated, generics)

	case *ast.UnionTypeExpr:
		members := make([]TypeId, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.buildType(m, generics)
		}
		return c.ty.Alloc(types.Type{Kind: types.KindUnion, Members: members})

	case *ast.OptionalTypeExpr:
		inner := c.buildType(t.Inner, generics)
		return c.ty.Alloc(types.Type{Kind: types.KindUnion, Members: []TypeId{inner, c.bi.Std.Nil}})
	}
	return c.bi.Std.Unknown
}

// buildPairType builds a Nil-terminated tuple type for a closed literal
// (`(Int, Bool)`) or an open one for a spread-accepting parameter list
// (`(Int, ...Int)`, surfaced as NilTerminated=false with the last element
// already naming the rest type itself, per funccall.go's spread handling).
func (c *Compiler) buildPairType(elements []ast.TypeExpr, nilTerminated bool, generics map[string]TypeId) TypeId {
	if len(elements) == 0 {
		if nilTerminated {
			return c.bi.Std.Nil
		}
		return c.bi.Std.Any
	}

	tail := c.bi.Std.Nil
	n := len(elements)
	if !nilTerminated {
		n--
		tail = c.buildType(elements[len(elements)-1], generics)
	}
	for i := n - 1; i >= 0; i-- {
		first := c.buildType(elements[i], generics)
		tail = c.ty.Alloc(types.Type{Kind: types.KindPair, First: first, Rest: tail})
	}
	return tail
}
