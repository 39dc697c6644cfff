package compile

import (
	"math/big"

	"github.com/cloverlang/cloverc/internal/ast"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/scope"
	"github.com/cloverlang/cloverc/internal/types"
)

// lazyBody defers compiling a fn/const body until every item signature in
// the enclosing program is declared, so bodies may forward-reference any
// sibling item.
type lazyBody struct {
	compile func(c *Compiler)
}

// CompileProgram lowers every top-level item of prog within moduleScope and
// returns the symbol ids of every Fn/Const item declared. moduleScope is
// left populated with every item name (types included), so ordinary
// reference resolution inside a body finds siblings the same way it finds
// anything else in an enclosing scope.
func (c *Compiler) CompileProgram(prog *ast.Program, moduleScope ScopeId) []SymbolId {
	c.pushScope(moduleScope)
	defer c.popScope()

	items := prog.Items

	refs := map[string]TypeId{}
	for _, it := range items {
		switch it.(type) {
		case *ast.StructItem, *ast.EnumItem, *ast.TypeAliasItem:
			ref := c.ty.ReserveRef()
			refs[it.Name()] = ref
			c.db.Scope(moduleScope).DefineType(it.Name(), ref)
		}
	}

	for _, it := range items {
		switch ti := it.(type) {
		case *ast.StructItem:
			c.declareStruct(ti, refs[ti.Name()])
		case *ast.EnumItem:
			c.declareEnum(ti, refs[ti.Name()])
		case *ast.TypeAliasItem:
			c.declareTypeAlias(ti, refs[ti.Name()])
		}
	}

	var lazies []lazyBody
	var exported []SymbolId
	for _, it := range items {
		switch fi := it.(type) {
		case *ast.FnItem:
			symId, body := c.declareFn(fi, moduleScope)
			exported = append(exported, symId)
			lazies = append(lazies, body)
		case *ast.ConstItem:
			symId, body := c.declareConst(fi, moduleScope)
			exported = append(exported, symId)
			lazies = append(lazies, body)
		}
	}

	for _, l := range lazies {
		l.compile(c)
	}

	return exported
}

func (c *Compiler) declareGenerics(names []string) (map[string]TypeId, []types.GenericId) {
	if len(names) == 0 {
		return nil, nil
	}
	generics := make(map[string]TypeId, len(names))
	ids := make([]types.GenericId, len(names))
	for i, name := range names {
		gt, gid := c.ty.NewGeneric()
		generics[name] = gt
		ids[i] = gid
	}
	return generics, ids
}

func (c *Compiler) buildFieldTuple(fields []ast.Param, generics map[string]TypeId) (names []string, inner TypeId) {
	names = make([]string, len(fields))
	fieldTypes := make([]TypeId, len(fields))
	for i, f := range fields {
		names[i] = f.ParamName
		fieldTypes[i] = c.buildType(f.Type, generics)
	}
	inner = c.bi.Std.Nil
	for i := len(fieldTypes) - 1; i >= 0; i-- {
		inner = c.ty.Alloc(types.Type{Kind: types.KindPair, First: fieldTypes[i], Rest: inner})
	}
	return names, inner
}

func (c *Compiler) declareStruct(item *ast.StructItem, ref TypeId) {
	generics, genericIds := c.declareGenerics(item.Generics)
	fieldNames, inner := c.buildFieldTuple(item.Fields, generics)

	c.ty.Resolve(ref, types.Type{
		Kind:          types.KindStruct,
		Original:      ref,
		Inner:         inner,
		FieldNames:    fieldNames,
		NilTerminated: true,
		Generics:      genericIds,
	})
}

func (c *Compiler) declareEnum(item *ast.EnumItem, ref TypeId) {
	seen := map[string]bool{}
	variants := make([]types.EnumVariant, len(item.Variants))
	hasFields := false

	for i, v := range item.Variants {
		if seen[v.VariantName] {
			c.db.Error(diagnostics.ErrDuplicateEnumVariant, v.NodeSpan, v.VariantName)
		}
		seen[v.VariantName] = true

		fieldNames, inner := c.buildFieldTuple(v.Fields, nil)
		if len(v.Fields) > 0 {
			hasFields = true
		}

		variantId := c.ty.Alloc(types.Type{
			Kind:          types.KindVariant,
			Original:      ref,
			OriginalEnum:  ref,
			Inner:         inner,
			FieldNames:    fieldNames,
			NilTerminated: true,
			HasFields:     len(v.Fields) > 0,
			Discriminant:  big.NewInt(int64(i)),
		})
		variants[i] = types.EnumVariant{Name: v.VariantName, Type: variantId}
	}

	c.ty.Resolve(ref, types.Type{
		Kind:      types.KindEnum,
		Original:  ref,
		Inner:     c.bi.Std.Int,
		HasFields: hasFields,
		Variants:  variants,
	})
}

func (c *Compiler) declareTypeAlias(item *ast.TypeAliasItem, ref TypeId) {
	generics, _ := c.declareGenerics(item.Generics)
	target := c.buildType(item.Target, generics)
	c.ty.Resolve(ref, types.Type{Kind: types.KindAlias, Inner: target})
}

func (c *Compiler) declareFn(fi *ast.FnItem, moduleScope ScopeId) (SymbolId, lazyBody) {
	generics, genericIds := c.declareGenerics(fi.Generics)

	fnScope := scope.New()
	fnScopeId := c.db.AllocScope(fnScope)

	paramTypes := make([]TypeId, len(fi.Params))
	paramNames := make([]string, len(fi.Params))
	for i, p := range fi.Params {
		paramTypes[i] = c.buildType(p.Type, generics)
		paramNames[i] = p.ParamName
		symId := c.db.AllocSymbol(hir.Symbol{Kind: hir.SymParameter, ParamType: paramTypes[i], ParamIndex: i})
		fnScope.DefineSymbol(p.ParamName, symId)
	}

	paramsType := c.bi.Std.Nil
	for i := len(paramTypes) - 1; i >= 0; i-- {
		paramsType = c.ty.Alloc(types.Type{Kind: types.KindPair, First: paramTypes[i], Rest: paramsType})
	}

	returnType := c.bi.Std.Unknown
	if fi.ReturnType != nil {
		returnType = c.buildType(fi.ReturnType, generics)
	}

	kind := hir.FunctionNormal
	symKind := hir.SymFunction
	if fi.IsInline {
		kind = hir.FunctionInline
		symKind = hir.SymInlineFunction
	}

	callable := c.ty.Alloc(types.Type{
		Kind:           types.KindCallable,
		Parameters:     paramsType,
		ParameterNames: paramNames,
		NilTerminated:  true,
		ReturnType:     returnType,
		Generics:       genericIds,
	})

	symId := c.db.AllocSymbol(hir.Symbol{
		Kind:     symKind,
		Function: hir.Function{ScopeId: fnScopeId, Type: callable, Kind: kind},
	})
	c.db.Scope(moduleScope).DefineSymbol(fi.FnName, symId)

	return symId, lazyBody{compile: func(c *Compiler) {
		c.pushScope(fnScopeId)
		summary := c.compileBlock(fi.Body, returnType)
		c.popScope()
		sym := c.db.Symbol(symId)
		sym.Function.HirId = summary.Value.HirId
	}}
}

func (c *Compiler) declareConst(ci *ast.ConstItem, moduleScope ScopeId) (SymbolId, lazyBody) {
	expected := c.bi.Std.Unknown
	if ci.Type != nil {
		expected = c.buildType(ci.Type, nil)
	}

	symKind := hir.SymConst
	if ci.IsInline {
		symKind = hir.SymInlineConst
	}

	symId := c.db.AllocSymbol(hir.Symbol{Kind: symKind})
	c.db.Scope(moduleScope).DefineSymbol(ci.ConstName, symId)

	return symId, lazyBody{compile: func(c *Compiler) {
		v := c.CompileExpr(ci.Value, expected)
		if ci.Type != nil {
			c.typeCheck(v.TypeId, expected, ci.NodeSpan)
		}
		sym := c.db.Symbol(symId)
		sym.Value = v
	}}
}
