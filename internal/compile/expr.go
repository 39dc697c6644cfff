package compile

import (
	"math/big"

	"github.com/cloverlang/cloverc/internal/ast"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/types"
)

// CompileExpr dispatches every ast.Expr production to its lowering.
func (c *Compiler) CompileExpr(e ast.Expr, expected TypeId) hir.Value {
	switch ex := e.(type) {
	case *ast.IdentExpr:
		return c.compileIdent(ex)
	case *ast.IntLiteralExpr:
		return c.compileIntLiteral(ex)
	case *ast.BytesLiteralExpr:
		return c.compileBytesLiteral(ex)
	case *ast.BoolLiteralExpr:
		return c.compileBoolLiteral(ex)
	case *ast.NilLiteralExpr:
		return hir.NewValue(c.bi.NilHir, c.bi.Std.Nil)
	case *ast.BinaryExpr:
		return c.compileBinaryExpr(ex)
	case *ast.UnaryExpr:
		return c.compileUnaryExpr(ex)
	case *ast.CallExpr:
		return c.compileCallExpr(ex)
	case *ast.FieldAccessExpr:
		return c.compileFieldAccessExpr(ex)
	case *ast.IndexAccessExpr:
		return c.compileIndexAccessExpr(ex)
	case *ast.IfExpr:
		return c.compileIfExpr(ex, expected)
	case *ast.StructLiteralExpr:
		return c.compileStructLiteral(ex)
	case *ast.PairLiteralExpr:
		return c.compilePairLiteral(ex)
	case *ast.GuardExpr:
		return c.compileGuardExpr(ex)
	}
	return c.unknown()
}

func (c *Compiler) compileIdent(e *ast.IdentExpr) hir.Value {
	symId, ok := c.resolveSymbolByName(e.Name)
	if !ok {
		c.db.Error(diagnostics.ErrUndefinedReference, e.NodeSpan, e.Name)
		return c.unknown()
	}
	sym := c.db.Symbol(symId)
	refHir := c.db.AllocHir(hir.Hir{Kind: hir.KindReference, Symbol: symId, Span: e.NodeSpan})

	var typeId TypeId
	switch sym.Kind {
	case hir.SymParameter:
		typeId = c.overrideType(symId, sym.ParamType)
	case hir.SymLet, hir.SymConst, hir.SymInlineConst:
		typeId = c.overrideType(symId, sym.Value.TypeId)
	case hir.SymFunction, hir.SymInlineFunction:
		typeId = sym.Function.Type
	default:
		typeId = c.bi.Std.Unknown
	}

	v := hir.NewValue(refHir, typeId)
	v.Path = &hir.GuardPath{Root: symId}
	return v
}

func (c *Compiler) compileIntLiteral(e *ast.IntLiteralExpr) hir.Value {
	n := new(big.Int)
	n.SetString(e.Text, 0)
	atomHir := c.db.AllocHir(hir.Hir{Kind: hir.KindAtom, Bytes: n})
	t := c.ty.Alloc(types.Type{Kind: types.KindValue, Value: n})
	return hir.NewValue(atomHir, t)
}

func (c *Compiler) compileBytesLiteral(e *ast.BytesLiteralExpr) hir.Value {
	n := new(big.Int).SetBytes(e.Value)
	atomHir := c.db.AllocHir(hir.Hir{Kind: hir.KindAtom, Bytes: n})
	t := c.bi.Std.Bytes
	switch len(e.Value) {
	case 32:
		t = c.bi.Std.Bytes32
	case 48:
		t = c.bi.Std.PublicKey
	}
	return hir.NewValue(atomHir, t)
}

func (c *Compiler) compileBoolLiteral(e *ast.BoolLiteralExpr) hir.Value {
	v := int64(0)
	t := c.bi.Std.False
	if e.Value {
		v = 1
		t = c.bi.Std.True
	}
	atomHir := c.db.AllocHir(hir.Hir{Kind: hir.KindAtom, Bytes: big.NewInt(v)})
	return hir.NewValue(atomHir, t)
}

func binOpFromToken(tok string) (BinaryOp, bool) {
	switch tok {
	case "+":
		return OpAdd, true
	case "-":
		return OpSubtract, true
	case "*":
		return OpMultiply, true
	case "/":
		return OpDivide, true
	case "%":
		return OpRemainder, true
	case "==":
		return OpEquals, true
	case "!=":
		return OpNotEquals, true
	case ">":
		return OpGreaterThan, true
	case "<":
		return OpLessThan, true
	case ">=":
		return OpGreaterThanEquals, true
	case "<=":
		return OpLessThanEquals, true
	case "&&":
		return OpAnd, true
	case "||":
		return OpOr, true
	case "&":
		return OpBitwiseAnd, true
	case "|":
		return OpBitwiseOr, true
	case "^":
		return OpBitwiseXor, true
	case "<<":
		return OpLeftShift, true
	case ">>":
		return OpRightShift, true
	}
	return 0, false
}

func (c *Compiler) compileBinaryExpr(e *ast.BinaryExpr) hir.Value {
	op, ok := binOpFromToken(e.Op)
	if !ok {
		c.db.Error(diagnostics.ErrUncallableType, e.NodeSpan, e.Op)
		return c.unknown()
	}
	lhs := c.CompileExpr(e.Lhs, c.bi.Std.Unknown)
	rhs := func(c *Compiler, expected TypeId) hir.Value { return c.CompileExpr(e.Rhs, expected) }
	return c.CompileBinary(op, lhs, rhs, e.NodeSpan)
}

func (c *Compiler) compileUnaryExpr(e *ast.UnaryExpr) hir.Value {
	v := c.CompileExpr(e.Value, c.bi.Std.Unknown)
	switch e.Op {
	case "!":
		c.typeCheck(v.TypeId, c.bi.Std.Bool, e.NodeSpan)
		id := c.db.AllocHir(hir.Hir{Kind: hir.KindOp, Op: hir.OpNot, Value: v.HirId})
		out := hir.NewValue(id, c.bi.Std.Bool)
		for _, g := range v.Guards {
			out.Guards = append(out.Guards, hir.Guard{Path: g.Path, ThenType: g.ElseType, ElseType: g.ThenType})
		}
		return out
	case "-":
		c.typeCheck(v.TypeId, c.bi.Std.Int, e.NodeSpan)
		zero := c.db.AllocHir(hir.Hir{Kind: hir.KindAtom, Bytes: big.NewInt(0)})
		id := c.db.AllocHir(hir.Hir{Kind: hir.KindBinaryOp, BinOp: hir.BinSubtract, Lhs: zero, Rhs: v.HirId})
		return hir.NewValue(id, c.bi.Std.Int)
	case "~":
		c.typeCheck(v.TypeId, c.bi.Std.Int, e.NodeSpan)
		id := c.db.AllocHir(hir.Hir{Kind: hir.KindOp, Op: hir.OpBitwiseNot, Value: v.HirId})
		return hir.NewValue(id, c.bi.Std.Int)
	}
	return c.unknown()
}

func (c *Compiler) compileCallExpr(e *ast.CallExpr) hir.Value {
	args := make([]Arg, len(e.Args))
	for i := range e.Args {
		a := e.Args[i]
		args[i] = Arg{
			Spread: a.Spread,
			Expr:   func(c *Compiler, expected TypeId) hir.Value { return c.CompileExpr(a.Value, expected) },
		}
	}
	generics := make([]TypeId, len(e.GenericArgs))
	for i, g := range e.GenericArgs {
		generics[i] = c.buildType(g, nil)
	}
	callee := func(c *Compiler) hir.Value { return c.CompileExpr(e.Callee, c.bi.Std.Unknown) }
	return c.CompileFunctionCall(callee, args, generics, e.NodeSpan)
}

func (c *Compiler) compileFieldAccessExpr(e *ast.FieldAccessExpr) hir.Value {
	v := c.CompileExpr(e.Value, c.bi.Std.Unknown)
	out := c.CompileFieldAccess(v, e.Field, e.NodeSpan)
	if v.Path != nil {
		p := append(append(types.Path{}, v.Path.Path...), types.Selector{Kind: types.SelectField, Field: e.Field})
		out.Path = &hir.GuardPath{Root: v.Path.Root, Path: p}
	}
	return out
}

func (c *Compiler) compileIndexAccessExpr(e *ast.IndexAccessExpr) hir.Value {
	v := c.CompileExpr(e.Value, c.bi.Std.Unknown)
	out := c.CompileIndexAccess(v, e.Index, e.NodeSpan)
	if v.Path != nil {
		sel := make(types.Path, 0, e.Index+1)
		for i := 0; i < e.Index; i++ {
			sel = append(sel, types.Selector{Kind: types.SelectRest})
		}
		sel = append(sel, types.Selector{Kind: types.SelectFirst})
		out.Path = &hir.GuardPath{Root: v.Path.Root, Path: append(append(types.Path{}, v.Path.Path...), sel...)}
	}
	return out
}

func (c *Compiler) compileIfExpr(e *ast.IfExpr, expected TypeId) hir.Value {
	cond := c.CompileExpr(e.Condition, c.bi.Std.Bool)
	c.typeCheck(cond.TypeId, c.bi.Std.Bool, e.NodeSpan)

	c.typeOverrides = append(c.typeOverrides, c.buildOverrides(cond.Guards))
	thenSummary := c.compileBlock(e.Then, expected)
	c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]
	if thenSummary.Terminator != TerminatorImplicit {
		c.db.Error(diagnostics.ErrExplicitReturnInExpr, e.Then.NodeSpan)
	}

	c.typeOverrides = append(c.typeOverrides, c.buildOverrides(swapGuards(cond.Guards)))
	elseSummary := c.compileBlock(e.Else, expected)
	c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]
	if elseSummary.Terminator != TerminatorImplicit {
		c.db.Error(diagnostics.ErrExplicitReturnInExpr, e.Else.NodeSpan)
	}

	ifHir := c.db.AllocHir(hir.Hir{
		Kind:      hir.KindIf,
		Condition: cond.HirId,
		Then:      thenSummary.Value.HirId,
		Else:      elseSummary.Value.HirId,
	})

	resultType := expected
	if expected == c.bi.Std.Unknown {
		resultType = c.ty.Alloc(types.Type{Kind: types.KindUnion, Members: []TypeId{thenSummary.Value.TypeId, elseSummary.Value.TypeId}})
	}
	return hir.NewValue(ifHir, resultType)
}

func containsStr(items []string, needle string) bool {
	for _, s := range items {
		if s == needle {
			return true
		}
	}
	return false
}

func (c *Compiler) compileStructLiteral(e *ast.StructLiteralExpr) hir.Value {
	typeId, ok := c.resolveTypeByName(e.StructName)
	if !ok {
		c.db.Error(diagnostics.ErrUndefinedType, e.NodeSpan, e.StructName)
		return c.unknown()
	}
	t := c.ty.Get(typeId)
	if t.Kind != types.KindStruct {
		c.db.Error(diagnostics.ErrUninitializableType, e.NodeSpan, e.StructName)
		return c.unknown()
	}

	provided := map[string]ast.Expr{}
	seen := map[string]bool{}
	for _, f := range e.Fields {
		if seen[f.Name] {
			c.db.Error(diagnostics.ErrDuplicateField, e.NodeSpan, f.Name)
		}
		seen[f.Name] = true
		provided[f.Name] = f.Value
	}
	for name := range provided {
		if !containsStr(t.FieldNames, name) {
			c.db.Error(diagnostics.ErrUnknownField, e.NodeSpan, name)
		}
	}

	elemTypes, _ := c.ty.Elements(t.Inner)
	values := make([]HirId, len(t.FieldNames))
	for i, name := range t.FieldNames {
		expected := c.bi.Std.Unknown
		if i < len(elemTypes) {
			expected = elemTypes[i]
		}
		expr, ok := provided[name]
		if !ok {
			c.db.Error(diagnostics.ErrUnknownField, e.NodeSpan, name)
			values[i] = c.bi.UnknownHir
			continue
		}
		v := c.CompileExpr(expr, expected)
		c.typeCheck(v.TypeId, expected, e.NodeSpan)
		values[i] = v.HirId
	}

	body := c.bi.NilHir
	for i := len(values) - 1; i >= 0; i-- {
		body = c.db.AllocHir(hir.Hir{Kind: hir.KindPair, First: values[i], Rest: body})
	}
	return hir.NewValue(body, typeId)
}

func (c *Compiler) compilePairLiteral(e *ast.PairLiteralExpr) hir.Value {
	tailHir := c.bi.NilHir
	tailType := c.bi.Std.Nil
	elements := e.Elements
	if !e.NilTerminated && len(elements) > 0 {
		last := c.CompileExpr(elements[len(elements)-1], c.bi.Std.Unknown)
		tailHir = last.HirId
		tailType = last.TypeId
		elements = elements[:len(elements)-1]
	}

	for i := len(elements) - 1; i >= 0; i-- {
		v := c.CompileExpr(elements[i], c.bi.Std.Unknown)
		tailHir = c.db.AllocHir(hir.Hir{Kind: hir.KindPair, First: v.HirId, Rest: tailHir})
		tailType = c.ty.Alloc(types.Type{Kind: types.KindPair, First: v.TypeId, Rest: tailType})
	}
	return hir.NewValue(tailHir, tailType)
}

// compileGuardExpr lowers `value is Target`: it computes the narrowing
// Check for value's static type against Target,
// carries it verbatim for the code generator to turn into a runtime branch,
// and -- when value names a path -- records a Guard so an enclosing If or
// && can narrow subsequent uses of that path.
func (c *Compiler) compileGuardExpr(e *ast.GuardExpr) hir.Value {
	v := c.CompileExpr(e.Value, c.bi.Std.Unknown)
	target := c.buildType(e.CheckTarget, nil)

	check, err := c.ty.Check(v.TypeId, target)
	if err != nil {
		c.db.Error(diagnostics.ErrUnsupportedTypeGuard, e.NodeSpan,
			c.ty.Stringify(v.TypeId), c.ty.Stringify(target))
		return hir.NewValue(c.bi.UnknownHir, c.bi.Std.Bool)
	}

	boolHir := c.db.AllocHir(hir.Hir{Kind: hir.KindTypeCheck, CheckValue: v.HirId, Check: &check})
	out := hir.NewValue(boolHir, c.bi.Std.Bool)

	if v.Path != nil {
		cmp := c.ty.Compare(v.TypeId, target)
		if cmp <= types.Assignable {
			c.db.Warning(diagnostics.WarnRedundantTypeCheck, e.NodeSpan)
		}
		elseType := c.ty.Difference(v.TypeId, target)
		out.Guards = []hir.Guard{{Path: *v.Path, ThenType: target, ElseType: elseType}}
	}
	return out
}
