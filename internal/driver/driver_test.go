package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloverlang/cloverc/internal/ast"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/types"
)

func namedType(name string) ast.TypeExpr { return &ast.NamedTypeExpr{TypeName: name} }

func ident(name string) ast.Expr { return &ast.IdentExpr{Name: name} }

func intLit(text string) ast.Expr { return &ast.IntLiteralExpr{Text: text} }

func fn(name string, params []ast.Param, ret string, body ast.Block) *ast.FnItem {
	return &ast.FnItem{FnName: name, Params: params, ReturnType: namedType(ret), Body: body}
}

// 1. A two-function program with no captures compiles cleanly and produces
// two distinct function environments.
func TestCompileSimpleCallProducesNoDiagnosticsOrCaptures(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		fn("f", []ast.Param{{ParamName: "x", Type: namedType("Int")}}, "Int", ast.Block{
			Trailing: &ast.BinaryExpr{Op: "+", Lhs: ident("x"), Rhs: intLit("1")},
		}),
		fn("main", nil, "Int", ast.Block{
			Trailing: &ast.CallExpr{Callee: ident("f"), Args: []ast.CallArg{{Value: intLit("2")}}},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	assert.Empty(t, art.Diagnostics.All())

	mainSym := art.Database.Symbol(art.EntryPoint)
	fEnvId, ok := art.Graph.EnvironmentId(mainSym.Function.ScopeId)
	require.True(t, ok)
	callHir := art.Database.Hir(mainSym.Function.HirId)
	require.Equal(t, hir.KindFunctionCall, callHir.Kind)
	fCalleeId := art.Database.Hir(callHir.Callee).Symbol
	fFuncScope := art.Database.Symbol(fCalleeId).Function.ScopeId
	gEnvId, ok := art.Graph.EnvironmentId(fFuncScope)
	require.True(t, ok)
	assert.NotEqual(t, fEnvId, gEnvId)
}

// 2. `Bytes + nil` is accepted and lowers to BinAdd tagged with a Bytes
// result type (the code generator, out of scope here, picks concat vs
// numeric add off that result type).
func TestCompileBytesPlusNilLowersToBinAddOnBytes(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		fn("main", nil, "Bytes", ast.Block{
			Stmts: []ast.Stmt{
				&ast.LetStmt{LetName: "x", Type: namedType("Bytes"), Value: &ast.NilLiteralExpr{}},
			},
			Trailing: &ast.BinaryExpr{Op: "+", Lhs: ident("x"), Rhs: &ast.NilLiteralExpr{}},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	for _, d := range art.Diagnostics.All() {
		assert.True(t, false, "unexpected diagnostic: %+v", d)
	}

	mainSym := art.Database.Symbol(art.EntryPoint)
	defHir := art.Database.Hir(mainSym.Function.HirId)
	require.Equal(t, hir.KindDefinition, defHir.Kind)
	addHir := art.Database.Hir(defHir.DefBody)
	require.Equal(t, hir.KindBinaryOp, addHir.Kind)
	assert.Equal(t, hir.BinAdd, addHir.BinOp)
}

// 3. `1 == nil` does not trip NonAtomEquality (both sides are castable to
// Bytes) and carries no guard path, since the literal `1` names no path for
// opEquals to refine.
func TestCompileIntEqualsNilHasNoGuardAndNoNonAtomEquality(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		fn("main", nil, "Int", ast.Block{
			Trailing: &ast.IfExpr{
				Condition: &ast.BinaryExpr{Op: "==", Lhs: intLit("1"), Rhs: &ast.NilLiteralExpr{}},
				Then:      ast.Block{Trailing: intLit("0")},
				Else:      ast.Block{Trailing: intLit("1")},
			},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	for _, d := range art.Diagnostics.All() {
		assert.NotEqual(t, diagnostics.ErrNonAtomEquality, d.Kind.Error)
	}
}

// 4. `b is Bytes32` on a Bytes-typed parameter narrows the then-branch to
// Bytes32 and compiles to a bare length check (no IsAtom wrapper needed,
// since Bytes already proves atomicity).
func TestCompileBytesIsBytes32NarrowsAndChecksLength(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		fn("main", []ast.Param{{ParamName: "b", Type: namedType("Bytes")}}, "Bytes32", ast.Block{
			Trailing: &ast.IfExpr{
				Condition: &ast.GuardExpr{Value: ident("b"), CheckTarget: namedType("Bytes32")},
				Then:      ast.Block{Trailing: ident("b")},
				Else:      ast.Block{Trailing: &ast.BytesLiteralExpr{Value: make([]byte, 32)}},
			},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	assert.Empty(t, art.Diagnostics.All())

	mainSym := art.Database.Symbol(art.EntryPoint)
	bodyHir := art.Database.Hir(mainSym.Function.HirId)
	require.Equal(t, hir.KindIf, bodyHir.Kind)
	condHir := art.Database.Hir(bodyHir.Condition)
	require.Equal(t, hir.KindTypeCheck, condHir.Kind)
	require.NotNil(t, condHir.Check)
	assert.Equal(t, types.CheckLength, condHir.Check.Kind)
	assert.Equal(t, 32, condHir.Check.N)
}

// 5. Referencing a not-yet-declared let binding inside a block is an
// UndefinedReference, and nothing cascades from it.
func TestCompileForwardLetReferenceIsUndefinedWithNoCascade(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		fn("main", nil, "Int", ast.Block{
			Stmts: []ast.Stmt{
				&ast.LetStmt{LetName: "a", Value: ident("b")},
				&ast.LetStmt{LetName: "b", Value: intLit("1")},
			},
			Trailing: ident("a"),
		}),
	}}

	art, err := Compile(prog)
	require.Error(t, err)
	errs := art.Diagnostics.All()
	require.Len(t, errs, 1)
	assert.Equal(t, diagnostics.ErrUndefinedReference, errs[0].Kind.Error)
}

// 7. Guard narrowing follows a field-access path: `b.val is Bytes32`
// narrows only that field (path-aware guards / buildOverrides), so the
// then-branch can return b.val where a Bytes32 is expected without a
// TypeMismatch.
func TestCompileFieldGuardNarrowsOnlyThatField(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		&ast.StructItem{StructName: "Box", Fields: []ast.Param{{ParamName: "val", Type: namedType("Bytes")}}},
		fn("main", []ast.Param{{ParamName: "b", Type: namedType("Box")}}, "Bytes32", ast.Block{
			Trailing: &ast.IfExpr{
				Condition: &ast.GuardExpr{Value: &ast.FieldAccessExpr{Value: ident("b"), Field: "val"}, CheckTarget: namedType("Bytes32")},
				Then:      ast.Block{Trailing: &ast.FieldAccessExpr{Value: ident("b"), Field: "val"}},
				Else:      ast.Block{Trailing: &ast.BytesLiteralExpr{Value: make([]byte, 32)}},
			},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	assert.Empty(t, art.Diagnostics.All())
}

// 8. `&&` evaluates its right operand under the left operand's then-guards
// and the combined value keeps both sides' then-guards.
func TestCompileAndCombinesBothSidesThenGuards(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		fn("main", []ast.Param{
			{ParamName: "a", Type: namedType("Bytes")},
			{ParamName: "c", Type: namedType("Bytes")},
		}, "Bytes32", ast.Block{
			Trailing: &ast.IfExpr{
				Condition: &ast.BinaryExpr{
					Op:  "&&",
					Lhs: &ast.GuardExpr{Value: ident("a"), CheckTarget: namedType("Bytes32")},
					Rhs: &ast.GuardExpr{Value: ident("c"), CheckTarget: namedType("Bytes32")},
				},
				Then: ast.Block{Trailing: ident("a")},
				Else: ast.Block{Trailing: &ast.BytesLiteralExpr{Value: make([]byte, 32)}},
			},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	assert.Empty(t, art.Diagnostics.All())
}

// 9. An unannotated generic call infers its return type from its argument,
// so `id(<32 zero bytes>)` type-checks as Bytes32 against main's declared
// return type with no explicit generic argument at the call site.
func TestCompileGenericCallInfersReturnTypeFromArgument(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		&ast.FnItem{
			FnName:     "id",
			Generics:   []string{"T"},
			Params:     []ast.Param{{ParamName: "x", Type: namedType("T")}},
			ReturnType: namedType("T"),
			Body:       ast.Block{Trailing: ident("x")},
		},
		fn("main", nil, "Bytes32", ast.Block{
			Trailing: &ast.CallExpr{Callee: ident("id"), Args: []ast.CallArg{
				{Value: &ast.BytesLiteralExpr{Value: make([]byte, 32)}},
			}},
		}),
	}}

	art, err := Compile(prog)
	require.NoError(t, err)
	assert.Empty(t, art.Diagnostics.All())
}

// 6. A constant whose own initializer references itself is rejected as a
// recursive constant reference once the dependency graph walks it from
// main.
func TestCompileSelfReferentialConstIsRecursive(t *testing.T) {
	prog := &ast.Program{Items: []ast.Item{
		&ast.ConstItem{
			ConstName: "K",
			Type:      namedType("Int"),
			Value:     &ast.BinaryExpr{Op: "+", Lhs: ident("K"), Rhs: intLit("1")},
		},
		fn("main", nil, "Int", ast.Block{Trailing: ident("K")}),
	}}

	art, err := Compile(prog)
	require.Error(t, err)
	var found bool
	for _, d := range art.Diagnostics.All() {
		if d.Kind.Error == diagnostics.ErrRecursiveConstantReference {
			found = true
		}
	}
	assert.True(t, found, "expected a recursive constant reference diagnostic")
}
