package compile

import (
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/scope"
	"github.com/cloverlang/cloverc/internal/types"
)

// NewBuiltins allocates the always-present intrinsic scope and its two
// hand-written inline functions (sha256, pubkey_for_exp): intrinsics that
// cannot be implemented in the language itself.
func NewBuiltins(db DB, ty *types.System) Builtins {
	sc := scope.New()
	std := ty.Std()

	sc.DefineType("Nil", std.Nil)
	sc.DefineType("Int", std.Int)
	sc.DefineType("Bool", std.Bool)
	sc.DefineType("Bytes", std.Bytes)
	sc.DefineType("Bytes32", std.Bytes32)
	sc.DefineType("PublicKey", std.PublicKey)
	sc.DefineType("Any", std.Any)

	nilHir := db.AllocHir(hir.Hir{Kind: hir.KindAtom})
	unknownHir := db.AllocHir(hir.Hir{Kind: hir.KindUnknown})

	scopeId := db.AllocScope(sc)

	bi := Builtins{ScopeId: scopeId, Std: std, NilHir: nilHir, UnknownHir: unknownHir}

	sha256 := defineIntrinsic(db, ty, sc, "bytes", std.Bytes, std.Bytes32, hir.KindSha256)
	pubkeyForExp := defineIntrinsic(db, ty, sc, "exponent", std.Bytes32, std.PublicKey, hir.KindPubkeyForExp)

	sc.DefineSymbol("sha256", sha256)
	sc.DefineSymbol("pubkey_for_exp", pubkeyForExp)

	return bi
}

// DefineNamedIntrinsic builds one inline-function symbol for a standard
// library virtual package's intrinsic signature: a fresh parameter symbol
// per declared name, and a body that is a single KindIntrinsic node
// referencing each in order. Unlike defineIntrinsic below, the operation
// itself carries no dedicated HIR kind -- the code generator dispatches on
// Name instead, since virtual packages contribute an open-ended and
// growing set of intrinsics rather than the two the language core names
// directly.
func DefineNamedIntrinsic(db DB, ty *types.System, name string, callableType TypeId) SymbolId {
	callableTy := ty.Get(callableType)

	fnScope := scope.New()
	args := make([]HirId, 0, len(callableTy.ParameterNames))
	cur := callableTy.Parameters
	for _, paramName := range callableTy.ParameterNames {
		p := ty.Get(cur)
		param := db.AllocSymbol(hir.Symbol{Kind: hir.SymParameter, ParamType: p.First})
		fnScope.DefineSymbol(paramName, param)
		args = append(args, db.AllocHir(hir.Hir{Kind: hir.KindReference, Symbol: param}))
		cur = p.Rest
	}

	bodyHir := db.AllocHir(hir.Hir{Kind: hir.KindIntrinsic, Name: name, Arguments: args})
	fnScopeId := db.AllocScope(fnScope)

	return db.AllocSymbol(hir.Symbol{
		Kind: hir.SymInlineFunction,
		Function: hir.Function{
			ScopeId: fnScopeId, HirId: bodyHir, Type: callableType, Kind: hir.FunctionInline,
		},
	})
}

// defineIntrinsic builds one single-parameter inline function whose body is
// a single opaque HIR node (Sha256/PubkeyForExp) rather than anything
// expressible in the source language.
func defineIntrinsic(db DB, ty *types.System, _ *scope.Scope, paramName string, paramType, returnType TypeId, kind hir.HirKind) SymbolId {
	fnScope := scope.New()
	param := db.AllocSymbol(hir.Symbol{Kind: hir.SymParameter, ParamType: paramType})
	fnScope.DefineSymbol(paramName, param)

	paramRef := db.AllocHir(hir.Hir{Kind: hir.KindReference, Symbol: param})
	bodyHir := db.AllocHir(hir.Hir{Kind: kind, Value: paramRef})

	fnScopeId := db.AllocScope(fnScope)

	params := ty.Alloc(types.Type{Kind: types.KindPair, First: paramType, Rest: ty.Std().Nil})
	callable := ty.Alloc(types.Type{
		Kind: types.KindCallable, Parameters: params, ParameterNames: []string{paramName}, ReturnType: returnType,
	})

	return db.AllocSymbol(hir.Symbol{
		Kind: hir.SymInlineFunction,
		Function: hir.Function{
			ScopeId: fnScopeId, HirId: bodyHir, Type: callable, Kind: hir.FunctionInline,
		},
	})
}
