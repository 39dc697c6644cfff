package compile

import (
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/types"
)

// Arg is one already-parsed call argument: its expression thunk and whether
// it's followed by a spread marker (`...`), which is only meaningful on the
// final argument.
type Arg struct {
	Expr   func(c *Compiler, expected TypeId) hir.Value
	Spread bool
}

// CompileFunctionCall lowers a call expression: resolve the callee's
// Callable type, compile each argument hinted at its matching parameter
// type, type-check every argument, and substitute any generics the callee
// inferred from its arguments into the return type.
func (c *Compiler) CompileFunctionCall(callee func(c *Compiler) hir.Value, args []Arg, genericArgs []TypeId, span diagnostics.Span) hir.Value {
	c.isCallee = true
	calleeValue := callee(c)
	c.isCallee = false

	calleeType := c.ty.Get(calleeValue.TypeId)
	if calleeType.Kind != types.KindCallable {
		c.db.Error(diagnostics.ErrUncallableType, span, c.ty.Stringify(calleeValue.TypeId))
		for _, a := range args {
			a.Expr(c, c.bi.Std.Unknown)
		}
		return c.unknown()
	}

	paramTypes, nilTerminated := c.ty.Elements(calleeType.Parameters)

	if len(calleeType.Generics) > 0 {
		if len(genericArgs) > 0 && len(genericArgs) != len(calleeType.Generics) {
			c.db.Error(diagnostics.ErrGenericArgsMismatch, span)
			genericArgs = nil
		}
	} else if len(genericArgs) > 0 {
		c.db.Error(diagnostics.ErrUnexpectedGenericArgs, span)
		genericArgs = nil
	}

	subs := map[types.GenericId]TypeId{}
	for i, g := range calleeType.Generics {
		if i < len(genericArgs) {
			subs[g] = genericArgs[i]
		}
	}

	c.substitutionStack = append(c.substitutionStack, map[TypeId]TypeId{})
	c.allowGenericInfer = append(c.allowGenericInfer, true)

	if nilTerminated && len(args) != len(paramTypes) {
		c.db.Error(diagnostics.ErrArgumentMismatch, span)
	}

	argHirs := make([]HirId, 0, len(args))
	for i, arg := range args {
		expected := c.bi.Std.Unknown
		switch {
		case i < len(paramTypes):
			expected = paramTypes[i]
		case !nilTerminated && len(paramTypes) > 0:
			expected = paramTypes[len(paramTypes)-1]
		}

		value := arg.Expr(c, expected)
		argHirs = append(argHirs, value.HirId)

		last := i == len(args)-1
		if arg.Spread && !last {
			c.db.Error(diagnostics.ErrInvalidSpreadArgument, span)
		}

		switch {
		case i < len(paramTypes):
			c.typeCheck(value.TypeId, paramTypes[i], span)
		case !nilTerminated && len(paramTypes) > 0:
			c.typeCheck(value.TypeId, paramTypes[len(paramTypes)-1], span)
			if !arg.Spread && last {
				c.db.Error(diagnostics.ErrRequiredFunctionSpread, span)
			}
		}
	}

	inferred := c.substitutionStack[len(c.substitutionStack)-1]
	c.substitutionStack = c.substitutionStack[:len(c.substitutionStack)-1]
	c.allowGenericInfer = c.allowGenericInfer[:len(c.allowGenericInfer)-1]

	// Fold the bindings generic inference accumulated while compiling
	// arguments (keyed by each generic parameter's TypeId) into subs (keyed
	// by GenericId, what Substitute needs), without overriding an explicit
	// generic argument for the same parameter.
	for genTypeId, bound := range inferred {
		g := c.ty.Get(genTypeId)
		if g.Kind != types.KindGeneric {
			continue
		}
		if _, explicit := subs[g.GenericId]; !explicit {
			subs[g.GenericId] = bound
		}
	}

	returnType := calleeType.ReturnType
	if len(subs) > 0 {
		returnType = c.ty.Substitute(returnType, subs, types.SubstituteStructural)
	}

	spread := len(args) > 0 && args[len(args)-1].Spread
	callHir := c.db.AllocHir(hir.Hir{
		Kind:      hir.KindFunctionCall,
		Callee:    calleeValue.HirId,
		Arguments: argHirs,
		Spread:    spread,
	})

	return hir.NewValue(callHir, returnType)
}
