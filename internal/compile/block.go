package compile

import (
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/scope"
)

// Terminator records how a block's value was produced: falling off the end
// (Implicit, the trailing expression's value), an explicit return statement,
// or a raise. Only Implicit blocks are allowed as the body of an if-branch
// used as an expression (spec: "implicit return is not allowed in if
// statements").
type Terminator int

const (
	TerminatorImplicit Terminator = iota
	TerminatorReturn
	TerminatorRaise
)

// Summary is the result of compiling one block: its value and how that
// value was reached.
type Summary struct {
	Value      hir.Value
	Terminator Terminator
}

// statement is the internal right-to-left fold unit compileBlock builds up
// while walking a block top to bottom, then collapses in reverse.
type statement struct {
	kind stmtKind

	// stmtLet
	letScope ScopeId

	// stmtIf
	condition, then HirId

	// stmtReturn
	value hir.Value
}

type stmtKind int

const (
	stmtLet stmtKind = iota
	stmtIf
	stmtReturn
	stmtAssume
)

// Stmt is the minimal statement surface the AST facade exposes per block,
// already resolved to compiled pieces by the caller (internal/ast owns the
// concrete grammar-node walk).
type Stmt struct {
	Kind StmtKind

	// StmtLet
	LetName string
	LetExpr func(c *Compiler, expected TypeId) hir.Value

	// StmtIf / StmtAssert / StmtAssume
	Condition func(c *Compiler) hir.Value

	// StmtIf
	Then func(c *Compiler) Summary

	// StmtReturn / StmtRaise
	Expr func(c *Compiler, expected TypeId) hir.Value
}

type StmtKind int

const (
	StmtLet StmtKind = iota
	StmtIf
	StmtReturn
	StmtRaise
	StmtAssert
	StmtAssume
)

// CompileBlock lowers an ordered list of statements plus an optional
// trailing expression, folding the accumulated statement list right-to-left
// into a single HIR expression: a Let becomes a Definition wrapping
// everything after it, an If becomes an If node whose else-branch is
// everything after it, and Return/Raise short-circuit the fold by replacing
// the running body outright.
func (c *Compiler) CompileBlock(stmts []Stmt, trailing func(c *Compiler, expected TypeId) hir.Value, expected TypeId, span diagnostics.Span) Summary {
	var folded []statement
	terminator := TerminatorImplicit

	for _, st := range stmts {
		switch st.Kind {
		case StmtLet:
			letScope := c.db.AllocScope(scope.New())
			c.pushScope(letScope)
			value := st.LetExpr(c, c.bi.Std.Unknown)
			symbolId := c.db.AllocSymbol(hir.Symbol{Kind: hir.SymLet, Value: value})
			c.db.Scope(letScope).DefineSymbol(st.LetName, symbolId)
			folded = append(folded, statement{kind: stmtLet, letScope: letScope})

		case StmtIf:
			cond := st.Condition(c)
			c.typeCheck(cond.TypeId, c.bi.Std.Bool, span)

			thenOverrides := c.buildOverrides(thenGuards(cond.Guards))
			c.typeOverrides = append(c.typeOverrides, thenOverrides)
			thenSummary := st.Then(c)
			c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]
			if thenSummary.Terminator == TerminatorImplicit {
				c.db.Error(diagnostics.ErrImplicitReturnInIf, span)
			}

			// The rest of the block is the else-continuation: narrow it with
			// the inverted guards, popped when this statement's fold runs.
			elseOverrides := c.buildOverrides(swapGuards(cond.Guards))
			c.typeOverrides = append(c.typeOverrides, elseOverrides)

			folded = append(folded, statement{kind: stmtIf, condition: cond.HirId, then: thenSummary.Value.HirId})

		case StmtReturn:
			value := st.Expr(c, expected)
			c.typeCheck(value.TypeId, expected, span)
			terminator = TerminatorReturn
			folded = append(folded, statement{kind: stmtReturn, value: value})

		case StmtRaise:
			var raised HirId
			hasRaised := st.Expr != nil
			if hasRaised {
				v := st.Expr(c, c.bi.Std.Unknown)
				raised = v.HirId
			}
			raiseHir := c.db.AllocHir(hir.Hir{Kind: hir.KindRaise, Raised: raised, HasRaised: hasRaised})
			terminator = TerminatorRaise
			folded = append(folded, statement{
				kind:  stmtReturn,
				value: hir.NewValue(raiseHir, c.bi.Std.Never),
			})

		case StmtAssert:
			cond := st.Condition(c)
			c.typeCheck(cond.TypeId, c.bi.Std.Bool, span)

			overrides := c.buildOverrides(thenGuards(cond.Guards))
			c.typeOverrides = append(c.typeOverrides, overrides)

			notCond := c.db.AllocHir(hir.Hir{Kind: hir.KindOp, Op: hir.OpNot, Value: cond.HirId})
			raiseHir := c.db.AllocHir(hir.Hir{Kind: hir.KindRaise})
			folded = append(folded, statement{kind: stmtIf, condition: notCond, then: raiseHir})

		case StmtAssume:
			cond := st.Condition(c)
			c.typeCheck(cond.TypeId, c.bi.Std.Bool, span)
			overrides := c.buildOverrides(thenGuards(cond.Guards))
			c.typeOverrides = append(c.typeOverrides, overrides)
			folded = append(folded, statement{kind: stmtAssume})
		}
	}

	var body hir.Value
	if trailing != nil {
		body = trailing(c, expected)
		if terminator == TerminatorImplicit {
			c.typeCheck(body.TypeId, expected, span)
		}
	} else if terminator == TerminatorImplicit {
		c.db.Error(diagnostics.ErrEmptyBlock, span)
		body = c.unknown()
	} else {
		body = c.unknown()
	}

	for i := len(folded) - 1; i >= 0; i-- {
		st := folded[i]
		switch st.kind {
		case stmtLet:
			defHir := c.db.AllocHir(hir.Hir{Kind: hir.KindDefinition, DefScope: st.letScope, DefBody: body.HirId})
			body = hir.NewValue(defHir, body.TypeId)
			c.popScope()
		case stmtIf:
			c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]
			ifHir := c.db.AllocHir(hir.Hir{Kind: hir.KindIf, Condition: st.condition, Then: st.then, Else: body.HirId})
			body = hir.NewValue(ifHir, body.TypeId)
		case stmtReturn:
			body = st.value
		case stmtAssume:
			c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]
		}
	}

	return Summary{Value: body, Terminator: terminator}
}

func thenGuards(guards []hir.Guard) []hir.Guard { return guards }
