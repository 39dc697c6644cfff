package compile

import (
	"github.com/cloverlang/cloverc/internal/ast"
	"github.com/cloverlang/cloverc/internal/hir"
)

// compileBlock bridges an ast.Block into CompileBlock's already-resolved
// Stmt surface, turning every ast.Stmt into the closures CompileBlock's
// right-to-left fold expects.
func (c *Compiler) compileBlock(block ast.Block, expected TypeId) Summary {
	stmts := make([]Stmt, len(block.Stmts))
	for i, s := range block.Stmts {
		stmts[i] = c.compileStmt(s)
	}

	var trailing func(c *Compiler, expected TypeId) hir.Value
	if block.Trailing != nil {
		trailing = func(c *Compiler, expected TypeId) hir.Value { return c.CompileExpr(block.Trailing, expected) }
	}

	return c.CompileBlock(stmts, trailing, expected, block.NodeSpan)
}

func (c *Compiler) compileStmt(s ast.Stmt) Stmt {
	switch st := s.(type) {
	case *ast.LetStmt:
		return Stmt{
			Kind:    StmtLet,
			LetName: st.LetName,
			LetExpr: func(c *Compiler, expected TypeId) hir.Value {
				hint := expected
				if st.Type != nil {
					hint = c.buildType(st.Type, nil)
				}
				v := c.CompileExpr(st.Value, hint)
				if st.Type != nil {
					c.typeCheck(v.TypeId, hint, st.NodeSpan)
				}
				return v
			},
		}

	case *ast.IfStmt:
		return Stmt{
			Kind:      StmtIf,
			Condition: func(c *Compiler) hir.Value { return c.CompileExpr(st.Condition, c.bi.Std.Bool) },
			Then:      func(c *Compiler) Summary { return c.compileBlock(st.Then, c.bi.Std.Unknown) },
		}

	case *ast.ReturnStmt:
		return Stmt{
			Kind: StmtReturn,
			Expr: func(c *Compiler, expected TypeId) hir.Value {
				if st.Value == nil {
					return hir.NewValue(c.bi.NilHir, c.bi.Std.Nil)
				}
				return c.CompileExpr(st.Value, expected)
			},
		}

	case *ast.RaiseStmt:
		if st.Value == nil {
			return Stmt{Kind: StmtRaise}
		}
		return Stmt{
			Kind: StmtRaise,
			Expr: func(c *Compiler, expected TypeId) hir.Value { return c.CompileExpr(st.Value, expected) },
		}

	case *ast.AssertStmt:
		return Stmt{
			Kind:      StmtAssert,
			Condition: func(c *Compiler) hir.Value { return c.CompileExpr(st.Condition, c.bi.Std.Bool) },
		}

	case *ast.AssumeStmt:
		return Stmt{
			Kind:      StmtAssume,
			Condition: func(c *Compiler) hir.Value { return c.CompileExpr(st.Condition, c.bi.Std.Bool) },
		}
	}
	return Stmt{}
}
