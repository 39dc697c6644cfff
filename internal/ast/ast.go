// Package ast is the minimal façade between a concrete-syntax parser (out
// of scope for this module) and the HIR builder: one
// exported type per grammar production, exposing only the query methods
// internal/compile actually needs. A real parser implementation would
// populate these from its own concrete syntax tree; internal/compile never
// sees that tree, only this façade.
package ast

import "github.com/cloverlang/cloverc/internal/diagnostics"

// Span reports a node's source location for diagnostics.
type Span = diagnostics.Span

// Program is the root of one compiled source file: a flat list of items.
// Order matters only for diagnostics; name resolution sees all items at
// once (two-phase item elaboration).
type Program struct {
	Items    []Item
	NodeSpan Span
}

func (p *Program) Span() Span { return p.NodeSpan }

// Item is any top-level declaration: function, const, struct, enum, or type
// alias.
type Item interface {
	itemNode()
	Name() string
	Span() Span
}

type FnItem struct {
	FnName     string
	IsInline   bool
	Params     []Param
	ReturnType TypeExpr
	Generics   []string
	Body       Block
	NodeSpan   Span
}

func (f *FnItem) itemNode()    {}
func (f *FnItem) Name() string { return f.FnName }
func (f *FnItem) Span() Span   { return f.NodeSpan }

type Param struct {
	ParamName string
	Type      TypeExpr
	NodeSpan  Span
}

func (p Param) Span() Span { return p.NodeSpan }

type ConstItem struct {
	ConstName string
	IsInline  bool
	Type      TypeExpr // nil if inferred
	Value     Expr
	NodeSpan  Span
}

func (c *ConstItem) itemNode()    {}
func (c *ConstItem) Name() string { return c.ConstName }
func (c *ConstItem) Span() Span   { return c.NodeSpan }

type StructItem struct {
	StructName string
	Fields     []Param
	Generics   []string
	NodeSpan   Span
}

func (s *StructItem) itemNode()    {}
func (s *StructItem) Name() string { return s.StructName }
func (s *StructItem) Span() Span   { return s.NodeSpan }

type EnumItem struct {
	EnumName string
	Variants []EnumVariantItem
	NodeSpan Span
}

func (e *EnumItem) itemNode()    {}
func (e *EnumItem) Name() string { return e.EnumName }
func (e *EnumItem) Span() Span   { return e.NodeSpan }

type EnumVariantItem struct {
	VariantName string
	Fields      []Param // empty for a bare discriminant-only variant
	NodeSpan    Span
}

func (e EnumVariantItem) Span() Span { return e.NodeSpan }

type TypeAliasItem struct {
	AliasName string
	Generics  []string
	Target    TypeExpr
	NodeSpan  Span
}

func (t *TypeAliasItem) itemNode()    {}
func (t *TypeAliasItem) Name() string { return t.AliasName }
func (t *TypeAliasItem) Span() Span   { return t.NodeSpan }

// TypeExpr is the unresolved surface syntax for a type annotation; the
// compiler's type-building pass turns one into a types.TypeId.
type TypeExpr interface {
	typeExprNode()
	Span() Span
}

type NamedTypeExpr struct {
	TypeName    string
	GenericArgs []TypeExpr
	NodeSpan    Span
}

func (n *NamedTypeExpr) typeExprNode() {}
func (n *NamedTypeExpr) Span() Span    { return n.NodeSpan }

type PairTypeExpr struct {
	Elements      []TypeExpr
	NilTerminated bool
	NodeSpan      Span
}

func (p *PairTypeExpr) typeExprNode() {}
func (p *PairTypeExpr) Span() Span    { return p.NodeSpan }

type UnionTypeExpr struct {
	Members  []TypeExpr
	NodeSpan Span
}

func (u *UnionTypeExpr) typeExprNode() {}
func (u *UnionTypeExpr) Span() Span    { return u.NodeSpan }

type OptionalTypeExpr struct {
	Inner    TypeExpr
	NodeSpan Span
}

func (o *OptionalTypeExpr) typeExprNode() {}
func (o *OptionalTypeExpr) Span() Span    { return o.NodeSpan }

// Block is a sequence of statements plus an optional trailing expression.
type Block struct {
	Stmts    []Stmt
	Trailing Expr // nil if the block ends in a statement instead
	NodeSpan Span
}

func (b Block) Span() Span { return b.NodeSpan }

// Stmt is any statement production: let, if, return, raise, assert, assume.
type Stmt interface {
	stmtNode()
	Span() Span
}

type LetStmt struct {
	LetName  string
	Type     TypeExpr // nil if inferred
	Value    Expr
	NodeSpan Span
}

func (l *LetStmt) stmtNode() {}
func (l *LetStmt) Span() Span { return l.NodeSpan }

type IfStmt struct {
	Condition Expr
	Then      Block
	NodeSpan  Span
}

func (i *IfStmt) stmtNode()  {}
func (i *IfStmt) Span() Span { return i.NodeSpan }

type ReturnStmt struct {
	Value    Expr // nil for a bare `return`
	NodeSpan Span
}

func (r *ReturnStmt) stmtNode()  {}
func (r *ReturnStmt) Span() Span { return r.NodeSpan }

type RaiseStmt struct {
	Value    Expr // nil for a bare `raise`
	NodeSpan Span
}

func (r *RaiseStmt) stmtNode()  {}
func (r *RaiseStmt) Span() Span { return r.NodeSpan }

type AssertStmt struct {
	Condition Expr
	NodeSpan  Span
}

func (a *AssertStmt) stmtNode()  {}
func (a *AssertStmt) Span() Span { return a.NodeSpan }

type AssumeStmt struct {
	Condition Expr
	NodeSpan  Span
}

func (a *AssumeStmt) stmtNode()  {}
func (a *AssumeStmt) Span() Span { return a.NodeSpan }

// Expr is any expression production.
type Expr interface {
	exprNode()
	Span() Span
}

type IdentExpr struct {
	Name     string
	NodeSpan Span
}

func (e *IdentExpr) exprNode() {}
func (e *IdentExpr) Span() Span { return e.NodeSpan }

type IntLiteralExpr struct {
	Text     string
	NodeSpan Span
}

func (e *IntLiteralExpr) exprNode()  {}
func (e *IntLiteralExpr) Span() Span { return e.NodeSpan }

type BytesLiteralExpr struct {
	Value    []byte
	NodeSpan Span
}

func (e *BytesLiteralExpr) exprNode()  {}
func (e *BytesLiteralExpr) Span() Span { return e.NodeSpan }

type BoolLiteralExpr struct {
	Value    bool
	NodeSpan Span
}

func (e *BoolLiteralExpr) exprNode()  {}
func (e *BoolLiteralExpr) Span() Span { return e.NodeSpan }

type NilLiteralExpr struct {
	NodeSpan Span
}

func (e *NilLiteralExpr) exprNode()  {}
func (e *NilLiteralExpr) Span() Span { return e.NodeSpan }

type BinaryExpr struct {
	Op       string
	Lhs, Rhs Expr
	NodeSpan Span
}

func (e *BinaryExpr) exprNode()  {}
func (e *BinaryExpr) Span() Span { return e.NodeSpan }

type UnaryExpr struct {
	Op       string
	Value    Expr
	NodeSpan Span
}

func (e *UnaryExpr) exprNode()  {}
func (e *UnaryExpr) Span() Span { return e.NodeSpan }

type CallExpr struct {
	Callee      Expr
	Args        []CallArg
	GenericArgs []TypeExpr
	NodeSpan    Span
}

func (e *CallExpr) exprNode()  {}
func (e *CallExpr) Span() Span { return e.NodeSpan }

type CallArg struct {
	Value  Expr
	Spread bool
}

type FieldAccessExpr struct {
	Value    Expr
	Field    string
	NodeSpan Span
}

func (e *FieldAccessExpr) exprNode()  {}
func (e *FieldAccessExpr) Span() Span { return e.NodeSpan }

type IndexAccessExpr struct {
	Value    Expr
	Index    int
	NodeSpan Span
}

func (e *IndexAccessExpr) exprNode()  {}
func (e *IndexAccessExpr) Span() Span { return e.NodeSpan }

type IfExpr struct {
	Condition Expr
	Then      Block
	Else      Block
	NodeSpan  Span
}

func (e *IfExpr) exprNode()  {}
func (e *IfExpr) Span() Span { return e.NodeSpan }

type StructLiteralExpr struct {
	StructName string
	Fields     []FieldInit
	NodeSpan   Span
}

func (e *StructLiteralExpr) exprNode()  {}
func (e *StructLiteralExpr) Span() Span { return e.NodeSpan }

type FieldInit struct {
	Name  string
	Value Expr
}

type PairLiteralExpr struct {
	Elements      []Expr
	NilTerminated bool
	NodeSpan      Span
}

func (e *PairLiteralExpr) exprNode()  {}
func (e *PairLiteralExpr) Span() Span { return e.NodeSpan }

// GuardExpr is a type-check expression (`x is SomeType` narrowing
// production); internal/compile lowers it into a types.Check via the same
// algorithm it uses for If-condition narrowing.
type GuardExpr struct {
	Value       Expr
	CheckTarget TypeExpr
	NodeSpan    Span
}

func (e *GuardExpr) exprNode()  {}
func (e *GuardExpr) Span() Span { return e.NodeSpan }
