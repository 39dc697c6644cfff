// Package hir defines the high-level IR the compiler builds: the Hir node
// variants that live in the shared arena, the Symbol
// variants name resolution binds names to, and the small value/guard types
// threaded through expression compilation.
package hir

import (
	"math/big"

	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/types"
)

type (
	ScopeId  = arena.ScopeId
	SymbolId = arena.SymbolId
	TypeId   = arena.TypeId
	HirId    = arena.HirId
)

// Op names the unary/postfix runtime operations a HIR node can carry;
// binary arithmetic and comparison instead use BinOp below.
type Op int

const (
	OpFirst Op = iota
	OpRest
	OpNot
	OpBitwiseNot
	OpLength
)

type BinOp int

const (
	BinAdd BinOp = iota
	BinSubtract
	BinMultiply
	BinDivide
	BinRemainder
	BinEquals
	BinLessThan
	BinGreaterThan
	BinLessThanEquals
	BinGreaterThanEquals
	BinBytesLessThan
	BinBytesGreaterThan
	BinBytesLessThanEquals
	BinBytesGreaterThanEquals
	BinAnd
	BinOr
	BinBitwiseAnd
	BinBitwiseOr
	BinBitwiseXor
	BinLeftShift
	BinRightShift
)

// Hir is a single tagged node: one Go struct with unused fields left zero,
// rather than one type per variant, so every pass that walks HIR
// (dependency graph, optimizer-adjacent folding) is a single type switch
// over Kind.
type Hir struct {
	Kind HirKind

	// KindAtom
	Bytes *big.Int

	// KindOp
	Op    Op
	Value HirId

	// KindRaise
	Raised HirId // zero HirId with HasRaised=false means bare raise
	HasRaised bool

	// KindPair
	First, Rest HirId

	// KindFunctionCall
	Callee    HirId
	Arguments []HirId
	Spread    bool

	// KindIf
	Condition, Then, Else HirId

	// KindBinaryOp
	BinOp     BinOp
	Lhs, Rhs  HirId

	// KindSubstr
	Start, End HirId

	// KindDefinition
	DefScope ScopeId
	DefBody  HirId

	// KindReference
	Symbol SymbolId
	Span   diagnostics.Span

	// KindSha256, KindPubkeyForExp: Value field above holds the operand.

	// KindIntrinsic: Name identifies the builtin operation a standard
	// library virtual package (crypto/grpc/proto/db) materialized; the
	// Arguments field above holds its operands in declared-parameter order.
	Name string

	// KindTypeCheck: CheckValue holds the operand, Check the predicate a
	// `is` expression compiled against, handed to the code generator to
	// emit as a runtime branch.
	CheckValue HirId
	Check      *types.Check
}

type HirKind int

const (
	KindUnknown HirKind = iota
	KindAtom
	KindOp
	KindRaise
	KindPair
	KindFunctionCall
	KindIf
	KindBinaryOp
	KindSubstr
	KindDefinition
	KindReference
	KindSha256
	KindPubkeyForExp
	KindIntrinsic
	KindTypeCheck
)

// Value pairs a compiled expression's HIR id with its static type, the unit
// every expr-compile function in internal/compile returns.
type Value struct {
	HirId  HirId
	TypeId TypeId

	// Guards accumulated while compiling this expression; empty for most
	// expressions, populated for boolean-valued ones used as conditions.
	Guards []Guard

	// Path names this expression's position for guard narrowing: non-nil
	// only when the expression is an identifier or a chain of field/index
	// accesses off one, since only those positions can be the target of a
	// later `is` check's override.
	Path *GuardPath
}

func NewValue(hirId HirId, typeId TypeId) Value {
	return Value{HirId: hirId, TypeId: typeId}
}

// GuardPath pairs a root SymbolId with a types.Path of selectors. It lives
// here rather than in types because its root is a resolved SymbolId, a
// concept types legitimately knows nothing about.
type GuardPath struct {
	Root SymbolId
	Path types.Path
}

// Guard records a single narrowing fact discovered while compiling a
// condition expression: if the condition is true, Root's type along Path is
// ThenType; if false, it's ElseType.
type Guard struct {
	Path     GuardPath
	ThenType TypeId
	ElseType TypeId
}

// FunctionKind distinguishes ordinary functions (which may recurse and
// become closures) from inline functions (which are substituted at their
// call site and may never recurse).
type FunctionKind int

const (
	FunctionNormal FunctionKind = iota
	FunctionInline
)

// Function is the shared shape of Symbol's Function/InlineFunction variants.
type Function struct {
	ScopeId ScopeId
	HirId   HirId
	Type    TypeId // a KindCallable types.Type
	Kind    FunctionKind
}

// Module groups the symbols and types a `mod` block exports.
type Module struct {
	ScopeId         ScopeId
	ExportedTypes   []TypeId
	ExportedSymbols []SymbolId
}

// Symbol is the resolver's binding of a name to a compile-time entity (spec
// component C/D). Like Hir, kept as one tagged struct rather than per-
// variant types because is_capturable/is_constant/is_definable are simple
// Kind-keyed predicates callers (depgraph especially) need often.
type Symbol struct {
	Kind SymbolKind

	// KindFunction, KindInlineFunction
	Function Function

	// KindParameter
	ParamType TypeId
	ParamIndex int

	// KindLet, KindConst, KindInlineConst
	Value Value

	// KindModule
	Module Module
}

type SymbolKind int

const (
	SymUnknown SymbolKind = iota
	SymFunction
	SymInlineFunction
	SymParameter
	SymLet
	SymConst
	SymInlineConst
	SymModule
)

// IsParameter reports whether the symbol is a function parameter binding.
func (s Symbol) IsParameter() bool { return s.Kind == SymParameter }

// IsCapturable reports whether a closure may capture this symbol by
// reference rather than needing it re-resolved at the use site (spec
// section 4.E).
func (s Symbol) IsCapturable() bool {
	switch s.Kind {
	case SymFunction, SymParameter, SymLet, SymConst:
		return true
	default:
		return false
	}
}

// IsDefinable reports whether this symbol, when local to a scope the
// dependency graph is walking, should be recorded as a `define` in that
// scope's Environment (as opposed to something that only ever needs
// capturing from an ancestor).
func (s Symbol) IsDefinable() bool {
	switch s.Kind {
	case SymFunction, SymLet, SymConst:
		return true
	default:
		return false
	}
}

// IsConstant reports whether evaluating this symbol again at a different
// use site is always safe to re-inline (spec: inline consts/functions are
// substituted at each call site rather than closed over).
func (s Symbol) IsConstant() bool {
	switch s.Kind {
	case SymConst, SymInlineConst, SymInlineFunction:
		return true
	default:
		return false
	}
}
