package compile

import (
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/types"
)

// BinaryOp names the surface-syntax binary operators the AST facade hands
// to CompileBinary; mirrors rue-ast's BinaryOp.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpRemainder
	OpEquals
	OpNotEquals
	OpGreaterThan
	OpLessThan
	OpGreaterThanEquals
	OpLessThanEquals
	OpAnd
	OpOr
	OpBitwiseAnd
	OpBitwiseOr
	OpBitwiseXor
	OpLeftShift
	OpRightShift
)

// rhsThunk compiles the right operand hinted at expected, or returns
// c.unknown() if rhs is syntactically absent (a parser error upstream).
type rhsThunk func(c *Compiler, expected TypeId) hir.Value

func (c *Compiler) binaryOp(op hir.BinOp, lhs, rhs HirId, resultType TypeId) hir.Value {
	id := c.db.AllocHir(hir.Hir{Kind: hir.KindBinaryOp, BinOp: op, Lhs: lhs, Rhs: rhs})
	return hir.NewValue(id, resultType)
}

// CompileBinary dispatches on operator and lhs's static type: arithmetic
// overloads on PublicKey/Bytes/Int, comparisons overload on Bytes
// (byte-lexicographic) vs Int (signed), and logical/bitwise operators
// overload on Bool vs Int.
func (c *Compiler) CompileBinary(op BinaryOp, lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std

	if c.ty.Get(lhs.TypeId).Kind == types.KindUnknown {
		if rhs != nil {
			rhs(c, std.Unknown)
		}
		return c.unknown()
	}

	switch op {
	case OpAdd:
		return c.opAdd(lhs, rhs, span)
	case OpSubtract:
		return c.intBinOp(hir.BinSubtract, lhs, rhs, span)
	case OpMultiply:
		return c.intBinOp(hir.BinMultiply, lhs, rhs, span)
	case OpDivide:
		return c.intBinOp(hir.BinDivide, lhs, rhs, span)
	case OpRemainder:
		return c.intBinOp(hir.BinRemainder, lhs, rhs, span)
	case OpEquals:
		return c.opEquals(lhs, rhs, span, false)
	case OpNotEquals:
		return c.opNotEquals(lhs, rhs, span)
	case OpGreaterThan, OpLessThan, OpGreaterThanEquals, OpLessThanEquals:
		return c.opComparison(op, lhs, rhs, span)
	case OpAnd:
		return c.opAnd(lhs, rhs, span)
	case OpOr:
		return c.opOr(lhs, rhs, span)
	case OpBitwiseAnd:
		return c.opBitwiseAnd(lhs, rhs, span)
	case OpBitwiseOr:
		return c.opBitwiseOr(lhs, rhs, span)
	case OpBitwiseXor:
		return c.intBinOp(hir.BinBitwiseXor, lhs, rhs, span)
	case OpLeftShift:
		return c.intBinOp(hir.BinLeftShift, lhs, rhs, span)
	case OpRightShift:
		return c.intBinOp(hir.BinRightShift, lhs, rhs, span)
	}

	return c.unknown()
}

func (c *Compiler) opAdd(lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std

	if c.ty.Compare(lhs.TypeId, std.PublicKey) <= types.Assignable {
		r := compileRHS(c, rhs, std.PublicKey)
		c.typeCheck(r.TypeId, std.PublicKey, span)
		return c.binaryOp(hir.BinAdd, lhs.HirId, r.HirId, std.PublicKey)
	}

	if c.ty.Compare(lhs.TypeId, std.Bytes) <= types.Assignable {
		r := compileRHS(c, rhs, std.Bytes)
		c.typeCheck(r.TypeId, std.Bytes, span)
		// Byte concatenation is represented as the same BinAdd node tagged
		// at a Bytes result type; the lowering stage (out of scope here)
		// chooses concat vs numeric add based on that result type.
		return c.binaryOp(hir.BinAdd, lhs.HirId, r.HirId, std.Bytes)
	}

	return c.intBinOp(hir.BinAdd, lhs, rhs, span)
}

func (c *Compiler) intBinOp(op hir.BinOp, lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std
	r := compileRHS(c, rhs, std.Int)
	c.typeCheck(lhs.TypeId, std.Int, span)
	c.typeCheck(r.TypeId, std.Int, span)
	return c.binaryOp(op, lhs.HirId, r.HirId, std.Int)
}

// opEquals handles `==`, and `!=` through opNotEquals, which swaps its guards:
// both sides must be castable to Bytes (atom equality only; pairs cannot be
// compared directly), and an equality against a literal Nil on either side
// refines the other side's guard path to the narrower of Nil / non-nil.
func (c *Compiler) opEquals(lhs hir.Value, rhs rhsThunk, span diagnostics.Span, _ bool) hir.Value {
	std := c.bi.Std
	r := compileRHS(c, rhs, lhs.TypeId)

	if c.ty.Compare(lhs.TypeId, std.Bytes) > types.Castable {
		c.db.Error(diagnostics.ErrNonAtomEquality, span, c.ty.Stringify(lhs.TypeId))
	}
	if c.ty.Compare(r.TypeId, std.Bytes) > types.Castable {
		c.db.Error(diagnostics.ErrNonAtomEquality, span, c.ty.Stringify(r.TypeId))
	}

	value := c.binaryOp(hir.BinEquals, lhs.HirId, r.HirId, std.Bool)

	lhsIsNilLit := c.ty.Get(lhs.TypeId).Kind == types.KindNil
	rhsIsNilLit := c.ty.Get(r.TypeId).Kind == types.KindNil
	if rhsIsNilLit && !lhsIsNilLit && lhs.Path != nil {
		value.Guards = append(value.Guards, hir.Guard{
			Path: *lhs.Path, ThenType: std.Nil, ElseType: c.ty.Difference(lhs.TypeId, std.Nil),
		})
	} else if lhsIsNilLit && !rhsIsNilLit && r.Path != nil {
		value.Guards = append(value.Guards, hir.Guard{
			Path: *r.Path, ThenType: std.Nil, ElseType: c.ty.Difference(r.TypeId, std.Nil),
		})
	}
	return value
}

func (c *Compiler) opNotEquals(lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	eq := c.opEquals(lhs, rhs, span, true)
	notHir := c.db.AllocHir(hir.Hir{Kind: hir.KindOp, Op: hir.OpNot, Value: eq.HirId})
	value := hir.NewValue(notHir, c.bi.Std.Bool)
	for _, g := range eq.Guards {
		value.Guards = append(value.Guards, hir.Guard{Path: g.Path, ThenType: g.ElseType, ElseType: g.ThenType})
	}
	return value
}

func (c *Compiler) opComparison(op BinaryOp, lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std

	if c.ty.Compare(lhs.TypeId, std.Bytes) <= types.Assignable {
		r := compileRHS(c, rhs, std.Bytes)
		c.typeCheck(r.TypeId, std.Bytes, span)
		hirOp := bytesCompareOp(op)
		return c.binaryOp(hirOp, lhs.HirId, r.HirId, std.Bool)
	}

	r := compileRHS(c, rhs, std.Int)
	c.typeCheck(lhs.TypeId, std.Int, span)
	c.typeCheck(r.TypeId, std.Int, span)
	return c.binaryOp(intCompareOp(op), lhs.HirId, r.HirId, std.Bool)
}

// bytesCompareOp lowers to the Bytes-suffixed opcodes so the (out-of-scope)
// lowering stage can tell a byte-lexicographic comparison apart from a
// signed integer one instead of recovering the distinction from context.
func bytesCompareOp(op BinaryOp) hir.BinOp {
	switch op {
	case OpGreaterThan:
		return hir.BinBytesGreaterThan
	case OpLessThan:
		return hir.BinBytesLessThan
	case OpGreaterThanEquals:
		return hir.BinBytesGreaterThanEquals
	default:
		return hir.BinBytesLessThanEquals
	}
}

func intCompareOp(op BinaryOp) hir.BinOp {
	switch op {
	case OpGreaterThan:
		return hir.BinGreaterThan
	case OpLessThan:
		return hir.BinLessThan
	case OpGreaterThanEquals:
		return hir.BinGreaterThanEquals
	default:
		return hir.BinLessThanEquals
	}
}

// opAnd compiles rhs under the then-branch's guard overrides (so `x != nil
// && x.field` can see x narrowed), then combines both sides' then-guards
// (their else-guards are discarded by widening each else type back to
// then|else: `a && b` being false doesn't tell you which side failed).
func (c *Compiler) opAnd(lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std
	overrides := c.buildOverrides(lhs.Guards)
	c.typeOverrides = append(c.typeOverrides, overrides)
	r := compileRHS(c, rhs, std.Bool)
	c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]

	c.typeCheck(lhs.TypeId, std.Bool, span)
	c.typeCheck(r.TypeId, std.Bool, span)

	value := c.binaryOp(hir.BinAnd, lhs.HirId, r.HirId, std.Bool)
	for _, g := range append(append([]hir.Guard(nil), lhs.Guards...), r.Guards...) {
		whole := c.ty.Alloc(types.Type{Kind: types.KindUnion, Members: []types.TypeId{g.ThenType, g.ElseType}})
		value.Guards = append(value.Guards, hir.Guard{Path: g.Path, ThenType: g.ThenType, ElseType: whole})
	}
	return value
}

// opOr compiles rhs under the left operand's else-guards (so in `x == nil ||
// x.field` the rhs sees x narrowed to non-nil), the mirror image of opAnd:
// the combined value keeps both sides' else-guards, since `a || b` being
// false means both operands failed, and discards their then-guards by
// widening each then type back to then|else.
func (c *Compiler) opOr(lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std
	overrides := c.buildOverrides(swapGuards(lhs.Guards))
	c.typeOverrides = append(c.typeOverrides, overrides)
	r := compileRHS(c, rhs, std.Bool)
	c.typeOverrides = c.typeOverrides[:len(c.typeOverrides)-1]

	c.typeCheck(lhs.TypeId, std.Bool, span)
	c.typeCheck(r.TypeId, std.Bool, span)

	value := c.binaryOp(hir.BinOr, lhs.HirId, r.HirId, std.Bool)
	for _, g := range append(append([]hir.Guard(nil), lhs.Guards...), r.Guards...) {
		whole := c.ty.Alloc(types.Type{Kind: types.KindUnion, Members: []types.TypeId{g.ThenType, g.ElseType}})
		value.Guards = append(value.Guards, hir.Guard{Path: g.Path, ThenType: whole, ElseType: g.ElseType})
	}
	return value
}

func (c *Compiler) opBitwiseAnd(lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std
	if c.ty.Compare(lhs.TypeId, std.Bool) <= types.Assignable {
		r := compileRHS(c, rhs, std.Bool)
		c.typeCheck(r.TypeId, std.Bool, span)
		value := c.binaryOp(hir.BinAnd, lhs.HirId, r.HirId, std.Bool)
		value.Guards = append(value.Guards, lhs.Guards...)
		value.Guards = append(value.Guards, r.Guards...)
		return value
	}
	return c.intBinOp(hir.BinBitwiseAnd, lhs, rhs, span)
}

func (c *Compiler) opBitwiseOr(lhs hir.Value, rhs rhsThunk, span diagnostics.Span) hir.Value {
	std := c.bi.Std
	if c.ty.Compare(lhs.TypeId, std.Bool) <= types.Assignable {
		r := compileRHS(c, rhs, std.Bool)
		c.typeCheck(r.TypeId, std.Bool, span)
		return c.binaryOp(hir.BinOr, lhs.HirId, r.HirId, std.Bool)
	}
	return c.intBinOp(hir.BinBitwiseOr, lhs, rhs, span)
}

func compileRHS(c *Compiler, rhs rhsThunk, expected TypeId) hir.Value {
	if rhs == nil {
		return c.unknown()
	}
	return rhs(c, expected)
}
