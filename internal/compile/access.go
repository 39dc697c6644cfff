package compile

import (
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/types"
)

// hirPath wraps value in a chain of First/Rest Op nodes per path: a
// struct/tuple field access compiles down to repeated pair projections,
// never a named-field runtime op.
func (c *Compiler) hirPath(value HirId, path types.Path) HirId {
	for _, sel := range path {
		switch sel.Kind {
		case types.SelectFirst:
			value = c.db.AllocHir(hir.Hir{Kind: hir.KindOp, Op: hir.OpFirst, Value: value})
		case types.SelectRest:
			value = c.db.AllocHir(hir.Hir{Kind: hir.KindOp, Op: hir.OpRest, Value: value})
		}
	}
	return value
}

// fieldPath resolves a named field on a Struct/Variant's FieldNames to the
// First/Rest selector path into its pair-tuple body.
func fieldPath(fieldNames []string, name string) (types.Path, bool) {
	idx := -1
	for i, n := range fieldNames {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	path := make(types.Path, 0, idx+1)
	for i := 0; i < idx; i++ {
		path = append(path, types.Selector{Kind: types.SelectRest})
	}
	path = append(path, types.Selector{Kind: types.SelectFirst})
	return path, true
}

// CompileFieldAccess lowers `value.field`: the field must exist on value's
// (possibly Struct/Variant-wrapped) type, and the access compiles to the
// corresponding First/Rest projection chain into the underlying pair-tuple.
func (c *Compiler) CompileFieldAccess(value hir.Value, field string, span diagnostics.Span) hir.Value {
	t := c.ty.Get(value.TypeId)

	var fieldNames []string
	var inner TypeId
	switch t.Kind {
	case types.KindStruct, types.KindVariant:
		fieldNames = t.FieldNames
		inner = t.Inner
	default:
		c.db.Error(diagnostics.ErrInvalidFieldAccess, span, field, c.ty.Stringify(value.TypeId))
		return c.unknown()
	}

	path, ok := fieldPath(fieldNames, field)
	if !ok {
		c.db.Error(diagnostics.ErrUnknownField, span, field)
		return c.unknown()
	}

	innerElems, _ := c.ty.Elements(inner)
	idx := (len(path) - 1)
	fieldType := c.bi.Std.Unknown
	if idx < len(innerElems) {
		fieldType = innerElems[idx]
	}

	hirId := c.hirPath(value.HirId, path)
	return hir.NewValue(hirId, fieldType)
}

// CompileIndexAccess lowers `value[index]` against a fixed-size tuple (spec
// section 4.D): index must be a compile-time-known Value(n), used directly
// as a First/Rest offset the same way a named field is.
func (c *Compiler) CompileIndexAccess(value hir.Value, index int, span diagnostics.Span) hir.Value {
	t := c.ty.Get(value.TypeId)
	if t.Kind != types.KindPair && t.Kind != types.KindStruct {
		c.db.Error(diagnostics.ErrIndexAccess, span, c.ty.Stringify(value.TypeId))
		return c.unknown()
	}

	body := value.TypeId
	if t.Kind == types.KindStruct {
		body = t.Inner
	}

	elems, _ := c.ty.Elements(body)
	if index < 0 || index >= len(elems) {
		c.db.Error(diagnostics.ErrIndexAccess, span, c.ty.Stringify(value.TypeId))
		return c.unknown()
	}

	path := make(types.Path, 0, index+1)
	for i := 0; i < index; i++ {
		path = append(path, types.Selector{Kind: types.SelectRest})
	}
	path = append(path, types.Selector{Kind: types.SelectFirst})

	hirId := c.hirPath(value.HirId, path)
	return hir.NewValue(hirId, elems[index])
}
