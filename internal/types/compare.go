package types

// Comparison is the totally ordered lattice Equal < Assignable < Castable <
// NotEqual. Binary operators combine two comparisons by taking their max
// (the weaker constraint wins).
type Comparison int

const (
	Equal Comparison = iota
	Assignable
	Castable
	NotEqual
)

func (c Comparison) String() string {
	switch c {
	case Equal:
		return "Equal"
	case Assignable:
		return "Assignable"
	case Castable:
		return "Castable"
	default:
		return "NotEqual"
	}
}

func maxCmp(a, b Comparison) Comparison {
	if a > b {
		return a
	}
	return b
}

func minCmp(a, b Comparison) Comparison {
	if a < b {
		return a
	}
	return b
}

// pairKey keys the re-entrancy visited set on an (lhs, rhs) comparison.
type pairKey struct{ lhs, rhs TypeId }

// compareCtx is the explicit context threaded through a single compare
// call, per the design note against global state: a visited set for
// cyclic-type co-induction, a substitution stack per side for generic
// lookups, and whether this call is allowed to add new inferred bindings.
type compareCtx struct {
	visited  map[pairKey]bool
	subStack *[]map[TypeId]TypeId
	infer    bool
}

// Compare is the no-inference entry point.
func (s *System) Compare(lhs, rhs TypeId) Comparison {
	stack := []map[TypeId]TypeId{}
	return s.CompareWithGenerics(lhs, rhs, &stack, false)
}

// CompareWithGenerics threads a caller-owned substitution stack through the
// comparison so that Generic bindings discovered while checking one
// argument are visible when checking the next (function-call inference).
// When infer is true and a Generic on the right has no existing binding,
// the top frame of substitutionStack is mutated to bind it.
func (s *System) CompareWithGenerics(lhs, rhs TypeId, substitutionStack *[]map[TypeId]TypeId, infer bool) Comparison {
	ctx := &compareCtx{
		visited:  map[pairKey]bool{},
		subStack: substitutionStack,
		infer:    infer,
	}
	return s.compare(lhs, rhs, ctx)
}

func (s *System) lookupSub(stack []map[TypeId]TypeId, id TypeId) (TypeId, bool) {
	for i := len(stack) - 1; i >= 0; i-- {
		if v, ok := stack[i][id]; ok {
			return v, true
		}
	}
	return TypeId{}, false
}

func (s *System) compare(lhs, rhs TypeId, ctx *compareCtx) Comparison {
	// Reflexivity: a type id is Equal to itself, cyclic types included.
	if lhs == rhs {
		return Equal
	}

	key := pairKey{lhs, rhs}
	if ctx.visited[key] {
		// Re-entrant pair: co-induction treats a cyclic type as Assignable
		// to itself rather than looping forever.
		return Assignable
	}
	ctx.visited[key] = true
	defer delete(ctx.visited, key)

	l, r := s.Get(lhs), s.Get(rhs)

	// Rule 1: Unknown/Never short-circuit, Any absorbs on the right.
	switch {
	case r.Kind == KindAny || r.Kind == KindUnknown:
		return Assignable
	case l.Kind == KindUnknown || l.Kind == KindNever:
		return Assignable
	}

	// Identical atoms.
	if l.Kind == r.Kind {
		switch l.Kind {
		case KindUnknown, KindNever, KindAny, KindBytes, KindBytes32, KindPublicKey,
			KindInt, KindBool, KindNil, KindTrue, KindFalse:
			return Equal
		}
	}

	// Generic on the right: look it up in the substitution stack, else
	// infer or reject.
	if r.Kind == KindGeneric {
		if bound, ok := s.lookupSub(*ctx.subStack, rhs); ok {
			return s.compare(lhs, bound, ctx)
		}
		if lhs == rhs {
			return Equal
		}
		if ctx.infer {
			if len(*ctx.subStack) == 0 {
				*ctx.subStack = append(*ctx.subStack, map[TypeId]TypeId{})
			}
			top := (*ctx.subStack)[len(*ctx.subStack)-1]
			top[rhs] = lhs
			return Assignable
		}
		return NotEqual
	}
	if l.Kind == KindGeneric {
		if bound, ok := s.lookupSub(*ctx.subStack, lhs); ok {
			return s.compare(bound, rhs, ctx)
		}
		if lhs == rhs {
			return Equal
		}
		return NotEqual
	}

	// Rule 2: atom compatibility table.
	if cmp, ok := s.compareAtoms(l, r, lhs, rhs); ok {
		return cmp
	}

	switch {
	// Rule 3: pairs compare component-wise, result is the max.
	case l.Kind == KindPair && r.Kind == KindPair:
		first := s.compare(l.First, r.First, ctx)
		rest := s.compare(l.Rest, r.Rest, ctx)
		return maxCmp(first, rest)

	// Rule 4: Union on the left is assignable iff every member is.
	case l.Kind == KindUnion:
		result := Assignable
		for _, m := range l.Members {
			result = maxCmp(result, s.compare(m, rhs, ctx))
		}
		return result

	// Union on the right is satisfied by the best member; Never members
	// (spec: empty union equiv Never) never count against it.
	case r.Kind == KindUnion:
		result := NotEqual
		any := false
		for _, m := range r.Members {
			if s.Get(m).Kind == KindNever {
				continue
			}
			any = true
			result = minCmp(result, s.compare(lhs, m, ctx))
		}
		if !any {
			result = NotEqual
		}
		return maxCmp(result, Assignable)

	// Alias is transparent.
	case l.Kind == KindAlias:
		return s.compare(l.Inner, rhs, ctx)
	case r.Kind == KindAlias:
		return s.compare(lhs, r.Inner, ctx)

	// Rule 5: nominal identity for Struct/Enum/Variant.
	case l.Kind == KindStruct && r.Kind == KindStruct:
		if l.Original == r.Original {
			return s.compare(l.Inner, r.Inner, ctx)
		}
		return maxCmp(s.compare(l.Inner, rhs, ctx), Castable)
	case l.Kind == KindStruct:
		return maxCmp(s.compare(l.Inner, rhs, ctx), Castable)
	case r.Kind == KindStruct:
		return maxCmp(s.compare(lhs, r.Inner, ctx), Castable)

	case l.Kind == KindVariant && r.Kind == KindEnum:
		cmp := s.compare(lhs, r.Inner, ctx)
		if l.OriginalEnum == r.Original {
			return maxCmp(cmp, Assignable)
		}
		return maxCmp(cmp, Castable)
	case l.Kind == KindEnum && r.Kind == KindVariant:
		cmp := s.compare(l.Inner, rhs, ctx)
		if r.OriginalEnum == l.Original {
			return maxCmp(cmp, Assignable)
		}
		return maxCmp(cmp, Castable)

	case l.Kind == KindEnum && r.Kind == KindEnum:
		if l.Original == r.Original {
			return s.compare(l.Inner, r.Inner, ctx)
		}
		return maxCmp(s.compare(l.Inner, rhs, ctx), Castable)
	case l.Kind == KindEnum:
		return maxCmp(s.compare(l.Inner, rhs, ctx), Castable)
	case r.Kind == KindEnum:
		return maxCmp(s.compare(lhs, r.Inner, ctx), Castable)

	case l.Kind == KindVariant && r.Kind == KindVariant:
		if l.Original == r.Original {
			return s.compare(l.Inner, r.Inner, ctx)
		}
		return maxCmp(s.compare(l.Inner, rhs, ctx), Castable)
	case l.Kind == KindVariant:
		return maxCmp(s.compare(l.Inner, rhs, ctx), Castable)
	case r.Kind == KindVariant:
		return maxCmp(s.compare(lhs, r.Inner, ctx), Castable)

	// Rule 7: Callable compares parameters to parameters, return to return.
	case l.Kind == KindCallable && r.Kind == KindCallable:
		params := s.compare(l.Parameters, r.Parameters, ctx)
		ret := s.compare(l.ReturnType, r.ReturnType, ctx)
		return maxCmp(params, ret)
	case l.Kind == KindCallable:
		return s.compare(lhs, s.std.Any, ctx)
	}

	return NotEqual
}

// compareAtoms implements rule 2's table. Returns ok=false when the pair
// isn't an atom/atom (or atom/Value) combination it has an opinion on, so
// the caller falls through to structural rules.
func (s *System) compareAtoms(l, r *Type, lhs, rhs TypeId) (Comparison, bool) {
	// Value(v) is a subtype of Int.
	if l.Kind == KindValue && r.Kind == KindInt {
		return Assignable, true
	}

	// Bytes32/Nil assignable to Bytes.
	if (l.Kind == KindBytes32 || l.Kind == KindNil) && r.Kind == KindBytes {
		return Assignable, true
	}

	atomKinds := map[Kind]bool{
		KindBytes: true, KindBytes32: true, KindPublicKey: true, KindInt: true,
		KindBool: true, KindNil: true, KindTrue: true, KindFalse: true, KindValue: true,
	}

	// Castable to Bytes: anything atomic that isn't already handled above.
	if atomKinds[l.Kind] && r.Kind == KindBytes {
		return Castable, true
	}
	// Castable to Int: anything atomic other than Int/Value itself.
	if atomKinds[l.Kind] && r.Kind == KindInt && l.Kind != KindInt {
		return Castable, true
	}

	switch {
	case l.Kind == KindFalse && r.Kind == KindNil, l.Kind == KindNil && r.Kind == KindFalse:
		return Castable, true
	case l.Kind == KindTrue && r.Kind == KindBool, l.Kind == KindFalse && r.Kind == KindBool:
		return Assignable, true
	case atomKinds[l.Kind] && r.Kind == KindBool && l.Kind != KindBool:
		return Castable, true
	}

	// Value<->Bytes32/PublicKey are size-dependent casts, never assignable.
	if l.Kind == KindValue && r.Kind == KindBytes32 {
		if len(bigintToBytes(l.Value)) == 32 {
			return Castable, true
		}
		return NotEqual, true
	}
	if l.Kind == KindValue && r.Kind == KindPublicKey {
		if len(bigintToBytes(l.Value)) == 48 {
			return Castable, true
		}
		return NotEqual, true
	}

	if (l.Kind == KindNil || l.Kind == KindFalse) && r.Kind == KindValue {
		if r.Value.Sign() == 0 {
			return Castable, true
		}
		return NotEqual, true
	}
	if l.Kind == KindValue && (r.Kind == KindNil || r.Kind == KindFalse) {
		if l.Value.Sign() == 0 {
			return Castable, true
		}
		return NotEqual, true
	}
	if l.Kind == KindTrue && r.Kind == KindValue {
		if r.Value.Cmp(bigOne) == 0 {
			return Castable, true
		}
		return NotEqual, true
	}
	if l.Kind == KindValue && r.Kind == KindTrue {
		if l.Value.Cmp(bigOne) == 0 {
			return Castable, true
		}
		return NotEqual, true
	}

	if l.Kind == KindValue && r.Kind == KindValue {
		if l.Value.Cmp(r.Value) == 0 {
			return Equal, true
		}
		return NotEqual, true
	}

	// Anything atomic vs Pair is a structural mismatch.
	if atomKinds[l.Kind] && r.Kind == KindPair {
		return NotEqual, true
	}
	if l.Kind == KindPair && atomKinds[r.Kind] {
		return NotEqual, true
	}

	// Remaining atom-to-atom combinations not named above (e.g.
	// Bytes32<->PublicKey, Nil<->Bytes32, True<->False, ...): incompatible.
	if atomKinds[l.Kind] && atomKinds[r.Kind] {
		return NotEqual, true
	}

	// Any on the left vs any concrete atom/pair is incompatible (only
	// assignable *to* Any, never *from* it structurally).
	if l.Kind == KindAny && (atomKinds[r.Kind] || r.Kind == KindPair) {
		return NotEqual, true
	}

	return NotEqual, false
}

