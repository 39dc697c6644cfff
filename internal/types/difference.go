package types

// Difference computes the residual type of lhs after a runtime check against
// rhs has failed -- the "else" branch type used when narrowing a guard (spec
// section 4.B). It satisfies the testable properties: compare(difference(lhs,
// rhs), lhs) is Equal or Assignable, and compare(difference(lhs, rhs), rhs)
// is never Assignable unless rhs itself is Never or the difference is
// Never (which compare treats as Assignable to anything).
func (s *System) Difference(lhs, rhs TypeId) TypeId {
	return s.difference(lhs, rhs, map[pairKey]TypeId{})
}

func (s *System) difference(lhs, rhs TypeId, visited map[pairKey]TypeId) TypeId {
	key := pairKey{lhs, rhs}
	if v, ok := visited[key]; ok {
		return v
	}
	// Re-entrant pair: assume the cyclic part passes through whole rather
	// than recursing forever, matching this function's own conservative
	// pass-through fallback for shapes it can't otherwise narrow.
	visited[key] = lhs
	defer delete(visited, key)

	l, r := s.Get(lhs), s.Get(rhs)

	// Subtracting Never changes nothing; subtracting Any/Unknown removes
	// everything.
	if r.Kind == KindNever {
		return lhs
	}
	if r.Kind == KindAny || r.Kind == KindUnknown {
		return s.std.Never
	}

	// Union on the left: subtract rhs from each member, drop members that
	// vanish entirely, and recombine.
	if l.Kind == KindUnion {
		var remaining []TypeId
		for _, m := range l.Members {
			d := s.difference(m, rhs, visited)
			if s.Get(d).Kind != KindNever {
				remaining = append(remaining, d)
			}
		}
		return s.unionOf(remaining)
	}

	// Union on the right: subtract each member in turn.
	if r.Kind == KindUnion {
		cur := lhs
		for _, m := range r.Members {
			cur = s.difference(cur, m, visited)
		}
		return cur
	}

	if l.Kind == KindAlias {
		return s.difference(l.Inner, rhs, visited)
	}
	if r.Kind == KindAlias {
		return s.difference(lhs, r.Inner, visited)
	}

	// Exact same atom kind removes the whole thing.
	if l.Kind == r.Kind {
		switch l.Kind {
		case KindUnknown, KindNever, KindAny, KindBytes, KindBytes32, KindPublicKey,
			KindInt, KindBool, KindNil:
			return s.std.Never
		}
	}

	switch {
	// Bool minus one of its two inhabitants leaves the other.
	case l.Kind == KindBool && r.Kind == KindTrue:
		return s.std.False
	case l.Kind == KindBool && r.Kind == KindFalse:
		return s.std.True
	case l.Kind == KindTrue && r.Kind == KindTrue:
		return s.std.Never
	case l.Kind == KindFalse && r.Kind == KindFalse:
		return s.std.Never
	case l.Kind == KindNil && r.Kind == KindFalse:
		return s.std.Never
	case l.Kind == KindNil && r.Kind == KindNil:
		return s.std.Never

	// A concrete Value(n) is unaffected unless rhs is exactly that value or
	// the whole of Int/Bytes.
	case l.Kind == KindValue && r.Kind == KindValue:
		if l.Value.Cmp(r.Value) == 0 {
			return s.std.Never
		}
		return lhs
	case l.Kind == KindValue && (r.Kind == KindInt || r.Kind == KindBytes):
		return s.std.Never

	// Struct/Enum/Variant: only the exact same nominal identity is removed;
	// anything else (including its own Inner shape) passes through whole,
	// since narrowing can't partially peel a nominal wrapper.
	case l.Kind == KindStruct && r.Kind == KindStruct:
		if l.Original == r.Original {
			return s.std.Never
		}
		return lhs
	case l.Kind == KindEnum && r.Kind == KindEnum:
		if l.Original == r.Original {
			return s.std.Never
		}
		return lhs
	case l.Kind == KindVariant && r.Kind == KindVariant:
		if l.Original == r.Original {
			return s.std.Never
		}
		return lhs

	// Pair minus Pair only vanishes when both components fully vanish;
	// otherwise a pair check cannot partially narrow a single component
	// without the reverse branch leaking possibilities, so it passes
	// through whole (consistent with difference being a conservative
	// over-approximation of the else-branch type).
	case l.Kind == KindPair && r.Kind == KindPair:
		first := s.difference(l.First, r.First, visited)
		rest := s.difference(l.Rest, r.Rest, visited)
		if s.Get(first).Kind == KindNever && s.Get(rest).Kind == KindNever {
			return s.std.Never
		}
		return lhs
	}

	return lhs
}

// unionOf builds the flattest possible union type for a set of members,
// collapsing the degenerate 0- and 1-member cases.
func (s *System) unionOf(members []TypeId) TypeId {
	var flat []TypeId
	for _, m := range members {
		if s.Get(m).Kind == KindUnion {
			flat = append(flat, s.Get(m).Members...)
		} else {
			flat = append(flat, m)
		}
	}
	switch len(flat) {
	case 0:
		return s.std.Never
	case 1:
		return flat[0]
	default:
		return s.Alloc(Type{Kind: KindUnion, Members: flat})
	}
}
