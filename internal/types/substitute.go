package types

// SubstituteMode chooses how a Generic with no binding in the substitution
// map is handled: Structural rebuilds the type with holes left as Unknown
// (used once inference is known to be complete), Preserve leaves an
// unresolved Generic exactly as-is (used for display / partial application).
type SubstituteMode int

const (
	SubstituteStructural SubstituteMode = iota
	SubstitutePreserve
)

// Substitute replaces every Generic reachable from id per subs, rebuilding
// the type rather than mutating the original: generic instantiation must
// not affect the generic template it was copied from. A visited set breaks
// cycles introduced by recursive aliases so a type that refers to itself
// through a Generic doesn't substitute forever.
func (s *System) Substitute(id TypeId, subs map[GenericId]TypeId, mode SubstituteMode) TypeId {
	visited := map[TypeId]TypeId{}
	return s.substitute(id, subs, mode, visited)
}

func (s *System) substitute(id TypeId, subs map[GenericId]TypeId, mode SubstituteMode, visited map[TypeId]TypeId) TypeId {
	if v, ok := visited[id]; ok {
		return v
	}

	t := s.Get(id)

	switch t.Kind {
	case KindGeneric:
		if bound, ok := subs[t.GenericId]; ok {
			return bound
		}
		if mode == SubstitutePreserve {
			return id
		}
		return s.std.Unknown

	case KindPair:
		ref := s.ReserveRef()
		visited[id] = ref
		first := s.substitute(t.First, subs, mode, visited)
		rest := s.substitute(t.Rest, subs, mode, visited)
		s.Resolve(ref, Type{Kind: KindPair, First: first, Rest: rest})
		return ref

	case KindUnion:
		ref := s.ReserveRef()
		visited[id] = ref
		members := make([]TypeId, len(t.Members))
		for i, m := range t.Members {
			members[i] = s.substitute(m, subs, mode, visited)
		}
		s.Resolve(ref, Type{Kind: KindUnion, Members: members})
		return ref

	case KindAlias:
		ref := s.ReserveRef()
		visited[id] = ref
		inner := s.substitute(t.Inner, subs, mode, visited)
		s.Resolve(ref, Type{Kind: KindAlias, Inner: inner})
		return ref

	case KindLazy:
		merged := map[GenericId]TypeId{}
		for k, v := range subs {
			merged[k] = v
		}
		for k, v := range t.LazySubst {
			merged[k] = s.substitute(v, subs, mode, visited)
		}
		return s.substitute(t.Inner, merged, mode, visited)

	case KindCallable:
		ref := s.ReserveRef()
		visited[id] = ref
		params := s.substitute(t.Parameters, subs, mode, visited)
		ret := s.substitute(t.ReturnType, subs, mode, visited)
		s.Resolve(ref, Type{
			Kind: KindCallable, Parameters: params, ParameterNames: t.ParameterNames,
			ReturnType: ret, Generics: t.Generics,
		})
		return ref

	case KindStruct, KindEnum, KindVariant:
		ref := s.ReserveRef()
		visited[id] = ref
		inner := s.substitute(t.Inner, subs, mode, visited)
		out := *t
		out.Inner = inner
		s.Resolve(ref, out)
		return ref

	default:
		// Atoms and Value carry nothing substitutable.
		return id
	}
}
