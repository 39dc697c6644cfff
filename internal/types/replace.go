package types

// Selector names one step of a path into a structural type: First/Rest
// descend into a Pair, Field descends into a Struct/Variant by name. Guard
// overrides are keyed on a root symbol plus a Path, so narrowing
// `x.first.second` only rewrites the type along that exact path and leaves
// every other projection of `x` alone.
type Selector struct {
	Kind  SelectorKind
	Field string
}

type SelectorKind int

const (
	SelectFirst SelectorKind = iota
	SelectRest
	SelectField
)

type Path []Selector

// Replace rebuilds root with the type at the end of path swapped out for
// replacement, leaving every other position in root untouched. An empty path
// simply returns replacement.
func (s *System) Replace(root TypeId, path Path, replacement TypeId) TypeId {
	if len(path) == 0 {
		return replacement
	}

	t := s.Get(root)
	step, rest := path[0], path[1:]

	switch step.Kind {
	case SelectFirst:
		if t.Kind != KindPair {
			return root
		}
		newFirst := s.Replace(t.First, rest, replacement)
		return s.Alloc(Type{Kind: KindPair, First: newFirst, Rest: t.Rest})

	case SelectRest:
		if t.Kind != KindPair {
			return root
		}
		newRest := s.Replace(t.Rest, rest, replacement)
		return s.Alloc(Type{Kind: KindPair, First: t.First, Rest: newRest})

	case SelectField:
		switch t.Kind {
		case KindStruct, KindVariant:
			newInner := s.ReplaceField(t.Inner, t.FieldNames, path, replacement)
			out := *t
			out.Inner = newInner
			return s.Alloc(out)
		default:
			return root
		}
	}

	return root
}

// ReplaceField is the Pair-body counterpart of Replace's Struct/Variant case:
// given a pair-tuple body and its field names, it walks to the named field's
// position and recurses.
func (s *System) ReplaceField(body TypeId, fieldNames []string, path Path, replacement TypeId) TypeId {
	if len(path) == 0 || path[0].Kind != SelectField {
		return body
	}
	idx := -1
	for i, n := range fieldNames {
		if n == path[0].Field {
			idx = i
			break
		}
	}
	if idx < 0 {
		return body
	}

	sel := make(Path, 0, idx+len(path))
	for i := 0; i < idx; i++ {
		sel = append(sel, Selector{Kind: SelectRest})
	}
	sel = append(sel, Selector{Kind: SelectFirst})
	sel = append(sel, path[1:]...)
	return s.Replace(body, sel, replacement)
}
