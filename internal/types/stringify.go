package types

import (
	"fmt"
	"sort"
	"strings"
)

// Stringify renders id the way diagnostics quote a type: a literal spelling.
// Nominal types are spelled structurally too (a struct as its field list, an
// enum as its variant names, a variant as its inner type); no declared type
// name appears in the output. Recursive
// types terminate via a visited set rather than looping forever on a
// self-referential alias.
func (s *System) Stringify(id TypeId) string {
	return s.stringify(id, map[TypeId]bool{})
}

func (s *System) stringify(id TypeId, visited map[TypeId]bool) string {
	if visited[id] {
		return "..."
	}
	visited[id] = true
	defer delete(visited, id)

	t := s.Get(id)

	switch t.Kind {
	case KindUnknown:
		return "Unknown"
	case KindNever:
		return "Never"
	case KindAny:
		return "Any"
	case KindBytes:
		return "Bytes"
	case KindBytes32:
		return "Bytes32"
	case KindPublicKey:
		return "PublicKey"
	case KindInt:
		return "Int"
	case KindBool:
		return "Bool"
	case KindTrue:
		return "True"
	case KindFalse:
		return "False"
	case KindNil:
		return "Nil"
	case KindValue:
		return t.Value.String()

	case KindPair:
		elems, nilTerminated := s.Elements(id)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = s.stringify(e, visited)
		}
		if nilTerminated {
			return "(" + strings.Join(parts, ", ") + ")"
		}
		return "(" + strings.Join(parts, ", ") + ", ...)"

	case KindUnion:
		parts := make([]string, len(t.Members))
		for i, m := range t.Members {
			parts[i] = s.stringify(m, visited)
		}
		sort.Strings(parts)
		return strings.Join(parts, " | ")

	case KindAlias:
		return s.stringify(t.Inner, visited)

	case KindLazy:
		return s.stringify(t.Inner, visited)

	case KindStruct:
		if len(t.FieldNames) == 0 {
			return s.stringify(t.Inner, visited)
		}
		elems, _ := s.Elements(t.Inner)
		parts := make([]string, 0, len(t.FieldNames))
		for i, name := range t.FieldNames {
			if i < len(elems) {
				parts = append(parts, fmt.Sprintf("%s: %s", name, s.stringify(elems[i], visited)))
			}
		}
		return "{" + strings.Join(parts, ", ") + "}"

	case KindEnum:
		names := make([]string, len(t.Variants))
		for i, v := range t.Variants {
			names[i] = v.Name
		}
		return strings.Join(names, " | ")

	case KindVariant:
		return s.stringify(t.Inner, visited)

	case KindCallable:
		elems, _ := s.Elements(t.Parameters)
		parts := make([]string, len(elems))
		for i, e := range elems {
			name := ""
			if i < len(t.ParameterNames) {
				name = t.ParameterNames[i] + ": "
			}
			parts[i] = name + s.stringify(e, visited)
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), s.stringify(t.ReturnType, visited))

	case KindGeneric:
		return fmt.Sprintf("T%d", t.GenericId)

	case KindRef:
		return "..."

	default:
		return "?"
	}
}
