package types

import "fmt"

// Check is the runtime predicate AST sufficient to witness narrowing a
// value of static type lhs into one of static type rhs. The code generator
// consumes it to emit runtime ifs; nothing in this package executes it.
type Check struct {
	Kind CheckKind
	// Length
	N int
	// And, Or
	Items []Check
	// If
	Cond, Then, Else *Check
	// Pair
	First, Rest *Check
}

type CheckKind int

const (
	CheckNone CheckKind = iota
	CheckIsPair
	CheckIsAtom
	CheckIsBool
	CheckIsNil
	CheckLength
	CheckAnd
	CheckOr
	CheckIf
	CheckPair
)

// CheckErrorReason distinguishes why a narrowing is impossible to build.
type CheckErrorReason int

const (
	CheckImpossible CheckErrorReason = iota
	CheckRecursive
)

type CheckError struct {
	Reason   CheckErrorReason
	Lhs, Rhs TypeId
}

func (e *CheckError) Error() string {
	if e.Reason == CheckRecursive {
		return "recursive type refinement"
	}
	return "impossible type refinement"
}

// Check computes and simplifies the narrowing predicate for lhs -> rhs.
func (s *System) Check(lhs, rhs TypeId) (Check, error) {
	visited := map[pairKey]bool{}
	c, err := s.check(lhs, rhs, visited)
	if err != nil {
		return Check{}, err
	}
	return simplifyCheck(c), nil
}

var atomOnlyKinds = map[Kind]bool{
	KindBytes: true, KindBytes32: true, KindPublicKey: true, KindInt: true,
	KindBool: true, KindNil: true,
}

func (s *System) check(lhs, rhs TypeId, visited map[pairKey]bool) (Check, error) {
	key := pairKey{lhs, rhs}
	if visited[key] {
		return Check{}, &CheckError{Reason: CheckRecursive, Lhs: lhs, Rhs: rhs}
	}
	visited[key] = true
	defer delete(visited, key)

	l, r := s.Get(lhs), s.Get(rhs)

	switch {
	case l.Kind == KindUnknown || r.Kind == KindUnknown:
		return Check{Kind: CheckNone}, nil
	case l.Kind == KindNever:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindNever:
		return Check{}, &CheckError{Reason: CheckImpossible, Lhs: lhs, Rhs: rhs}
	}

	if r.Kind == KindUnion {
		var items []Check
		for _, m := range r.Members {
			c, err := s.check(lhs, m, visited)
			if err != nil {
				return Check{}, err
			}
			items = append(items, c)
		}
		return Check{Kind: CheckOr, Items: items}, nil
	}

	if l.Kind == KindUnion {
		return s.checkUnionAgainstRHS(lhs, l.Members, rhs, visited)
	}

	if identical := sameAtomKind(l.Kind, r.Kind); identical {
		return Check{Kind: CheckNone}, nil
	}

	if c, handled := atomToAtomCheck(l.Kind, r.Kind); handled {
		return c, nil
	}

	if c, handled, err := impossibleAtomPairMix(l.Kind, r.Kind, lhs, rhs); handled {
		return c, err
	}

	if l.Kind == KindPair && r.Kind == KindPair {
		first, err := s.check(l.First, r.First, visited)
		if err != nil {
			return Check{}, err
		}
		rest, err := s.check(l.Rest, r.Rest, visited)
		if err != nil {
			return Check{}, err
		}
		return Check{Kind: CheckPair, First: &first, Rest: &rest}, nil
	}

	return Check{}, &CheckError{Reason: CheckImpossible, Lhs: lhs, Rhs: rhs}
}

func sameAtomKind(l, r Kind) bool {
	if l != r {
		return false
	}
	switch l {
	case KindBytes, KindBytes32, KindPublicKey, KindInt, KindBool, KindNil:
		return true
	}
	return false
}

// atomToAtomCheck names every direct atom-to-atom predicate from spec
// section 4.B's narrowing table.
func atomToAtomCheck(l, r Kind) (Check, bool) {
	widensTo := func(k Kind) bool {
		return k == KindBytes || k == KindInt
	}
	if atomOnlyKinds[l] && widensTo(r) {
		return Check{Kind: CheckNone}, true
	}
	if l == KindNil && r == KindBool {
		return Check{Kind: CheckNone}, true
	}
	switch {
	case (l == KindBytes || l == KindInt) && r == KindBool:
		return Check{Kind: CheckIsBool}, true
	case (l == KindBytes || l == KindInt) && r == KindNil:
		return Check{Kind: CheckIsNil}, true
	case (l == KindBytes || l == KindInt) && r == KindPublicKey:
		return Check{Kind: CheckLength, N: 48}, true
	case (l == KindBytes || l == KindInt) && r == KindBytes32:
		return Check{Kind: CheckLength, N: 32}, true
	case l == KindBool && r == KindNil:
		return Check{Kind: CheckIsNil}, true
	}
	return Check{}, false
}

// impossibleAtomPairMix reports the fixed set of atom<->atom and atom<->pair
// combinations that can never be refined into each other.
func impossibleAtomPairMix(l, r Kind, lhs, rhs TypeId) (Check, bool, error) {
	impossible := func() (Check, bool, error) {
		return Check{}, true, &CheckError{Reason: CheckImpossible, Lhs: lhs, Rhs: rhs}
	}
	pairs := map[[2]Kind]bool{
		{KindPublicKey, KindBytes32}: true, {KindBytes32, KindPublicKey}: true,
		{KindNil, KindPublicKey}: true, {KindNil, KindBytes32}: true,
		{KindPublicKey, KindNil}: true, {KindBytes32, KindNil}: true,
		{KindBool, KindPublicKey}: true, {KindBool, KindBytes32}: true,
		{KindPublicKey, KindBool}: true, {KindBytes32, KindBool}: true,
	}
	if pairs[[2]Kind{l, r}] {
		return impossible()
	}
	if atomOnlyKinds[l] && r == KindPair {
		return impossible()
	}
	if l == KindPair && atomOnlyKinds[r] {
		return impossible()
	}
	return Check{}, false, nil
}

// checkUnionAgainstRHS partitions lhs's members into atomic and pair cases
// (spec: "the checker partitions members into atomic and pair cases") and
// builds the narrowest possible check for rhs given how the union is
// actually distributed, rather than a generic Or over every member.
func (s *System) checkUnionAgainstRHS(original TypeId, items []TypeId, rhs TypeId, visited map[pairKey]bool) (Check, error) {
	var atomCount, boolCount, nilCount, bytes32Count, pubkeyCount, length int
	var pairs [][2]TypeId

	queue := append([]TypeId{}, items...)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		length++

		key := pairKey{item, rhs}
		if visited[key] {
			return Check{}, &CheckError{Reason: CheckRecursive, Lhs: item, Rhs: rhs}
		}

		t := s.Get(item)
		switch t.Kind {
		case KindUnion:
			queue = append(queue, t.Members...)
			length--
		case KindUnknown:
		case KindNever:
			length--
		case KindBytes, KindInt:
			atomCount++
		case KindBytes32:
			atomCount++
			bytes32Count++
		case KindPublicKey:
			atomCount++
			pubkeyCount++
		case KindBool:
			atomCount++
			boolCount++
		case KindNil:
			atomCount++
			nilCount++
			boolCount++
		case KindPair:
			pairs = append(pairs, [2]TypeId{t.First, t.Rest})
		default:
			atomCount++
		}
	}

	alwaysAtom := atomCount == length
	alwaysPair := len(pairs) == length
	alwaysBool := boolCount == length
	alwaysNil := nilCount == length
	alwaysBytes32 := bytes32Count == length
	alwaysPubkey := pubkeyCount == length

	r := s.Get(rhs)
	switch {
	case r.Kind == KindUnknown:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindNever:
		return Check{}, &CheckError{Reason: CheckImpossible, Lhs: original, Rhs: rhs}
	case r.Kind == KindBytes && alwaysAtom, r.Kind == KindInt && alwaysAtom:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindBool && alwaysBool:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindNil && alwaysNil:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindBytes32 && alwaysBytes32:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindPublicKey && alwaysPubkey:
		return Check{Kind: CheckNone}, nil
	case r.Kind == KindBytes32 && alwaysAtom:
		return Check{Kind: CheckLength, N: 32}, nil
	case r.Kind == KindPublicKey && alwaysAtom:
		return Check{Kind: CheckLength, N: 48}, nil
	case r.Kind == KindBool && alwaysAtom:
		return Check{Kind: CheckIsBool}, nil
	case r.Kind == KindNil && alwaysAtom:
		return Check{Kind: CheckIsNil}, nil
	case r.Kind == KindBytes:
		return Check{Kind: CheckIsAtom}, nil
	case r.Kind == KindInt:
		return Check{Kind: CheckIsAtom}, nil
	case r.Kind == KindBytes32:
		l32 := Check{Kind: CheckLength, N: 32}
		return Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsAtom}, l32}}, nil
	case r.Kind == KindPublicKey:
		l48 := Check{Kind: CheckLength, N: 48}
		return Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsAtom}, l48}}, nil
	case r.Kind == KindBool:
		return Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsAtom}, {Kind: CheckIsBool}}}, nil
	case r.Kind == KindNil:
		return Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsAtom}, {Kind: CheckIsNil}}}, nil
	case r.Kind == KindPair && alwaysAtom:
		return Check{}, &CheckError{Reason: CheckImpossible, Lhs: original, Rhs: rhs}
	case r.Kind == KindPair:
		var firstItems, restItems []TypeId
		for _, p := range pairs {
			firstItems = append(firstItems, p[0])
			restItems = append(restItems, p[1])
		}
		first, err := s.checkUnionAgainstRHS(original, firstItems, r.First, visited)
		if err != nil {
			return Check{}, err
		}
		rest, err := s.checkUnionAgainstRHS(original, restItems, r.Rest, visited)
		if err != nil {
			return Check{}, err
		}
		pairCheck := Check{Kind: CheckPair, First: &first, Rest: &rest}
		if alwaysPair {
			return pairCheck, nil
		}
		return Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsPair}, pairCheck}}, nil
	}

	return Check{}, &CheckError{Reason: CheckImpossible, Lhs: original, Rhs: rhs}
}

// simplifyCheck collapses duplicate predicates, flattens nested And/Or, and
// folds Length(0) into IsNil.
func simplifyCheck(c Check) Check {
	switch c.Kind {
	case CheckLength:
		if c.N == 0 {
			return Check{Kind: CheckIsNil}
		}
		return c
	case CheckAnd:
		return simplifyAnd(c.Items)
	case CheckOr:
		return simplifyOr(c.Items)
	case CheckIf:
		cond := simplifyCheck(*c.Cond)
		then := simplifyCheck(*c.Then)
		els := simplifyCheck(*c.Else)
		return Check{Kind: CheckIf, Cond: &cond, Then: &then, Else: &els}
	case CheckPair:
		first := simplifyCheck(*c.First)
		rest := simplifyCheck(*c.Rest)
		return Check{Kind: CheckPair, First: &first, Rest: &rest}
	default:
		return c
	}
}

func simplifyAnd(items []Check) Check {
	var result []Check
	seen := map[CheckKind]bool{}
	queue := append([]Check{}, items...)

	for len(queue) > 0 {
		item := simplifyCheck(queue[0])
		queue = queue[1:]

		switch item.Kind {
		case CheckNone:
			continue
		case CheckIsAtom, CheckIsPair, CheckIsBool, CheckIsNil:
			if seen[item.Kind] {
				continue
			}
			seen[item.Kind] = true
		case CheckLength:
			if seen[CheckLength] {
				continue
			}
			seen[CheckLength] = true
		case CheckAnd:
			queue = append(append([]Check{}, item.Items...), queue...)
			continue
		}
		result = append(result, item)
	}

	switch len(result) {
	case 0:
		return Check{Kind: CheckNone}
	case 1:
		return result[0]
	default:
		return Check{Kind: CheckAnd, Items: result}
	}
}

func simplifyOr(items []Check) Check {
	var atoms, pairs, others []Check
	queue := append([]Check{}, items...)

	for len(queue) > 0 {
		item := simplifyCheck(queue[0])
		queue = queue[1:]

		switch item.Kind {
		case CheckAnd:
			if idx, kind := findIsAtomOrPair(item.Items); idx >= 0 {
				rest := removeAt(item.Items, idx)
				if kind == CheckIsAtom {
					atoms = append(atoms, Check{Kind: CheckAnd, Items: rest})
				} else {
					pairs = append(pairs, Check{Kind: CheckAnd, Items: rest})
				}
				continue
			}
		case CheckOr:
			queue = append(append([]Check{}, item.Items...), queue...)
			continue
		}
		others = append(others, item)
	}

	var result []Check
	switch {
	case len(atoms) > 0 && len(pairs) > 0:
		if len(atoms) > len(pairs) {
			t, e := Check{Kind: CheckOr, Items: atoms}, Check{Kind: CheckOr, Items: pairs}
			result = append(result, Check{Kind: CheckIf, Cond: &Check{Kind: CheckIsAtom}, Then: &t, Else: &e})
		} else {
			t, e := Check{Kind: CheckOr, Items: pairs}, Check{Kind: CheckOr, Items: atoms}
			result = append(result, Check{Kind: CheckIf, Cond: &Check{Kind: CheckIsPair}, Then: &t, Else: &e})
		}
	case len(atoms) == 0 && len(pairs) > 0:
		or := Check{Kind: CheckOr, Items: pairs}
		result = append(result, Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsPair}, or}})
	case len(pairs) == 0 && len(atoms) > 0:
		or := Check{Kind: CheckOr, Items: atoms}
		result = append(result, Check{Kind: CheckAnd, Items: []Check{{Kind: CheckIsAtom}, or}})
	}
	result = append(result, others...)

	if len(result) == 1 {
		return result[0]
	}
	return Check{Kind: CheckOr, Items: result}
}

func findIsAtomOrPair(items []Check) (int, CheckKind) {
	for i, c := range items {
		if c.Kind == CheckIsAtom || c.Kind == CheckIsPair {
			return i, c.Kind
		}
	}
	return -1, CheckNone
}

func removeAt(items []Check, idx int) []Check {
	out := make([]Check, 0, len(items)-1)
	for i, c := range items {
		if i != idx {
			out = append(out, c)
		}
	}
	return out
}

func (c Check) String() string {
	switch c.Kind {
	case CheckNone:
		return "none"
	case CheckIsPair:
		return "is_pair"
	case CheckIsAtom:
		return "is_atom"
	case CheckIsBool:
		return "is_bool"
	case CheckIsNil:
		return "is_nil"
	case CheckLength:
		return fmt.Sprintf("length(%d)", c.N)
	case CheckAnd:
		return fmt.Sprintf("and%v", c.Items)
	case CheckOr:
		return fmt.Sprintf("or%v", c.Items)
	case CheckIf:
		return fmt.Sprintf("if(%s, %s, %s)", c.Cond, c.Then, c.Else)
	case CheckPair:
		return fmt.Sprintf("pair(%s, %s)", c.First, c.Rest)
	default:
		return "?"
	}
}
