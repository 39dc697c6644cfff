package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckBytesIntoBytes32(t *testing.T) {
	s := newTestSystem(t)
	c, err := s.Check(s.Std().Bytes, s.Std().Bytes32)
	require.NoError(t, err)
	// lhs is already known atomic (a single concrete Kind, not a union), so
	// no IsAtom guard is needed on top of the length predicate.
	assert.Equal(t, CheckLength, c.Kind)
	assert.Equal(t, 32, c.N)
}

func TestCheckMixedUnionIntoBytes32NeedsIsAtomGuard(t *testing.T) {
	s := newTestSystem(t)
	pair := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	union := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Bytes, pair}})
	c, err := s.Check(union, s.Std().Bytes32)
	require.NoError(t, err)
	// The union isn't known to be exactly atomic here, so the atom guard is
	// load-bearing on top of the length predicate (And[IsAtom, Length(32)]).
	assert.Equal(t, CheckAnd, c.Kind)
	require.Len(t, c.Items, 2)
	assert.Equal(t, CheckIsAtom, c.Items[0].Kind)
	assert.Equal(t, CheckLength, c.Items[1].Kind)
	assert.Equal(t, 32, c.Items[1].N)
}

func TestCheckSameTypeIsNone(t *testing.T) {
	s := newTestSystem(t)
	c, err := s.Check(s.Std().Int, s.Std().Int)
	require.NoError(t, err)
	assert.Equal(t, CheckNone, c.Kind)
}

func TestCheckImpossibleNarrowing(t *testing.T) {
	s := newTestSystem(t)
	_, err := s.Check(s.Std().PublicKey, s.Std().Bytes32)
	require.Error(t, err)
	var checkErr *CheckError
	ok := errorsAs(err, &checkErr)
	require.True(t, ok)
	assert.Equal(t, CheckImpossible, checkErr.Reason)
}

func TestCheckRecursiveTypeErrors(t *testing.T) {
	s := newTestSystem(t)
	ref := s.ReserveRef()
	s.Resolve(ref, Type{Kind: KindPair, First: s.Std().Int, Rest: ref})
	_, err := s.Check(ref, ref)
	require.Error(t, err)
}

func TestCheckUnionAgainstPairGuardsOnIsPair(t *testing.T) {
	s := newTestSystem(t)
	pair := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	union := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Int, pair}})
	c, err := s.Check(union, pair)
	require.NoError(t, err)
	// Mixed atom/pair union narrowed to a pair type: since an atom can never
	// satisfy a pair shape, the predicate only needs to guard IsPair before
	// checking the pair's components.
	assert.Equal(t, CheckAnd, c.Kind)
	require.Len(t, c.Items, 2)
	assert.Equal(t, CheckIsPair, c.Items[0].Kind)
	assert.Equal(t, CheckPair, c.Items[1].Kind)
}

// errorsAs is a tiny local shim so this file doesn't need to import errors
// just for a single *CheckError assertion.
func errorsAs(err error, target **CheckError) bool {
	ce, ok := err.(*CheckError)
	if !ok {
		return false
	}
	*target = ce
	return true
}
