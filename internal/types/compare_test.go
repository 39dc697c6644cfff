package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloverlang/cloverc/internal/arena"
)

// newTestSystem instantiates the real arena.Database with placeholder types
// for the four entity families this package never touches, so TypeId values
// behave identically to what production code sees.
func newTestSystem(t *testing.T) *System {
	t.Helper()
	return NewSystem(arena.New[struct{}, struct{}, Type, struct{}, struct{}]())
}

func TestCompareIntInt(t *testing.T) {
	s := newTestSystem(t)
	assert.Equal(t, Equal, s.Compare(s.Std().Int, s.Std().Int))
}

func TestCompareIntBytes(t *testing.T) {
	s := newTestSystem(t)
	assert.Equal(t, Castable, s.Compare(s.Std().Int, s.Std().Bytes))
	assert.Equal(t, Castable, s.Compare(s.Std().Bytes, s.Std().Int))
}

func TestCompareBytes32Bytes(t *testing.T) {
	s := newTestSystem(t)
	assert.Equal(t, Assignable, s.Compare(s.Std().Bytes32, s.Std().Bytes))
}

func TestCompareValueToInt(t *testing.T) {
	s := newTestSystem(t)
	v := s.Alloc(Type{Kind: KindValue, Value: big.NewInt(42)})
	assert.Equal(t, Assignable, s.Compare(v, s.Std().Int))
}

func TestCompareValueEquality(t *testing.T) {
	s := newTestSystem(t)
	a := s.Alloc(Type{Kind: KindValue, Value: big.NewInt(7)})
	b := s.Alloc(Type{Kind: KindValue, Value: big.NewInt(7)})
	c := s.Alloc(Type{Kind: KindValue, Value: big.NewInt(8)})
	assert.Equal(t, Equal, s.Compare(a, b))
	assert.Equal(t, NotEqual, s.Compare(a, c))
}

func TestCompareAnyAbsorbsOnRight(t *testing.T) {
	s := newTestSystem(t)
	assert.Equal(t, Assignable, s.Compare(s.Std().Int, s.Std().Any))
	assert.Equal(t, Assignable, s.Compare(s.Std().Bytes32, s.Std().Any))
}

func TestCompareUnionToRHS(t *testing.T) {
	s := newTestSystem(t)
	union := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Int, s.Std().Nil}})
	assert.Equal(t, Castable, s.Compare(union, s.Std().Bytes))
}

func TestCompareUnionToRHSFailsWhenOneMemberIncompatible(t *testing.T) {
	s := newTestSystem(t)
	pair := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	union := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Bytes32, pair}})
	assert.Equal(t, NotEqual, s.Compare(union, s.Std().Bytes))
}

func TestCompareRHSUnionPicksBestMember(t *testing.T) {
	s := newTestSystem(t)
	union := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Int, s.Std().Bytes32}})
	assert.Equal(t, Assignable, s.Compare(s.Std().Bytes32, union))
}

func TestCompareGenericInference(t *testing.T) {
	s := newTestSystem(t)
	generic, _ := s.NewGeneric()
	stack := []map[TypeId]TypeId{{}}
	cmp := s.CompareWithGenerics(s.Std().Int, generic, &stack, true)
	assert.Equal(t, Assignable, cmp)
	assert.Equal(t, s.Std().Int, stack[0][generic])
}

func TestCompareGenericSecondCallReusesBinding(t *testing.T) {
	s := newTestSystem(t)
	generic, _ := s.NewGeneric()
	stack := []map[TypeId]TypeId{{}}
	s.CompareWithGenerics(s.Std().Int, generic, &stack, true)
	// A later argument of a different type against the same generic is
	// compared against the first-bound type, not re-inferred.
	cmp := s.CompareWithGenerics(s.Std().Bytes32, generic, &stack, true)
	assert.Equal(t, Castable, cmp)
}

func TestComparePairStructural(t *testing.T) {
	s := newTestSystem(t)
	p1 := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	p2 := s.Alloc(Type{Kind: KindPair, First: s.Std().Bytes32, Rest: s.Std().Nil})
	assert.Equal(t, Castable, s.Compare(p1, p2))
}

func TestCompareSameDerivativeStruct(t *testing.T) {
	s := newTestSystem(t)
	body := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	ref := s.ReserveRef()
	strukt := Type{Kind: KindStruct, Original: ref, Inner: body, FieldNames: []string{"x"}}
	s.Resolve(ref, strukt)
	assert.Equal(t, Equal, s.Compare(ref, ref))
}

func TestCompareDifferentDerivativeStructIsCastable(t *testing.T) {
	s := newTestSystem(t)
	body1 := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	ref1 := s.ReserveRef()
	s.Resolve(ref1, Type{Kind: KindStruct, Original: ref1, Inner: body1, FieldNames: []string{"x"}})

	body2 := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	ref2 := s.ReserveRef()
	s.Resolve(ref2, Type{Kind: KindStruct, Original: ref2, Inner: body2, FieldNames: []string{"x"}})

	assert.Equal(t, Castable, s.Compare(ref1, ref2))
}

func TestCompareRecursiveTypeCoinduction(t *testing.T) {
	s := newTestSystem(t)
	ref := s.ReserveRef()
	s.Resolve(ref, Type{Kind: KindPair, First: s.Std().Int, Rest: ref})
	assert.Equal(t, Equal, s.Compare(ref, ref))
}
