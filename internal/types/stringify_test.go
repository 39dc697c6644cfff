package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringifyAtoms(t *testing.T) {
	s := newTestSystem(t)
	assert.Equal(t, "Int", s.Stringify(s.Std().Int))
	assert.Equal(t, "Bytes32", s.Stringify(s.Std().Bytes32))
	assert.Equal(t, "Nil", s.Stringify(s.Std().Nil))
}

func TestStringifyPair(t *testing.T) {
	s := newTestSystem(t)
	p := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Nil})
	assert.Equal(t, "(Int)", s.Stringify(p))
}

func TestStringifyOpenPair(t *testing.T) {
	s := newTestSystem(t)
	p := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Bytes})
	assert.Equal(t, "(Int, ...)", s.Stringify(p))
}

func TestStringifyUnionIsSortedDeterministically(t *testing.T) {
	s := newTestSystem(t)
	u1 := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Int, s.Std().Nil}})
	u2 := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Nil, s.Std().Int}})
	assert.Equal(t, s.Stringify(u1), s.Stringify(u2))
}

func TestStringifyRecursiveTypeTerminates(t *testing.T) {
	s := newTestSystem(t)
	ref := s.ReserveRef()
	s.Resolve(ref, Type{Kind: KindPair, First: s.Std().Int, Rest: ref})
	assert.NotPanics(t, func() { s.Stringify(ref) })
}
