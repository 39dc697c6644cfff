package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteReplacesBoundGeneric(t *testing.T) {
	s := newTestSystem(t)
	g, gid := s.NewGeneric()
	pair := s.Alloc(Type{Kind: KindPair, First: g, Rest: s.Std().Nil})

	out := s.Substitute(pair, map[GenericId]TypeId{gid: s.Std().Int}, SubstituteStructural)

	result := s.Get(out)
	assert.Equal(t, KindPair, result.Kind)
	assert.Equal(t, s.Std().Int, result.First)
}

func TestSubstituteStructuralUnboundBecomesUnknown(t *testing.T) {
	s := newTestSystem(t)
	g, _ := s.NewGeneric()
	out := s.Substitute(g, map[GenericId]TypeId{}, SubstituteStructural)
	assert.Equal(t, s.Std().Unknown, out)
}

func TestSubstitutePreserveLeavesUnboundGenericAsIs(t *testing.T) {
	s := newTestSystem(t)
	g, _ := s.NewGeneric()
	out := s.Substitute(g, map[GenericId]TypeId{}, SubstitutePreserve)
	assert.Equal(t, g, out)
}

func TestSubstituteDoesNotMutateOriginalTemplate(t *testing.T) {
	s := newTestSystem(t)
	g, gid := s.NewGeneric()
	pair := s.Alloc(Type{Kind: KindPair, First: g, Rest: s.Std().Nil})

	s.Substitute(pair, map[GenericId]TypeId{gid: s.Std().Int}, SubstituteStructural)

	original := s.Get(pair)
	assert.Equal(t, g, original.First, "the template pair must be untouched by instantiation")
}

func TestSubstituteBreaksCyclesOnRecursiveAlias(t *testing.T) {
	s := newTestSystem(t)
	ref := s.ReserveRef()
	g, gid := s.NewGeneric()
	s.Resolve(ref, Type{Kind: KindPair, First: g, Rest: ref})

	assert.NotPanics(t, func() {
		s.Substitute(ref, map[GenericId]TypeId{gid: s.Std().Int}, SubstituteStructural)
	})
}
