package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDifferenceNeverSubsetsLHSAndExcludesRHS is the universal law from spec
// section 8: compare(difference(lhs,rhs), lhs) in {Equal, Assignable}, and
// compare(difference(lhs,rhs), rhs) != Assignable unless rhs is Never.
func TestDifferenceNeverSubsetsLHSAndExcludesRHS(t *testing.T) {
	cases := []struct {
		name     string
		lhs, rhs func(s *System) TypeId
	}{
		{"int-minus-bytes", func(s *System) TypeId { return s.Std().Int }, func(s *System) TypeId { return s.Std().Bytes }},
		{"bool-minus-true", func(s *System) TypeId { return s.Std().Bool }, func(s *System) TypeId { return s.Std().True }},
		{"union-minus-member", func(s *System) TypeId {
			return s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Int, s.Std().Nil, s.Std().Bytes32}})
		}, func(s *System) TypeId { return s.Std().Nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSystem(t)
			lhs, rhs := tc.lhs(s), tc.rhs(s)
			d := s.Difference(lhs, rhs)
			assert.LessOrEqual(t, s.Compare(d, lhs), Assignable)
			if s.Get(rhs).Kind != KindNever {
				assert.NotEqual(t, Assignable, s.Compare(d, rhs))
			}
		})
	}
}

func TestDifferenceBoolMinusTrueLeavesFalse(t *testing.T) {
	s := newTestSystem(t)
	d := s.Difference(s.Std().Bool, s.Std().True)
	assert.Equal(t, s.Std().False, d)
}

func TestDifferenceNeverChangesNothing(t *testing.T) {
	s := newTestSystem(t)
	d := s.Difference(s.Std().Int, s.Std().Never)
	assert.Equal(t, s.Std().Int, d)
}

func TestDifferenceAnyRemovesEverything(t *testing.T) {
	s := newTestSystem(t)
	d := s.Difference(s.Std().Int, s.Std().Any)
	assert.Equal(t, s.Std().Never, d)
}

func TestDifferenceUnionDropsVanishedMembers(t *testing.T) {
	s := newTestSystem(t)
	union := s.Alloc(Type{Kind: KindUnion, Members: []TypeId{s.Std().Int, s.Std().Nil}})
	d := s.Difference(union, s.Std().Nil)
	assert.Equal(t, s.Std().Int, d)
}
