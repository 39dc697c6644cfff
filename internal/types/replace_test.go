package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceEmptyPathReturnsReplacement(t *testing.T) {
	s := newTestSystem(t)
	assert.Equal(t, s.Std().Int, s.Replace(s.Std().Bytes, Path{}, s.Std().Int))
}

func TestReplaceAtFirstSelector(t *testing.T) {
	s := newTestSystem(t)
	pair := s.Alloc(Type{Kind: KindPair, First: s.Std().Bytes, Rest: s.Std().Nil})

	out := s.Replace(pair, Path{{Kind: SelectFirst}}, s.Std().Bytes32)

	result := s.Get(out)
	assert.Equal(t, s.Std().Bytes32, result.First)
	assert.Equal(t, s.Std().Nil, result.Rest)
}

func TestReplaceAtNestedRestSelector(t *testing.T) {
	s := newTestSystem(t)
	inner := s.Alloc(Type{Kind: KindPair, First: s.Std().Bytes, Rest: s.Std().Nil})
	outer := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: inner})

	out := s.Replace(outer, Path{{Kind: SelectRest}, {Kind: SelectFirst}}, s.Std().Bytes32)

	result := s.Get(out)
	assert.Equal(t, s.Std().Int, result.First)
	newInner := s.Get(result.Rest)
	assert.Equal(t, s.Std().Bytes32, newInner.First)
}

func TestReplaceLeavesOtherComponentUntouched(t *testing.T) {
	s := newTestSystem(t)
	pair := s.Alloc(Type{Kind: KindPair, First: s.Std().Int, Rest: s.Std().Bytes})

	out := s.Replace(pair, Path{{Kind: SelectFirst}}, s.Std().Bytes32)

	result := s.Get(out)
	assert.Equal(t, s.Std().Bytes, result.Rest, "refining .first must not disturb .rest")
}

func TestReplaceOnWrongShapeIsNoop(t *testing.T) {
	s := newTestSystem(t)
	out := s.Replace(s.Std().Int, Path{{Kind: SelectFirst}}, s.Std().Bytes32)
	assert.Equal(t, s.Std().Int, out)
}

// A struct's second field sits at pair position .rest.first; replacing it by
// name must rewrite that position and leave the first field and the
// struct's identity (Original) untouched.
func TestReplaceAtNamedFieldRewritesPairPosition(t *testing.T) {
	s := newTestSystem(t)
	inner := s.Alloc(Type{Kind: KindPair, First: s.Std().Bytes, Rest: s.Alloc(Type{Kind: KindPair, First: s.Std().Bool, Rest: s.Std().Nil})})
	original := s.Alloc(Type{Kind: KindUnknown})
	strct := s.Alloc(Type{Kind: KindStruct, Original: original, Inner: inner, FieldNames: []string{"a", "flag"}})

	out := s.Replace(strct, Path{{Kind: SelectField, Field: "flag"}}, s.Std().True)

	result := s.Get(out)
	assert.Equal(t, KindStruct, result.Kind)
	assert.Equal(t, original, result.Original)
	assert.Equal(t, []string{"a", "flag"}, result.FieldNames)

	innerResult := s.Get(result.Inner)
	assert.Equal(t, s.Std().Bytes, innerResult.First, "replacing .flag must not disturb .a")
	secondField := s.Get(innerResult.Rest)
	assert.Equal(t, s.Std().True, secondField.First)
}
