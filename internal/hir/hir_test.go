package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsParameterOnlyTrueForParameterSymbol(t *testing.T) {
	assert.True(t, Symbol{Kind: SymParameter}.IsParameter())
	assert.False(t, Symbol{Kind: SymLet}.IsParameter())
}

func TestIsCapturableExcludesModulesAndInlineBindings(t *testing.T) {
	assert.True(t, Symbol{Kind: SymFunction}.IsCapturable())
	assert.True(t, Symbol{Kind: SymParameter}.IsCapturable())
	assert.True(t, Symbol{Kind: SymLet}.IsCapturable())
	assert.True(t, Symbol{Kind: SymConst}.IsCapturable())
	assert.False(t, Symbol{Kind: SymInlineFunction}.IsCapturable())
	assert.False(t, Symbol{Kind: SymInlineConst}.IsCapturable())
	assert.False(t, Symbol{Kind: SymModule}.IsCapturable())
}

func TestIsDefinableExcludesParametersAndInlineBindings(t *testing.T) {
	assert.True(t, Symbol{Kind: SymFunction}.IsDefinable())
	assert.True(t, Symbol{Kind: SymLet}.IsDefinable())
	assert.True(t, Symbol{Kind: SymConst}.IsDefinable())
	assert.False(t, Symbol{Kind: SymParameter}.IsDefinable())
	assert.False(t, Symbol{Kind: SymInlineFunction}.IsDefinable())
}

func TestIsConstantDistinguishesInlineFromOrdinaryBindings(t *testing.T) {
	assert.True(t, Symbol{Kind: SymConst}.IsConstant())
	assert.True(t, Symbol{Kind: SymInlineConst}.IsConstant())
	assert.True(t, Symbol{Kind: SymInlineFunction}.IsConstant(), "inline functions are substituted at each call site, never closed over")
	assert.False(t, Symbol{Kind: SymLet}.IsConstant())
	assert.False(t, Symbol{Kind: SymFunction}.IsConstant())
}

func TestNewValueHasNoGuardsOrPathByDefault(t *testing.T) {
	v := NewValue(HirId{}, TypeId{})
	assert.Empty(t, v.Guards)
	assert.Nil(t, v.Path)
}
