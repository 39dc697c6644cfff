package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cloverlang/cloverc/internal/arena"
)

func TestDefineAndLookupSymbol(t *testing.T) {
	s := New()
	id := arena.SymbolId{}
	s.DefineSymbol("x", id)

	got, ok := s.Symbol("x")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestUnknownNameIsNotFound(t *testing.T) {
	s := New()
	_, ok := s.Symbol("nope")
	assert.False(t, ok)
}

func TestSymbolsAndTypesAreSeparatelyNamespaced(t *testing.T) {
	db := arena.New[struct{}, struct{}, struct{}, struct{}, struct{}]()
	symId := db.AllocSymbol(struct{}{})
	typId := db.AllocType(struct{}{})

	s := New()
	s.DefineSymbol("Thing", symId)
	s.DefineType("Thing", typId)

	gotSym, ok := s.Symbol("Thing")
	assert.True(t, ok)
	assert.Equal(t, symId, gotSym)

	gotType, ok := s.Type("Thing")
	assert.True(t, ok)
	assert.Equal(t, typId, gotType)
}

func TestLaterDefinitionShadowsEarlierByName(t *testing.T) {
	db := arena.New[struct{}, struct{}, struct{}, struct{}, struct{}]()
	first := db.AllocSymbol(struct{}{})
	second := db.AllocSymbol(struct{}{})

	s := New()
	s.DefineSymbol("x", first)
	s.DefineSymbol("x", second)

	got, _ := s.Symbol("x")
	assert.Equal(t, second, got)
}

func TestLocalSymbolsPreservesDeclarationOrder(t *testing.T) {
	db := arena.New[struct{}, struct{}, struct{}, struct{}, struct{}]()
	a := db.AllocSymbol(struct{}{})
	b := db.AllocSymbol(struct{}{})
	c := db.AllocSymbol(struct{}{})

	s := New()
	s.DefineSymbol("c", c)
	s.DefineSymbol("a", a)
	s.DefineSymbol("b", b)

	assert.Equal(t, []arena.SymbolId{c, a, b}, s.LocalSymbols())
}

func TestIsLocalDistinguishesDefinedFromUnknown(t *testing.T) {
	db := arena.New[struct{}, struct{}, struct{}, struct{}, struct{}]()
	local := db.AllocSymbol(struct{}{})
	other := db.AllocSymbol(struct{}{})

	s := New()
	s.DefineSymbol("x", local)

	assert.True(t, s.IsLocal(local))
	assert.False(t, s.IsLocal(other))
}

func TestSymbolNameIsTheInverseOfDefineSymbol(t *testing.T) {
	db := arena.New[struct{}, struct{}, struct{}, struct{}, struct{}]()
	id := db.AllocSymbol(struct{}{})

	s := New()
	s.DefineSymbol("greeting", id)

	name, ok := s.SymbolName(id)
	assert.True(t, ok)
	assert.Equal(t, "greeting", name)
}
