package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeType struct{ name string }

func TestAllocAssignsStableDenseIds(t *testing.T) {
	db := New[struct{}, struct{}, fakeType, struct{}, struct{}]()

	a := db.AllocType(fakeType{name: "a"})
	b := db.AllocType(fakeType{name: "b"})

	assert.Equal(t, 0, a.Index())
	assert.Equal(t, 1, b.Index())
	assert.Equal(t, "a", db.Type(a).name)
	assert.Equal(t, "b", db.Type(b).name)
}

func TestMutationThroughGetMutPersists(t *testing.T) {
	db := New[struct{}, struct{}, fakeType, struct{}, struct{}]()
	id := db.AllocType(fakeType{name: "before"})

	db.Type(id).name = "after"

	assert.Equal(t, "after", db.Type(id).name)
}

func TestFamiliesAreIndependentlyCounted(t *testing.T) {
	db := New[fakeType, fakeType, fakeType, fakeType, fakeType]()
	db.AllocScope(fakeType{})
	db.AllocSymbol(fakeType{})
	db.AllocSymbol(fakeType{})
	t1 := db.AllocType(fakeType{})

	assert.Equal(t, 1, db.NumScopes())
	assert.Equal(t, 1, db.NumTypes())
	assert.Equal(t, 0, t1.Index())
}

func TestDistinctIdKindsDoNotCollideByType(t *testing.T) {
	// ScopeId{0} and TypeId{0} share an underlying int but are distinct Go
	// types, so a caller can never pass one where the other is expected --
	// this test just documents that the zero value of each tag is legal
	// and independent.
	var s ScopeId
	var ty TypeId
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, 0, ty.Index())
}
