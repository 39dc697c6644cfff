// Package types implements the structural type system: construction,
// comparison, narrowing checks, set difference, substitution and
// stringification, all against a single types.Type arena. This is the
// "richer revision" named in the design notes: it models singleton integer
// constants, True/False as distinct atoms, bitwise operators and
// path-aware guards, rather than the earlier boolean-only prototype.
package types

import (
	"math/big"

	"github.com/cloverlang/cloverc/internal/arena"
)

// TypeId aliases the arena's tagged id so callers never import arena
// directly just to talk about a type.
type TypeId = arena.TypeId

// Kind tags which variant a Type value holds. Kept alongside the Go type
// switch (rather than relying on type-switch alone) because several
// algorithms -- compare's priority table especially -- read far more
// clearly as an ordered rule list when dispatched off an enum.
type Kind int

const (
	KindUnknown Kind = iota
	KindNever
	KindAny
	KindBytes
	KindBytes32
	KindPublicKey
	KindInt
	KindBool
	KindTrue
	KindFalse
	KindNil
	KindValue
	KindPair
	KindUnion
	KindAlias
	KindRef
	KindLazy
	KindStruct
	KindEnum
	KindVariant
	KindCallable
	KindGeneric
)

// Type is exactly one of the listed variants. Every field not relevant to
// Kind is zero. One Go struct, tag-dispatched, rather than one struct type
// per variant, because the variants share so much accessor logic (Pair/Union
// recursion, generic substitution) that a single struct keeps compare/check/
// substitute from degenerating into a type-switch per call site.
type Type struct {
	Kind Kind

	// KindValue
	Value *big.Int

	// KindPair
	First, Rest TypeId

	// KindUnion
	Members []TypeId

	// KindAlias, KindRef: Inner holds the transparent target.
	Inner TypeId

	// KindLazy
	LazySubst map[GenericId]TypeId

	// KindStruct, KindVariant, KindEnum share this shape.
	Original      TypeId // identity: same Original id => same nominal type
	OriginalEnum  TypeId // KindVariant only
	FieldNames    []string
	NilTerminated bool
	Generics      []GenericId
	HasFields     bool               // KindEnum
	Variants      []EnumVariant      // KindEnum, order preserved
	Discriminant  *big.Int           // KindVariant

	// KindCallable
	Parameters     TypeId // a pair-tuple type
	ParameterNames []string
	ReturnType     TypeId

	// KindGeneric
	GenericId GenericId
}

// EnumVariant is one ordered entry of an Enum's variant map.
type EnumVariant struct {
	Name string
	Type TypeId
}

// GenericId identifies an abstract type parameter. Allocated from the same
// small counter a Database keeps per compilation; two Generics compare
// Equal only when their ids coincide.
type GenericId int

// StandardTypes are the always-present builtin atoms a System allocates at
// construction, mirroring rue-typing's StandardTypes.
type StandardTypes struct {
	Unknown   TypeId
	Never     TypeId
	Any       TypeId
	Bytes     TypeId
	Bytes32   TypeId
	PublicKey TypeId
	Int       TypeId
	Bool      TypeId
	True      TypeId
	False     TypeId
	Nil       TypeId
}

// Arena is the subset of arena.Database a System needs; kept as an
// interface so types.System never has to name the other four families'
// concrete Go types (those live in hir/scope/depgraph, which would create
// an import cycle if types imported them back).
type Arena interface {
	AllocType(Type) TypeId
	Type(TypeId) *Type
}

// System owns type construction and every comparison/check/substitution
// algorithm built on top of it. It holds no arena of its own: it operates
// against whatever arena.Database the compilation already owns, so HIR
// nodes and types share one id space conceptually even though they're
// different families.
type System struct {
	db    Arena
	std   StandardTypes
	nextG GenericId
}

func NewSystem(db Arena) *System {
	s := &System{db: db}
	s.std = StandardTypes{
		Unknown:   s.Alloc(Type{Kind: KindUnknown}),
		Never:     s.Alloc(Type{Kind: KindNever}),
		Any:       s.Alloc(Type{Kind: KindAny}),
		Bytes:     s.Alloc(Type{Kind: KindBytes}),
		Bytes32:   s.Alloc(Type{Kind: KindBytes32}),
		PublicKey: s.Alloc(Type{Kind: KindPublicKey}),
		Int:       s.Alloc(Type{Kind: KindInt}),
		Bool:      s.Alloc(Type{Kind: KindBool}),
		True:      s.Alloc(Type{Kind: KindTrue}),
		False:     s.Alloc(Type{Kind: KindFalse}),
		Nil:       s.Alloc(Type{Kind: KindNil}),
	}
	return s
}

func (s *System) Std() StandardTypes { return s.std }

func (s *System) Alloc(t Type) TypeId { return s.db.AllocType(t) }

// NewGeneric allocates a fresh abstract type parameter.
func (s *System) NewGeneric() (TypeId, GenericId) {
	id := s.nextG
	s.nextG++
	return s.Alloc(Type{Kind: KindGeneric, GenericId: id}), id
}

// Get resolves a Ref chain transparently; every other accessor in this
// package (and every caller outside it) must go through Get, never touch
// the arena directly, or a Ref could leak into a switch that doesn't know
// how to handle it.
func (s *System) Get(id TypeId) *Type {
	t := s.db.Type(id)
	for t.Kind == KindRef {
		t = s.db.Type(t.Inner)
	}
	return t
}

// GetLiteral returns the stored value without chasing Ref, for the one
// legitimate caller: tie-the-knot construction overwriting the cell.
func (s *System) GetLiteral(id TypeId) *Type { return s.db.Type(id) }

// ReserveRef allocates a placeholder cell for the tie-the-knot pattern: a
// recursive type alias reserves a Ref first, builds its real body (which
// may reference the Ref's id), then calls Resolve exactly once to overwrite
// the placeholder.
func (s *System) ReserveRef() TypeId {
	return s.Alloc(Type{Kind: KindRef})
}

// Resolve overwrites a previously reserved Ref cell with its real variant.
// Calling it twice on the same id, or on a cell that was never a Ref, is a
// programmer error (the knot would be tied twice).
func (s *System) Resolve(ref TypeId, real Type) {
	cell := s.db.Type(ref)
	if cell.Kind != KindRef {
		panic("types: Resolve called on a non-Ref cell")
	}
	*cell = real
}

// IsPairTuple reports whether id is a Nil-terminated or open pair-tuple,
// i.e. a type built by repeated Type{Kind: KindPair, ...} ending (or not)
// in Nil -- the representation every Struct/Variant/Callable-parameter-list
// is required to have.
func (s *System) IsPairTuple(id TypeId) bool {
	t := s.Get(id)
	switch t.Kind {
	case KindNil, KindPair:
		return true
	default:
		return false
	}
}

// Elements flattens a pair-tuple into its component types, reporting
// whether it ended in Nil. A tail that cycles back to an earlier position is
// reported once as a final, non-Nil element.
func (s *System) Elements(id TypeId) (elems []TypeId, nilTerminated bool) {
	seen := map[TypeId]bool{}
	for {
		if seen[id] {
			elems = append(elems, id)
			return elems, false
		}
		seen[id] = true
		t := s.Get(id)
		switch t.Kind {
		case KindNil:
			return elems, true
		case KindPair:
			elems = append(elems, t.First)
			id = t.Rest
		default:
			elems = append(elems, id)
			return elems, false
		}
	}
}
