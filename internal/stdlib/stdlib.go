// Package stdlib implements the standard library loader: it materializes
// intrinsic types and symbols for the virtual packages (crypto, proto, grpc,
// db), and SourceStore reads library-module source texts from a SQLite file.
// The language has no `import` statement; the driver puts every package's
// names straight into the root scope, and nothing calls SourceStore. It never
// evaluates anything -- only types and names are produced here; codegen
// and runtime stay out of scope.
package stdlib

import (
	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/types"
)

type TypeId = arena.TypeId

// Package is one virtual package's exported surface: named types plus named
// symbols, each already a fully built TypeId in the shared type arena.
type Package struct {
	Name    string
	Types   map[string]TypeId
	Symbols map[string]TypeId
}

// Registry is the set of virtual packages a compilation sees, keyed by
// package name rather than populated through package-level sync.Once
// globals: this loader's Registry is owned by one compilation, not
// process-wide, so two concurrent compiles never share mutable package
// state.
type Registry struct {
	ty       *types.System
	packages map[string]*Package
}

// NewRegistry materializes every built-in virtual package against ty. proto
// descriptors, when descriptorSet is non-nil, are decoded into the "proto"
// package's Types; pass nil to get just the encode/decode intrinsics with
// no message types (no .proto files loaded yet).
func NewRegistry(ty *types.System, descriptorSet []byte) (*Registry, error) {
	r := &Registry{ty: ty, packages: map[string]*Package{}}

	r.packages["crypto"] = newCryptoPackage(ty)
	r.packages["grpc"] = newGrpcPackage(ty)
	r.packages["db"] = newDbPackage(ty)

	protoPkg, err := newProtoPackage(ty, descriptorSet)
	if err != nil {
		return nil, err
	}
	r.packages["proto"] = protoPkg

	return r, nil
}

func (r *Registry) Package(importPath string) (*Package, bool) {
	p, ok := r.packages[importPath]
	return p, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	return names
}

func callable(ty *types.System, paramNames []string, paramTypes []TypeId, returnType TypeId) TypeId {
	params := ty.Std().Nil
	for i := len(paramTypes) - 1; i >= 0; i-- {
		params = ty.Alloc(types.Type{Kind: types.KindPair, First: paramTypes[i], Rest: params})
	}
	return ty.Alloc(types.Type{
		Kind: types.KindCallable, Parameters: params, ParameterNames: paramNames, ReturnType: returnType,
	})
}

// resultOf builds the Union(okPayload, failPayload) this loader uses as the
// stand-in for the language's own Result type: this package only
// materializes intrinsic signatures and defines no Result/Option structs.
func resultOf(ty *types.System, ok, fail TypeId) TypeId {
	return ty.Alloc(types.Type{Kind: types.KindUnion, Members: []TypeId{ok, fail}})
}
