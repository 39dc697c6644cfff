// Package driver wires the entry-point driver: it owns the single
// arena.Database a compilation run allocates, stands up the builtins scope
// and stdlib registry, runs the HIR builder's two-phase item elaboration
// over a module's facade AST, locates its exported `main`, and hands the
// result to the dependency graph builder.
package driver

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/ast"
	"github.com/cloverlang/cloverc/internal/compile"
	"github.com/cloverlang/cloverc/internal/depgraph"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/scope"
	"github.com/cloverlang/cloverc/internal/stdlib"
	"github.com/cloverlang/cloverc/internal/types"
)

// Database is the concrete arena instantiation every phase shares: one
// family per long-lived entity. The Scope family is the struct value itself
// (not a pointer) so that arena.Database's own pointer-into-slice accessor
// is what gives callers a mutable *scope.Scope, matching scope.New()'s
// pointer-returning constructor without requiring Scope to be stored
// twice-indirected.
type Database = arena.Database[scope.Scope, hir.Symbol, types.Type, hir.Hir, depgraph.Environment]

// Artifact is the hand-off a code generator consumes: the finished
// dependency graph, the arena it was built against, the entry point's
// symbol id, every diagnostic recorded, and a build id external tooling can
// use to correlate a single run's outputs.
type Artifact struct {
	Graph       *depgraph.Graph
	Database    *Database
	EntryPoint  arena.SymbolId
	Diagnostics *diagnostics.Collector
	BuildID     string
}

// New allocates an empty Database alongside the always-present builtins
// scope and a stdlib registry with no proto descriptors loaded, the shape
// every Compile call starts from.
func New() (*Database, *diagnostics.Collector, *compileDB, compile.Builtins, *stdlib.Registry, *types.System, error) {
	db := arena.New[scope.Scope, hir.Symbol, types.Type, hir.Hir, depgraph.Environment]()
	diag := diagnostics.NewCollector()
	cdb := &compileDB{db: db, diag: diag}
	ty := types.NewSystem(db)
	builtins := compile.NewBuiltins(cdb, ty)

	registry, err := stdlib.NewRegistry(ty, nil)
	if err != nil {
		return nil, nil, nil, compile.Builtins{}, nil, nil, fmt.Errorf("driver: loading stdlib registry: %w", err)
	}
	return db, diag, cdb, builtins, registry, ty, nil
}

// wireStdlib materializes every virtual package the stdlib registry
// describes directly into the builtins scope. The facade AST has no import
// node (lexing/parsing stays out of scope per spec section 1), so there is
// no per-module `import` to resolve against -- spec component G's "root
// scope" is this one, and every crypto/grpc/proto/db intrinsic becomes an
// ordinary name any module can reference, the same way sha256 and
// pubkey_for_exp already are. A name NewBuiltins already defined (the two
// intrinsics the language core names directly) is left alone rather than
// shadowed by an equivalent virtual-package entry.
func wireStdlib(cdb *compileDB, ty *types.System, builtins compile.Builtins, registry *stdlib.Registry) {
	sc := cdb.Scope(builtins.ScopeId)

	pkgNames := registry.Names()
	sort.Strings(pkgNames)

	for _, pkgName := range pkgNames {
		pkg, _ := registry.Package(pkgName)

		typeNames := make([]string, 0, len(pkg.Types))
		for name := range pkg.Types {
			typeNames = append(typeNames, name)
		}
		sort.Strings(typeNames)
		for _, name := range typeNames {
			if _, exists := sc.Type(name); !exists {
				sc.DefineType(name, pkg.Types[name])
			}
		}

		symbolNames := make([]string, 0, len(pkg.Symbols))
		for name := range pkg.Symbols {
			symbolNames = append(symbolNames, name)
		}
		sort.Strings(symbolNames)
		for _, name := range symbolNames {
			if _, exists := sc.Symbol(name); exists {
				continue
			}
			symId := compile.DefineNamedIntrinsic(cdb, ty, name, pkg.Symbols[name])
			sc.DefineSymbol(name, symId)
		}
	}
}

// Compile orchestrates the arena/type-system/scope/HIR-builder phases over
// a single module's facade AST, with the stdlib registry materialized into
// the root scope: compile every item, locate the exported `main`, and
// build the dependency graph rooted at it. The code generator never runs
// here; Compile's job ends at a finished, diagnostic-checked HIR plus
// dependency graph.
func Compile(prog *ast.Program) (*Artifact, error) {
	db, diag, cdb, builtins, registry, ty, err := New()
	if err != nil {
		return nil, err
	}

	wireStdlib(cdb, ty, builtins, registry)

	moduleScope := scope.New()
	moduleScopeId := db.AllocScope(*moduleScope)

	c := compile.New(cdb, ty, builtins)
	c.CompileProgram(prog, moduleScopeId)

	mainId, ok := db.Scope(moduleScopeId).Symbol("main")
	if !ok {
		diag.Error(diagnostics.ErrMissingMain, diagnostics.Span{})
		return &Artifact{Database: db, Diagnostics: diag, BuildID: uuid.NewString()},
			&diagnostics.FatalError{Reason: "no exported `main` function"}
	}

	mainSym := db.Symbol(mainId)
	if mainSym.Kind != hir.SymFunction {
		diag.Error(diagnostics.ErrMissingMain, diagnostics.Span{})
		return &Artifact{Database: db, Diagnostics: diag, BuildID: uuid.NewString()},
			&diagnostics.FatalError{Reason: "`main` is not an ordinary function"}
	}

	gdb := &depgraphDB{db: db, diag: diag}
	graph := depgraph.Build(gdb, mainSym.Function.ScopeId, mainSym.Function.HirId)

	artifact := &Artifact{
		Graph:       graph,
		Database:    db,
		EntryPoint:  mainId,
		Diagnostics: diag,
		BuildID:     uuid.NewString(),
	}

	if diag.HasErrors() {
		return artifact, fmt.Errorf("driver: compilation recorded errors (%s)", diag.Summary())
	}
	return artifact, nil
}
