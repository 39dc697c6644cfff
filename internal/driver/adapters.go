package driver

import (
	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/depgraph"
	"github.com/cloverlang/cloverc/internal/diagnostics"
	"github.com/cloverlang/cloverc/internal/hir"
	"github.com/cloverlang/cloverc/internal/scope"
)

// compileDB adapts the shared arena.Database plus diagnostics.Collector to
// compile.DB's narrower surface: compile.Compiler never sees the concrete
// arena.Database[...] instantiation, only this view, same as depgraphDB
// below does for internal/depgraph.
type compileDB struct {
	db   *Database
	diag *diagnostics.Collector
}

func (c *compileDB) AllocHir(h hir.Hir) arena.HirId { return c.db.AllocHir(h) }
func (c *compileDB) Hir(id arena.HirId) *hir.Hir    { return c.db.Hir(id) }

func (c *compileDB) AllocSymbol(s hir.Symbol) arena.SymbolId { return c.db.AllocSymbol(s) }
func (c *compileDB) Symbol(id arena.SymbolId) *hir.Symbol    { return c.db.Symbol(id) }

func (c *compileDB) AllocScope(s *scope.Scope) arena.ScopeId { return c.db.AllocScope(*s) }
func (c *compileDB) Scope(id arena.ScopeId) *scope.Scope     { return c.db.Scope(id) }

func (c *compileDB) Error(kind diagnostics.ErrorKind, span diagnostics.Span, args ...string) {
	c.diag.Error(kind, span, args...)
}

func (c *compileDB) Warning(kind diagnostics.WarningKind, span diagnostics.Span) {
	c.diag.Warning(kind, span)
}

// depgraphDB is compileDB's twin for internal/depgraph: same underlying
// arena and collector, narrowed to the symbol/scope/hir/environment
// surface the dependency graph builder needs.
type depgraphDB struct {
	db   *Database
	diag *diagnostics.Collector
}

func (d *depgraphDB) Symbol(id arena.SymbolId) *hir.Symbol  { return d.db.Symbol(id) }
func (d *depgraphDB) Scope(id arena.ScopeId) depgraph.Scope { return d.db.Scope(id) }
func (d *depgraphDB) Hir(id arena.HirId) *hir.Hir           { return d.db.Hir(id) }

func (d *depgraphDB) AllocEnv(e depgraph.Environment) arena.EnvId { return d.db.AllocEnv(e) }
func (d *depgraphDB) Env(id arena.EnvId) *depgraph.Environment    { return d.db.Env(id) }

func (d *depgraphDB) Error(kind diagnostics.ErrorKind, span diagnostics.Span, args ...string) {
	d.diag.Error(kind, span, args...)
}
