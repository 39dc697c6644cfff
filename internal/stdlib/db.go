package stdlib

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/cloverlang/cloverc/internal/types"
)

// DbConn is the opaque runtime handle the "DbConn" intrinsic type stands
// for. As with GrpcConn/GrpcServer, the core never opens one itself -- this
// loader only needs the real driver's type to exist so the intrinsic's
// Go-side identity is grounded in modernc.org/sqlite rather than a bare
// string tag.
type DbConn struct{ db *sql.DB }

// newDbPackage materializes the db virtual package: an opaque connection
// type plus open/exec/query/close intrinsics, built the same way as
// crypto/grpc/proto below but over modernc.org/sqlite (module source
// storage itself is SourceStore's job, not this package's).
func newDbPackage(ty *types.System) *Package {
	std := ty.Std()

	dbConn := ty.Alloc(types.Type{Kind: types.KindStruct, FieldNames: nil, Inner: std.Nil})
	resultConn := resultOf(ty, dbConn, std.Bytes)
	resultNil := resultOf(ty, std.Nil, std.Bytes)

	rowGeneric, rowId := ty.NewGeneric()
	rowsType := ty.Alloc(types.Type{Kind: types.KindPair, First: rowGeneric, Rest: std.Nil})
	resultRows := resultOf(ty, rowsType, std.Bytes)

	query := ty.Alloc(types.Type{
		Kind: types.KindCallable,
		Parameters: ty.Alloc(types.Type{Kind: types.KindPair, First: dbConn, Rest: ty.Alloc(types.Type{
			Kind: types.KindPair, First: std.Bytes, Rest: std.Nil,
		})}),
		ParameterNames: []string{"conn", "query"},
		ReturnType:     resultRows,
		Generics:       []types.GenericId{rowId},
	})

	return &Package{
		Name: "db",
		Types: map[string]TypeId{
			"DbConn": dbConn,
		},
		Symbols: map[string]TypeId{
			"dbOpen":  callable(ty, []string{"path"}, []TypeId{std.Bytes}, resultConn),
			"dbExec":  callable(ty, []string{"conn", "statement"}, []TypeId{dbConn, std.Bytes}, resultNil),
			"dbQuery": query,
			"dbClose": callable(ty, []string{"conn"}, []TypeId{dbConn}, resultNil),
		},
	}
}
