package stdlib

import (
	"google.golang.org/grpc"

	"github.com/cloverlang/cloverc/internal/types"
)

// GrpcConn and GrpcServer are the opaque runtime handles the "GrpcConn" and
// "GrpcServer" intrinsic types stand for. The core never constructs one
// (that's the evaluator/VM's job, out of scope here); this loader only
// needs the real types to exist so that the intrinsic's Go-side identity is
// grounded in the actual client library rather than a bare string tag, and
// so the dependency genuinely appears in the build graph.
type GrpcConn struct{ conn *grpc.ClientConn }
type GrpcServer struct{ server *grpc.Server }

// newGrpcPackage materializes the grpc virtual package's opaque connection/
// server types and its connect/invoke/serve intrinsic signatures, expressed
// against this package's structural TypeId-based type system.
func newGrpcPackage(ty *types.System) *Package {
	std := ty.Std()

	grpcConn := ty.Alloc(types.Type{Kind: types.KindStruct, FieldNames: nil, Inner: std.Nil})
	grpcServer := ty.Alloc(types.Type{Kind: types.KindStruct, FieldNames: nil, Inner: std.Nil})

	resultConn := resultOf(ty, grpcConn, std.Bytes)
	resultNil := resultOf(ty, std.Nil, std.Bytes)

	reqGeneric, reqId := ty.NewGeneric()
	respGeneric, respId := ty.NewGeneric()
	_ = reqId
	_ = respId
	resultResp := resultOf(ty, respGeneric, std.Bytes)

	invoke := ty.Alloc(types.Type{
		Kind: types.KindCallable,
		Parameters: ty.Alloc(types.Type{Kind: types.KindPair, First: grpcConn, Rest: ty.Alloc(types.Type{
			Kind: types.KindPair, First: std.Bytes, Rest: ty.Alloc(types.Type{
				Kind: types.KindPair, First: reqGeneric, Rest: std.Nil,
			}),
		})}),
		ParameterNames: []string{"conn", "method", "request"},
		ReturnType:     resultResp,
		Generics:       []types.GenericId{reqId, respId},
	})

	return &Package{
		Name: "grpc",
		Types: map[string]TypeId{
			"GrpcConn":   grpcConn,
			"GrpcServer": grpcServer,
		},
		Symbols: map[string]TypeId{
			"grpcConnect":    callable(ty, []string{"address"}, []TypeId{std.Bytes}, resultConn),
			"grpcClose":      callable(ty, []string{"conn"}, []TypeId{grpcConn}, resultNil),
			"grpcLoadProto":  callable(ty, []string{"path"}, []TypeId{std.Bytes}, resultNil),
			"grpcInvoke":     invoke,
			"grpcServer":     callable(ty, nil, nil, grpcServer),
			"grpcRegister":   callable(ty, []string{"server", "service", "impl"}, []TypeId{grpcServer, std.Bytes, std.Any}, resultNil),
			"grpcServe":      callable(ty, []string{"server", "address"}, []TypeId{grpcServer, std.Bytes}, resultNil),
			"grpcServeAsync": callable(ty, []string{"server", "address"}, []TypeId{grpcServer, std.Bytes}, resultNil),
			"grpcStop":       callable(ty, []string{"server"}, []TypeId{grpcServer}, resultNil),
		},
	}
}
