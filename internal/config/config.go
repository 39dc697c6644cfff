// Package config carries the ambient, non-semantic constants and
// declarative data every other package treats as given: the compiler's own
// version/build identity, recognized source file extensions, and a
// YAML-described manifest of the standard library's virtual packages, for
// callers (chiefly cmd/cloverc) that want to list or validate stdlib
// surface without constructing a full internal/types.System: a package of
// plain vars/consts set once at startup, no init-time side effects, plus
// gopkg.in/yaml.v3 for declarative config loading.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Version is the compiler's own version, set at build time via
// -ldflags "-X github.com/cloverlang/cloverc/internal/config.Version=...".
var Version = "0.1.0"

const SourceFileExt = ".clv"

// TrimSourceExt removes the recognized source extension from a filename,
// returning the original string unchanged if it doesn't end in one.
func TrimSourceExt(name string) string {
	if HasSourceExt(name) {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// HasSourceExt reports whether path ends in the recognized source
// extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}

// StdlibManifest is the declarative description of every virtual package
// internal/stdlib's Go-literal package constructors (newCryptoPackage,
// newGrpcPackage, ...) ultimately build -- kept as data here so a caller can
// list or validate a package's intrinsic surface (names, parameter count,
// return arity) without a live internal/types.System to build real TypeIds
// against. This manifest documents the surface; internal/stdlib remains the
// source of truth that actually constructs the TypeIds.
type StdlibManifest struct {
	Packages []PackageManifest `yaml:"packages"`
}

type PackageManifest struct {
	Name    string           `yaml:"name"`
	Types   []string         `yaml:"types,omitempty"`
	Symbols []SymbolManifest `yaml:"symbols"`
}

type SymbolManifest struct {
	Name       string   `yaml:"name"`
	Params     []string `yaml:"params,omitempty"`
	ParamTypes []string `yaml:"paramTypes,omitempty"`
	Return     string   `yaml:"return"`
}

// DefaultStdlibManifest documents the package/symbol surface
// internal/stdlib's crypto/grpc/proto/db constructors build, kept in sync
// by hand (there is no code generator here: codegen is out of scope, and
// this manifest is documentation/introspection data, not the thing that
// builds the actual TypeIds). Generic parameters and payloads are written
// as Any.
const DefaultStdlibManifest = `
packages:
  - name: crypto
    symbols:
      - name: sha256
        params: [bytes]
        paramTypes: [Bytes]
        return: Bytes32
      - name: pubkey_for_exp
        params: [exponent]
        paramTypes: [Bytes32]
        return: PublicKey
      - name: coin_id
        params: [parent, puzzle_hash, amount]
        paramTypes: [Bytes32, Bytes32, Int]
        return: Bytes32
  - name: grpc
    types: [GrpcConn, GrpcServer]
    symbols:
      - name: grpcConnect
        params: [address]
        paramTypes: [Bytes]
        return: Result(GrpcConn, Bytes)
      - name: grpcClose
        params: [conn]
        paramTypes: [GrpcConn]
        return: Result(Nil, Bytes)
      - name: grpcLoadProto
        params: [path]
        paramTypes: [Bytes]
        return: Result(Nil, Bytes)
      - name: grpcInvoke
        params: [conn, method, request]
        paramTypes: [GrpcConn, Bytes, Any]
        return: Result(Any, Bytes)
      - name: grpcServer
        return: GrpcServer
      - name: grpcRegister
        params: [server, service, impl]
        paramTypes: [GrpcServer, Bytes, Any]
        return: Result(Nil, Bytes)
      - name: grpcServe
        params: [server, address]
        paramTypes: [GrpcServer, Bytes]
        return: Result(Nil, Bytes)
      - name: grpcServeAsync
        params: [server, address]
        paramTypes: [GrpcServer, Bytes]
        return: Result(Nil, Bytes)
      - name: grpcStop
        params: [server]
        paramTypes: [GrpcServer]
        return: Result(Nil, Bytes)
  - name: proto
    symbols:
      - name: protoEncode
        params: [message_name, data]
        paramTypes: [Bytes, Any]
        return: Result(Bytes, Bytes)
      - name: protoDecode
        params: [message_name, bytes]
        paramTypes: [Bytes, Bytes]
        return: Result(Any, Bytes)
  - name: db
    types: [DbConn]
    symbols:
      - name: dbOpen
        params: [path]
        paramTypes: [Bytes]
        return: Result(DbConn, Bytes)
      - name: dbExec
        params: [conn, statement]
        paramTypes: [DbConn, Bytes]
        return: Result(Nil, Bytes)
      - name: dbQuery
        params: [conn, query]
        paramTypes: [DbConn, Bytes]
        return: Result(Any, Bytes)
      - name: dbClose
        params: [conn]
        paramTypes: [DbConn]
        return: Result(Nil, Bytes)
`

// ParseStdlibManifest decodes a YAML-encoded StdlibManifest, e.g. the
// bundled DefaultStdlibManifest.
func ParseStdlibManifest(data []byte) (*StdlibManifest, error) {
	var m StdlibManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parsing stdlib manifest: %w", err)
	}
	return &m, nil
}

// Package looks up one package's manifest entry by name.
func (m *StdlibManifest) Package(name string) (*PackageManifest, bool) {
	for i := range m.Packages {
		if m.Packages[i].Name == name {
			return &m.Packages[i], true
		}
	}
	return nil, false
}
