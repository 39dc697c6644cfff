package stdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloverlang/cloverc/internal/arena"
	"github.com/cloverlang/cloverc/internal/types"
)

func newTestSystem(t *testing.T) *types.System {
	t.Helper()
	return types.NewSystem(arena.New[struct{}, struct{}, types.Type, struct{}, struct{}]())
}

func TestNewRegistryRegistersAllFourVirtualPackages(t *testing.T) {
	ty := newTestSystem(t)
	reg, err := NewRegistry(ty, nil)
	require.NoError(t, err)

	names := reg.Names()
	assert.Len(t, names, 4)
	assert.Contains(t, names, "crypto")
	assert.Contains(t, names, "grpc")
	assert.Contains(t, names, "proto")
	assert.Contains(t, names, "db")
}

func TestRegistryPackageLookupMissesUnknownImportPath(t *testing.T) {
	ty := newTestSystem(t)
	reg, err := NewRegistry(ty, nil)
	require.NoError(t, err)

	_, ok := reg.Package("not-a-package")
	assert.False(t, ok)
}

func TestCryptoPackageExposesSha256AndPubkeyForExp(t *testing.T) {
	ty := newTestSystem(t)
	reg, err := NewRegistry(ty, nil)
	require.NoError(t, err)

	crypto, ok := reg.Package("crypto")
	require.True(t, ok)
	assert.Contains(t, crypto.Symbols, "sha256")
	assert.Contains(t, crypto.Symbols, "pubkey_for_exp")
}

func TestDbPackageExposesConnTypeAndIntrinsics(t *testing.T) {
	ty := newTestSystem(t)
	reg, err := NewRegistry(ty, nil)
	require.NoError(t, err)

	db, ok := reg.Package("db")
	require.True(t, ok)
	assert.Contains(t, db.Types, "DbConn")
	assert.Contains(t, db.Symbols, "dbOpen")
	assert.Contains(t, db.Symbols, "dbQuery")
	assert.Contains(t, db.Symbols, "dbClose")

	query := ty.Get(db.Symbols["dbQuery"])
	assert.Equal(t, types.KindCallable, query.Kind)
	assert.Len(t, query.Generics, 1, "dbQuery's row type is generic per call site")
}
