package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasSourceExtAndTrim(t *testing.T) {
	assert.True(t, HasSourceExt("main.clv"))
	assert.False(t, HasSourceExt("main.go"))
	assert.Equal(t, "main", TrimSourceExt("main.clv"))
	assert.Equal(t, "main.go", TrimSourceExt("main.go"))
}

func TestParseDefaultStdlibManifestHasCryptoPackage(t *testing.T) {
	m, err := ParseStdlibManifest([]byte(DefaultStdlibManifest))
	require.NoError(t, err)

	crypto, ok := m.Package("crypto")
	require.True(t, ok)
	require.Len(t, crypto.Symbols, 3)
	assert.Equal(t, "sha256", crypto.Symbols[0].Name)
	assert.Equal(t, "Bytes32", crypto.Symbols[0].Return)
}

func TestParseStdlibManifestRejectsUnknownPackageLookup(t *testing.T) {
	m, err := ParseStdlibManifest([]byte(DefaultStdlibManifest))
	require.NoError(t, err)

	_, ok := m.Package("nope")
	assert.False(t, ok)
}

func TestParseStdlibManifestAllFourPackages(t *testing.T) {
	m, err := ParseStdlibManifest([]byte(DefaultStdlibManifest))
	require.NoError(t, err)
	assert.Len(t, m.Packages, 4)
}
