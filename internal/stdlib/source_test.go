package stdlib

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSourceStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdlib.db")

	db, err := sql.Open("sqlite", "file:"+path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE modules (name TEXT PRIMARY KEY, source TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO modules (name, source) VALUES (?, ?), (?, ?)`,
		"list", "struct List<T> { items: (T, ...) }",
		"option", "enum Option<T> { Some(T), None }")
	require.NoError(t, err)

	return path
}

func TestSourceStoreReturnsBundledModuleSourceVerbatim(t *testing.T) {
	store, err := OpenSourceStore(seedSourceStore(t))
	require.NoError(t, err)
	defer store.Close()

	src, err := store.ModuleSource("list")
	require.NoError(t, err)
	assert.Equal(t, "struct List<T> { items: (T, ...) }", src)
}

func TestSourceStoreModuleNamesListsAllBundledModules(t *testing.T) {
	store, err := OpenSourceStore(seedSourceStore(t))
	require.NoError(t, err)
	defer store.Close()

	names, err := store.ModuleNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"list", "option"}, names)
}

func TestSourceStoreUnknownModuleIsAnError(t *testing.T) {
	store, err := OpenSourceStore(seedSourceStore(t))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.ModuleSource("nonexistent")
	assert.Error(t, err)
}
