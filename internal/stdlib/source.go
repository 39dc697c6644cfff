package stdlib

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SourceStore reads standard-library module source texts out of a SQLite
// database file, opened read-only and keyed by module name. No such file is
// embedded in this module, and the driver does not open one. It is
// deliberately NOT an incremental-compilation cache: it holds only the
// library's own source text, never a user program's compiled output, has
// no invalidation logic, and writes nothing back to the file -- no incremental
// recompilation happens here even though a real database engine sits
// underneath.
type SourceStore struct {
	db *sql.DB
}

// OpenSourceStore opens the SQLite file at path read-only via
// modernc.org/sqlite's pure-Go driver.
func OpenSourceStore(path string) (*SourceStore, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("stdlib: opening source store: %w", err)
	}
	return &SourceStore{db: db}, nil
}

func (s *SourceStore) Close() error { return s.db.Close() }

// ModuleSource returns the library module named name's raw source text,
// never parsed or typed here; nothing in this module compiles it.
func (s *SourceStore) ModuleSource(name string) (string, error) {
	row := s.db.QueryRow(`SELECT source FROM modules WHERE name = ?`, name)
	var source string
	if err := row.Scan(&source); err != nil {
		return "", fmt.Errorf("stdlib: module %q: %w", name, err)
	}
	return source, nil
}

// ModuleNames lists every module name in the store, in name order.
func (s *SourceStore) ModuleNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM modules ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("stdlib: listing modules: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
