package refiner

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// CitationStore caches citation lookups in SQLite so repeated queries skip
// the search step. One store is shared by all jobs through the engine.
type CitationStore struct {
	db *sql.DB
}

// OpenCitationStore opens (creating if needed) the cache database at path.
func OpenCitationStore(path string) (*CitationStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open citation cache: %w", err)
	}

	store := &CitationStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create citation cache tables: %w", err)
	}
	return store, nil
}

func (cs *CitationStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS citation_lookups (
		query TEXT PRIMARY KEY,
		results TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	_, err := cs.db.Exec(query)
	return err
}

// Lookup returns cached results for query, reporting whether an entry
// exists.
func (cs *CitationStore) Lookup(query string) ([]Citation, bool, error) {
	var raw string
	err := cs.db.QueryRow(
		"SELECT results FROM citation_lookups WHERE query = ?", query,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("citation cache lookup: %w", err)
	}

	var citations []Citation
	if err := json.Unmarshal([]byte(raw), &citations); err != nil {
		return nil, false, fmt.Errorf("citation cache decode: %w", err)
	}
	return citations, true, nil
}

// Store saves results for query, replacing any previous entry.
func (cs *CitationStore) Store(query string, citations []Citation) error {
	raw, err := json.Marshal(citations)
	if err != nil {
		return fmt.Errorf("citation cache encode: %w", err)
	}
	_, err = cs.db.Exec(
		"INSERT OR REPLACE INTO citation_lookups (query, results) VALUES (?, ?)",
		query, string(raw),
	)
	if err != nil {
		return fmt.Errorf("citation cache store: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (cs *CitationStore) Close() error {
	return cs.db.Close()
}
