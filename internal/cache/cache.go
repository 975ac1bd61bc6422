// Package cache implements the AST-level reuse boundary: a sqlite-backed
// store keyed by a content hash of an already name-resolved AST, so a
// second compilation of an unchanged source file can skip straight to
// the type pool instead of reparsing and re-resolving it.
//
// The TypePool, Unifier, and every downstream stage are always rebuilt
// fresh per run — only the pre-type-checking AST blob is ever reused,
// which keeps this cache inside the "AST-level reuse only" boundary.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache wraps a sqlite connection holding one table: resolved AST blobs
// keyed by the sha256 of their source bytes.
type Cache struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS ast_cache (
	content_hash TEXT PRIMARY KEY,
	module       TEXT NOT NULL,
	ast_blob     BLOB NOT NULL,
	inserted_at  INTEGER NOT NULL
);
`

// Open creates or attaches to the sqlite database at path and ensures
// the cache schema exists.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying sqlite connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// ContentHash returns the cache key for a source file's raw bytes.
func ContentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached resolved-AST blob for hash, if present.
func (c *Cache) Lookup(hash string) (blob []byte, found bool, err error) {
	row := c.db.QueryRow(`SELECT ast_blob FROM ast_cache WHERE content_hash = ?`, hash)
	if err := row.Scan(&blob); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("looking up %s: %w", hash, err)
	}
	return blob, true, nil
}

// Store records a resolved-AST blob for hash, replacing any prior entry
// for the same content (a source file reusing a hash is byte-identical,
// so overwriting is always correct, never stale).
func (c *Cache) Store(hash, module string, blob []byte, insertedAtUnix int64) error {
	_, err := c.db.Exec(
		`INSERT INTO ast_cache (content_hash, module, ast_blob, inserted_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET
		   module = excluded.module,
		   ast_blob = excluded.ast_blob,
		   inserted_at = excluded.inserted_at`,
		hash, module, blob, insertedAtUnix,
	)
	if err != nil {
		return fmt.Errorf("storing %s: %w", hash, err)
	}
	return nil
}

// Evict drops the cached entry for hash, if any. Used when a file is
// known to have changed under a hash collision-adjacent rename, or when
// a project forces a clean rebuild.
func (c *Cache) Evict(hash string) error {
	_, err := c.db.Exec(`DELETE FROM ast_cache WHERE content_hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("evicting %s: %w", hash, err)
	}
	return nil
}

// Len reports how many resolved ASTs are currently cached.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM ast_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cache entries: %w", err)
	}
	return n, nil
}
