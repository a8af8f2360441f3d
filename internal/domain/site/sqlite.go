package site

import (
	"database/sql"
	"fmt"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"

	"github.com/denis333rus/censornet/internal/shared/types"
)

// SQLiteBackend persists the record map in an embedded SQLite database,
// one row per URL. Flush still replaces the whole mapping, keeping the
// same full-rewrite contract as the file backend.
type SQLiteBackend struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sites (
	url    TEXT PRIMARY KEY,
	record BLOB NOT NULL
);
`

// NewSQLiteBackend opens (or creates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite store: %w", err)
	}
	// Single writer; the store serializes flushes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sites table: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Load reads every row into a record map.
func (b *SQLiteBackend) Load() (map[string]*types.SiteRecord, error) {
	rows, err := b.db.Query(`SELECT url, record FROM sites`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	records := make(map[string]*types.SiteRecord)
	for rows.Next() {
		var url string
		var blob []byte
		if err := rows.Scan(&url, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan site row: %w", err)
		}
		var rec types.SiteRecord
		if err := sonic.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode record for %s: %w", url, err)
		}
		records[url] = &rec
	}
	return records, rows.Err()
}

// Flush replaces all rows with the given snapshot in one transaction.
func (b *SQLiteBackend) Flush(records map[string]*types.SiteRecord) error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin flush: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM sites`); err != nil {
		return fmt.Errorf("failed to clear sites: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO sites (url, record) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for url, rec := range records {
		blob, err := sonic.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record for %s: %w", url, err)
		}
		if _, err := stmt.Exec(url, blob); err != nil {
			return fmt.Errorf("failed to insert record for %s: %w", url, err)
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
