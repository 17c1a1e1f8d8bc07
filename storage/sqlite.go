package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/hibernatus-hacker/bardo-sub002/ids"
)

// SQLiteStore is a Store backed by a single SQLite database file, one table
// per kind (spec.md §6's closed kind enumeration), grounded on
// storage/sqlite_logger.go's NewSQLiteLogger/createTables/Close shape.
// Unlike the teacher's per-session logger, it opens the existing database
// file rather than recreating it, since an experiment must be resumable
// across process restarts (spec.md §4.6).
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) dataSourceName and ensures every kind's
// table exists.
func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite database %s: %w", dataSourceName, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping sqlite database %s: %w", dataSourceName, err)
	}

	store := &SQLiteStore{db: db, path: dataSourceName}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: create tables: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) createTables() error {
	for _, kind := range allKinds {
		ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			updated_at DATETIME NOT NULL
		);`, kindTable(kind))
		if _, err := s.db.Exec(ddl); err != nil {
			return fmt.Errorf("create table for kind %s: %w", kind, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Store(kind ids.Kind, id ids.Id, value any) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", id, err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		kindTable(kind))
	if _, err := s.db.Exec(query, id.String(), encoded, time.Now()); err != nil {
		return fmt.Errorf("storage: store %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) Read(kind ids.Kind, id ids.Id, out any) (bool, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE id = ?`, kindTable(kind))
	var encoded []byte
	err := s.db.QueryRow(query, id.String()).Scan(&encoded)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: read %s/%s: %w", kind, id, err)
	}
	if err := msgpack.Unmarshal(encoded, out); err != nil {
		return false, fmt.Errorf("storage: decode %s/%s: %w", kind, id, err)
	}
	return true, nil
}

func (s *SQLiteStore) Delete(kind ids.Kind, id ids.Id) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, kindTable(kind))
	if _, err := s.db.Exec(query, id.String()); err != nil {
		return fmt.Errorf("storage: delete %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) List(kind ids.Kind) ([]Record, error) {
	query := fmt.Sprintf(`SELECT id, value FROM %s ORDER BY id`, kindTable(kind))
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var idStr string
		var encoded []byte
		if err := rows.Scan(&idStr, &encoded); err != nil {
			return nil, fmt.Errorf("storage: scan %s row: %w", kind, err)
		}
		parsedId, err := ids.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("storage: parse id %q: %w", idStr, err)
		}
		out = append(out, Record{Id: parsedId, Value: encoded})
	}
	return out, rows.Err()
}

// Backup copies the live database file to path via SQLite's "VACUUM INTO",
// the same file-level snapshot approach storage/sqlite_logger.go's
// NewSQLiteLogger takes with the source file, generalized from "delete and
// recreate" to "copy the source of truth out without disturbing it."
func (s *SQLiteStore) Backup(path string) (string, error) {
	if _, err := s.db.Exec(`VACUUM INTO ?`, path); err != nil {
		return "", fmt.Errorf("storage: backup to %s: %w", path, err)
	}
	return path, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
