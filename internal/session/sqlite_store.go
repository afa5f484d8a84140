package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/naveenspark/storefront/pkg/domain"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStore keeps the session as rows of a key-value table.
type SQLiteStore struct {
	db        *sql.DB
	writeLock sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS session_kv (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("create table: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) get(key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM session_kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// Read returns the stored record. Missing keys are not an error.
func (s *SQLiteStore) Read() (Record, error) {
	tok, err := s.get(keyToken)
	if err != nil {
		return Record{}, fmt.Errorf("read token: %w", err)
	}
	user, err := s.get(keyUser)
	if err != nil {
		return Record{}, fmt.Errorf("read user: %w", err)
	}
	return Record{Token: string(tok), User: user}, nil
}

// Write replaces both keys in one transaction.
func (s *SQLiteStore) Write(token string, user domain.User) (err error) {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback() //nolint:errcheck
		}
	}()

	now := time.Now().Unix()
	const upsert = `
		INSERT INTO session_kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err = tx.Exec(upsert, keyToken, []byte(token), now); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if _, err = tx.Exec(upsert, keyUser, data, now); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Clear deletes both keys.
func (s *SQLiteStore) Clear() error {
	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if _, err := s.db.Exec(`DELETE FROM session_kv WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}
