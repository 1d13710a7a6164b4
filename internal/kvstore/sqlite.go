// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EarnChallenge Contributors

package kvstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/oops"

	// Register the pure-Go sqlite driver.
	_ "modernc.org/sqlite"
)

// SQLiteStore is a file-backed Store using a single kv table.
// The driver is pure Go (modernc.org/sqlite) so the binary stays
// cgo-free and the database is an ordinary local file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database file at path.
// The schema must already be in place; see Migrator.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, oops.Code("STORE_OPEN_FAILED").With("path", path).Wrap(err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close() //nolint:errcheck // open error takes precedence
		return nil, oops.Code("STORE_OPEN_FAILED").With("path", path).Wrap(err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Get returns the value stored under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, oops.Code("STORE_READ_FAILED").With("key", key).Wrap(err)
	}
	return value, nil
}

// Set stores value under key, overwriting any existing value.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return oops.Code("STORE_WRITE_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

// Delete removes the value stored under key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return oops.Code("STORE_DELETE_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

// List returns all keys beginning with prefix in ascending order.
// The range scan uses the primary key index; 0xFF sorts after every
// byte that can appear in our ASCII key namespaces.
func (s *SQLiteStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv WHERE key >= ? AND key < ? ORDER BY key`,
		prefix, prefix+"\xff")
	if err != nil {
		return nil, oops.Code("STORE_LIST_FAILED").With("prefix", prefix).Wrap(err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, oops.Code("STORE_LIST_FAILED").With("prefix", prefix).Wrap(err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("STORE_LIST_FAILED").With("prefix", prefix).Wrap(err)
	}
	return keys, nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return oops.Code("STORE_CLOSE_FAILED").With("path", s.path).Wrap(err)
	}
	return nil
}
