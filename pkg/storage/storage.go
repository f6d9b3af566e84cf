package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/immodash/immodash/internal/utils"
	_ "modernc.org/sqlite"
)

// ErrUnknownKey is returned when writing a key outside of AllKeys.
var ErrUnknownKey = errors.New("unknown storage key")

type DB struct {
	sql  *sql.DB
	lock locker
	path string
}

// locker is the cross-process write lock; *utils.StoreLock in production.
type locker interface {
	Lock() error
	Unlock() error
}

// Open opens (and creates if needed) the SQLite store at path. An empty path
// resolves to the default location under the user's config directory.
func Open(path string) (*DB, error) {
	absPath, err := utils.GetAbsStorePath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create store directory: %w", err)
	}

	dsn := "file:" + absPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		db.Close()
		return nil, err
	}

	lock, err := utils.NewStoreLock(absPath)
	if err != nil {
		db.Close()
		return nil, err
	}
	utils.Log.Debugf("[storage] opened %s", absPath)
	return &DB{sql: db, lock: lock, path: absPath}, nil
}

// Path returns the absolute path of the underlying SQLite file.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// LoadRaw returns the blob stored under key. found is false when the key has
// never been written.
func (d *DB) LoadRaw(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// SaveRaw replaces the blob stored under key.
func (d *DB) SaveRaw(ctx context.Context, key string, value []byte) error {
	return d.SaveManyRaw(ctx, map[string][]byte{key: value})
}

// SaveManyRaw writes all values inside a single transaction, holding the
// cross-process store lock for its duration.
func (d *DB) SaveManyRaw(ctx context.Context, values map[string][]byte) (err error) {
	for key := range values {
		if !isKnownKey(key) {
			return fmt.Errorf("%w: %s", ErrUnknownKey, key)
		}
	}

	if err := d.lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if uerr := d.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for key, value := range values {
		_, err = tx.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, key, string(value))
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	utils.Log.Debugf("[storage] saved %d key(s)", len(values))
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (d *DB) Delete(ctx context.Context, key string) (err error) {
	if err := d.lock.Lock(); err != nil {
		return err
	}
	defer func() {
		if uerr := d.lock.Unlock(); uerr != nil && err == nil {
			err = uerr
		}
	}()

	_, err = d.sql.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// Keys lists the stored keys in order.
func (d *DB) Keys(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT key FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Stats returns the size and last update time of each stored key.
func (d *DB) Stats(ctx context.Context) ([]KeyStats, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT key, LENGTH(value), updated_at FROM kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []KeyStats
	for rows.Next() {
		var s KeyStats
		var updatedAt string
		if err := rows.Scan(&s.Key, &s.Bytes, &updatedAt); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format
		// Try "2006-01-02 15:04:05" then RFC3339
		if t, perr := time.Parse("2006-01-02 15:04:05", updatedAt); perr == nil {
			s.UpdatedAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, updatedAt); perr2 == nil {
			s.UpdatedAt = t2
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
