// internal/state/sqlite.go
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/tddguard/internal/types"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore keeps all slots as rows of a single table in a SQLite
// database under the data directory.
type SQLiteStore struct {
	db *sql.DB
}

// dsn sets pragmas on every connection and starts transactions with
// BEGIN IMMEDIATE, so a writer in another process makes Update wait on
// busy_timeout instead of failing with SQLITE_BUSY on lock upgrade.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// OpenSQLiteStore opens (and migrates) slots.db in dir.
func OpenSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := openDB("sqlite", dsn(filepath.Join(dir, "slots.db")))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS slots (
			name       TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func upsert(ctx context.Context, db execer, slot types.Slot, content string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO slots (name, content, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		string(slot), content, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", slot, err)
	}
	return nil
}

func selectSlot(ctx context.Context, db queryer, slot types.Slot) (string, bool, error) {
	var content string
	err := db.QueryRowContext(ctx, `SELECT content FROM slots WHERE name = ?`, string(slot)).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", slot, err)
	}
	return content, true, nil
}

func (s *SQLiteStore) Save(ctx context.Context, slot types.Slot, content string) error {
	if !slot.Valid() {
		return fmt.Errorf("unknown slot: %s", slot)
	}
	return upsert(ctx, s.db, slot, content)
}

func (s *SQLiteStore) Get(ctx context.Context, slot types.Slot) (string, bool, error) {
	if !slot.Valid() {
		return "", false, fmt.Errorf("unknown slot: %s", slot)
	}
	return selectSlot(ctx, s.db, slot)
}

func (s *SQLiteStore) ClearTransient(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, slot := range types.TransientSlots {
		if _, err := tx.ExecContext(ctx, `DELETE FROM slots WHERE name = ?`, string(slot)); err != nil {
			return fmt.Errorf("clear %s: %w", slot, err)
		}
	}
	return tx.Commit()
}

// Update runs fn inside a transaction.
func (s *SQLiteStore) Update(ctx context.Context, slot types.Slot, fn func(current string, ok bool) (string, error)) error {
	if !slot.Valid() {
		return fmt.Errorf("unknown slot: %s", slot)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, ok, err := selectSlot(ctx, tx, slot)
	if err != nil {
		return err
	}
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	if err := upsert(ctx, tx, slot, next); err != nil {
		return err
	}
	return tx.Commit()
}
