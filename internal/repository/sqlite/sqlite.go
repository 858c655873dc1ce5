// Package sqlite implements the repository interfaces on SQLite.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
//
// The package follows the standard database/sql pattern: sql.Open creates a
// connection pool, queries run through QueryRowContext/ExecContext with
// parameterized placeholders, and sql.ErrNoRows / constraint-violation codes
// are translated into domain errors at this layer so nothing above it ever
// sees driver details.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	// Registers the "sqlite" driver with database/sql; also provides the
	// driver error type inspected by isUniqueViolation.
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool. The repository interfaces are
// implemented by the views returned from Users and Favorites, which share
// this pool. It is created once at startup, injected into the services,
// and closed during graceful shutdown — never an ambient singleton.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/gitmark.db" → file-based, persistent
//   - ":memory:"        → in-memory, used by tests
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database exists per connection: with the default pool a
	// second connection would see an empty schema. Pin the pool to one
	// connection so tests against ":memory:" behave.
	if strings.Contains(dbPath, ":memory:") {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open doesn't actually connect; Ping forces the first connection so
	// a bad path or permissions problem surfaces now, not at the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight — the default
	// journal mode locks the whole file per write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; favorites.user_id
	// references users.id, so turn enforcement on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Flushes the WAL and releases the file
// lock, so it must run during shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent
// — safe to run on every startup.
func (db *DB) migrate() error {
	// Email is stored normalized (trimmed, lower-cased) by the service
	// layer; the UNIQUE constraint is what actually guarantees one account
	// per address, including under concurrent registration.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// UNIQUE(user_id, repo_id) — a user can't favorite the same repo twice,
	// but two users can favorite the same repo. The constraint (not an
	// application-level existence check) is the arbiter, so concurrent
	// inserts of the same pair can't race past each other.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id),
			repo_id     INTEGER NOT NULL,
			repo_name   TEXT NOT NULL,
			repo_url    TEXT NOT NULL,
			description TEXT,
			language    TEXT,
			stars_count INTEGER NOT NULL DEFAULT 0,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, repo_id)
		);
		CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. This is how the repositories detect "email taken" and "already
// favorited" — the driver error code, not string matching.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
