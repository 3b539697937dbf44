// Package store persists non-patient application data in SQLite: user
// settings and the log of counselling requests sent to LLM providers.
// No assessment or patient data is ever written.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/rotisserie/eris"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the ent driver and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs the ent schema migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withConnPragmas(dsn))
	if err != nil {
		return nil, eris.Wrap(err, "open database")
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "apply pragmas")
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, eris.Wrap(err, "auto-migrate")
	}

	return &Store{db: db, drv: drv}, nil
}

// withConnPragmas adds the per-connection pragmas to dsn so every pooled
// connection gets them, not only the first.
func withConnPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Settings returns a SettingsRepo backed by this store.
func (s *Store) Settings() SettingsRepo {
	return &settingsRepo{drv: s.drv}
}

// Requests returns a RequestRepo backed by this store.
func (s *Store) Requests() RequestRepo {
	return &requestRepo{drv: s.drv}
}

// applyPragmas sets the pragmas that persist in the database file.
func applyPragmas(db *sql.DB) error {
	_, err := db.Exec("PRAGMA journal_mode = WAL")
	return eris.Wrap(err, "PRAGMA journal_mode")
}

// DefaultDBPath resolves the database file path in priority order:
// 1. IMCI_DB environment variable
// 2. $XDG_DATA_HOME/imci/imci.db
// 3. ~/.local/share/imci/imci.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("IMCI_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", eris.Wrap(err, "resolve home dir")
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "imci", "imci.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "create directory for %s", path)
	}
	return nil
}
