package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Store persists admin accounts, game results, and contact submissions.
// It supports three backends: embedded SQLite (the default), PostgreSQL,
// and MySQL. All queries are written with ? placeholders and rebound for
// the active driver.
type Store struct {
	db *sqlx.DB
}

// Open connects to the database identified by driver ("sqlite", "postgres",
// or "mysql") and dsn, and runs migrations. For the sqlite driver an empty
// dsn opens an in-memory database; a plain directory path is treated as a
// data directory holding bigdeal.db.
func Open(driver, dsn string) (*Store, error) {
	var sqlxDriver string
	switch driver {
	case "sqlite", "":
		sqlxDriver = "sqlite"
		var err error
		if dsn, err = sqliteDSN(dsn); err != nil {
			return nil, err
		}
	case "postgres":
		sqlxDriver = "pgx"
	case "mysql":
		sqlxDriver = "mysql"
		// Timestamps scan into time.Time only with parseTime enabled.
		if !strings.Contains(dsn, "parseTime") {
			if strings.Contains(dsn, "?") {
				dsn += "&parseTime=true"
			} else {
				dsn += "?parseTime=true"
			}
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sqlx.Connect(sqlxDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if sqlxDriver == "sqlite" {
		db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

func sqliteDSN(path string) (string, error) {
	if path == "" {
		return ":memory:?_journal_mode=WAL", nil
	}
	// A .db path is used as-is; anything else is a data directory.
	if filepath.Ext(path) != ".db" {
		path = filepath.Join(path, "bigdeal.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000", nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
