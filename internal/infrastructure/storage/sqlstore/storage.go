// Package sqlstore is the persistence gateway. It speaks database/sql to
// PostgreSQL through the pgx stdlib driver or to SQLite through go-sqlite3,
// and hands each repository operation a single pooled connection.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"

	"passvault/internal/app/server/config"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"

	sqliteParams = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
)

type Storage struct {
	db      *sql.DB
	dialect string
	log     *slog.Logger
}

func New(ctx context.Context, cfg config.DB, log *slog.Logger) (*Storage, error) {
	driver, dsn, dialect, err := ParseURI(cfg.DatabaseURI)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := NewWithDB(db, dialect, log)
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s.log.Info("storage opened", "dialect", dialect)
	return s, nil
}

// NewWithDB wraps an already opened pool.
func NewWithDB(db *sql.DB, dialect string, log *slog.Logger) *Storage {
	return &Storage{
		db:      db,
		dialect: dialect,
		log:     log.With("component", "storage"),
	}
}

// ParseURI turns DATABASE_URI into a driver name and DSN.
// postgres:// and postgresql:// go to pgx as is; sqlite3://<path> opens the
// file at path with foreign keys enforced.
func ParseURI(uri string) (driver, dsn, dialect string, err error) {
	switch {
	case strings.HasPrefix(uri, "postgres://"), strings.HasPrefix(uri, "postgresql://"):
		return "pgx", uri, DialectPostgres, nil
	case strings.HasPrefix(uri, "sqlite3://"):
		path := strings.TrimPrefix(uri, "sqlite3://")
		if path == "" {
			return "", "", "", fmt.Errorf("sqlite3 uri has no path")
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return "sqlite3", "file:" + path + sep + sqliteParams, DialectSQLite, nil
	default:
		return "", "", "", fmt.Errorf("unsupported database uri: %q", uri)
	}
}

// WithConn acquires one connection for the duration of fn and always
// returns it to the pool.
func (s *Storage) WithConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			s.log.Warn("failed to release connection", "error", cerr)
		}
	}()

	return fn(conn)
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (s *Storage) Dialect() string {
	return s.dialect
}

func (s *Storage) DB() *sql.DB {
	return s.db
}

func (s *Storage) Close() error {
	return s.db.Close()
}
