package migration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Blank imports register the database drivers for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"golang.org/x/exp/slog"

	"passvault/internal/app/server/config"
	"passvault/migrations"
)

// Migrator - интерфейс для самой библиотеки migrate.Migrate
type Migrator interface {
	Up() error
	Down() error
	Close() (error, error)
}

// MigrationEngine - фабрика для создания мигратора (чтобы не лезть в ФС и БД в тестах)
type MigrationEngine func(src source.Driver, databaseURL string) (Migrator, error)

type Migration struct {
	cfg    *config.Config
	engine MigrationEngine
	log    *slog.Logger
}

func NewMigration(conf *config.Config, engine MigrationEngine, log *slog.Logger) *Migration {
	return &Migration{
		cfg:    conf,
		engine: engine,
		log:    log.With("component", "migration"),
	}
}

// DefaultEngine - реальная реализация для продакшена
func DefaultEngine(src source.Driver, databaseURL string) (Migrator, error) {
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}

// SourceDir maps a database URI to the directory of embedded migrations
// written for its dialect.
func SourceDir(databaseURI string) (string, error) {
	switch {
	case strings.HasPrefix(databaseURI, "postgres://"), strings.HasPrefix(databaseURI, "postgresql://"):
		return "postgres", nil
	case strings.HasPrefix(databaseURI, "sqlite3://"):
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database uri scheme: %q", schemeOf(databaseURI))
	}
}

func (mg *Migration) Up() error {
	return mg.run("up", func(m Migrator) error { return m.Up() })
}

// Down reverts every applied migration.
func (mg *Migration) Down() error {
	return mg.run("down", func(m Migrator) error { return m.Down() })
}

func (mg *Migration) run(direction string, step func(Migrator) error) (err error) {
	dir, err := SourceDir(mg.cfg.DB.DatabaseURI)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := mg.engine(src, mg.cfg.DB.DatabaseURI)
	if err != nil {
		return err
	}
	defer func() {
		serr, dberr := m.Close()
		if serr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration source error: %v", err, serr)
			} else {
				err = serr
			}
		}
		if dberr != nil {
			if err != nil {
				err = fmt.Errorf("%w; migration database error: %v", err, dberr)
			} else {
				err = dberr
			}
		}
	}()

	if err := step(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.log.Info("schema is up to date", "direction", direction)
			return nil
		}
		return fmt.Errorf("migration %s error: %w", direction, err)
	}

	mg.log.Info("migrations applied", "direction", direction, "dialect", dir)
	return nil
}

func schemeOf(uri string) string {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i]
	}
	return ""
}
