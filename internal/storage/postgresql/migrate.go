package postgresql

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrator применяет встроенные SQL-миграции через отдельное database/sql соединение.
type Migrator struct {
	db  *sqlx.DB
	m   *migrate.Migrate
	log *slog.Logger
}

func NewMigrator(dsn string, log *slog.Logger) (*Migrator, error) {
	const op = "storage.postgresql.NewMigrator"

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	driver, err := postgres.WithInstance(db.DB, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: driver: %w", op, err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: source: %w", op, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Migrator{db: db, m: m, log: log}, nil
}

func (m *Migrator) Up() error {
	const op = "storage.postgresql.Migrator.Up"

	start := time.Now()

	err := m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("migrations: database is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.log.Info("migrations applied", slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}

func (m *Migrator) Down(steps int) error {
	const op = "storage.postgresql.Migrator.Down"

	if err := m.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Migrator) Version() (uint, bool, error) {
	v, dirty, err := m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	if err := m.db.Close(); err != nil && dbErr == nil {
		dbErr = err
	}
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
