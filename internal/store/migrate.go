package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// goose keeps its base FS, dialect and logger in package globals.
var gooseMu sync.Mutex

// MigrationStatus describes the schema version of a database.
type MigrationStatus struct {
	Current int64
	Latest  int64
	Pending int
}

// UpToDate reports whether every migration has been applied.
func (m MigrationStatus) UpToDate() bool {
	return m.Pending == 0
}

func (s *SQLStore) withGoose(fn func() error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{s.logger})
	if err := goose.SetDialect(s.dialect.Goose); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return fn()
}

// Migrate runs all pending database migrations.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if s.db == nil {
		return ErrNotOpen
	}
	return s.withGoose(func() error {
		if err := goose.UpContext(ctx, s.db, s.dialect.MigrationsDir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// MigrationStatus returns the applied and the latest available version.
func (s *SQLStore) MigrationStatus(ctx context.Context) (MigrationStatus, error) {
	if s.db == nil {
		return MigrationStatus{}, ErrNotOpen
	}
	var status MigrationStatus
	err := s.withGoose(func() error {
		current, err := goose.GetDBVersionContext(ctx, s.db)
		if err != nil {
			return fmt.Errorf("failed to get migration version: %w", err)
		}
		all, err := goose.CollectMigrations(s.dialect.MigrationsDir, 0, goose.MaxVersion)
		if err != nil {
			return fmt.Errorf("failed to collect migrations: %w", err)
		}

		status.Current = current
		for _, m := range all {
			if m.Version > status.Latest {
				status.Latest = m.Version
			}
			if m.Version > current {
				status.Pending++
			}
		}
		return nil
	})
	return status, err
}

// gooseLogger routes goose output to slog at debug level.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}
