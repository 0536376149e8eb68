// Package migrations applies the versioned SQL schema files.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migration is one SQL file, identified by the numeric prefix of its name
// ("001_init.sql" has version "001").
type Migration struct {
	Version string
	Name    string
	Path    string
}

// Migrator manages database migrations
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

const createTrackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(255) PRIMARY KEY,
	name VARCHAR(255) NOT NULL DEFAULT '',
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// Collect lists the .sql files of dir in version order. Two files sharing a
// version are rejected.
func Collect(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var migrations []Migration
	seen := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version := versionOf(e.Name())
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %s", prev, e.Name(), version)
		}
		seen[version] = e.Name()
		migrations = append(migrations, Migration{
			Version: version,
			Name:    e.Name(),
			Path:    filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

func versionOf(filename string) string {
	base := strings.TrimSuffix(filename, ".sql")
	if i := strings.IndexByte(base, '_'); i > 0 {
		return base[:i]
	}
	return base
}

func (m *Migrator) applied(ctx context.Context) (map[string]bool, error) {
	if _, err := m.db.Exec(ctx, createTrackingTable); err != nil {
		return nil, fmt.Errorf("failed to create migration tracking table: %w", err)
	}

	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to check migration status: %w", err)
	}

	done := make(map[string]bool, len(versions))
	for _, v := range versions {
		done[v] = true
	}
	return done, nil
}

// Pending returns the migrations of dir not yet recorded as applied
func (m *Migrator) Pending(ctx context.Context, dir string) ([]Migration, error) {
	all, err := Collect(dir)
	if err != nil {
		return nil, err
	}
	done, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range all {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// MigrateFromDirectory applies every pending migration of dir in order. Each
// file runs in its own transaction together with its tracking row.
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dir string) (int, error) {
	pending, err := m.Pending(ctx, dir)
	if err != nil {
		return 0, err
	}
	if len(pending) == 0 {
		m.logger.Info().Str("dir", dir).Msg("Schema is up to date")
		return 0, nil
	}

	for i, mig := range pending {
		if err := m.apply(ctx, mig); err != nil {
			return i, err
		}
	}
	return len(pending), nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	content, err := os.ReadFile(mig.Path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return errors.New("empty migration file " + mig.Name)
	}

	err = pgx.BeginFunc(ctx, m.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("error occurred during SQL migration %s: %w", mig.Name, err)
		}
		_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name)
		if err != nil {
			return fmt.Errorf("failed to record migration %s: %w", mig.Name, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info().Str("version", mig.Version).Str("file", mig.Name).Msg("Migration applied")
	return nil
}
