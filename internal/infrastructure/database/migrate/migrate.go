package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	migrationTable = "schema_migrations"
	upMarker       = "-- +migrate Up"
	downMarker     = "-- +migrate Down"
)

// ErrNothingToRollback is returned by Down when no migration is applied.
var ErrNothingToRollback = errors.New("no applied migrations")

// Migration is one embedded .sql file split into its Up and Down sections.
type Migration struct {
	Version string
	Up      string
	Down    string
}

// Status reports whether a migration has been applied.
type Status struct {
	Version   string
	AppliedAt *time.Time
}

// Load reads every .sql file at the root of fsys, sorted by name.
func Load(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		up, down := SplitSections(string(content))
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(entry.Name(), ".sql"),
			Up:      up,
			Down:    down,
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// SplitSections returns the SQL under the Up and Down markers. A file
// without markers is treated as Up only.
func SplitSections(content string) (up, down string) {
	upIdx := strings.Index(content, upMarker)
	downIdx := strings.Index(content, downMarker)

	switch {
	case upIdx == -1 && downIdx == -1:
		return strings.TrimSpace(content), ""
	case downIdx == -1:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), ""
	case upIdx == -1:
		return strings.TrimSpace(content[:downIdx]), strings.TrimSpace(content[downIdx+len(downMarker):])
	case upIdx < downIdx:
		return strings.TrimSpace(content[upIdx+len(upMarker) : downIdx]), strings.TrimSpace(content[downIdx+len(downMarker):])
	default:
		return strings.TrimSpace(content[upIdx+len(upMarker):]), strings.TrimSpace(content[downIdx+len(downMarker) : upIdx])
	}
}

// Runner applies migrations against a database/sql connection.
type Runner struct {
	db         *sql.DB
	migrations []Migration
}

func NewRunner(db *sql.DB, fsys fs.FS) (*Runner, error) {
	migrations, err := Load(fsys)
	if err != nil {
		return nil, err
	}
	return &Runner{db: db, migrations: migrations}, nil
}

func (r *Runner) ensureTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+migrationTable+` (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func (r *Runner) applied(ctx context.Context) (map[string]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT version, applied_at FROM `+migrationTable)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var version string
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		out[version] = at
	}
	return out, rows.Err()
}

// Up applies every pending migration, each in its own transaction.
func (r *Runner) Up(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range r.migrations {
		if _, ok := done[m.Version]; ok {
			continue
		}
		if err := r.exec(ctx, m.Version, m.Up, `INSERT INTO `+migrationTable+` (version) VALUES ($1)`); err != nil {
			return applied, err
		}
		log.Info().Str("version", m.Version).Msg("[MIGRATE] Applied")
		applied = append(applied, m.Version)
	}
	return applied, nil
}

// Down reverts the most recently applied migration.
func (r *Runner) Down(ctx context.Context) (string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return "", err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return "", err
	}

	for i := len(r.migrations) - 1; i >= 0; i-- {
		m := r.migrations[i]
		if _, ok := done[m.Version]; !ok {
			continue
		}
		if err := r.exec(ctx, m.Version, m.Down, `DELETE FROM `+migrationTable+` WHERE version = $1`); err != nil {
			return "", err
		}
		log.Info().Str("version", m.Version).Msg("[MIGRATE] Reverted")
		return m.Version, nil
	}
	return "", ErrNothingToRollback
}

// Status lists every known migration with its applied time, if any.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	done, err := r.applied(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		s := Status{Version: m.Version}
		if at, ok := done[m.Version]; ok {
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *Runner) exec(ctx context.Context, version, body, record string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", version, err)
	}
	defer tx.Rollback()

	if strings.TrimSpace(body) != "" {
		if _, err := tx.ExecContext(ctx, body); err != nil {
			return fmt.Errorf("exec %s: %w", version, err)
		}
	}
	if _, err := tx.ExecContext(ctx, record, version); err != nil {
		return fmt.Errorf("record %s: %w", version, err)
	}
	return tx.Commit()
}
