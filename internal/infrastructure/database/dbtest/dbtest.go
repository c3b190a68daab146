// Package dbtest gives repository tests a migrated Postgres schema of their
// own. Tests skip when TEST_DATABASE_URL is unset.
package dbtest

import (
	"context"
	"database/sql"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/infrastructure/database/migrate"
	"realestate-backend/migrations"
)

const EnvURL = "TEST_DATABASE_URL"

// NewPool creates a fresh schema, applies every migration to it and returns
// a pool whose search_path points at it. The schema is dropped on cleanup,
// so packages running in parallel never see each other's rows.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	base := os.Getenv(EnvURL)
	if base == "" {
		t.Skipf("%s not set, skipping Postgres test", EnvURL)
	}

	ctx := context.Background()
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]

	admin, err := sql.Open("postgres", base)
	require.NoError(t, err)
	t.Cleanup(func() { _ = admin.Close() })

	_, err = admin.ExecContext(ctx, `CREATE SCHEMA `+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.ExecContext(context.Background(), `DROP SCHEMA IF EXISTS `+schema+` CASCADE`)
	})

	db, err := sql.Open("postgres", withSearchPath(base, schema))
	require.NoError(t, err)
	defer db.Close()

	runner, err := migrate.NewRunner(db, migrations.FS)
	require.NoError(t, err)
	_, err = runner.Up(ctx)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(base)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// withSearchPath accepts both URL and key=value connection strings.
func withSearchPath(dsn, schema string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err == nil {
			q := u.Query()
			q.Set("search_path", schema)
			u.RawQuery = q.Encode()
			return u.String()
		}
	}
	return dsn + " search_path=" + schema
}
