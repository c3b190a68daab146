package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "en-US", cfg.App.DisplayLocale)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, "0 3 * * *", cfg.Jobs.PurgeCron)
	assert.Equal(t, 30, cfg.Jobs.RetentionDays)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("JWT_ACCESS_EXPIRY", "30m")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DB_MAX_RETRIES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, 5, cfg.Database.MaxRetries, "invalid ints fall back to the default")
}

func TestValidate_RejectsBadCron(t *testing.T) {
	t.Setenv("JOBS_PURGE_CRON", "every night")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JOBS_PURGE_CRON")
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	t.Setenv("DB_PASSWORD", "pw")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConfig_Conversions(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "re",
		SSLMode: "disable", MaxConns: 10, MinConns: 2,
	}

	assert.Equal(t, "postgres://u:p@db:5432/re?sslmode=disable", d.DSN())

	pc := d.DBConfig()
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, "re", pc.DBName)
}
