package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	MinIO     MinIOConfig
	Email     EmailConfig
	Jobs      JobsConfig
	Import    ImportConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	LogLevel       string
	DisplayLocale  string // locale used for display dates, e.g. en-US
	AdminStaticDir string // built back-office bundle (index.html, login.html)
	PublicBaseURL  string
	CORSOrigins    []string
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Database          string
	SSLMode           string
	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	MaxRetries        int
	RetryDelay        time.Duration
	ConnectTimeout    time.Duration
}

// DSN returns a libpq style URL, used by the migration runner.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode)
}

type RedisConfig struct {
	Host         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	CookieSecure       bool
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL objects are served from
}

type EmailConfig struct {
	SMTPHost string
	SMTPPort int
	Username string
	Password string
	From     string
	OpsInbox string // receives website inquiry notifications
	Enabled  bool
}

type JobsConfig struct {
	PurgeCron     string
	RetentionDays int
	Concurrency   int
	HealthPort    string // worker liveness endpoint
}

type ImportConfig struct {
	MaxRows      int
	MaxFileBytes int64
}

type RateLimitConfig struct {
	InquiryLimit  int
	InquiryWindow time.Duration
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Realestate API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("APP_PORT", "8080"),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			DisplayLocale:  getEnv("DISPLAY_LOCALE", "en-US"),
			AdminStaticDir: getEnv("ADMIN_STATIC_DIR", "./web/admin"),
			PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Database:          getEnv("DB_NAME", "realestate"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          getEnvInt("DB_MAX_CONNS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNS", 5),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),
			MaxRetries:        getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:        getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout:    getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  getEnvDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry: getEnvDuration("JWT_REFRESH_EXPIRY", 72*time.Hour),
			CookieSecure:       getEnvBool("JWT_COOKIE_SECURE", false),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "realestate"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		},
		Email: EmailConfig{
			SMTPHost: getEnv("SMTP_HOST", "localhost"),
			SMTPPort: getEnvInt("SMTP_PORT", 1025),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("EMAIL_FROM", "noreply@realestate.local"),
			OpsInbox: getEnv("EMAIL_OPS_INBOX", "sales@realestate.local"),
			Enabled:  getEnvBool("EMAIL_ENABLED", true),
		},
		Jobs: JobsConfig{
			PurgeCron:     getEnv("JOBS_PURGE_CRON", "0 3 * * *"),
			RetentionDays: getEnvInt("JOBS_RETENTION_DAYS", 30),
			Concurrency:   getEnvInt("WORKER_CONCURRENCY", 10),
			HealthPort:    getEnv("WORKER_HEALTH_PORT", "9999"),
		},
		Import: ImportConfig{
			MaxRows:      getEnvInt("IMPORT_MAX_ROWS", 5000),
			MaxFileBytes: int64(getEnvInt("IMPORT_MAX_FILE_BYTES", 2<<20)),
		},
		RateLimit: RateLimitConfig{
			InquiryLimit:  getEnvInt("RATE_LIMIT_INQUIRY", 5),
			InquiryWindow: getEnvDuration("RATE_LIMIT_INQUIRY_WINDOW", 10*time.Minute),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if _, err := cron.ParseStandard(c.Jobs.PurgeCron); err != nil {
		return fmt.Errorf("invalid JOBS_PURGE_CRON %q: %w", c.Jobs.PurgeCron, err)
	}
	if c.Jobs.RetentionDays < 1 {
		return fmt.Errorf("JOBS_RETENTION_DAYS must be at least 1")
	}
	if c.Import.MaxRows < 1 || c.Import.MaxFileBytes < 1 {
		return fmt.Errorf("IMPORT_MAX_ROWS and IMPORT_MAX_FILE_BYTES must be positive")
	}
	if c.RateLimit.InquiryLimit < 1 || c.RateLimit.InquiryWindow <= 0 {
		return fmt.Errorf("inquiry rate limit must be positive")
	}

	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
