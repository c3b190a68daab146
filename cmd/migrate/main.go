package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"realestate-backend/internal/config"
	userModel "realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/infrastructure/database/migrate"
	"realestate-backend/migrations"
	"realestate-backend/pkg/logger"
)

const usage = "usage: migrate up|down|status|seed-admin"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, db, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("Migration command failed")
	}
}

func run(ctx context.Context, db *sql.DB, command string) error {
	if command == "seed-admin" {
		return seedAdmin(ctx, db)
	}

	runner, err := migrate.NewRunner(db, migrations.FS)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		applied, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("applied", len(applied)).Msg("Database is up to date")
	case "down":
		version, err := runner.Down(ctx)
		if errors.Is(err, migrate.ErrNothingToRollback) {
			log.Info().Msg("Nothing to roll back")
			return nil
		}
		if err != nil {
			return err
		}
		log.Info().Str("version", version).Msg("Rolled back")
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.AppliedAt != nil {
				state = "applied " + s.AppliedAt.UTC().Format(time.RFC3339)
			}
			fmt.Printf("%-40s %s\n", s.Version, state)
		}
	default:
		return fmt.Errorf("unknown command %q (%s)", command, usage)
	}
	return nil
}

// seedAdmin creates the first admin from SEED_ADMIN_EMAIL and
// SEED_ADMIN_PASSWORD. It is a no-op when the email is already taken.
func seedAdmin(ctx context.Context, db *sql.DB) error {
	req := userModel.CreateUserRequest{
		Email:    strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL"))),
		Password: os.Getenv("SEED_ADMIN_PASSWORD"),
		FullName: envOr("SEED_ADMIN_NAME", "Administrator"),
		Role:     userModel.RoleAdmin,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, full_name, role, is_active)
		SELECT $1, $2, $3, $4, TRUE
		WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL)`,
		req.Email, string(hash), req.FullName, req.Role,
	)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		log.Info().Str("email", req.Email).Msg("Admin already exists, skipping")
		return nil
	}
	log.Info().Str("email", req.Email).Msg("Admin created")
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
