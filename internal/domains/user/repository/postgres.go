package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/database"
)

const userColumns = `id, email, password_hash, full_name, phone, role, is_active,
	last_login_at, created_at, updated_at, deleted_at`

var userSortColumns = map[string]string{
	"email":         "email",
	"full_name":     "full_name",
	"created_at":    "created_at",
	"last_login_at": "last_login_at",
}

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.Phone,
		&u.Role,
		&u.IsActive,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *postgresRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (email, password_hash, full_name, phone, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.FullName,
		u.Phone,
		u.Role,
		u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	u, err := scanUser(r.pool.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.UserFilter) ([]model.User, int64, error) {
	wb := utils.NewWhereBuilder().Add("deleted_at IS NULL")
	if filter.Role != "" {
		wb.Add("role = ?", filter.Role)
	}
	if filter.IsActive != nil {
		wb.Add("is_active = ?", *filter.IsActive)
	}
	wb.AddSearch(filter.Search, "email", "full_name")

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users `+wb.SQL(), wb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	sortCol, ok := userSortColumns[filter.Sort]
	if !ok {
		sortCol = "created_at"
	}
	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY %s %s NULLS LAST, id LIMIT %s OFFSET %s`,
		userColumns, wb.SQL(), sortCol, utils.SortDirection(filter.Order, "DESC"),
		wb.Arg(filter.Limit), wb.Arg(filter.Offset))

	rows, err := r.pool.Query(ctx, query, wb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0, filter.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// exec runs an UPDATE on a single live user and maps zero rows to ErrUserNotFound.
func (r *postgresRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, fullName, phone *string) error {
	return r.exec(ctx, "update profile", `
		UPDATE users
		SET full_name = COALESCE($2, full_name),
		    phone = COALESCE($3, phone),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, fullName, phone)
}

func (r *postgresRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.exec(ctx, "update password",
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, passwordHash)
}

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.exec(ctx, "update last login",
		`UPDATE users SET last_login_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
}

func (r *postgresRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.exec(ctx, "update role",
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id, role)
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, active bool) error {
	return r.exec(ctx, "update status",
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id, active)
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, "soft delete user",
		`UPDATE users SET deleted_at = NOW(), is_active = FALSE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *postgresRepository) GetRoleStatus(ctx context.Context, id uuid.UUID) (string, bool, error) {
	var (
		role   string
		active bool
	)
	err := r.pool.QueryRow(ctx,
		`SELECT role, is_active FROM users WHERE id = $1 AND deleted_at IS NULL`, id,
	).Scan(&role, &active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, middleware.ErrPrincipalNotFound
		}
		return "", false, fmt.Errorf("get role status: %w", err)
	}
	return role, active, nil
}
