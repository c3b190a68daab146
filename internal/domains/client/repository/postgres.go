package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/database"
)

const clientColumns = `id, name, email, phone, service_type, follow_up, status, budget,
	address, notes, source_lead_id, last_contacted_at, next_follow_up_at,
	created_at, updated_at, deleted_at`

const insertClientSQL = `
	INSERT INTO clients (
		name, email, phone, service_type, follow_up, status, budget,
		address, notes, last_contacted_at, next_follow_up_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING id, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.ServiceType,
		&c.FollowUp,
		&c.Status,
		&c.Budget,
		&c.Address,
		&c.Notes,
		&c.SourceLeadID,
		&c.LastContactedAt,
		&c.NextFollowUpAt,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func insertArgs(c *model.Client) []any {
	return []any{
		c.Name, c.Email, c.Phone, c.ServiceType, c.FollowUp, c.Status, c.Budget,
		c.Address, c.Notes, c.LastContactedAt, c.NextFollowUpAt,
	}
}

func buildWhere(f model.ClientFilter) *utils.WhereBuilder {
	wb := utils.NewWhereBuilder().AddDeletedScope(f.Deleted, "deleted_at")
	wb.AddSearch(f.Search, "name", "email", "phone")
	if f.ServiceType != "" {
		wb.Add("service_type = ?", f.ServiceType)
	}
	if f.Status != "" {
		wb.Add("status = ?", f.Status)
	}
	if f.FollowUp != "" {
		wb.Add("follow_up = ?", f.FollowUp)
	}
	if f.DueOnly {
		wb.Add("next_follow_up_at <= ?", f.DueBefore)
	}
	return wb
}

func (r *postgresRepository) List(ctx context.Context, f model.ClientFilter) ([]model.Client, int64, error) {
	wb := buildWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients `+wb.SQL(), wb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	sortCol, ok := model.SortColumns[f.Sort]
	if !ok {
		sortCol = "created_at"
	}
	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY %s %s NULLS LAST, id`,
		clientColumns, wb.SQL(), sortCol, utils.SortDirection(f.Order, "DESC"))
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", wb.Arg(f.Limit), wb.Arg(f.Offset))
	}

	rows, err := r.pool.Query(ctx, query, wb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]model.Client, 0, f.Limit)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, total, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	c, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrClientNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return c, nil
}

func (r *postgresRepository) Create(ctx context.Context, c *model.Client) error {
	err := r.pool.QueryRow(ctx, insertClientSQL, insertArgs(c)...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Client) error {
	query := `
		UPDATE clients
		SET name = $2, email = $3, phone = $4, service_type = $5, follow_up = $6,
		    status = $7, budget = $8, address = $9, notes = $10,
		    last_contacted_at = $11, next_follow_up_at = $12, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		c.ID, c.Name, c.Email, c.Phone, c.ServiceType, c.FollowUp, c.Status,
		c.Budget, c.Address, c.Notes, c.LastContactedAt, c.NextFollowUpAt,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrClientNotFound
		}
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

func (r *postgresRepository) Patch(ctx context.Context, id uuid.UUID, changes []utils.Assignment) error {
	query, args := utils.BuildUpdate("clients", id, changes)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patch client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrClientNotFound
	}
	return nil
}

func (r *postgresRepository) Restore(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("restore client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notDeletedOrMissing(ctx, id)
	}
	return nil
}

func (r *postgresRepository) Purge(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("purge client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notDeletedOrMissing(ctx, id)
	}
	return nil
}

// notDeletedOrMissing explains why a restore/purge matched no row.
func (r *postgresRepository) notDeletedOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check client: %w", err)
	}
	if exists {
		return model.ErrClientNotDeleted
	}
	return model.ErrClientNotFound
}

func (r *postgresRepository) BulkCreate(ctx context.Context, clients []model.Client) (int, error) {
	if len(clients) == 0 {
		return 0, nil
	}

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range clients {
			batch.Queue(insertClientSQL, insertArgs(&clients[i])...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range clients {
			if err := br.QueryRow().Scan(&clients[i].ID, &clients[i].CreatedAt, &clients[i].UpdatedAt); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert client %d: %w", i+1, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return len(clients), nil
}

func (r *postgresRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge deleted clients: %w", err)
	}
	return tag.RowsAffected(), nil
}
