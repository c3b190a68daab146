package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	clientmodel "realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/domains/lead/model"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/database"
)

const leadColumns = `id, name, email, phone, source, priority, status, budget,
	property_interest, notes, assigned_to, converted_client_id,
	created_at, updated_at, deleted_at`

const insertLeadSQL = `
	INSERT INTO leads (
		name, email, phone, source, priority, status, budget,
		property_interest, notes, assigned_to
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING id, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanLead(row pgx.Row) (*model.Lead, error) {
	var l model.Lead
	err := row.Scan(
		&l.ID,
		&l.Name,
		&l.Email,
		&l.Phone,
		&l.Source,
		&l.Priority,
		&l.Status,
		&l.Budget,
		&l.PropertyInterest,
		&l.Notes,
		&l.AssignedTo,
		&l.ConvertedClientID,
		&l.CreatedAt,
		&l.UpdatedAt,
		&l.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func insertArgs(l *model.Lead) []any {
	return []any{
		l.Name, l.Email, l.Phone, l.Source, l.Priority, l.Status, l.Budget,
		l.PropertyInterest, l.Notes, l.AssignedTo,
	}
}

func buildWhere(f model.LeadFilter) *utils.WhereBuilder {
	wb := utils.NewWhereBuilder().AddDeletedScope(f.Deleted, "deleted_at")
	wb.AddSearch(f.Search, "name", "email", "phone")
	if f.Source != "" {
		wb.Add("source = ?", f.Source)
	}
	if f.Priority != "" {
		wb.Add("priority = ?", f.Priority)
	}
	if f.Status != "" {
		wb.Add("status = ?", f.Status)
	}
	if f.AssignedTo != nil {
		wb.Add("assigned_to = ?", *f.AssignedTo)
	}
	return wb
}

func (r *postgresRepository) List(ctx context.Context, f model.LeadFilter) ([]model.Lead, int64, error) {
	wb := buildWhere(f)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM leads `+wb.SQL(), wb.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	sortCol, ok := model.SortColumns[f.Sort]
	if !ok {
		sortCol = "created_at"
	}
	dir := utils.SortDirection(f.Order, "DESC")
	if f.Sort == "priority" {
		// hot first unless asked otherwise
		dir = utils.SortDirection(f.Order, "ASC")
	}
	query := fmt.Sprintf(`SELECT %s FROM leads %s ORDER BY %s %s NULLS LAST, created_at DESC, id`,
		leadColumns, wb.SQL(), sortCol, dir)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", wb.Arg(f.Limit), wb.Arg(f.Offset))
	}

	rows, err := r.pool.Query(ctx, query, wb.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	leads := make([]model.Lead, 0, f.Limit)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, total, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	l, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return l, nil
}

func (r *postgresRepository) Create(ctx context.Context, l *model.Lead) error {
	err := r.pool.QueryRow(ctx, insertLeadSQL, insertArgs(l)...).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrAssigneeMissing
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, l *model.Lead) error {
	query := `
		UPDATE leads
		SET name = $2, email = $3, phone = $4, source = $5, priority = $6,
		    status = $7, budget = $8, property_interest = $9, notes = $10,
		    assigned_to = $11, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		l.ID, l.Name, l.Email, l.Phone, l.Source, l.Priority, l.Status,
		l.Budget, l.PropertyInterest, l.Notes, l.AssignedTo,
	).Scan(&l.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return model.ErrLeadNotFound
		case database.IsForeignKeyViolation(err):
			return model.ErrAssigneeMissing
		}
		return fmt.Errorf("update lead: %w", err)
	}
	return nil
}

func (r *postgresRepository) Patch(ctx context.Context, id uuid.UUID, changes []utils.Assignment) error {
	query, args := utils.BuildUpdate("leads", id, changes)
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrAssigneeMissing
		}
		return fmt.Errorf("patch lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLeadNotFound
	}
	return nil
}

func (r *postgresRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLeadNotFound
	}
	return nil
}

func (r *postgresRepository) Restore(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE leads SET deleted_at = NULL, updated_at = NOW() WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("restore lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notDeletedOrMissing(ctx, id)
	}
	return nil
}

func (r *postgresRepository) Purge(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("purge lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notDeletedOrMissing(ctx, id)
	}
	return nil
}

func (r *postgresRepository) notDeletedOrMissing(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM leads WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check lead: %w", err)
	}
	if exists {
		return model.ErrLeadNotDeleted
	}
	return model.ErrLeadNotFound
}

func (r *postgresRepository) BulkCreate(ctx context.Context, leads []model.Lead) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range leads {
			batch.Queue(insertLeadSQL, insertArgs(&leads[i])...)
		}

		br := tx.SendBatch(ctx, batch)
		for i := range leads {
			if err := br.QueryRow().Scan(&leads[i].ID, &leads[i].CreatedAt, &leads[i].UpdatedAt); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert lead %d: %w", i+1, err)
			}
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return len(leads), nil
}

func (r *postgresRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge deleted leads: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ========================================
// CONVERSION
// ========================================

const upsertClientFromLeadSQL = `
	INSERT INTO clients (
		name, email, phone, service_type, follow_up, status, budget,
		notes, source_lead_id, last_contacted_at, next_follow_up_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (source_lead_id) DO UPDATE
	SET name = EXCLUDED.name,
	    email = EXCLUDED.email,
	    phone = EXCLUDED.phone,
	    budget = EXCLUDED.budget,
	    deleted_at = NULL,
	    updated_at = NOW()
	RETURNING id`

func (r *postgresRepository) Convert(ctx context.Context, id uuid.UUID, in model.ConversionInput) (*model.ConversionResult, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.ConversionResult, error) {
		lead, err := scanLead(tx.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrLeadNotFound
			}
			return nil, fmt.Errorf("lock lead: %w", err)
		}

		if lead.ConvertedClientID != nil {
			return &model.ConversionResult{LeadID: id, ClientID: *lead.ConvertedClientID, AlreadyConverted: true}, nil
		}
		if lead.DeletedAt != nil {
			return nil, model.ErrLeadDeleted
		}

		notes := in.Notes
		if notes == nil {
			notes = lead.Notes
		}
		next := clientmodel.NextFollowUp(in.FollowUp, in.Now)

		var clientID uuid.UUID
		err = tx.QueryRow(ctx, upsertClientFromLeadSQL,
			lead.Name, lead.Email, lead.Phone, in.ServiceType, in.FollowUp, in.Status,
			lead.Budget, notes, lead.ID, in.Now, next,
		).Scan(&clientID)
		if err != nil {
			return nil, fmt.Errorf("upsert client from lead: %w", err)
		}

		_, err = tx.Exec(ctx, `
			UPDATE leads
			SET status = $2, converted_client_id = $3, deleted_at = NOW(), updated_at = NOW()
			WHERE id = $1`, id, model.StatusConverted, clientID)
		if err != nil {
			return nil, fmt.Errorf("mark lead converted: %w", err)
		}

		return &model.ConversionResult{LeadID: id, ClientID: clientID}, nil
	})
}
