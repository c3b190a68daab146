package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/shared/utils"
)

type Repository interface {
	List(ctx context.Context, filter model.ClientFilter) ([]model.Client, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Client, error)
	Create(ctx context.Context, c *model.Client) error
	Update(ctx context.Context, c *model.Client) error
	Patch(ctx context.Context, id uuid.UUID, changes []utils.Assignment) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error

	// BulkCreate inserts all clients in one transaction.
	BulkCreate(ctx context.Context, clients []model.Client) (int, error)

	// PurgeDeletedBefore hard deletes rows soft deleted before cutoff.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
