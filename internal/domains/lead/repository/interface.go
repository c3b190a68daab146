package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/lead/model"
	"realestate-backend/internal/shared/utils"
)

type Repository interface {
	List(ctx context.Context, filter model.LeadFilter) ([]model.Lead, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Lead, error)
	Create(ctx context.Context, l *model.Lead) error
	Update(ctx context.Context, l *model.Lead) error
	Patch(ctx context.Context, id uuid.UUID, changes []utils.Assignment) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	BulkCreate(ctx context.Context, leads []model.Lead) (int, error)
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Convert turns the lead into a client in one transaction. Converting
	// an already converted lead returns the existing client.
	Convert(ctx context.Context, id uuid.UUID, in model.ConversionInput) (*model.ConversionResult, error)
}
