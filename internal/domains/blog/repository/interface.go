package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/blog/model"
)

type Repository interface {
	List(ctx context.Context, filter model.PostFilter) ([]model.Post, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*model.Post, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, p *model.Post) error
	Update(ctx context.Context, p *model.Post) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	SetCover(ctx context.Context, id uuid.UUID, key, url string) error
	SetCoverVariants(ctx context.Context, id uuid.UUID, variants map[string]string) error

	ListPublished(ctx context.Context, tag string, limit, offset int) ([]model.Post, int64, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*model.Post, error)

	// PurgeDeletedBefore hard deletes posts soft deleted before cutoff and
	// returns their ids so stored images can be removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
}
