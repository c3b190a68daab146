package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/blog/model"
	"realestate-backend/internal/shared/utils"
)

type Service interface {
	List(ctx context.Context, req model.ListPostsRequest) ([]model.Post, int64, utils.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Create(ctx context.Context, authorID uuid.UUID, req model.PostRequest) (*model.Post, error)
	Update(ctx context.Context, id uuid.UUID, req model.PostRequest) (*model.Post, error)
	Publish(ctx context.Context, id uuid.UUID) (*model.Post, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*model.Post, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*model.Post, error)
	UploadCover(ctx context.Context, id uuid.UUID, data []byte) (*model.Post, error)

	// ProcessCover renders the resized variants of an uploaded cover.
	ProcessCover(ctx context.Context, id uuid.UUID, originalKey string) error

	ListPublished(ctx context.Context, req model.ListPublishedRequest, locale string) (*model.PublicPage, utils.Pagination, error)
	GetPublishedBySlug(ctx context.Context, slug, locale string) (*model.PublicPostView, error)

	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// ImageProcessor is implemented by storage.ImageProcessor.
type ImageProcessor interface {
	ValidateImage(data []byte) error
	ToJPEG(data []byte) ([]byte, error)
	ProcessImage(data []byte) (map[string][]byte, error)
}
