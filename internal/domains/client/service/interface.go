package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
)

type Service interface {
	List(ctx context.Context, req model.ListClientsRequest) ([]model.Client, int64, utils.Pagination, error)
	Export(ctx context.Context, req model.ListClientsRequest) ([]model.Client, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Client, error)
	Create(ctx context.Context, req model.ClientRequest, locale string) (*model.Client, error)
	Update(ctx context.Context, id uuid.UUID, req model.ClientRequest, locale string) (*model.Client, error)
	Patch(ctx context.Context, id uuid.UUID, req model.PatchClientRequest, locale string) (*model.Client, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*model.Client, error)
	Purge(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, src io.Reader, locale string) (*tabular.ImportResult, error)
}
