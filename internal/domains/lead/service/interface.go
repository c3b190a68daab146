package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"realestate-backend/internal/domains/lead/model"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
)

type Service interface {
	List(ctx context.Context, req model.ListLeadsRequest) ([]model.Lead, int64, utils.Pagination, error)
	Export(ctx context.Context, req model.ListLeadsRequest) ([]model.Lead, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	Create(ctx context.Context, req model.LeadRequest) (*model.Lead, error)
	Update(ctx context.Context, id uuid.UUID, req model.LeadRequest) (*model.Lead, error)
	Patch(ctx context.Context, id uuid.UUID, req model.PatchLeadRequest) (*model.Lead, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*model.Lead, error)
	Purge(ctx context.Context, id uuid.UUID) error
	Import(ctx context.Context, src io.Reader) (*tabular.ImportResult, error)
	Convert(ctx context.Context, id uuid.UUID, req model.ConvertLeadRequest) (*model.ConversionResult, error)

	// SubmitInquiry stores a website contact form as a new lead.
	SubmitInquiry(ctx context.Context, req model.SubmitInquiryRequest) (*model.Lead, error)
}
