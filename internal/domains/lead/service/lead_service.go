package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	clientmodel "realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/domains/lead/model"
	"realestate-backend/internal/domains/lead/repository"
	"realestate-backend/internal/infrastructure/queue"
	"realestate-backend/internal/shared"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/csvutil"
)

type LeadService struct {
	repo     repository.Repository
	enqueuer queue.Enqueuer
	maxRows  int
	now      func() time.Time
}

func NewLeadService(repo repository.Repository, enqueuer queue.Enqueuer, maxImportRows int) *LeadService {
	return &LeadService{repo: repo, enqueuer: enqueuer, maxRows: maxImportRows, now: time.Now}
}

var _ Service = (*LeadService)(nil)

func (s *LeadService) filter(req model.ListLeadsRequest) model.LeadFilter {
	f := model.LeadFilter{
		Search:   req.Search,
		Source:   req.Source,
		Priority: req.Priority,
		Status:   req.Status,
		Deleted:  utils.DeletedScope(req.Deleted),
		Sort:     req.Sort,
		Order:    req.Order,
	}
	if id, err := uuid.Parse(req.AssignedTo); err == nil {
		f.AssignedTo = &id
	}
	return f
}

func (s *LeadService) List(ctx context.Context, req model.ListLeadsRequest) ([]model.Lead, int64, utils.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, utils.Pagination{}, err
	}

	p := utils.NewPagination(req.Page, req.Limit)
	f := s.filter(req)
	f.Limit = p.Limit
	f.Offset = p.Offset()

	leads, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, p, err
	}
	return leads, total, p, nil
}

// Export returns every lead matching the filters, ignoring pagination.
func (s *LeadService) Export(ctx context.Context, req model.ListLeadsRequest) ([]model.Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	leads, _, err := s.repo.List(ctx, s.filter(req))
	return leads, err
}

func (s *LeadService) Get(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	return s.repo.FindByID(ctx, id, true)
}

func (s *LeadService) Create(ctx context.Context, req model.LeadRequest) (*model.Lead, error) {
	l, err := build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	log.Info().Str("lead_id", l.ID.String()).Str("source", l.Source).Msg("lead created")
	return l, nil
}

func (s *LeadService) Update(ctx context.Context, id uuid.UUID, req model.LeadRequest) (*model.Lead, error) {
	l, err := build(req)
	if err != nil {
		return nil, err
	}
	l.ID = id
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, false)
}

func build(req model.LeadRequest) (*model.Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.WithDefaults()

	l := &model.Lead{
		Name:             strings.TrimSpace(req.Name),
		Email:            utils.NullIfEmpty(strings.ToLower(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		Source:           req.Source,
		Priority:         req.Priority,
		Status:           req.Status,
		Budget:           req.Budget,
		PropertyInterest: utils.NullIfEmpty(req.PropertyInterest),
		Notes:            utils.NullIfEmpty(req.Notes),
	}
	if req.AssignedTo != "" {
		id, _ := uuid.Parse(req.AssignedTo)
		l.AssignedTo = &id
	}
	return l, nil
}

// Patch applies an inline edit as one single-row UPDATE.
func (s *LeadService) Patch(ctx context.Context, id uuid.UUID, req model.PatchLeadRequest) (*model.Lead, error) {
	if req.IsEmpty() {
		return nil, model.ErrEmptyPatch
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var changes []utils.Assignment
	if req.Priority != nil {
		changes = append(changes, utils.Assignment{Column: "priority", Value: *req.Priority})
	}
	if req.Status != nil {
		changes = append(changes, utils.Assignment{Column: "status", Value: *req.Status})
	}
	if req.AssignedTo != nil {
		var assignee *uuid.UUID
		if *req.AssignedTo != "" {
			id, _ := uuid.Parse(*req.AssignedTo)
			assignee = &id
		}
		changes = append(changes, utils.Assignment{Column: "assigned_to", Value: assignee})
	}
	if req.Notes != nil {
		changes = append(changes, utils.Assignment{Column: "notes", Value: utils.NullIfEmpty(*req.Notes)})
	}

	if err := s.repo.Patch(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, false)
}

func (s *LeadService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *LeadService) Restore(ctx context.Context, id uuid.UUID) (*model.Lead, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, false)
}

func (s *LeadService) Purge(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Purge(ctx, id); err != nil {
		return err
	}
	log.Info().Str("lead_id", id.String()).Msg("lead purged")
	return nil
}

// Convert creates (or revives) the client for a lead and soft deletes the
// lead, all in one transaction.
func (s *LeadService) Convert(ctx context.Context, id uuid.UUID, req model.ConvertLeadRequest) (*model.ConversionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	in := model.ConversionInput{
		ServiceType: req.ServiceType,
		FollowUp:    req.FollowUp,
		Status:      req.Status,
		Notes:       req.Notes,
		Now:         s.now().UTC(),
	}
	if in.ServiceType == "" {
		in.ServiceType = clientmodel.ServiceBuying
	}
	if in.FollowUp == "" {
		in.FollowUp = clientmodel.FollowUpMonthly
	}
	if in.Status == "" {
		in.Status = clientmodel.StatusActive
	}

	result, err := s.repo.Convert(ctx, id, in)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("lead_id", id.String()).
		Str("client_id", result.ClientID.String()).
		Bool("already_converted", result.AlreadyConverted).
		Msg("lead converted")
	return result, nil
}

func (s *LeadService) SubmitInquiry(ctx context.Context, req model.SubmitInquiryRequest) (*model.Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := &model.Lead{
		Name:             strings.TrimSpace(req.Name),
		Email:            utils.NullIfEmpty(strings.ToLower(req.Email)),
		Phone:            strings.TrimSpace(req.Phone),
		Source:           model.SourceWebsite,
		Priority:         model.PriorityWarm,
		Status:           model.StatusNew,
		PropertyInterest: utils.NullIfEmpty(req.PropertyInterest),
		Notes:            utils.NullIfEmpty(req.Message),
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	payload := shared.LeadInquiryPayload{
		LeadID:           l.ID.String(),
		Name:             l.Name,
		Email:            utils.Deref(l.Email),
		Phone:            l.Phone,
		Message:          strings.TrimSpace(req.Message),
		PropertyInterest: strings.TrimSpace(req.PropertyInterest),
		SubmittedAt:      s.now().UTC(),
	}
	if err := s.enqueuer.Enqueue(ctx, shared.TypeLeadInquiryEmail, payload); err != nil {
		log.Error().Err(err).Str("lead_id", l.ID.String()).Msg("failed to enqueue lead inquiry email")
	}

	log.Info().Str("lead_id", l.ID.String()).Msg("website inquiry received")
	return l, nil
}

// ========================================
// CSV IMPORT
// ========================================

// Import reads a CSV with at least name and phone columns. Invalid rows are
// reported and skipped; valid rows are inserted in one transaction.
func (s *LeadService) Import(ctx context.Context, src io.Reader) (*tabular.ImportResult, error) {
	table, err := csvutil.ReadAll(src, "name", "phone")
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && len(table.Rows) > s.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", tabular.ErrTooManyRows, len(table.Rows), s.maxRows)
	}

	result := &tabular.ImportResult{Total: len(table.Rows), Errors: []tabular.RowError{}}
	leads := make([]model.Lead, 0, len(table.Rows))

	for _, row := range table.Rows {
		l, field, msg := leadFromRow(table, row)
		if l == nil {
			result.Skip(row.Line, field, msg)
			continue
		}
		leads = append(leads, *l)
	}

	if len(leads) == 0 {
		return result, tabular.ErrNoValidRows
	}

	n, err := s.repo.BulkCreate(ctx, leads)
	if err != nil {
		return nil, err
	}
	result.Imported = n

	log.Info().Int("total", result.Total).Int("imported", n).Int("skipped", result.Skipped).Msg("leads imported")
	return result, nil
}

func leadFromRow(t *csvutil.Table, row csvutil.Row) (*model.Lead, string, string) {
	name := t.Get(row, "name")
	if name == "" {
		return nil, "name", "name is required"
	}
	phone := t.Get(row, "phone")
	if phone == "" {
		return nil, "phone", "phone is required"
	}

	email := strings.ToLower(t.Get(row, "email"))
	if email != "" {
		if err := is.EmailFormat.Validate(email); err != nil {
			return nil, "email", "invalid email"
		}
	}

	budget, err := utils.ParseOptionalDecimal(t.Get(row, "budget"))
	if err != nil {
		return nil, "budget", "budget is not a number"
	}

	req := model.LeadRequest{
		Name:             name,
		Email:            email,
		Phone:            phone,
		Source:           strings.ToLower(t.Get(row, "source")),
		Priority:         strings.ToLower(t.Get(row, "priority")),
		Status:           strings.ToLower(t.Get(row, "status")),
		Budget:           budget,
		PropertyInterest: t.Get(row, "property_interest"),
		Notes:            t.Get(row, "notes"),
	}

	l, err := build(req)
	if err != nil {
		return nil, "", err.Error()
	}
	return l, "", ""
}
