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

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/domains/client/repository"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
	"realestate-backend/pkg/csvutil"
)

type ClientService struct {
	repo    repository.Repository
	maxRows int
	now     func() time.Time
}

func NewClientService(repo repository.Repository, maxImportRows int) *ClientService {
	return &ClientService{repo: repo, maxRows: maxImportRows, now: time.Now}
}

var _ Service = (*ClientService)(nil)

func (s *ClientService) filter(req model.ListClientsRequest) model.ClientFilter {
	return model.ClientFilter{
		Search:      req.Search,
		ServiceType: req.ServiceType,
		Status:      req.Status,
		FollowUp:    req.FollowUp,
		DueOnly:     req.DueOnly,
		DueBefore:   s.now(),
		Deleted:     utils.DeletedScope(req.Deleted),
		Sort:        req.Sort,
		Order:       req.Order,
	}
}

func (s *ClientService) List(ctx context.Context, req model.ListClientsRequest) ([]model.Client, int64, utils.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, utils.Pagination{}, err
	}

	p := utils.NewPagination(req.Page, req.Limit)
	f := s.filter(req)
	f.Limit = p.Limit
	f.Offset = p.Offset()

	clients, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, p, err
	}
	return clients, total, p, nil
}

// Export returns every client matching the filters, ignoring pagination.
func (s *ClientService) Export(ctx context.Context, req model.ListClientsRequest) ([]model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	clients, _, err := s.repo.List(ctx, s.filter(req))
	return clients, err
}

func (s *ClientService) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return s.repo.FindByID(ctx, id, true)
}

func (s *ClientService) Create(ctx context.Context, req model.ClientRequest, locale string) (*model.Client, error) {
	c, err := s.build(req, locale)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Info().Str("client_id", c.ID.String()).Msg("client created")
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, id uuid.UUID, req model.ClientRequest, locale string) (*model.Client, error) {
	c, err := s.build(req, locale)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, false)
}

func (s *ClientService) build(req model.ClientRequest, locale string) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req = req.WithDefaults()

	lastContacted, err := parseContactDate(req.LastContactedAt, locale)
	if err != nil {
		return nil, err
	}

	c := &model.Client{
		Name:            strings.TrimSpace(req.Name),
		Email:           utils.NullIfEmpty(strings.ToLower(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		ServiceType:     req.ServiceType,
		FollowUp:        req.FollowUp,
		Status:          req.Status,
		Budget:          req.Budget,
		Address:         utils.NullIfEmpty(req.Address),
		Notes:           utils.NullIfEmpty(req.Notes),
		LastContactedAt: lastContacted,
	}
	c.NextFollowUpAt = model.NextFollowUp(c.FollowUp, s.followUpBase(lastContacted))
	return c, nil
}

// Patch applies an inline edit as a single-row UPDATE. Changing the cadence
// or the last contact date recomputes next_follow_up_at.
func (s *ClientService) Patch(ctx context.Context, id uuid.UUID, req model.PatchClientRequest, locale string) (*model.Client, error) {
	if req.IsEmpty() {
		return nil, model.ErrEmptyPatch
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var changes []utils.Assignment
	if req.Status != nil {
		changes = append(changes, utils.Assignment{Column: "status", Value: *req.Status})
	}
	if req.ServiceType != nil {
		changes = append(changes, utils.Assignment{Column: "service_type", Value: *req.ServiceType})
	}
	if req.Notes != nil {
		changes = append(changes, utils.Assignment{Column: "notes", Value: utils.NullIfEmpty(*req.Notes)})
	}

	if req.FollowUp != nil || req.LastContactedAt != nil {
		current, err := s.repo.FindByID(ctx, id, false)
		if err != nil {
			return nil, err
		}

		cadence := current.FollowUp
		if req.FollowUp != nil {
			cadence = *req.FollowUp
			changes = append(changes, utils.Assignment{Column: "follow_up", Value: cadence})
		}

		lastContacted := current.LastContactedAt
		if req.LastContactedAt != nil {
			lastContacted, err = parseContactDate(*req.LastContactedAt, locale)
			if err != nil {
				return nil, err
			}
			changes = append(changes, utils.Assignment{Column: "last_contacted_at", Value: lastContacted})
		}

		next := model.NextFollowUp(cadence, s.followUpBase(lastContacted))
		changes = append(changes, utils.Assignment{Column: "next_follow_up_at", Value: next})
	}

	if err := s.repo.Patch(ctx, id, changes); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, false)
}

func (s *ClientService) followUpBase(lastContacted *time.Time) time.Time {
	if lastContacted != nil {
		return *lastContacted
	}
	return s.now().UTC()
}

func (s *ClientService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *ClientService) Restore(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	if err := s.repo.Restore(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id, false)
}

func (s *ClientService) Purge(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Purge(ctx, id); err != nil {
		return err
	}
	log.Info().Str("client_id", id.String()).Msg("client purged")
	return nil
}

// ========================================
// CSV IMPORT
// ========================================

// Import reads a CSV with at least name and phone columns. Invalid rows are
// reported and skipped; valid rows are inserted in one transaction.
func (s *ClientService) Import(ctx context.Context, src io.Reader, locale string) (*tabular.ImportResult, error) {
	table, err := csvutil.ReadAll(src, "name", "phone")
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && len(table.Rows) > s.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", tabular.ErrTooManyRows, len(table.Rows), s.maxRows)
	}

	result := &tabular.ImportResult{Total: len(table.Rows), Errors: []tabular.RowError{}}
	clients := make([]model.Client, 0, len(table.Rows))

	for _, row := range table.Rows {
		c, field, msg := s.clientFromRow(table, row, locale)
		if c == nil {
			result.Skip(row.Line, field, msg)
			continue
		}
		clients = append(clients, *c)
	}

	if len(clients) == 0 {
		return result, tabular.ErrNoValidRows
	}

	n, err := s.repo.BulkCreate(ctx, clients)
	if err != nil {
		return nil, err
	}
	result.Imported = n

	log.Info().Int("total", result.Total).Int("imported", n).Int("skipped", result.Skipped).Msg("clients imported")
	return result, nil
}

// clientFromRow maps one CSV row; on failure it returns the offending field
// and a message.
func (s *ClientService) clientFromRow(t *csvutil.Table, row csvutil.Row, locale string) (*model.Client, string, string) {
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

	req := model.ClientRequest{
		Name:        name,
		Email:       email,
		Phone:       phone,
		ServiceType: strings.ToLower(t.Get(row, "service_type")),
		FollowUp:    strings.ToLower(t.Get(row, "follow_up")),
		Status:      strings.ToLower(t.Get(row, "status")),
		Address:     t.Get(row, "address"),
		Notes:       t.Get(row, "notes"),
	}

	budget, err := utils.ParseOptionalDecimal(t.Get(row, "budget"))
	if err != nil {
		return nil, "budget", "budget is not a number"
	}
	req.Budget = budget

	if v := t.Get(row, "last_contacted_at"); v != "" {
		if _, err := parseContactDate(v, locale); err != nil {
			return nil, "last_contacted_at", "invalid date"
		}
		req.LastContactedAt = v
	}

	c, err := s.build(req, locale)
	if err != nil {
		return nil, "", err.Error()
	}
	return c, "", ""
}

// parseContactDate accepts ISO dates/timestamps or a date in the display
// format of locale. Blank means nil.
func parseContactDate(s, locale string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, ok := utils.ParseISO(s); ok {
		t = t.UTC()
		return &t, nil
	}
	if iso, ok := utils.ParseDisplayDate(s, locale); ok {
		t, _ := time.Parse("2006-01-02", iso)
		return &t, nil
	}
	return nil, model.ErrInvalidDate
}
