package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/domains/client/model"
	"realestate-backend/internal/shared/tabular"
	"realestate-backend/internal/shared/utils"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, req model.ListClientsRequest) ([]model.Client, int64, utils.Pagination, error) {
	args := m.Called(ctx, req)
	clients, _ := args.Get(0).([]model.Client)
	return clients, args.Get(1).(int64), args.Get(2).(utils.Pagination), args.Error(3)
}

func (m *mockService) Export(ctx context.Context, req model.ListClientsRequest) ([]model.Client, error) {
	args := m.Called(ctx, req)
	clients, _ := args.Get(0).([]model.Client)
	return clients, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *mockService) Create(ctx context.Context, req model.ClientRequest, locale string) (*model.Client, error) {
	args := m.Called(ctx, req, locale)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req model.ClientRequest, locale string) (*model.Client, error) {
	args := m.Called(ctx, id, req, locale)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *mockService) Patch(ctx context.Context, id uuid.UUID, req model.PatchClientRequest, locale string) (*model.Client, error) {
	args := m.Called(ctx, id, req, locale)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *mockService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) Restore(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Client)
	return c, args.Error(1)
}

func (m *mockService) Purge(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) Import(ctx context.Context, src io.Reader, locale string) (*tabular.ImportResult, error) {
	args := m.Called(ctx, src, locale)
	res, _ := args.Get(0).(*tabular.ImportResult)
	return res, args.Error(1)
}

func router(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewClientHandler(svc, "en-US", 1024)
	r := gin.New()
	r.GET("/clients/export", h.Export)
	r.POST("/clients/import", h.Import)
	r.PATCH("/clients/:id", h.Patch)
	r.DELETE("/clients/:id/purge", h.Purge)
	return r
}

func TestExportCSV(t *testing.T) {
	svc := new(mockService)
	notes := `said "call later", twice`
	svc.On("Export", mock.Anything, mock.Anything).Return([]model.Client{{
		Name: "Jane", Phone: "0901", ServiceType: model.ServiceBuying, FollowUp: model.FollowUpNone,
		Status: model.StatusActive, Notes: &notes, CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}}, nil)

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients/export?status=active", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	lines := strings.Split(w.Body.String(), "\r\n")
	assert.Equal(t, strings.Join(model.ExportColumns, ","), lines[0])
	assert.Equal(t, `Jane,,0901,buying,none,active,,,"said ""call later"", twice",,,2026-01-02`, lines[1])
}

func TestExport_BadFormat(t *testing.T) {
	w := httptest.NewRecorder()
	router(new(mockService)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clients/export?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImport_NoValidRows(t *testing.T) {
	svc := new(mockService)
	result := &tabular.ImportResult{Total: 1}
	result.Skip(2, "phone", "phone is required")
	svc.On("Import", mock.Anything, mock.Anything, "en-US").Return(result, tabular.ErrNoValidRows)

	req := httptest.NewRequest(http.MethodPost, "/clients/import", strings.NewReader("name,phone\nJane,\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"line":2`)
}

func TestPatch_NotFoundAndInvalidID(t *testing.T) {
	svc := new(mockService)
	id := uuid.New()
	svc.On("Patch", mock.Anything, id, mock.Anything, "en-US").Return(nil, model.ErrClientNotFound)

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/clients/"+id.String(), strings.NewReader(`{"status":"closed"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CLIENT_NOT_FOUND")

	w = httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/clients/42", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestPurge_ActiveRowConflict(t *testing.T) {
	svc := new(mockService)
	id := uuid.New()
	svc.On("Purge", mock.Anything, id).Return(model.ErrClientNotDeleted)

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/clients/"+id.String()+"/purge", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}
