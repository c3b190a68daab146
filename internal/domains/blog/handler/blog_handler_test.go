package handler

import (
	"bytes"
	"context"
	"mime/multipart"
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

	"realestate-backend/internal/domains/blog/model"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/internal/shared/utils"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, req model.ListPostsRequest) ([]model.Post, int64, utils.Pagination, error) {
	args := m.Called(ctx, req)
	posts, _ := args.Get(0).([]model.Post)
	return posts, args.Get(1).(int64), args.Get(2).(utils.Pagination), args.Error(3)
}

func (m *mockService) post(args mock.Arguments) (*model.Post, error) {
	p, _ := args.Get(0).(*model.Post)
	return p, args.Error(1)
}

func (m *mockService) Get(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *mockService) Create(ctx context.Context, authorID uuid.UUID, req model.PostRequest) (*model.Post, error) {
	return m.post(m.Called(ctx, authorID, req))
}

func (m *mockService) Update(ctx context.Context, id uuid.UUID, req model.PostRequest) (*model.Post, error) {
	return m.post(m.Called(ctx, id, req))
}

func (m *mockService) Publish(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *mockService) Unpublish(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *mockService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) Restore(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *mockService) UploadCover(ctx context.Context, id uuid.UUID, data []byte) (*model.Post, error) {
	return m.post(m.Called(ctx, id, data))
}

func (m *mockService) ProcessCover(ctx context.Context, id uuid.UUID, originalKey string) error {
	return m.Called(ctx, id, originalKey).Error(0)
}

func (m *mockService) ListPublished(ctx context.Context, req model.ListPublishedRequest, locale string) (*model.PublicPage, utils.Pagination, error) {
	args := m.Called(ctx, req, locale)
	page, _ := args.Get(0).(*model.PublicPage)
	return page, args.Get(1).(utils.Pagination), args.Error(2)
}

func (m *mockService) GetPublishedBySlug(ctx context.Context, slug, locale string) (*model.PublicPostView, error) {
	args := m.Called(ctx, slug, locale)
	v, _ := args.Get(0).(*model.PublicPostView)
	return v, args.Error(1)
}

func (m *mockService) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func router(svc *mockService, userID *uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBlogHandler(svc, "en-US")
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != nil {
			c.Set(middleware.ContextUserID, *userID)
		}
	})
	r.POST("/posts", h.Create)
	r.POST("/posts/:id/cover", h.UploadCover)
	r.GET("/public/blog", h.ListPublished)
	r.GET("/public/blog/:slug", h.GetBySlug)
	return r
}

func TestCreate_RequiresAuthor(t *testing.T) {
	w := httptest.NewRecorder()
	router(new(mockService), nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreate(t *testing.T) {
	svc := new(mockService)
	author := uuid.New()
	req := model.PostRequest{Title: "Hello", Content: "body"}
	svc.On("Create", mock.Anything, author, req).Return(&model.Post{ID: uuid.New(), Title: "Hello", Slug: "hello"}, nil)

	w := httptest.NewRecorder()
	router(svc, &author).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader(`{"title":"Hello","content":"body"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"hello"`)
	assert.Contains(t, w.Body.String(), `"tags":[]`)
}

func TestUploadCover(t *testing.T) {
	svc := new(mockService)
	id := uuid.New()
	svc.On("UploadCover", mock.Anything, id, []byte("img")).Return(nil, model.ErrInvalidImage)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "cover.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("img"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts/"+id.String()+"/cover", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router(svc, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_IMAGE")

	req = httptest.NewRequest(http.MethodPost, "/posts/"+id.String()+"/cover", strings.NewReader("raw"))
	req.Header.Set("Content-Type", "image/png")
	w = httptest.NewRecorder()
	router(svc, nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "NO_FILE")
}

func TestPublicRoutes(t *testing.T) {
	svc := new(mockService)
	svc.On("ListPublished", mock.Anything, model.ListPublishedRequest{Tag: "market", Page: 2}, "de-DE").
		Return(&model.PublicPage{Posts: []model.PublicPostView{{Slug: "a"}}, Total: 21}, utils.NewPagination(2, 20), nil)
	svc.On("GetPublishedBySlug", mock.Anything, "gone", "en-US").Return(nil, model.ErrPostNotFound)

	w := httptest.NewRecorder()
	router(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/blog?tag=market&page=2&locale=de-DE", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPages":2`)

	w = httptest.NewRecorder()
	router(svc, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/public/blog/gone", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "POST_NOT_FOUND")
}
