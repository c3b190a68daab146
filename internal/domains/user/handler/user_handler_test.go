package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"realestate-backend/internal/domains/user/model"
	"realestate-backend/internal/shared/middleware"
	"realestate-backend/internal/shared/utils"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*model.AuthResult)
	return res, args.Error(1)
}

func (m *mockService) Refresh(ctx context.Context, token string) (*model.AuthResult, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*model.AuthResult)
	return res, args.Error(1)
}

func (m *mockService) Logout(ctx context.Context, jti string, exp time.Time, refresh string) error {
	return m.Called(ctx, jti, exp, refresh).Error(0)
}

func (m *mockService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockService) UpdateProfile(ctx context.Context, id uuid.UUID, req model.UpdateProfileRequest) (*model.User, error) {
	args := m.Called(ctx, id, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockService) ChangePassword(ctx context.Context, id uuid.UUID, req model.ChangePasswordRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockService) CreateUser(ctx context.Context, caller uuid.UUID, req model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, caller, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockService) ResetPassword(ctx context.Context, caller, id uuid.UUID, req model.ResetPasswordRequest) error {
	return m.Called(ctx, caller, id, req).Error(0)
}

func (m *mockService) ListUsers(ctx context.Context, req model.ListUsersRequest) ([]model.User, int64, utils.Pagination, error) {
	args := m.Called(ctx, req)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Get(2).(utils.Pagination), args.Error(3)
}

func (m *mockService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockService) UpdateRole(ctx context.Context, caller, id uuid.UUID, req model.UpdateRoleRequest) (*model.User, error) {
	args := m.Called(ctx, caller, id, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockService) UpdateStatus(ctx context.Context, caller, id uuid.UUID, req model.UpdateStatusRequest) (*model.User, error) {
	args := m.Called(ctx, caller, id, req)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockService) DeleteUser(ctx context.Context, caller, id uuid.UUID) error {
	return m.Called(ctx, caller, id).Error(0)
}

func (m *mockService) GetRoleStatus(ctx context.Context, id uuid.UUID) (string, bool, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Bool(1), args.Error(2)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func setup(svc *mockService, caller uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewUserHandler(svc, Options{Locale: "en-GB", AccessTTL: 15 * time.Minute, RefreshTTL: 24 * time.Hour})

	r := gin.New()
	withCaller := func(c *gin.Context) {
		c.Set(middleware.ContextUserID, caller)
		c.Next()
	}
	r.POST("/auth/login", h.Login)
	r.POST("/admin/users", withCaller, h.CreateUser)
	r.POST("/admin/users/:id/reset-password", withCaller, h.ResetPassword)
	r.GET("/admin/users", withCaller, h.ListUsers)
	return r
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func sampleUser() *model.User {
	created := time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)
	return &model.User{
		ID:        uuid.New(),
		Email:     "agent@homes.example",
		FullName:  "Agent Smith",
		Role:      model.RoleAgent,
		IsActive:  true,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestLogin_SetsCookies(t *testing.T) {
	svc := new(mockService)
	u := sampleUser()
	svc.On("Login", mock.Anything, model.LoginRequest{Email: u.Email, Password: "Secret123"}).Return(&model.AuthResult{
		AccessToken: "access", RefreshToken: "refresh", ExpiresAt: time.Now().Add(time.Minute), User: u,
	}, nil)

	w, env := do(setup(svc, uuid.Nil), http.MethodPost, "/auth/login", `{"email":"agent@homes.example","password":"Secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	cookies := w.Result().Cookies()
	names := map[string]*http.Cookie{}
	for _, ck := range cookies {
		names[ck.Name] = ck
	}
	require.Contains(t, names, middleware.AccessTokenCookie)
	assert.True(t, names[middleware.AccessTokenCookie].HttpOnly)
	assert.Equal(t, "access", names[middleware.AccessTokenCookie].Value)
	require.Contains(t, names, RefreshTokenCookie)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	userView := data["user"].(map[string]interface{})
	assert.Equal(t, "Agent Smith", userView["fullName"])
	assert.Equal(t, "04/03/2026", userView["createdAt"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := new(mockService)
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidCredentials)

	w, env := do(setup(svc, uuid.Nil), http.MethodPost, "/auth/login", `{"email":"x@homes.example","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)
}

func TestCreateUser(t *testing.T) {
	caller := uuid.New()
	body := `{"email":"new@homes.example","password":"Secret123","fullName":"New Editor","role":"editor"}`
	req := model.CreateUserRequest{Email: "new@homes.example", Password: "Secret123", FullName: "New Editor", Role: "editor"}

	t.Run("created", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateUser", mock.Anything, caller, req).Return(sampleUser(), nil)

		w, env := do(setup(svc, caller), http.MethodPost, "/admin/users", body)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateUser", mock.Anything, caller, req).Return(nil, model.ErrForbidden)

		w, env := do(setup(svc, caller), http.MethodPost, "/admin/users", body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, env.Success)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateUser", mock.Anything, caller, req).Return(nil, model.ErrEmailAlreadyExists)

		w, env := do(setup(svc, caller), http.MethodPost, "/admin/users", body)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "EMAIL_EXISTS", env.Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		svc := new(mockService)
		svc.On("CreateUser", mock.Anything, caller, req).Return(nil, validation.Errors{"password": validation.NewError("x", "too weak")})

		w, env := do(setup(svc, caller), http.MethodPost, "/admin/users", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.Contains(t, string(env.Error.Details), "too weak")
	})
}

func TestResetPassword(t *testing.T) {
	caller := uuid.New()
	target := uuid.New()
	svc := new(mockService)
	svc.On("ResetPassword", mock.Anything, caller, target, model.ResetPasswordRequest{NewPassword: "Brand9New"}).Return(nil)

	r := setup(svc, caller)
	w, _ := do(r, http.MethodPost, "/admin/users/"+target.String()+"/reset-password", `{"newPassword":"Brand9New"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(r, http.MethodPost, "/admin/users/not-a-uuid/reset-password", `{"newPassword":"Brand9New"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)
	svc.AssertNumberOfCalls(t, "ResetPassword", 1)
}

func TestListUsers_Meta(t *testing.T) {
	svc := new(mockService)
	svc.On("ListUsers", mock.Anything, mock.Anything).
		Return([]model.User{*sampleUser()}, int64(41), utils.Pagination{Page: 2, Limit: 20}, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/users?page=2&role=agent", nil)
	w := httptest.NewRecorder()
	setup(svc, uuid.New()).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Meta struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"totalPages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(41), body.Meta.Total)
	assert.Equal(t, 3, body.Meta.TotalPages)
}
