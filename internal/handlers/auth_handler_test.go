package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"dashboard-backend/internal/auth"
	"dashboard-backend/internal/models"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLoginLogs struct {
	mock.Mock
}

func (m *mockLoginLogs) Create(ctx context.Context, email string, success bool, ip, ua string) (int64, error) {
	args := m.Called(ctx, email, success, ip, ua)
	return int64(args.Int(0)), args.Error(1)
}

func (m *mockLoginLogs) ListRecent(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	args := m.Called(ctx, limit)
	logs, _ := args.Get(0).([]*models.LoginLog)
	return logs, args.Error(1)
}

func newAuthRouter(t *testing.T, logs LoginLogStore) (*mux.Router, *auth.JWTManager) {
	t.Helper()
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)

	jwtManager := auth.NewJWTManager("secret", "dashboard-backend", time.Hour)
	h := NewAuthHandler(auth.Admin{Email: "admin@example.com", PasswordHash: hash}, jwtManager, logs, zap.NewNop())

	r := mux.NewRouter()
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/login-logs", h.LoginLogs).Methods("GET")
	return r, jwtManager
}

func TestLogin_IssuesTokenAndRecordsSuccess(t *testing.T) {
	logs := &mockLoginLogs{}
	logs.On("Create", mock.Anything, "admin@example.com", true, mock.Anything, mock.Anything).Return(1, nil).Once()
	r, jwtManager := newAuthRouter(t, logs)

	rec := serve(r, http.MethodPost, "/auth/login", `{"email":"Admin@Example.com","password":"correct horse"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims, err := jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	logs.AssertExpectations(t)
}

func TestLogin_WrongPasswordRecordsFailure(t *testing.T) {
	logs := &mockLoginLogs{}
	logs.On("Create", mock.Anything, "admin@example.com", false, mock.Anything, mock.Anything).Return(2, nil).Once()
	r, _ := newAuthRouter(t, logs)

	rec := serve(r, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	logs.AssertExpectations(t)
}

func TestLogin_AuditFailureDoesNotBlockLogin(t *testing.T) {
	logs := &mockLoginLogs{}
	logs.On("Create", mock.Anything, mock.Anything, true, mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()
	r, _ := newAuthRouter(t, logs)

	rec := serve(r, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	r, _ := newAuthRouter(t, nil)

	rec := serve(r, http.MethodPost, "/auth/login", `{"email":"admin@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginLogs_Limit(t *testing.T) {
	logs := &mockLoginLogs{}
	logs.On("ListRecent", mock.Anything, 500).Return([]*models.LoginLog{{ID: 1, Email: "admin@example.com", Success: true}}, nil).Once()
	r, _ := newAuthRouter(t, logs)

	rec := serve(r, http.MethodGet, "/api/login-logs?limit=9000", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"admin@example.com"`)

	rec = serve(r, http.MethodGet, "/api/login-logs?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	logs.AssertExpectations(t)
}
