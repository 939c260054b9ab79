package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"dashboard-backend/internal/auth"
	"dashboard-backend/internal/middleware"
	"dashboard-backend/internal/models"
	"dashboard-backend/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultLoginLogLimit = 50
	maxLoginLogLimit     = 500
)

// LoginLogStore records admin login attempts.
type LoginLogStore interface {
	Create(ctx context.Context, email string, success bool, ipAddress, userAgent string) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]*models.LoginLog, error)
}

type AuthHandler struct {
	admin      auth.Admin
	jwtManager *auth.JWTManager
	loginLogs  LoginLogStore
	logger     *zap.Logger
}

func NewAuthHandler(admin auth.Admin, jwtManager *auth.JWTManager, loginLogs LoginLogStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{admin: admin, jwtManager: jwtManager, loginLogs: loginLogs, logger: logger}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		utils.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if err := h.admin.Check(req.Email, req.Password); err != nil {
		h.recordAttempt(r, req.Email, false)
		h.logger.Warn("login rejected", zap.String("email", req.Email))
		utils.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, expires, err := h.jwtManager.GenerateToken(h.admin.Email)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.recordAttempt(r, h.admin.Email, true)
	h.logger.Info("admin logged in", zap.String("email", h.admin.Email))
	utils.JSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires, Email: h.admin.Email})
}

// LoginLogs lists recent login attempts. ?limit= caps the result.
func (h *AuthHandler) LoginLogs(w http.ResponseWriter, r *http.Request) {
	limit := defaultLoginLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLoginLogLimit)
	}

	logs, err := h.loginLogs.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, logs)
}

// recordAttempt never fails the login; audit write errors are only logged.
func (h *AuthHandler) recordAttempt(r *http.Request, email string, success bool) {
	if h.loginLogs == nil {
		return
	}
	if _, err := h.loginLogs.Create(r.Context(), email, success, middleware.ClientIP(r), r.UserAgent()); err != nil {
		h.logger.Warn("failed to record login attempt", zap.Error(err))
	}
}
