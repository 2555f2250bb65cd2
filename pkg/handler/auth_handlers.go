package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agentsynergy/agentsynergy/pkg/middleware"
	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

// AuthHandler serves /auth.
type AuthHandler struct {
	auth        *service.AuthService
	users       *service.UserService
	requireAuth gin.HandlerFunc
	limiter     gin.HandlerFunc
	logger      *slog.Logger
}

// NewAuthHandler creates the auth handler. limiter guards register and
// login and may be nil.
func NewAuthHandler(auth *service.AuthService, users *service.UserService, limiter gin.HandlerFunc, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		users:       users,
		requireAuth: middleware.RequireAuth(auth),
		limiter:     limiter,
		logger:      logger,
	}
}

// RegisterRoutes registers auth routes on an unauthenticated group
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.limited(h.Register)...)
		auth.POST("/login", h.limited(h.Login)...)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)

		auth.POST("/refresh", h.requireAuth, h.Refresh)
		auth.POST("/logout", h.requireAuth, h.Logout)
		auth.GET("/me", h.requireAuth, h.Me)
	}
}

// limited puts the rate limiter, when configured, in front of next.
func (h *AuthHandler) limited(next gin.HandlerFunc) []gin.HandlerFunc {
	if h.limiter == nil {
		return []gin.HandlerFunc{next}
	}
	return []gin.HandlerFunc{h.limiter, next}
}

// Register creates an account
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, "register user", err)
		return
	}
	c.JSON(http.StatusCreated, models.Response{Code: http.StatusCreated, Message: "Created", Data: user})
}

// Login exchanges credentials for a bearer token
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	tok, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		writeError(c, h.logger, "log in", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: tok})
}

// Refresh issues a new token for the caller
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	tok, err := h.auth.Refresh(c.Request.Context(), middleware.GetClaims(c))
	if err != nil {
		writeError(c, h.logger, "refresh token", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: tok})
}

// Logout is a server-side no-op; clients drop their token.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Successfully logged out"})
}

// ForgotPassword always answers with the same message
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("Password reset request failed", "error", err)
	}
	c.JSON(http.StatusOK, models.Response{
		Code:    http.StatusOK,
		Message: "If the email exists, a password reset link has been sent",
	})
}

// ResetPassword spends a reset token
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), &req); err != nil {
		writeError(c, h.logger, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "Password has been reset"})
}

// Me returns the caller's account
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.logger, "load user", err)
		return
	}
	c.JSON(http.StatusOK, models.Response{Code: http.StatusOK, Message: "OK", Data: user})
}
