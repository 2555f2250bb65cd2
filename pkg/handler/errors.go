package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/agentsynergy/agentsynergy/pkg/models"
	"github.com/agentsynergy/agentsynergy/pkg/service"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Known service errors and what clients see for them. Anything else is a
// 500 whose detail is only logged.
var errorMappings = []errorMapping{
	{service.ErrPasswordMismatch, http.StatusBadRequest, "Passwords do not match"},
	{service.ErrEmailExists, http.StatusBadRequest, "Email already registered"},
	{service.ErrInvalidResetToken, http.StatusBadRequest, "Invalid or expired reset token"},
	{service.ErrEmptyMessage, http.StatusBadRequest, "Message content cannot be empty"},
	{service.ErrInvalidRole, http.StatusBadRequest, "Role must be user or assistant"},
	{service.ErrUnsupportedPlatform, http.StatusBadRequest, "Unsupported platform"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Incorrect email or password"},
	{service.ErrAccountInactive, http.StatusUnauthorized, "Account is deactivated"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "Could not validate credentials"},
	{service.ErrAccessDenied, http.StatusForbidden, "Access denied"},
	{service.ErrAgentNotFound, http.StatusNotFound, "Agent not found"},
	{service.ErrConversationNotFound, http.StatusNotFound, "Conversation not found"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrAgentProcessing, http.StatusInternalServerError, "Agent processing failed"},
}

// writeError maps err to a status and a client-safe message. action names
// the failed operation in the 500 message and the log line.
func writeError(c *gin.Context, logger *slog.Logger, action string, err error) {
	status, message := http.StatusInternalServerError, "Failed to "+action
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			status, message = m.status, m.message
			break
		}
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "action", action, "route", c.FullPath(), "error", err)
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.JSON(status, models.Response{Code: status, Message: message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, models.Response{Code: http.StatusBadRequest, Message: message})
}
